package table

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
)

const (
	NameWidth        = 20
	ZoneWidth        = 24
	MachineTypeWidth = 18
	DiskTypeWidth    = 20
	StatusWidth      = 40
)

// StatusOK is the status of an invocation without findings.
const StatusOK = "OK"

// Invocation is one row of the table: a template invocation and the outcome
// of checking it.
type Invocation struct {
	Name        string
	Zone        string
	MachineType string
	DiskType    string
	Problems    []string
}

// InvocationTable renders template invocations in aligned columns.
type InvocationTable struct {
	table *tablewriter.Table
	rows  int
}

func NewInvocationTable(w io.Writer) *InvocationTable {
	if w == nil {
		w = os.Stdout
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Zone", "Machine Type", "Disk Type", "Status"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return &InvocationTable{table: table}
}

// Add appends one row per problem, or a single OK row when there are none.
func (it *InvocationTable) Add(inv Invocation) {
	row := []string{
		truncate(inv.Name, NameWidth),
		truncate(inv.Zone, ZoneWidth),
		truncate(inv.MachineType, MachineTypeWidth),
		truncate(inv.DiskType, DiskTypeWidth),
	}
	if len(inv.Problems) == 0 {
		it.table.Append(append(row, StatusOK))
		it.rows++
		return
	}
	for _, p := range inv.Problems {
		it.table.Append(append(append([]string{}, row...), truncate(p, StatusWidth)))
		it.rows++
	}
}

func (it *InvocationTable) Rows() int {
	return it.rows
}

func (it *InvocationTable) Render() {
	it.table.Render()
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

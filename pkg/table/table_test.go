package table

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvocationTable(t *testing.T) {
	it := NewInvocationTable(&bytes.Buffer{})
	assert.NotNil(t, it)
	assert.NotNil(t, it.table)
	assert.Zero(t, it.Rows())
}

func TestAddInvocationWithoutProblems(t *testing.T) {
	var buf bytes.Buffer
	it := NewInvocationTable(&buf)

	it.Add(Invocation{
		Name:        "web1",
		Zone:        "us-central1-a",
		MachineType: "n1-standard-1",
		DiskType:    "pd-ssd",
	})
	it.Render()

	assert.Equal(t, 1, it.Rows())
	output := buf.String()
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "MACHINE TYPE")
	assert.Contains(t, output, "web1")
	assert.Contains(t, output, "us-central1-a")
	assert.Contains(t, output, StatusOK)
}

func TestAddInvocationWithProblems(t *testing.T) {
	var buf bytes.Buffer
	it := NewInvocationTable(&buf)

	it.Add(Invocation{
		Name:     "web2",
		Zone:     "mars-north1-a",
		DiskType: "floppy",
		Problems: []string{"unknown zone", "unknown disk type"},
	})
	it.Render()

	assert.Equal(t, 2, it.Rows())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "unknown zone")
	assert.Contains(t, lines[2], "unknown disk type")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"Short", 10, "Short"},
		{"ExactlyTen", 10, "ExactlyTen"},
		{"This is too long", 10, "This is..."},
		{"zone ü-nörth-1 ünknown", 10, "zone ü-..."},
		{"ääääääääää", 10, "ääääääääää"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

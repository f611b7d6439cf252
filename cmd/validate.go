package cmd

import (
	"fmt"

	internal_gcp "github.com/bacalhau-project/vmtemplate/internal/clouds/gcp"
	"github.com/bacalhau-project/vmtemplate/pkg/deployment"
	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"github.com/bacalhau-project/vmtemplate/pkg/table"
	"github.com/bacalhau-project/vmtemplate/pkg/template"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <deployment.yaml>",
		Short: "Check template properties against known zones, machine types and disk types",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	cmd.Flags().String("template-type", "", "Resource type that invokes the template")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		keyTemplateType: "template-type",
	}); err != nil {
		return err
	}

	cfg, err := deployment.Load(args[0])
	if err != nil {
		return err
	}

	resources := cfg.TemplateResources(viper.GetString(keyTemplateType))
	it := table.NewInvocationTable(cmd.OutOrStdout())
	problems := 0
	for _, r := range resources {
		inv := checkInvocation(r)
		for _, p := range inv.Problems {
			logger.Get().Warnf("resource %s: %s", r.Name, p)
		}
		problems += len(inv.Problems)
		it.Add(inv)
	}
	it.Render()

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found in %s", problems, args[0])
	}
	logger.Get().Infof("Validated %d template invocation(s)", len(resources))
	return nil
}

func checkInvocation(r deployment.Resource) table.Invocation {
	inv := table.Invocation{Name: r.Name}

	props, err := template.PropertiesFromMap(r.Properties)
	inv.Zone = props.InstanceZone
	inv.MachineType = props.InstanceMachineType
	inv.DiskType = string(props.InstanceBootDiskType)
	if err != nil {
		inv.Problems = append(inv.Problems, err.Error())
		return inv
	}

	if !internal_gcp.IsValidGCPZone(props.InstanceZone) {
		inv.Problems = append(inv.Problems, "unknown zone "+props.InstanceZone)
	} else if !internal_gcp.IsValidGCPMachineType(props.InstanceZone, props.InstanceMachineType) {
		inv.Problems = append(inv.Problems,
			fmt.Sprintf("%s not offered in zone", props.InstanceMachineType))
	}
	if !internal_gcp.IsValidGCPDiskType(inv.DiskType) {
		inv.Problems = append(inv.Problems, "unknown disk type "+inv.DiskType)
	}
	return inv
}

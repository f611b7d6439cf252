package cmd

import (
	"fmt"

	"github.com/bacalhau-project/vmtemplate/pkg/deployment"
	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"github.com/bacalhau-project/vmtemplate/pkg/providers/gcp"
	"github.com/bacalhau-project/vmtemplate/pkg/template"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
	outputAPI  = "api"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <deployment.yaml>",
		Short: "Expand the container VM template invocations of a deployment config",
		Long: `Render reads a Deployment Manager config, resolves its imports from disk and
expands every resource whose type is the container VM template. Other
resources are passed through unchanged.

Output formats:
  yaml  the expanded config (default)
  json  the expanded config as JSON
  api   Compute Engine instances.insert bodies for the expanded instances`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}

	cmd.Flags().StringP("project", "p", "", "Project used in fully-qualified resource URLs")
	cmd.Flags().String("variant", "", "Template variant (qualified or inline)")
	cmd.Flags().StringP("output", "o", "", "Output format (yaml, json or api)")
	cmd.Flags().String("template-type", "", "Resource type that invokes the template")
	cmd.Flags().Int("parallelism", 0, "Maximum concurrent expansions (0 uses GOMAXPROCS)")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		keyProject:      "project",
		keyVariant:      "variant",
		keyOutput:       "output",
		keyTemplateType: "template-type",
		keyParallelism:  "parallelism",
	}); err != nil {
		return err
	}

	l := logger.Get()
	ctx := logger.IntoContext(cmd.Context(), l)

	variant, err := template.ParseVariant(viper.GetString(keyVariant))
	if err != nil {
		return err
	}
	output := viper.GetString(keyOutput)
	switch output {
	case outputYAML, outputJSON, outputAPI:
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	templateType := viper.GetString(keyTemplateType)

	cfg, err := deployment.Load(args[0])
	if err != nil {
		return err
	}
	imports, err := cfg.ResolveImports(templateType)
	if err != nil {
		return err
	}

	l.Debugf("Rendering %s with variant %s", args[0], variant)

	expander := &deployment.Expander{
		Builder: template.NewBuilder(
			template.WithVariant(variant),
			template.WithLogger(l),
		),
		TemplateType: templateType,
		Project:      viper.GetString(keyProject),
		Parallelism:  viper.GetInt(keyParallelism),
	}
	x, err := expander.Expand(ctx, cfg, imports)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", args[0], err)
	}

	var out []byte
	switch output {
	case outputJSON:
		out, err = x.JSON()
	case outputAPI:
		out, err = marshalAPI(x.Instances)
	default:
		out, err = x.YAML()
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func marshalAPI(resources []template.Resource) ([]byte, error) {
	instances, err := gcp.InstancesFromDocument(&template.Document{Resources: resources})
	if err != nil {
		return nil, err
	}
	return gcp.MarshalInstances(instances)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/bacalhau-project/vmtemplate/pkg/logger"
	"github.com/bacalhau-project/vmtemplate/pkg/manifest"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

func newEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed <manifest.yaml>",
		Short: "Print a YAML document as a single line that can be embedded in another document",
		Args:  cobra.ExactArgs(1),
		RunE:  runEmbed,
	}

	cmd.Flags().Bool("check", false, "Verify that the embedded form decodes to the original document")

	return cmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	path, err := homedir.Expand(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	embedded, err := manifest.Embed(string(data))
	if err != nil {
		return err
	}

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	if check {
		equal, err := manifest.Equal(string(data), embedded)
		if err != nil {
			return err
		}
		if !equal {
			return fmt.Errorf("embedded manifest does not match %s", args[0])
		}
		logger.Get().Debugf("Embedded form of %s verified", args[0])
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), embedded)
	return err
}

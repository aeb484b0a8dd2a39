package cli

import (
	"github.com/spf13/cobra"

	dio "github.com/matzehuels/classdiagram/pkg/io"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var noCheck bool

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a definition between TOML, YAML and JSON",
		Long: `Convert a class diagram definition between TOML, YAML and JSON. Formats are
inferred from the file extensions. The definition is built before it is
written, so invalid definitions are reported instead of converted.`,
		Example: `  classdiagram convert zoo.toml zoo.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			prog := newProgress(c.Logger)

			def, err := dio.ImportFile(in)
			if err != nil {
				return err
			}
			if !noCheck {
				if _, err := def.Build(); err != nil {
					return err
				}
			}
			if err := dio.ExportFile(def, out); err != nil {
				return err
			}

			printSuccess("Converted %s", in)
			printFile(out)
			prog.done("Converted definition")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCheck, "no-check", false, "skip building the definition before writing")
	return cmd
}

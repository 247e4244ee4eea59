package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		format   string
		short    bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the tackweld version, the commit it was built from, and the Go
toolchain and platform.

Examples:
  tackweld version
  tackweld version --short
  tackweld version --detailed
  tackweld version -f json`,
		Args: cobra.NoArgs,
		// Skip config loading; version must work anywhere.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}

			info := version.Get()
			out := cmd.OutOrStdout()

			switch {
			case format != formatText:
				return writeStructured(out, format, info)
			case short:
				fmt.Fprintln(out, info.Short())
			case detailed:
				fmt.Fprintln(out, info.String())
				if info.IsRelease() {
					fmt.Fprintln(out, "Build type: release")
				} else {
					fmt.Fprintln(out, "Build type: development")
				}
			default:
				fmt.Fprintf(out, "tackweld %s\n", info.Short())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&short, "short", false, "show the short version only")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show every build detail")

	return cmd
}

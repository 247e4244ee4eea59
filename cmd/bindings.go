package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/internal/bindings"
	"github.com/conneroisu/tackweld/pkg/tw"
)

func newBindingsCommand(a *app) *cobra.Command {
	var pkg string

	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Generate Go bindings for the extracted artifacts",
		Long: `Write ` + bindings.FileName + ` into the output directory. The file embeds every
artifact, loads them into a Templates set, and declares one constant per
component id, so Go code can render components without artifact paths:

  out, err := templates.Render(templates.IDCard, tw.Args{"title": tw.Value("Hi")})

Run extract first, or use extract --bindings.

Examples:
  tackweld bindings
  tackweld bindings --package views -o internal/views`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			set, err := tw.LoadDir(cfg.Extract.OutDir, cfg.Extract.Prefix)
			if err != nil {
				return err
			}

			path, err := bindings.Write(cmd.Context(), bindings.Options{
				OutDir:  cfg.Extract.OutDir,
				Prefix:  cfg.Extract.Prefix,
				Package: pkg,
			}, set.IDs(), logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d components)\n", path, len(set.IDs()))
			return nil
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "", "package name (default is derived from the output directory)")

	return cmd
}

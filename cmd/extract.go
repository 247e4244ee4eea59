package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/internal/bindings"
	"github.com/conneroisu/tackweld/internal/build"
)

func newExtractCommand(a *app) *cobra.Command {
	var withBindings bool

	cmd := &cobra.Command{
		Use:     "extract",
		Aliases: []string{"x"},
		Short:   "Extract every component into its own artifact",
		Long: `Scan --root for files matching --pattern, collect every component they
define, and write each body to <out>/<prefix><id>.

A component defined more than once fails the run and nothing is written,
unless --allow-redefinition is set; then the definition from the file that
sorts last wins.

Examples:
  tackweld extract
  tackweld extract -r site -p 'src/**/*.html' -o build/templates
  tackweld extract --allow-redefinition --bindings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			perf := logger.StartOperation("extract")

			result, err := build.Extract(ctx, cfg.ExtractOptions(), logger)
			if err != nil {
				perf.EndWithError(ctx, err)
				return err
			}
			perf.End(ctx, "components", len(result.Artifacts))

			out := cmd.OutOrStdout()
			for _, c := range result.Conflicts {
				fmt.Fprintf(out, "redefined %s (kept %s)\n", c.ID, c.DefinedIn[len(c.DefinedIn)-1])
			}
			fmt.Fprintf(out, "Extracted %d components from %d files into %s\n",
				len(result.Artifacts), len(result.Sources), cfg.Extract.OutDir)

			if withBindings {
				ids := make([]string, len(result.Components))
				for i, def := range result.Components {
					ids[i] = def.ID
				}
				path, err := bindings.Write(ctx, bindings.Options{
					OutDir: cfg.Extract.OutDir,
					Prefix: cfg.Extract.Prefix,
				}, ids, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", path)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&withBindings, "bindings", false, "also write Go bindings for the artifacts")

	return cmd
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/internal/build"
	"github.com/conneroisu/tackweld/internal/errors"
	"github.com/conneroisu/tackweld/internal/registry"
	"github.com/conneroisu/tackweld/internal/validation"
)

type checkReport struct {
	Sources    int                 `json:"sources" yaml:"sources"`
	Components int                 `json:"components" yaml:"components"`
	Conflicts  []registry.Conflict `json:"conflicts" yaml:"conflicts"`
	Issues     []validation.Issue  `json:"issues" yaml:"issues"`
}

func newCheckCommand(a *app) *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:     "check",
		Aliases: []string{"c"},
		Short:   "Validate templates without writing artifacts",
		Long: `Scan and parse the templates, then report redefined components, component
bodies the slot syntax cannot parse, and unbalanced markup. Nothing is
written.

The command fails when a redefinition is not allowed or a body has an
error. With --strict, markup warnings fail it too.

Examples:
  tackweld check
  tackweld check --strict -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}

			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			defs, paths, err := build.NewExtractor(cfg.ExtractOptions(), logger).Collect(cmd.Context())
			if err != nil {
				return err
			}

			report := checkReport{
				Sources:    len(paths),
				Components: defs.Len(),
				Conflicts:  defs.Conflicts(),
				Issues:     validation.Definitions(defs.All()),
			}

			out := cmd.OutOrStdout()
			if format == formatText {
				writeCheckText(out, report, cfg.Extract.AllowRedefinition)
			} else if err := writeStructured(out, format, report); err != nil {
				return err
			}

			if err := defs.Check(cfg.Extract.AllowRedefinition); err != nil {
				return err
			}
			if validation.HasErrors(report.Issues) {
				return errors.NewValidationError(errors.ErrCodeCheckFailed, "component bodies have errors")
			}
			if strict && len(report.Issues) > 0 {
				return errors.NewValidationError(errors.ErrCodeCheckFailed,
					fmt.Sprintf("%d warnings with --strict", len(report.Issues)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings")

	return cmd
}

func writeCheckText(w io.Writer, report checkReport, allowRedefinition bool) {
	severity := "error"
	if allowRedefinition {
		severity = "warning"
	}
	for _, c := range report.Conflicts {
		fmt.Fprintf(w, "%s: %s: defined in %s\n", severity, c.ID, strings.Join(c.DefinedIn, ", "))
	}

	for _, issue := range report.Issues {
		fmt.Fprintln(w, issue.String())
	}

	fmt.Fprintf(w, "%d files, %d components, %d conflicts, %d issues\n",
		report.Sources, report.Components, len(report.Conflicts), len(report.Issues))
}

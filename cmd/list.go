package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/internal/build"
	"github.com/conneroisu/tackweld/internal/registry"
	"github.com/conneroisu/tackweld/pkg/tw"
)

// componentInfo is one row of `tackweld list`.
type componentInfo struct {
	ID        string   `json:"id" yaml:"id"`
	DefinedIn []string `json:"defined_in" yaml:"defined_in"`
	Slots     []string `json:"slots" yaml:"slots"`
	Size      int      `json:"size" yaml:"size"`
	Checksum  string   `json:"checksum" yaml:"checksum"`
	Redefined bool     `json:"redefined,omitempty" yaml:"redefined,omitempty"`
}

func newListCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List the components the templates define",
		Long: `Scan and parse the templates without writing anything, then list every
component with the files defining it, the slots its body uses, and the
checksum its artifact would have.

Examples:
  tackweld list
  tackweld list -f json
  tackweld list -f yaml -p 'views/*.html'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			defs, _, err := build.NewExtractor(cfg.ExtractOptions(), logger).Collect(cmd.Context())
			if err != nil {
				return err
			}

			infos := describe(defs.All())
			if format == formatTable {
				return writeComponentTable(cmd.OutOrStdout(), infos)
			}
			return writeStructured(cmd.OutOrStdout(), format, infos)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json, yaml)")

	return cmd
}

func describe(defs []*registry.Definition) []componentInfo {
	infos := make([]componentInfo, 0, len(defs))
	for _, def := range defs {
		slots := []string{}
		if tpl, err := tw.Parse(def.Contents()); err == nil {
			slots = append(slots, tpl.Slots()...)
		}

		infos = append(infos, componentInfo{
			ID:        def.ID,
			DefinedIn: def.DefinedIn,
			Slots:     slots,
			Size:      len(def.Contents()),
			Checksum:  def.Checksum(),
			Redefined: def.Redefined(),
		})
	}
	return infos
}

func writeComponentTable(w io.Writer, infos []componentInfo) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No components found.")
		return err
	}

	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tFILES\tSLOTS\tSIZE\tCHECKSUM")
	fmt.Fprintln(table, "--\t-----\t-----\t----\t--------")

	for _, info := range infos {
		files := strings.Join(info.DefinedIn, ", ")
		if info.Redefined {
			files += " (redefined)"
		}
		fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%s\n",
			info.ID, files, strings.Join(info.Slots, ", "), info.Size, info.Checksum)
	}

	fmt.Fprintf(table, "\nTotal: %d components\n", len(infos))
	return table.Flush()
}

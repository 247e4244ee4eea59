package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/internal/config"
)

func newInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "init [path]",
		Aliases: []string{"i"},
		Short:   "Write a config file with the current settings",
		Long: `Write the effective configuration, defaults merged with any flags and
environment variables, as YAML to path (default ` + config.DefaultFileName + `).

Examples:
  tackweld init
  tackweld init -r site -o site/build --allow-redefinition
  tackweld init configs/tackweld.yml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}

			cfg, _, err := a.load(cmd)
			if err != nil {
				return err
			}

			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tackweld/internal/config"
	"github.com/conneroisu/tackweld/internal/watcher"
)

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Re-extract components whenever a template file changes",
		Long: `Extract once, then watch --root and run a full extraction again after
every burst of changes to matching files. A failed extraction is logged and
watching continues. Stop with Ctrl-C.

Examples:
  tackweld watch
  tackweld watch --debounce 1s -p 'pages/**/*.html'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watcher.Watch(ctx, watcher.Config{
				Options:  cfg.ExtractOptions(),
				Debounce: cfg.Watch.Debounce,
				Ignore:   cfg.Watch.Ignore,
			}, logger)
		},
	}

	cmd.Flags().Duration("debounce", config.Default().Watch.Debounce, "quiet period before re-extracting")
	bindFlags(a.v, cmd.Flags(), map[string]string{"debounce": "watch.debounce"})

	return cmd
}

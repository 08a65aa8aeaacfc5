package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dsa-labs/dashcat/internal/site"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Generate the catalog and serve it locally",
		Long: `Generate the catalog site and serve it over HTTP. Changes to the rules,
metadata, or overrides files trigger a regeneration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutEngine(cmd)
			rebuild := newRebuild(cc)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := rebuild(ctx); err != nil {
				return err
			}

			if addr == "" {
				addr = cc.Cfg.ServeAddr
			}
			srv := &site.Server{
				Addr:       addr,
				OutputDir:  cc.Cfg.OutputDir,
				WatchPaths: cc.Cfg.WatchPaths(),
				Rebuild:    rebuild,
				Logger:     cc.Logger,
			}
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

// newRebuild returns the regeneration closure for serve mode. The engine is
// rebuilt on every pass so edits to the watched rules, metadata, and
// overrides files land in the catalog they trigger.
func newRebuild(cc *CommandContext) func(context.Context) error {
	return func(ctx context.Context) error {
		eng, err := createEngine(cc.Cfg, cc.Logger)
		if err != nil {
			return err
		}
		doc, err := eng.Run(ctx)
		if err != nil {
			return err
		}
		return site.Build(cc.Cfg.OutputDir, doc)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/coverplan/internal/config"
	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/store"
	"github.com/cjeanneret/coverplan/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr, dbPath, project string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plan editor over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Web.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Store.Path = dbPath
			}
			if cmd.Flags().Changed("project") {
				cfg.Store.Project = project
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "coverplan.db", "project database; empty keeps the plan in memory")
	cmd.Flags().StringVar(&project, "project", "default", "project loaded at start-up and saved to")
	return cmd
}

// workspaceOptions maps the configuration onto the web workspace.
func workspaceOptions(cfg *config.Config) (web.WorkspaceOptions, error) {
	defaults, err := cfg.CoverageDefaults()
	if err != nil {
		return web.WorkspaceOptions{}, err
	}
	return web.WorkspaceOptions{
		PixelsPerMeter:    cfg.Plan.PixelsPerMeter,
		Defaults:          plan.DefaultsRegistry{IconSize: cfg.Plan.IconSize, Coverage: defaults},
		Tuning:            cfg.Projection,
		WallReenableDelay: cfg.WallReenableDelay(),
		HandleHitRadius:   cfg.Interaction.HandleHitRadiusPx,
		Project:           cfg.Store.Project,
	}, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := debug.InitWithFile(cfg.LogLevel(), cfg.Logging.File, true); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer debug.Sync()

	broadcaster := web.NewStatusBroadcaster()
	debug.Tee(web.BroadcastWriter(broadcaster))

	debug.Section("Initialization")
	debug.Value("Listen address", cfg.Web.Addr)
	debug.Value("Pixels per metre", cfg.Plan.PixelsPerMeter)
	debug.PrintStruct("Camera defaults", cfg.Defaults)

	opts, err := workspaceOptions(cfg)
	if err != nil {
		return err
	}
	if cfg.Store.Path != "" {
		debug.Step(1, "Opening project store")
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				debug.Error(fmt.Errorf("closing store failed: %w", err))
			}
		}()
		opts.Store = st
	}

	debug.Step(2, "Building workspace")
	ws, err := web.NewWorkspace(opts, broadcaster)
	if err != nil {
		return err
	}
	if opts.Store != nil {
		if err := ws.Load(ctx); err != nil && !errors.Is(err, web.ErrNoStore) {
			return fmt.Errorf("load project %s: %w", cfg.Store.Project, err)
		}
	}

	debug.Step(3, "Starting web server")
	srv, err := web.NewServer(cfg.Web.Addr, broadcaster, ws)
	if err != nil {
		return err
	}
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("web server: %w", err)
	}
	debug.Info("web server stopped")
	return nil
}

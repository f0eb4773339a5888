// Development web server for go-homepage
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/go-while/go-homepage/internal/config"
	"github.com/go-while/go-homepage/internal/logging"
	"github.com/go-while/go-homepage/internal/reload"
	"github.com/go-while/go-homepage/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "web",
		Short:        "Serve the home page with the development server",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), &opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	bindFlags(cmd.Flags(), &opts)
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-homepage %s\n", config.AppVersion)
		},
	}
}

// run serves until ctx is cancelled or a signal arrives. Template changes
// drop the parsed template cache. In debug mode the executable is watched
// too; a rebuilt executable ends the run and replaces the process.
func run(ctx context.Context, cfg *config.WebConfig) error {
	log, cleanup, err := logging.Setup(logging.Config{Debug: cfg.Debug, LogFile: cfg.LogFile})
	if err != nil {
		return err
	}
	defer cleanup()
	mainLog := log.WithField("component", "main")
	mainLog.Infof("Starting go-homepage (version: %s)", config.AppVersion)

	if cfg.PprofAddr != "" {
		startProfiler(cfg.PprofAddr, mainLog)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := web.NewServer(cfg, log)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gctx)
	})

	var restart atomic.Bool
	watcher := reload.New(cfg.ReloadInterval, log)
	watcher.Watch(cfg.TemplatesDir, reload.KindTemplate)
	if cfg.Debug {
		if exe, err := executablePath(); err == nil {
			watcher.Watch(exe, reload.KindBinary)
		} else {
			mainLog.Warnf("Cannot locate executable, restart on rebuild disabled: %v", err)
		}
	}
	g.Go(func() error {
		return watcher.Run(gctx, func(ev reload.Event) {
			switch ev.Kind {
			case reload.KindTemplate:
				server.ReloadTemplates()
			case reload.KindBinary:
				restart.Store(true)
				cancel()
			}
		})
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if restart.Load() {
		return restartFn(mainLog)
	}
	mainLog.Info("Graceful shutdown completed")
	return nil
}

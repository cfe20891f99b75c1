// Package main is the entry point for the ttlcache demo binary.
//
// The demo subcommand fills a cache with items using the default,
// never and short ttl and periodically prints which of them are
// still visible.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/moeryomenko/ttlcache/v2/internal/config"
	"github.com/moeryomenko/ttlcache/v2/internal/demo"
)

// version is injected at build time via -ldflags
// (e.g. -ldflags "-X main.version=v2.0.0").
var version = "devel"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	conf, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rootCmd, err := newCmd(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return rootCmd.ExecuteContext(ctx)
}

func newCmd(conf *config.Config) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:           "ttlcache",
		Short:         "In-process ttl cache playground.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Show items expiring by default, explicit and no ttl",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(conf.LogLevel())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return demo.Run(cmd.Context(), demo.Params{
				DefaultTTL:     conf.CacheDefaultTTL(),
				SweepInterval:  conf.CacheSweepInterval(),
				ShortTTL:       conf.DemoShortTTL(),
				ReportInterval: conf.DemoReportInterval(),
				Duration:       conf.DemoDuration(),
			}, logger, cmd.OutOrStdout())
		},
	}
	if err := conf.BindFlags(demoCmd.Flags(), config.DemoOptions); err != nil {
		return nil, err
	}

	c.AddCommand(demoCmd)
	return c, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

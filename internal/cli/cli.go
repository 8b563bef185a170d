// Package cli implements the sandcal command line interface.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/txbeach/sandcal/internal/cache"
	"github.com/txbeach/sandcal/internal/config"
	"github.com/txbeach/sandcal/internal/logger"
	"github.com/txbeach/sandcal/internal/metrics"
	"github.com/txbeach/sandcal/internal/notify"
	"github.com/txbeach/sandcal/internal/push"
	"github.com/txbeach/sandcal/internal/refresh"
	"github.com/txbeach/sandcal/internal/scraper"
	"github.com/txbeach/sandcal/internal/server"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandcal",
		Short: "Aggregate Texas beach-volleyball tournament listings",
		Long: `Scrapes tournament listings from Texas beach-volleyball facilities,
normalizes and deduplicates them, and maintains a single JSON dataset.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newRefreshCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPushCmd())

	return cmd
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Scrape all sources once and rewrite the cache",
		RunE:  runRefresh,
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cached dataset",
		RunE:  runShow,
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset over HTTP",
		RunE:  runServe,
	}
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the cache document to the configured endpoint",
		RunE:  runPush,
	}
}

func setup() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}

	level := logger.Level(strings.ToUpper(cfg.LogLevel))
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
	return cfg, nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func newRunner(cfg config.Config) (*refresh.Runner, *cache.Store, error) {
	store := cache.NewStore(cfg.CachePath)
	lock := cache.NewLock(cfg.LockPath, cfg.LockStale)
	runner := refresh.New(refresh.Config{
		SourceTimeout: cfg.SourceTimeout,
		Ceiling:       cfg.Ceiling,
		Concurrency:   cfg.Concurrency,
	}, scraper.DefaultSources(), store, lock)

	if cfg.RedisURL != "" {
		publisher, err := notify.NewPublisher(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			return nil, nil, fmt.Errorf("configuring notifier: %w", err)
		}
		runner.SetNotifier(publisher)
	}
	return runner, store, nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	runner, _, err := newRunner(cfg)
	if err != nil {
		return err
	}

	agg, err := runner.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("running refresh: %w", err)
	}
	return WriteAggregate(os.Stdout, agg, format, flagVerbose)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	agg, err := cache.NewStore(cfg.CachePath).Load()
	if err != nil {
		return fmt.Errorf("loading cache: %w", err)
	}
	return WriteAggregate(os.Stdout, agg, format, flagVerbose)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	runner, store, err := newRunner(cfg)
	if err != nil {
		return err
	}
	runner.SetMetrics(metrics.New(prometheus.DefaultRegisterer))

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(store, runner, cfg.RefreshToken, cfg.CORSOrigins).Router(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", logger.Fields{"addr": cfg.ListenAddr})
		errc <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", logger.Fields{"signal": sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if cfg.PushURL == "" {
		return fmt.Errorf("no push URL configured")
	}

	document, err := os.ReadFile(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("reading cache document: %w", err)
	}

	if err := push.New(cfg.PushURL, cfg.PushToken).Upload(cmd.Context(), document); err != nil {
		return err
	}
	logger.Info("cache document uploaded", logger.Fields{"url": cfg.PushURL, "bytes": len(document)})
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/picograph"
	"github.com/aretw0/picograph/internal/cache"
	"github.com/aretw0/picograph/internal/config"
	"github.com/aretw0/picograph/internal/logging"
	"github.com/aretw0/picograph/internal/metrics"
	"github.com/aretw0/picograph/internal/presentation/tui"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/graph"
	"github.com/spf13/cobra"
)

// app bundles what a command needs after flags and config are resolved.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder
	engine  *picograph.Engine
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// loadConfig reads the config file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("verify") {
		cfg.Verify, _ = flags.GetBool("verify")
	}
	if flags.Changed("indent") {
		cfg.Indent, _ = flags.GetString("indent")
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newApp builds the engine described by the config. Extra options are applied last.
func newApp(cmd *cobra.Command, extra ...picograph.Option) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logging.NewWithWriter(cmd.ErrOrStderr(), level),
		metrics: metrics.New(),
	}

	opts := []picograph.Option{
		picograph.WithLogger(a.logger),
		picograph.WithMetrics(a.metrics),
		picograph.WithIndent(cfg.Indent),
		picograph.WithMaxDepth(cfg.MaxDepth),
		picograph.WithPreamble(cfg.Preamble...),
		picograph.WithVerification(cfg.Verify),
	}
	if store := a.openCache(cmd.Context()); store != nil {
		opts = append(opts, picograph.WithCache(store))
	}
	a.engine = picograph.New(append(opts, extra...)...)
	return a, nil
}

func (a *app) openCache(ctx context.Context) picograph.Cache {
	cc := a.cfg.Cache
	if !cc.Enabled {
		return nil
	}
	if cc.RedisAddr == "" {
		a.logger.Debug("using in-memory compile cache")
		return cache.NewMemory()
	}

	store := cache.NewRedis(cc.RedisAddr, cc.RedisPassword, cc.RedisDB,
		cache.WithPrefix(cc.Prefix),
		cache.WithTTL(cc.TTL),
	)
	if ctx == nil {
		ctx = context.Background()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		a.logger.Warn("redis unavailable, falling back to in-memory cache", "addr", cc.RedisAddr, "error", err)
		_ = store.Close()
		return cache.NewMemory()
	}
	a.closers = append(a.closers, store.Close)
	a.logger.Debug("using redis compile cache", "addr", cc.RedisAddr)
	return store
}

// readGraph decodes the document named by args[0], or stdin when absent or "-".
func readGraph(cmd *cobra.Command, args []string) (domain.Graph, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return domain.Graph{}, fmt.Errorf("failed to read graph: %w", err)
	}
	g, err := graph.Decode(data)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %w", domain.ErrInvalidGraph, err)
	}
	return g, nil
}

// stderrTTY reports whether the command's error stream is an interactive terminal.
func stderrTTY(cmd *cobra.Command) (*os.File, bool) {
	f, ok := cmd.ErrOrStderr().(*os.File)
	if !ok {
		return nil, false
	}
	return f, tui.IsTerminal(f)
}

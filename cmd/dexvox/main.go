// Command dexvox is the main entry point for the dexvox voice query server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dexvox/dexvox/internal/catalog"
	"github.com/dexvox/dexvox/internal/config"
	"github.com/dexvox/dexvox/internal/dialog"
	"github.com/dexvox/dexvox/internal/health"
	"github.com/dexvox/dexvox/internal/match"
	"github.com/dexvox/dexvox/internal/observe"
	"github.com/dexvox/dexvox/internal/server"
	"github.com/dexvox/dexvox/internal/skill"
	"github.com/dexvox/dexvox/pkg/dexapi"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "dexvox: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "dexvox: %v\n", err)
		}
		return 1
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("dexvox starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownObserve, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "dexvox",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownObserve(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	client := dexapi.New(
		dexapi.WithBaseURL(cfg.Catalog.BaseURL),
		dexapi.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.Timeout()}),
	)

	store, closeStore, pingStore, err := newStore(ctx, cfg.Catalog)
	if err != nil {
		slog.Error("failed to initialise catalog store", "err", err)
		return 1
	}
	defer closeStore()

	slog.Info("loading name catalog", "base_url", cfg.Catalog.BaseURL)
	if err := catalog.NewLoader(client, store).Load(ctx); err != nil {
		slog.Error("failed to load name catalog", "err", err)
		return 1
	}

	renderer := dialog.New()
	if cfg.Dialog.TemplateFile != "" {
		if err := renderer.LoadFile(cfg.Dialog.TemplateFile); err != nil {
			slog.Error("failed to load dialog templates", "file", cfg.Dialog.TemplateFile, "err", err)
			return 1
		}
		slog.Info("dialog templates loaded", "file", cfg.Dialog.TemplateFile)
	}

	metrics := observe.DefaultMetrics()

	sessions := skill.NewManager(cfg.Session.TTL(), skill.WithManagerMetrics(metrics))
	go sessions.Run(ctx)

	dispatcher, err := skill.NewDispatcher(skill.DispatcherConfig{
		Resolver: match.New(
			match.WithWordThreshold(cfg.Matcher.WordThreshold),
			match.WithAcceptThreshold(cfg.Matcher.AcceptThreshold),
			match.WithSubnameWeight(cfg.Matcher.SubnameWeight),
		),
		Catalog:  store,
		Fetcher:  client,
		Renderer: renderer,
		Sessions: sessions,
		Metrics:  metrics,
	})
	if err != nil {
		slog.Error("failed to initialise dispatcher", "err", err)
		return 1
	}

	checkers := []health.Checker{
		{Name: "catalog", Check: func(ctx context.Context) error {
			loaded, err := store.Loaded(ctx)
			if err != nil {
				return err
			}
			if !loaded {
				return errors.New("name catalog not loaded")
			}
			return nil
		}},
		{Name: "upstream", Check: client.Ping},
	}
	if pingStore != nil {
		checkers = append(checkers, health.Checker{Name: "postgres", Check: pingStore})
	}
	checks := health.New(checkers...)

	srv, err := server.New(server.Config{
		ListenAddr: cfg.Server.ListenAddr,
		Dispatcher: dispatcher,
		Health:     checks,
		Metrics:    metrics,
	})
	if err != nil {
		slog.Error("failed to initialise server", "err", err)
		return 1
	}

	slog.Info("server ready — press Ctrl+C to shut down", "listen_addr", cfg.Server.ListenAddr)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// newStore picks the catalog store: PostgreSQL when a DSN is configured so
// replicas share one snapshot, process memory otherwise. The returned
// close func releases the pool when one was opened; ping is non-nil only
// for the Postgres path and feeds the readiness probe.
func newStore(ctx context.Context, cfg config.CatalogConfig) (store catalog.Store, closeFn func(), ping func(context.Context) error, err error) {
	if cfg.PostgresDSN == "" {
		return catalog.NewMemStore(), func() {}, nil, nil
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	pgStore := catalog.NewPostgresStore(pool)
	if err := pgStore.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate catalog schema: %w", err)
	}
	slog.Info("catalog store ready", "backend", "postgres")
	return pgStore, pool.Close, pool.Ping, nil
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Package app wires configuration, storage, the TTL cache, the engagement
// store and the blog client into one value the CLI runs on.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/blogkeeper/internal/blog"
	"github.com/dmitrijs2005/blogkeeper/internal/cache"
	"github.com/dmitrijs2005/blogkeeper/internal/config"
	"github.com/dmitrijs2005/blogkeeper/internal/engagement"
	"github.com/dmitrijs2005/blogkeeper/internal/kv"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

type App struct {
	Config *config.Config
	Logger logging.Logger
	Repo   kv.Repository
	Cache  *cache.Cache
	Store  *engagement.Store
	Blog   *blog.CachedClient
}

// New opens the configured backend and builds everything on top of it.
// Logs go to logOut.
func New(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)

	repo, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	logger.Debug(ctx, "storage opened", "backend", cfg.Backend)

	ch := cache.New(repo, cache.WithLogger(logger.With("component", "cache")))
	store := engagement.New(repo, engagement.WithLogger(logger.With("component", "engagement")))
	store.Init(ctx)

	client := blog.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)

	return &App{
		Config: cfg,
		Logger: logger,
		Repo:   repo,
		Cache:  ch,
		Store:  store,
		Blog:   blog.NewCachedClient(client, ch),
	}, nil
}

// Cleanup drops history and encounter records older than the configured
// retention.
func (a *App) Cleanup(ctx context.Context) engagement.CleanupResult {
	res := a.Store.CleanupExpiredData(ctx, a.Config.RetentionDays)
	if !res.Success {
		a.Logger.Warn(ctx, "startup cleanup failed", "error", res.Err)
	}
	return res
}

// Close releases the backend if it holds resources.
func (a *App) Close() error {
	if c, ok := a.Repo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SignalContext returns a context cancelled on SIGINT, SIGTERM or SIGQUIT.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

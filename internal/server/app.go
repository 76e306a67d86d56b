// Package server assembles the diary server: it opens the store, pins the
// password hash algorithm, builds the services and runs the HTTP API until a
// termination signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/diary/internal/cryptox"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/config"
	"github.com/dmitrijs2005/diary/internal/server/httpapi"
	"github.com/dmitrijs2005/diary/internal/server/services"
	"github.com/dmitrijs2005/diary/internal/server/storage"
)

// App owns everything the server shares between requests. Nothing is kept in
// package-level state.
type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *storage.Store
	users   *services.UserService
	diaries *services.DiaryService
	server  *httpapi.Server
}

// NewApp builds the application from c, logging to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.New(c.LogBackend, w)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, c.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	info, hasher, err := services.Bootstrap(ctx, store, cryptox.Algorithm(c.HashAlgorithm), logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bootstrap error: %w", err)
	}
	logger.Info(ctx, "store ready", "path", c.DatabasePath, "instance_id", info.InstanceID, "hash_algorithm", hasher.Algorithm())

	issuer := auth.NewIssuer(auth.NewSecretCache(), c.SessionTTL)
	users, err := services.NewUserService(store, hasher, issuer, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	diaries := services.NewDiaryService(store, logger)

	handler := httpapi.NewRouter(httpapi.NewHandler(users, diaries, logger))

	return &App{
		config:  c,
		logger:  logger,
		store:   store,
		users:   users,
		diaries: diaries,
		server:  httpapi.NewServer(c.HTTPAddr, handler, logger, c.ShutdownTimeout),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}

	closeErr := app.Close()
	app.logger.Info(ctx, "App stopped")
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// Close releases the store and flushes buffered logs.
func (app *App) Close() error {
	err := app.store.Close()
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return err
}

// Package server wires the identity service together: configuration,
// logging, database, migrations, mail delivery, and the HTTP surface.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thecollekta/airbnb-clone-project/internal/logging"
	"github.com/thecollekta/airbnb-clone-project/internal/server/config"
	"github.com/thecollekta/airbnb-clone-project/internal/server/httpapi"
	"github.com/thecollekta/airbnb-clone-project/internal/server/mail"
	"github.com/thecollekta/airbnb-clone-project/internal/server/repositories/repomanager"
	"github.com/thecollekta/airbnb-clone-project/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	notifier := mail.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom, logger)
	repo := rm.Accounts(db)

	identity := services.NewIdentityService(repo, notifier, logger, cfg)
	avatar := services.NewAvatarService(repo, cfg)

	httpServer := httpapi.NewServer(identity, avatar, logger, cfg.EndpointAddrHTTP)

	return &App{config: cfg, logger: logger, db: db, server: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}

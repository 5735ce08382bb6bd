package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"signup-backend/config"
	"signup-backend/conn"
	"signup-backend/email"
	"signup-backend/logger"
	"signup-backend/metrics"
	"signup-backend/migrations"
	"signup-backend/server"
	"signup-backend/subscribeclient"
	"signup-backend/subscriptions"
	"signup-backend/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := conn.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected", "driver", cfg.DBDriver)

	if err := migrations.Migrate(db.DB, cfg.DBDriver); err != nil {
		return err
	}

	var notifier subscriptions.Notifier
	if mailer := email.NewMailer(cfg, log); mailer != nil {
		notifier = mailer
	}
	svc := subscriptions.NewService(subscriptions.NewRepository(db), notifier, log)
	m := metrics.New()

	servers := []*http.Server{{
		Addr:              cfg.APIAddr(),
		Handler:           server.NewAPIRouter(subscriptions.NewHandler(svc, m, log), m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.WebEnabled {
		client := subscribeclient.NewClient(cfg.APIBaseURL)
		servers = append(servers, &http.Server{
			Addr:              cfg.WebAddr(),
			Handler:           server.NewWebRouter(web.NewHandler(client, cfg.APIBaseURL, cfg.RedirectURL, log), cfg.StaticDir, log),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}
	return server.Run(ctx, log, cfg.ShutdownTimeout, servers...)
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hmoradi/svcready/internal/config"
	"github.com/hmoradi/svcready/internal/httpapi"
	"github.com/hmoradi/svcready/internal/logging"
	"github.com/hmoradi/svcready/internal/notify"
	"github.com/hmoradi/svcready/internal/probe"
	"github.com/hmoradi/svcready/internal/publish"
	"github.com/hmoradi/svcready/internal/repo"
	"github.com/hmoradi/svcready/internal/repo/memory"
	"github.com/hmoradi/svcready/internal/repo/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store repo.ProbeStore
	var closeStore func()
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres_connect", zap.Error(err))
		}
		store = pg
		closeStore = pg.Close
	} else {
		store = memory.New()
	}

	prober := probe.New(logger, probe.Options{
		DialTimeout:    cfg.DialTimeout,
		CommandTimeout: cfg.CommandTimeout,
		PostgresUser:   cfg.PostgresUser,
	})

	api := httpapi.NewServer(logger, store, prober)
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		api.Notifier = s
	}
	if len(cfg.KafkaBrokers) > 0 {
		pub := publish.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
		api.Publisher = pub
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(cfg.APIKeys, cfg.RatePerMin, cfg.RateBurst),
	}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_serve_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("api_shutdown")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("api_shutdown_error", zap.Error(err))
	}
	if closeStore != nil {
		closeStore()
	}
}

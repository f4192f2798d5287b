package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jason-s-yu/gemduel/engine/catalog"
	"github.com/jason-s-yu/gemduel/service/internal/auth"
	"github.com/jason-s-yu/gemduel/service/internal/cache"
	"github.com/jason-s-yu/gemduel/service/internal/config"
	"github.com/jason-s-yu/gemduel/service/internal/database"
	"github.com/jason-s-yu/gemduel/service/internal/server"
	"github.com/sirupsen/logrus"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	cfg.ConfigureLogging()
	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var historian *cache.Historian
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		historian = cache.NewHistorian(rdb)
		logrus.Infof("Connected to Redis at %s.", cfg.RedisAddr)
	} else {
		logrus.Warn("GEMDUEL_REDIS_ADDR not set, action historian disabled.")
	}

	store, err := database.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	} else {
		logrus.Warn("No replay archive configured.")
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL, nil)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Catalog:       catalog.Default(),
		Signer:        signer,
		Historian:     historian,
		Store:         store,
		AIDelay:       cfg.AIDelay,
		FinishedTTL:   cfg.FinishedTTL,
		ReplayVersion: cfg.ReplayVersion,
		Logger:        logrus.StandardLogger(),
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Listening on %s.", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("HTTP shutdown: %v", err)
	}
	srv.Games().Wait()
	return nil
}

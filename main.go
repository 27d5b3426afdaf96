// @title        Gestión de Activos API
// @version      1.0
// @description  Registro de activos, asignaciones y bajas.
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/config"
	"gestion-activos-backend/internal/platform/db"
	"gestion-activos-backend/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configPath() string {
	def := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	path := flag.String("config", def, "path to the YAML config file")
	flag.Parse()
	return *path
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.String("mode", cfg.Mode), zap.String("version", cfg.Version), zap.String("timezone", loc.String()))

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Info("connected to database", zap.String("db", cfg.DB.DBName), zap.String("host", cfg.DB.Host))

	m, err := db.NewMigrator(conn, log.Named("migrate"))
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		return err
	}

	svc := newServices(conn, cfg, loc, log)
	if cfg.Auth.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := svc.auth.EnsureAdmin(ctx, cfg.Auth.AdminPassword)
		cancel()
		if err != nil {
			return err
		}
		if !created {
			log.Debug("default admin already present")
		}
	}

	if cfg.Mode == config.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := apierr.SetupBinding(); err != nil {
		return err
	}
	r := newRouter(cfg, log, svc, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return conn.PingContext(ctx)
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		tls := cfg.Server.TLS
		if tls.Cert != "" && tls.Key != "" {
			log.Info("listening", zap.String("addr", "https://"+cfg.Server.Addr))
			errCh <- srv.ListenAndServeTLS(tls.Cert, tls.Key)
			return
		}
		log.Info("listening", zap.String("addr", "http://"+cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

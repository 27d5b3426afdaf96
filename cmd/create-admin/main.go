// Command create-admin creates the default "admin" account if it is missing.
// The password comes from -password or ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"gestion-activos-backend/internal/platform/auth"
	"gestion-activos-backend/internal/platform/config"
	"gestion-activos-backend/internal/platform/db"
	"gestion-activos-backend/internal/platform/logger"
)

func main() {
	path := flag.String("config", config.DefaultPath, "path to the YAML config file")
	password := flag.String("password", "", "password for the admin user (default $ADMIN_PASSWORD)")
	flag.Parse()

	log := logger.New(logger.Config{Level: "info", Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if *password == "" {
		*password = cfg.Auth.AdminPassword
	}
	if *password == "" {
		log.Error("admin password required: pass -password or set ADMIN_PASSWORD")
		os.Exit(2)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer conn.Close()

	svc := auth.NewService(auth.NewStore(conn), auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := svc.EnsureAdmin(ctx, *password)
	if err != nil {
		log.Fatal("create admin", zap.Error(err))
	}
	if !created {
		log.Info("admin user already exists", zap.String("username", auth.DefaultAdminUsername))
	}
}

// Command migrate applies or rolls back the embedded database schema.
//
//	migrate [-config path] up|down|version
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"gestion-activos-backend/internal/platform/config"
	"gestion-activos-backend/internal/platform/db"
	"gestion-activos-backend/internal/platform/logger"
)

func main() {
	path := flag.String("config", config.DefaultPath, "path to the YAML config file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(2)
	}

	log := logger.New(logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer conn.Close()

	m, err := db.NewMigrator(conn, log)
	if err != nil {
		log.Fatal("create migrator", zap.Error(err))
	}

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			log.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		}
		err = verr
	default:
		log.Error("unknown command", zap.String("command", cmd))
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up       apply all pending migrations
  down     roll back every migration
  version  print the current schema version

Flags:
`)
	flag.PrintDefaults()
}

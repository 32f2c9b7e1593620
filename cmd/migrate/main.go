// Command migrate applies or rolls back the database schema.
//
//	migrate up
//	migrate down [steps]
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/baharkarakas/qa-forum/internal/config"
	"github.com/baharkarakas/qa-forum/internal/db"
	"github.com/baharkarakas/qa-forum/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	if err := run(cfg.DatabaseURL, os.Args[1:]); err != nil {
		log.Error("migrate", "err", err)
		os.Exit(1)
	}
	log.Info("migrate done", "args", os.Args[1:])
}

func run(databaseURL string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate up | migrate down [steps]")
	}
	switch args[0] {
	case "up":
		return db.RunMigrations(databaseURL)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[1])
			}
			steps = n
		}
		return db.MigrateDown(databaseURL, steps)
	}
	return fmt.Errorf("unknown command %q", args[0])
}

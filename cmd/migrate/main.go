// Command migrate applies, reverts and reports SQL schema migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down [steps]|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)

	db, err := database.ConnectWithOptions(cfg, logger, database.ConnectOptions{AutoMigrate: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	migrations, err := database.GetMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	runner := database.NewRunner(db, migrations, logger)

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		n, err := runner.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		log.Printf("applied %d migration(s)", n)
	case "down":
		steps := 1
		if flag.NArg() > 1 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", flag.Arg(1), err)
			}
		}
		n, err := runner.Down(ctx, steps)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		log.Printf("rolled back %d migration(s)", n)
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, st := range statuses {
			state := "pending"
			if st.Applied {
				state = "applied"
			}
			log.Printf("%-8s %s", state, st.Migration.String())
		}
	default:
		return usage()
	}

	return nil
}

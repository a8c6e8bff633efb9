// Command seed populates the database with demo data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/observability"
	"inkwell/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Number of posts per user")
	clean := flag.Bool("clean", defaults.Clean, "Clear existing data before seeding")
	preset := flag.String("preset", "", "YAML preset file (overrides the other flags)")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 picks one)")
	flag.Parse()

	opts := defaults
	if *preset != "" {
		loaded, err := seed.LoadPresetFile(*preset)
		if err != nil {
			return err
		}
		opts = loaded
	} else {
		opts.Users = *numUsers
		opts.PostsPerUser = *postsPerUser
		opts.Clean = *clean
		opts.RandSeed = *randSeed
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)

	db, err := database.ConnectWithOptions(cfg, logger, database.ConnectOptions{AutoMigrate: true})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	res, err := seed.NewSeeder(db, logger).Run(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	logger.Info("seeding complete",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("likes", res.Likes),
		slog.Int("comments", res.Comments),
		slog.String("password", opts.Password),
	)
	return nil
}

package main

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"klaxon/internal/config"
	"klaxon/internal/db"
	"klaxon/internal/logging"
	"klaxon/internal/seed"
)

func main() {
	agenciesPath := flag.String("agencies", "", "file with one city per line (default: bundled data set)")
	usersPath := flag.String("users", "", "file with lastname,firstname,phone,email lines (default: bundled data set)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logging.NewJSON(os.Stderr, "info").Error(ctx, "load config", "error", err)
		os.Exit(1)
	}
	log := logging.NewJSON(os.Stdout, cfg.LogLevel)

	cities, err := seed.ParseAgencies(source(*agenciesPath, seed.DefaultAgencies, log))
	if err != nil {
		fatal(ctx, log, "read agencies", err)
	}
	users, err := seed.ParseUsers(source(*usersPath, seed.DefaultUsers, log))
	if err != nil {
		fatal(ctx, log, "read users", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		fatal(ctx, log, "connect database", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		fatal(ctx, log, "database handle", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB); err != nil {
		fatal(ctx, log, "migrate", err)
	}

	res, err := seed.New(nil, log).Run(ctx, gormDB, cities, users)
	if err != nil {
		fatal(ctx, log, "seed", err)
	}
	log.Info(ctx, "seed completed",
		"agencies", res.Agencies,
		"users", res.Users,
		"rides", res.Rides,
		"admin", firstEmail(users),
		"default_password", seed.DefaultPassword,
	)
}

// source opens path, or falls back to the bundled data when path is empty.
func source(path, fallback string, log logging.Logger) io.Reader {
	if path == "" {
		return strings.NewReader(fallback)
	}
	f, err := os.Open(path)
	if err != nil {
		fatal(context.Background(), log, "open "+path, err)
	}
	return f
}

func firstEmail(users []seed.UserRecord) string {
	if len(users) == 0 {
		return ""
	}
	return users[0].Email
}

func fatal(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, "error", err)
	os.Exit(1)
}

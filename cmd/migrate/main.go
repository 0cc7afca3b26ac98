package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"strconv"
	"time"

	"profile-hub/internal/config"
	dbpostgres "profile-hub/internal/database/postgres"
	"profile-hub/internal/database/migration"
	"profile-hub/internal/pkg/logger"
	"profile-hub/migrations"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dir := flag.String("dir", "", "directory of V<n>__<name>.sql files (default: embedded set)")
	status := flag.Bool("status", false, "print applied/pending migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		color.Red("failed to load config: %v", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{AppName: "migrate", Environment: cfg.App.Environment, Level: cfg.App.LogLevel})

	if cfg.Database.Driver != config.DriverPostgres {
		color.Yellow("DB_DRIVER=%s manages its schema on open; nothing to migrate", cfg.Database.Driver)
		return
	}

	var src fs.FS = migrations.FS
	if *dir != "" {
		src = os.DirFS(*dir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := dbpostgres.Connect(ctx, cfg.Database, 30*time.Second, log)
	if err != nil {
		color.Red("connect: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	runner := migration.Runner{Source: src, Log: log}

	if *status {
		rows, err := runner.Status(ctx, pool.SQLDB())
		if err != nil {
			color.Red("status: %v", err)
			os.Exit(1)
		}
		if err := printStatus(rows); err != nil {
			color.Red("render: %v", err)
			os.Exit(1)
		}
		return
	}

	n, err := runner.Run(ctx, pool.SQLDB())
	if err != nil {
		color.Red("migrate: %v", err)
		os.Exit(1)
	}
	if n == 0 {
		color.Cyan("schema is up to date")
		return
	}
	color.Green("applied %d migration(s)", n)
}

func printStatus(rows []migration.Status) error {
	table := tablewriter.NewWriter(os.Stdout)
	if err := table.Append([]string{"Version", "Name", "Checksum", "Applied"}); err != nil {
		return err
	}
	for _, r := range rows {
		applied := color.YellowString("pending")
		if r.AppliedAt != nil {
			applied = color.GreenString(r.AppliedAt.UTC().Format(time.RFC3339))
		}
		if err := table.Append([]string{
			strconv.FormatInt(r.Version, 10),
			r.Name,
			r.Checksum[:12],
			applied,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

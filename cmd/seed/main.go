package main

import (
	"context"
	"flag"
	"os"
	"time"

	"profile-hub/internal/app"
	"profile-hub/internal/config"
	"profile-hub/internal/database/seeder"
	"profile-hub/internal/pkg/logger"

	"github.com/fatih/color"
)

func main() {
	email := flag.String("email", seeder.DemoEmail, "demo account email")
	password := flag.String("password", seeder.DemoPassword, "demo account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		color.Red("failed to load config: %v", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{AppName: "seed", Environment: cfg.App.Environment, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		color.Red("failed to init container: %v", err)
		os.Exit(1)
	}
	defer func() {
		_ = c.Close()
	}()

	runner := seeder.Runner{Seeders: []seeder.Seeder{
		seeder.DemoUserSeeder{Email: *email, Password: *password},
	}}
	if err := runner.Run(ctx, app.SeederDeps(c)); err != nil {
		color.Red("seed failed: %v", err)
		os.Exit(1)
	}
	color.Green("seeded %s", *email)
}

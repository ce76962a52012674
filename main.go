package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"userservice/internal/shared/config"
	"userservice/internal/shared/logger"
	"userservice/internal/user/bootstrap"
)

const serviceName = "user-service"

func main() {
	app := &cli.App{
		Name:  serviceName,
		Usage: "CRUD HTTP API for users",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CONFIG_PATH"},
				Value:   "./config/config.yaml",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "database migrations",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply pending migrations",
						Action: migrateUp,
					},
					{
						Name:   "status",
						Usage:  "show applied and pending migrations",
						Action: migrateStatus,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log := logger.NewLogger("bootstrap")
		log.Fatal(logger.Entry{
			Action:  "command_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

func load(c *cli.Context) (config.Config, *logger.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(serviceName, logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})
	return cfg, log, nil
}

func serve(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	return bootstrap.Run(ctx, cfg, log)
}

func migrateUp(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}

	applied, err := bootstrap.MigrateUp(c.Context, cfg.Database, log)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Println("database is up to date")
		return nil
	}
	fmt.Printf("applied: %s\n", strings.Join(applied, ", "))
	return nil
}

func migrateStatus(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}

	status, err := bootstrap.Status(c.Context, cfg.Database, log)
	if err != nil {
		return err
	}
	for _, v := range status.Applied {
		fmt.Printf("applied  %s\n", v)
	}
	for _, v := range status.Pending {
		fmt.Printf("pending  %s\n", v)
	}
	return nil
}

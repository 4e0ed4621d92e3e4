package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phrazzld/taskcache/internal/menu"
	"github.com/phrazzld/taskcache/internal/service/auth"
	"github.com/urfave/cli/v3"
)

const configFlag = "config"

// newRootCommand builds the command tree. Running without a subcommand is
// the same as "run".
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "taskcache",
		Usage: "task manager with an expiring urgent-task cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file (default ./config.yaml when present)",
				Sources: cli.EnvVars("TASKCACHE_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve GET /urgent-tasks until interrupted",
				Action: serveAction,
			},
			{
				Name:   "menu",
				Usage:  "run the interactive menu on stdin/stdout",
				Action: menuAction,
			},
			{
				Name:   "run",
				Usage:  "serve the endpoint in the background and run the menu",
				Action: runAction,
			},
			{
				Name:      "hash-password",
				Usage:     "print the bcrypt hash stored for a password, for seeding users by hand",
				ArgsUsage: "<password>",
				Action:    hashPasswordAction,
			},
		},
		Action: runAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	app, err := bootstrap(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.startHTTPServer(ctx, app.setupRouter())
}

func menuAction(ctx context.Context, cmd *cli.Command) error {
	app, err := bootstrap(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.runMenu(ctx)
}

// runAction serves the endpoint while the menu runs; leaving the menu stops
// the server.
func runAction(ctx context.Context, cmd *cli.Command) error {
	app, err := bootstrap(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.serveWhile(ctx, app.setupRouter(), app.runMenu)
}

func hashPasswordAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one password argument")
	}

	cfg, err := loadAppConfig(cmd.String(configFlag))
	if err != nil {
		return err
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	hashed, err := hasher.Hash(cmd.Args().First())
	if err != nil {
		return err
	}
	if err := hasher.Compare(hashed, cmd.Args().First()); err != nil {
		return fmt.Errorf("generated hash does not verify: %w", err)
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, hashed)
	return err
}

// bootstrap loads configuration, sets up logging and connects both stores.
func bootstrap(ctx context.Context, cmd *cli.Command) (*application, error) {
	cfg, err := loadAppConfig(cmd.String(configFlag))
	if err != nil {
		return nil, err
	}

	// Logs go to stderr so they never interleave with the menu on stdout.
	logger, err := setupAppLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return app, nil
}

func (app *application) runMenu(ctx context.Context) error {
	m := menu.New(app.taskService, os.Stdin, os.Stdout, app.logger)
	return m.Run(ctx)
}

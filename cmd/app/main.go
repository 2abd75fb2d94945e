package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/rlowrie/cairn/internal"
	"github.com/rlowrie/cairn/internal/hikeservice"
	"github.com/rlowrie/cairn/internal/mcpserver"
	"github.com/rlowrie/cairn/internal/store"
	pkgconfig "github.com/rlowrie/cairn/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// runMCP serves Cairn tools over MCP stdio. Stdout belongs to the
// transport, so logs go to stderr and badger noise is discarded.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := store.Select(logger, store.DefaultProbes(cfg.Store.SQLitePath, cfg.Store.KVPath, quiet)...)
	exec := store.NewExecutor(backend, logger)
	defer func() {
		if b := exec.Backend(); b != nil {
			b.Close()
		}
	}()

	repo := store.NewHikes(exec)
	if err := repo.Initialize(ctx); err != nil {
		return fmt.Errorf("init hike log: %w", err)
	}

	svc := hikeservice.NewService(repo, nil)
	return mcpserver.New(svc).ServeStdio()
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "cairn",
		Usage:  "Personal hike log with embedded SQLite storage and transparent key-value fallback",
		Action: run,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve Cairn tools over the Model Context Protocol on stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// Package main implements the entry point for the tasks API server, which
// exposes CRUD endpoints for tasks backed by PostgreSQL or SQLite with a
// read-through response cache and admin email notifications.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasks-api/internal/redact"
)

// options holds the parsed command-line flags.
type options struct {
	configPath string
	migrate    string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("tasks-api exited with error", "error", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("tasks-api", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "path to a config file (default: ./config.yaml when present)")
	fs.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, status, version) and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.migrate != "" && !isMigrationCommand(opts.migrate) {
		err := fmt.Errorf("unknown migration command %q", opts.migrate)
		fmt.Fprintln(output, err)
		return options{}, err
	}
	return opts, nil
}

// run loads configuration and either executes a migration command or serves
// HTTP until ctx is cancelled.
func run(ctx context.Context, opts options) error {
	cfg, err := loadAppConfig(opts.configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		return runMigrationCommand(ctx, cfg, logger, opts.migrate)
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

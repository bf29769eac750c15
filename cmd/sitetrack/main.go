package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/sitetrack/internal/cli"
	"github.com/alexanderramin/sitetrack/internal/config"
	"github.com/alexanderramin/sitetrack/internal/db"
	"github.com/alexanderramin/sitetrack/internal/repository"
	"github.com/alexanderramin/sitetrack/internal/scheduler"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Connect: connect,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.TerminalWidth = func() int {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return 0
		}
		return w
	}
	defer app.Close()

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// connect opens the configured backend and builds the tracker over it.
func connect(ctx context.Context, cfg *config.Config) (service.TrackerService, func() error, error) {
	repo, closeFn, err := openRepo(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []service.TrackerOption{
		service.WithProgressPolicy(progressPolicy(cfg.Timeline)),
	}
	if cfg.Logging.Enabled {
		opts = append(opts, service.WithObserver(service.NewLogUseCaseObserver(os.Stderr, cfg.LogLevel())))
	}
	return service.NewTrackerService(repo, opts...), closeFn, nil
}

func openRepo(cfg *config.Config) (repository.SnapshotRepo, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return repository.NewMemorySnapshotRepo(nil), noop, nil
	case config.BackendFile:
		return repository.NewFileSnapshotRepo(cfg.StorePath()), noop, nil
	default:
		database, err := db.OpenDB(cfg.StorePath())
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSQLiteSnapshotRepo(database, db.NewSQLiteUnitOfWork(database))
		return repo, database.Close, nil
	}
}

func progressPolicy(cfg config.TimelineConfig) scheduler.ProgressPolicy {
	if cfg.ProgressPolicy == config.PolicyMilestone {
		return scheduler.MilestoneProgress{Steps: cfg.MilestoneSteps}
	}
	return scheduler.LinearProgress{}
}

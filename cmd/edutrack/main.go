package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/edutrack/internal/cli"
	"github.com/alexanderramin/edutrack/internal/config"
	"github.com/alexanderramin/edutrack/internal/db"
	"github.com/alexanderramin/edutrack/internal/remote"
	"github.com/alexanderramin/edutrack/internal/repository"
	"github.com/alexanderramin/edutrack/internal/service"
	"github.com/mattn/go-isatty"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Remote.Version = version
	logger := cfg.NewLogger()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	courseRepo := repository.NewSQLiteCourseRepo(database)
	taskFileRepo := repository.NewSQLiteTaskFileRepo(database)
	checkRepo := repository.NewSQLiteCheckResultRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var callObserver remote.Observer = remote.NoopObserver{}
	if cfg.Remote.LogCalls {
		callObserver = remote.NewLogObserver(logger)
	}
	client, err := remote.NewClient(cfg.Remote, callObserver, logger)
	if err != nil {
		return fmt.Errorf("creating remote client: %w", err)
	}

	useCases := service.NewLogUseCaseObserver(logger)
	listeners := []service.CheckListener{service.NewPostSolutionListener(client, logger)}

	app := &cli.App{
		Courses:  service.NewCourseService(courseRepo, uow, useCases),
		Progress: service.NewProgressService(courseRepo),
		Checks:   service.NewCheckService(courseRepo, checkRepo, uow, listeners, useCases),
		Watcher:  service.NewWatchService(courseRepo, taskFileRepo),
		Remote:   service.NewRemoteService(client, courseRepo, uow, useCases),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

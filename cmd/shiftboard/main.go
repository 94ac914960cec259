package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/shiftboard/internal/cli"
	"github.com/alexanderramin/shiftboard/internal/config"
	"github.com/alexanderramin/shiftboard/internal/db"
	"github.com/alexanderramin/shiftboard/internal/repository"
	"github.com/alexanderramin/shiftboard/internal/service"
	"github.com/alexanderramin/shiftboard/internal/store"
	"github.com/mattn/go-isatty"
)

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

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	datasetRepo := repository.NewSQLiteDatasetRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.Log.UseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	st := store.New(store.WithDefaultDate(cfg.UI.DefaultDate))
	app := &cli.App{
		Schedule: service.NewScheduleService(st, cfg.Rules, cfg.IDs.Scheme, datasetRepo, uow, observers...),
		Config:   cfg,
	}

	// Detect interactive terminal for prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}

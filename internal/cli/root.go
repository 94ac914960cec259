package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftboard/internal/cli/formatter"
	"github.com/alexanderramin/shiftboard/internal/config"
	"github.com/alexanderramin/shiftboard/internal/repository"
	"github.com/alexanderramin/shiftboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds what the CLI commands need: the schedule service and the
// loaded configuration.
type App struct {
	Schedule service.ScheduleService
	Config   config.Config

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Dataset is the --dataset flag value.
	Dataset string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "shiftboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "shiftboard",
		Short:        "Shift schedule board for workers and processes",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&app.Dataset, "dataset", "default", "Dataset name")

	root.AddCommand(
		newImportCmd(app),
		newCheckCmd(app),
		newExportCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newMoveCmd(app),
		newAssignCmd(app),
		newListCmd(app),
		newGridCmd(app),
		newGanttCmd(app),
		newWeekCmd(app),
		newSlotsCmd(app),
		newDatasetsCmd(app),
		newConfigCmd(app),
		newBrowseCmd(app),
	)

	return root
}

// openDataset loads the --dataset records into the store. A dataset that
// was never saved opens empty and is created by the next save.
func openDataset(ctx context.Context, app *App) error {
	err := app.Schedule.Open(ctx, app.Dataset)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// saveAndReport persists the open dataset and prints a one-line summary.
func saveAndReport(cmd *cobra.Command, app *App) error {
	ds, err := app.Schedule.Save(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Dim("saved"), formatter.Count(ds.RecordCount, "records in "+ds.Name))
	return nil
}

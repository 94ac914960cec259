package cli

import (
	"fmt"

	"github.com/alexanderramin/shiftboard/internal/cli/formatter"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/rules"
	"github.com/alexanderramin/shiftboard/internal/store"
	"github.com/alexanderramin/shiftboard/internal/view"
	"github.com/spf13/cobra"
)

func newGridCmd(app *App) *cobra.Command {
	var (
		mode      domain.GridMode
		rangeMode domain.RangeMode
		anchor    string
		filter    string
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the process or worker grid for a week or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDataset(cmd.Context(), app); err != nil {
				return err
			}
			patch := domain.UIPatch{GridMode: &mode, RangeMode: &rangeMode, FilterText: &filter}
			if anchor != "" {
				patch.AnchorDate = &anchor
			}
			app.Schedule.SetUI(patch)

			out, err := renderGrid(app.Schedule.Snapshot())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	gridModeFlag(cmd.Flags(), &mode, domain.GridByProcess)
	rangeModeFlag(cmd.Flags(), &rangeMode, domain.RangeWeek)
	cmd.Flags().StringVar(&anchor, "anchor", "", "Any date inside the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter, "filter", "", "Only rows containing this text")
	return cmd
}

func newGanttCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Show the daily timeline of every worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDataset(cmd.Context(), app); err != nil {
				return err
			}
			if date != "" {
				if err := validateDate(date); err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				app.Schedule.SetUI(domain.UIPatch{GanttDate: &date})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderGantt(app.Schedule.Snapshot(), app.Schedule.Rules()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD)")
	return cmd
}

func newWeekCmd(app *App) *cobra.Command {
	var worker, anchor string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show one worker's week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDataset(cmd.Context(), app); err != nil {
				return err
			}
			snap := app.Schedule.Snapshot()
			patch := domain.UIPatch{}
			if worker != "" {
				if !contains(snap.Workers(), worker) {
					return unknownNameError("worker", worker, snap.Workers())
				}
				patch.WeekWorker = &worker
			}
			if anchor != "" {
				patch.WeekDate = &anchor
			}
			app.Schedule.SetUI(patch)

			out, err := renderWeek(app.Schedule.Snapshot(), app.Schedule.Rules())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&worker, "worker", "", "Worker to show (defaults to the first worker)")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Any date inside the week (YYYY-MM-DD)")
	return cmd
}

func newSlotsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List the time slots of the business window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Schedule.Rules()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSlots(view.GenerateTimeSlots(cfg), cfg))
			return nil
		},
	}
}

// renderGrid projects the grid described by the snapshot's UI state.
func renderGrid(snap *store.Snapshot) (string, error) {
	ui := snap.UI()
	dates, err := view.GenerateDates(ui.AnchorDate, ui.RangeMode)
	if err != nil {
		return "", err
	}
	return formatter.FormatGrid(view.GenerateGrid(snap, ui.GridMode, dates, ui.FilterText)), nil
}

func renderGantt(snap *store.Snapshot, cfg rules.Config) string {
	return formatter.FormatGantt(view.GenerateGanttData(snap, snap.UI().GanttDate), cfg)
}

// renderWeek shows the UI's week worker, falling back to the first worker.
func renderWeek(snap *store.Snapshot, cfg rules.Config) (string, error) {
	ui := snap.UI()
	worker := ui.WeekWorker
	if worker == "" {
		if workers := snap.Workers(); len(workers) > 0 {
			worker = workers[0]
		}
	}
	week, err := view.GenerateWorkerWeek(snap, ui.WeekDate, worker)
	if err != nil {
		return "", err
	}
	return formatter.FormatWorkerWeek(week, cfg), nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftboard/internal/cli/formatter"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var rec domain.ScheduleRecord

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a schedule record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := openDataset(ctx, app); err != nil {
				return err
			}

			missing := rec.Date == "" || rec.Worker == "" || rec.Process == "" || rec.Start == "" || rec.End == ""
			if missing && app.interactive() {
				if rec.Date == "" {
					rec.Date = app.Schedule.Snapshot().UI().AnchorDate
				}
				snap := app.Schedule.Snapshot()
				if err := wizardRecord(&rec, snap.Workers(), snap.Processes()).Run(); err != nil {
					return err
				}
			}

			added, err := app.Schedule.AddRecord(ctx, rec)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecord(added))
			return saveAndReport(cmd, app)
		},
	}

	f := cmd.Flags()
	f.StringVar(&rec.ID, "id", "", "Record id (generated when empty)")
	f.StringVar(&rec.Date, "date", "", "Date (YYYY-MM-DD)")
	f.StringVar(&rec.Worker, "worker", "", "Worker name")
	f.StringVar(&rec.Process, "process", "", "Process name")
	f.StringVar(&rec.Start, "start", "", "Start time (HH:MM)")
	f.StringVar(&rec.End, "end", "", "End time (HH:MM)")
	f.StringVar(&rec.Note, "note", "", "Note")
	f.StringVar(&rec.Color, "color", "", "Display color (#rrggbb)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var date, worker, process, start, end, note, color string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := openDataset(ctx, app); err != nil {
				return err
			}

			var patch domain.RecordPatch
			f := cmd.Flags()
			set := func(name string, dst **string, v *string) {
				if f.Changed(name) {
					*dst = v
				}
			}
			set("date", &patch.Date, &date)
			set("worker", &patch.Worker, &worker)
			set("process", &patch.Process, &process)
			set("start", &patch.Start, &start)
			set("end", &patch.End, &end)
			set("note", &patch.Note, &note)
			set("color", &patch.Color, &color)
			if patch.IsEmpty() {
				return errors.New("nothing to change: pass at least one field flag")
			}

			updated, err := app.Schedule.UpdateRecord(ctx, args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecord(updated))
			return saveAndReport(cmd, app)
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	f.StringVar(&worker, "worker", "", "Worker name")
	f.StringVar(&process, "process", "", "Process name")
	f.StringVar(&start, "start", "", "Start time (HH:MM)")
	f.StringVar(&end, "end", "", "End time (HH:MM)")
	f.StringVar(&note, "note", "", "Note")
	f.StringVar(&color, "color", "", "Display color (#rrggbb)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := openDataset(ctx, app); err != nil {
				return err
			}

			if !force && app.interactive() {
				rec, ok := app.Schedule.Snapshot().Record(args[0])
				if ok {
					confirmed := false
					title := fmt.Sprintf("%s %s %s %s-%s を削除しますか?", rec.Date, rec.Worker, rec.Process, rec.Start, rec.End)
					if err := wizardConfirm(title, &confirmed).Run(); err != nil {
						return err
					}
					if !confirmed {
						return nil
					}
				}
			}

			if err := app.Schedule.DeleteRecord(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return saveAndReport(cmd, app)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var date, start, end string

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Reschedule a record, snapping times to the time step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := openDataset(ctx, app); err != nil {
				return err
			}

			moved, err := app.Schedule.Reschedule(ctx, args[0], date, start, end)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecord(moved))
			return saveAndReport(cmd, app)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (keeps the current date when empty)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newAssignCmd(app *App) *cobra.Command {
	var (
		mode domain.GridMode
		row  string
		date string
	)

	cmd := &cobra.Command{
		Use:   "assign [values...]",
		Short: "Set who (or what) fills one grid cell",
		Long: `Set the workers of a process cell (--mode process) or the processes of a
worker cell (--mode worker) on one date. Values not listed are removed from
the cell; new values are booked for the whole business window. Passing no
values clears the cell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := openDataset(ctx, app); err != nil {
				return err
			}

			res, err := app.Schedule.AssignCell(ctx, mode, row, date, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAssignResult(res))
			if !res.Changed() {
				return nil
			}
			return saveAndReport(cmd, app)
		},
	}

	gridModeFlag(cmd.Flags(), &mode, domain.GridByProcess)
	cmd.Flags().StringVar(&row, "row", "", "Process (process mode) or worker (worker mode)")
	cmd.Flags().StringVar(&date, "date", "", "Cell date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var date, worker string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List records of the dataset",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDataset(cmd.Context(), app); err != nil {
				return err
			}
			snap := app.Schedule.Snapshot()
			if worker != "" && !contains(snap.Workers(), worker) {
				return unknownNameError("worker", worker, snap.Workers())
			}

			var records []domain.ScheduleRecord
			switch {
			case worker != "" && date != "":
				records = snap.RecordsByWorkerDate(worker, date)
			case date != "":
				records = snap.RecordsByDate(date)
			default:
				for _, r := range snap.Records() {
					if worker == "" || r.Worker == worker {
						records = append(records, r)
					}
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecords(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only this date")
	cmd.Flags().StringVar(&worker, "worker", "", "Only this worker")
	return cmd
}

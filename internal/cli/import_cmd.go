package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alexanderramin/shiftboard/internal/cli/formatter"
	"github.com/alexanderramin/shiftboard/internal/export"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a schedule CSV and save it as a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if name == "" {
				name = app.Dataset
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			report, err := app.Schedule.Import(ctx, f, name, filepath.Base(args[0]))
			if report != nil {
				fmt.Fprint(out, formatter.FormatImportReport(report))
			}
			if err != nil {
				return err
			}

			return saveAndReport(cmd, app)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Dataset name (defaults to --dataset)")
	return cmd
}

func newCheckCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check <file.csv>",
		Short: "Validate a schedule CSV without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			check := func(ctx context.Context) error {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				report, err := app.Schedule.Check(ctx, bytes.NewReader(data), filepath.Base(path))
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatImportReport(report))
				return nil
			}

			if !watch {
				return check(cmd.Context())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if err := check(ctx); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render(err.Error()))
			}
			fmt.Fprintln(out, formatter.Dim("watching "+path+" (ctrl+c to stop)"))
			return watchFile(ctx, path, func() {
				fmt.Fprintln(out)
				if err := check(ctx); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render(err.Error()))
				}
			})
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Re-check whenever the file changes")
	return cmd
}

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 150 * time.Millisecond

// watchFile calls onChange after path is written or replaced, until ctx is
// done. The parent directory is watched so editors that save by rename are
// still seen.
func watchFile(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", path, err)
		case <-pending:
			pending = nil
			onChange()
		}
	}
}

func newExportCmd(app *App) *cobra.Command {
	var (
		format exportFormat
		worker string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dataset as CSV or iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := openDataset(ctx, app); err != nil {
				return err
			}
			if worker != "" && format == formatCSV {
				return errors.New("--worker only applies to --format ics")
			}
			if worker != "" {
				if workers := app.Schedule.Snapshot().Workers(); !contains(workers, worker) {
					return unknownNameError("worker", worker, workers)
				}
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			var n int
			var err error
			switch format {
			case formatICS:
				n, err = app.Schedule.ExportICS(ctx, w, export.ICSOptions{Worker: worker})
			default:
				n, err = app.Schedule.ExportCSV(ctx, w)
			}
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, output)
			}
			return nil
		},
	}

	exportFormatFlag(cmd.Flags(), &format)
	cmd.Flags().StringVar(&worker, "worker", "", "Only export this worker (ics)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/shiftboard/internal/cli/formatter"
	"github.com/alexanderramin/shiftboard/internal/config"
	"github.com/spf13/cobra"
)

func newDatasetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List saved datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := app.Schedule.ListDatasets(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDatasets(sets))
			return nil
		},
	}

	cmd.AddCommand(newDatasetRemoveCmd(app))
	return cmd
}

func newDatasetRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a saved dataset and its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !force && app.interactive() {
				confirmed := false
				if err := wizardConfirm(fmt.Sprintf("データセット %s を削除しますか?", name), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}
			if err := app.Schedule.DeleteDataset(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted dataset %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(cmd.OutOrStdout(), app.Config)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Print the default configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.WriteDefault(cmd.OutOrStdout())
		},
	})
	return cmd
}

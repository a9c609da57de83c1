package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/devandanger/firebase-utils/core/config"
	"github.com/devandanger/firebase-utils/core/database"
	"github.com/devandanger/firebase-utils/core/history"
	"github.com/devandanger/firebase-utils/core/render"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyFormat string
)

// historyCmd lists recent comparison runs from the history store.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent comparison runs",
	Long: `List recent comparison runs recorded in the history database,
newest first. Requires DATABASE_ENABLED=true and a reachable MySQL
instance.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format (table, json)")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("history database is not enabled (set DATABASE_ENABLED=true)")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	store := history.NewStore(db)
	runs, err := store.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	if historyFormat == "json" {
		return render.JSON(os.Stdout, runs)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"When", "Mode", "Path", "Source", "Target", "+", "-", "~"})
	table.SetBorder(false)
	for _, run := range runs {
		table.Append([]string{
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Path,
			run.Source,
			run.Target,
			fmt.Sprintf("%d", run.Added),
			fmt.Sprintf("%d", run.Removed),
			fmt.Sprintf("%d", run.Changed),
		})
	}
	table.Render()
	return nil
}

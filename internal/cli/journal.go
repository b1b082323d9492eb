package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"quanturnic/pkg/db"
)

type journalFlags struct {
	dbPath string
	limit  int
}

func newJournalCmd() *cobra.Command {
	f := &journalFlags{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the trade journal written by a server with ENABLE_JOURNAL=true",
	}
	cmd.PersistentFlags().StringVar(&f.dbPath, "db", "./data/journal.db", "journal database path")
	cmd.PersistentFlags().IntVar(&f.limit, "limit", 50, "maximum rows, newest first")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "trades",
			Short: "List mirrored trade log entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				database, err := db.OpenExisting(f.dbPath)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer database.Close()

				rows, err := database.ListTrades(cmd.Context(), f.limit)
				if err != nil {
					return err
				}
				renderTradeRows(cmd.OutOrStdout(), rows)
				return nil
			},
		},
		&cobra.Command{
			Use:   "config",
			Short: "List configuration history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				database, err := db.OpenExisting(f.dbPath)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer database.Close()

				rows, err := database.ListConfigChanges(cmd.Context(), f.limit)
				if err != nil {
					return err
				}
				renderConfigRows(cmd.OutOrStdout(), rows)
				return nil
			},
		},
	)
	return cmd
}

func renderTradeRows(w io.Writer, rows []db.TradeRow) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Time", "Action", "Reason", "Price")
	for _, r := range rows {
		table.Append(
			r.ID,
			formatNanos(r.Timestamp),
			r.Action,
			r.Reason,
			fmt.Sprintf("%v", r.Price),
		)
	}
	table.Render()
}

func renderConfigRows(w io.Writer, rows []db.ConfigRow) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Changed", "Strategy", "Threshold")
	for _, r := range rows {
		table.Append(
			r.ID,
			r.ChangedAt.UTC().Format(time.RFC3339),
			r.Strategy,
			fmt.Sprintf("%v", r.Threshold),
		)
	}
	table.Render()
}

func formatNanos(ns uint64) string {
	return time.Unix(0, int64(ns)).UTC().Format("2006-01-02 15:04:05.000")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-sync/internal/runlog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past harvest runs from the local run log",
	Long: `History reads the local run log database and prints past runs, newest
first, with their status and counts. The log records outcomes only; the
article data itself lives in the snapshot.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to show (0 = all)")
	historyCmd.Flags().String("db", "", "run log database path (default pubmed-sync.db)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("run_log.db_path")
	}
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	limit, _ := cmd.Flags().GetInt("limit")

	log, err := runlog.Open(dbPath)
	if err != nil {
		return err
	}
	defer log.Close()

	entries, err := log.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-7s  %7s  %7s  %7s  %7s  %7s\n",
		"ID", "Started", "Status", "Fetched", "Skipped", "New", "Updated", "Total")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-7s  %7d  %7d  %7d  %7d  %7d\n",
			e.ID, e.StartedAt.Format("2006-01-02 15:04:05"), e.Status,
			e.Summary.Fetched, e.Summary.Skipped, e.Summary.New, e.Summary.Updated, e.Summary.Total)
		if e.Error != "" {
			msg := e.Error
			if len(msg) > 74 {
				msg = msg[:71] + "..."
			}
			fmt.Fprintf(os.Stdout, "      %s\n", msg)
		}
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(entries))
	return nil
}

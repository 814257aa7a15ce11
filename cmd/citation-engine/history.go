// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past pipeline runs",
	Long: `History lists past pipeline runs recorded in the local SQLite store.
Use "history list" for a summary table and "history show <id>" for the
stored BibTeX of a single run.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent pipeline runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	return history.Open(viper.GetString("history.dir"))
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTYLE\tMODE\tRECORDS\tVERIFIED\tINPUT")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Style, r.Mode,
			r.Records, r.Verified, r.InputDigest)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(id)
	if err != nil {
		return fmt.Errorf("run %d: %w", id, err)
	}

	fmt.Printf("run %d (%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("input: %s  style: %s  mode: %s  records: %d  verified: %d\n",
		run.InputDigest, run.Style, run.Mode, run.Records, run.Verified)
	if run.Warning != "" {
		fmt.Println("warning:", run.Warning)
	}
	if run.BibTeX != "" {
		fmt.Println()
		fmt.Println(run.BibTeX)
	}
	return nil
}

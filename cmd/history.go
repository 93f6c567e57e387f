/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/transcheck/internal/render"
)

var (
	historyListLimit  int
	historyWordsLimit int
	historyFormat     string
	historyYes        bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved validation runs",
	Long:  `List, inspect, summarise and delete validation runs saved with --save.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListRuns(cmd.Context(), historyListLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tPOLICY\tOUTPUTS\tVIOLATED\tREPETITION\tENFIN\tSOURCE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Policy,
				e.TotalOutputs, e.OutputsWithViolations, e.RepetitionCount, e.EnfinCount,
				e.Source)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the report of a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		entry, rep, err := db.GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Run %s (%s, policy %s, %s)\n",
			entry.ID, entry.Source, entry.Policy, entry.CreatedAt.Local().Format("2006-01-02 15:04"))
		return render.Write(cmd.OutOrStdout(), historyFormat, *rep, render.Options{})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals across saved runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total runs:              %d\n", stats.TotalRuns)
		fmt.Fprintf(out, "Total outputs:           %d\n", stats.TotalOutputs)
		fmt.Fprintf(out, "Outputs with violations: %d\n", stats.OutputsWithViolations)
		fmt.Fprintf(out, "Repetition violations:   %d\n", stats.RepetitionCount)
		fmt.Fprintf(out, "Misplaced \"enfin\":       %d\n", stats.EnfinCount)
		return nil
	},
}

var historyWordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Show the most frequently repeated words across runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		words, err := db.TopWords(cmd.Context(), historyWordsLimit)
		if err != nil {
			return fmt.Errorf("failed to get words: %w", err)
		}

		if len(words) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No repeated words recorded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WORD\tRUNS")
		for _, wc := range words {
			fmt.Fprintf(w, "%s\t%d\n", wc.Word, wc.Runs)
		}
		return w.Flush()
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved run by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run: %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyYes {
			return fmt.Errorf("refusing to clear history without --yes")
		}

		db, err := openStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearRuns(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d runs.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyWordsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyListCmd.Flags().IntVarP(&historyListLimit, "limit", "n", 20, "Maximum number of runs (0 = all)")
	historyWordsCmd.Flags().IntVarP(&historyWordsLimit, "limit", "n", 10, "Maximum number of words")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", render.FormatText, "Report format: json, yaml or text")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Confirm removal of all runs")
}

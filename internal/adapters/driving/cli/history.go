package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent screening runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the violations of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %s  %-8s  leads=%-5d passed=%-5d violations=%-4d %s\n",
			run.ID, run.StartedAt.Local().Format(time.DateTime), run.Mode,
			run.TotalLeads, run.Passed, run.ViolationCount, run.LeadFile)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Run %s (%s)\n", run.ID, run.Mode)
	cmd.Printf("  Lead file:     %s\n", run.LeadFile)
	if run.DeliveryFile != "" {
		cmd.Printf("  Delivery file: %s\n", run.DeliveryFile)
	}
	cmd.Printf("  Started:       %s\n", run.StartedAt.Local().Format(time.DateTime))
	cmd.Printf("  Duration:      %s\n", run.Duration)
	cmd.Printf("  CPC limit:     %d\n", run.CPCLimit)
	cmd.Printf("  Leads:         %d screened, %d passed\n", run.TotalLeads, run.Passed)

	violations, err := store.ListViolations(cmd.Context(), run.ID)
	if err != nil {
		return err
	}

	if len(violations) == 0 {
		cmd.Println("  No violations.")
		return nil
	}

	cmd.Printf("  Violations (%d):\n", len(violations))
	for _, v := range violations {
		cmd.Printf("    row %-5d %-24s %s\n", v.Row, v.Rule, v.Message)
	}
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/reconcile"
	"calendar-reconciler/feature/ical"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileFrom  string
	reconcileTo    string
	reconcileLoose bool
	reconcileJSON  bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile bookings with external calendar feeds",
	Long: `Compare the bookings of a unit with its external calendar feed and report
conflicts, suspected cancellations, replacements and untracked reservations.

Examples:
  # One unit, by id or code
  reconcile unit 12
  reconcile unit AZUL --from 2024-04-01 --to 2024-06-30

  # Every unit with a feed, as JSON
  reconcile all --json`,
}

var reconcileUnitCmd = &cobra.Command{
	Use:   "unit <id|code>",
	Short: "Reconcile one unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd, args[0])
	},
}

var reconcileAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Reconcile every unit with a feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd, "")
	},
}

func init() {
	reconcileCmd.AddCommand(reconcileUnitCmd, reconcileAllCmd)

	reconcileCmd.PersistentFlags().StringVar(&reconcileFrom, "from", "", "Window start (YYYY-MM-DD)")
	reconcileCmd.PersistentFlags().StringVar(&reconcileTo, "to", "", "Window end (YYYY-MM-DD)")
	reconcileCmd.PersistentFlags().BoolVar(&reconcileLoose, "loose", false, "Also accept loose acknowledgements")
	reconcileCmd.PersistentFlags().BoolVar(&reconcileJSON, "json", false, "Print the full result as JSON")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, unit string) error {
	ctx := cmd.Context()
	startTime := time.Now()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	svc := ical.NewService(rt.repo, rt.engine, rt.acks, rt.acknowledger, rt.cfg.Reconcile, rt.cfg.Export, rt.timezone, rt.logger)
	run, err := svc.Reconcile(ctx, ical.Query{Unit: unit, From: reconcileFrom, To: reconcileTo, Loose: reconcileLoose})
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	mode := reconcile.AckExact
	if reconcileLoose {
		mode = reconcile.AckLoose
	}
	entries := reconcile.Annotate(run.Items, run.Acks, mode, false)
	notifications := reconcile.Assemble(run.Items, run.Acks, mode)

	if reconcileJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"from":          dates.Format(run.Window.From),
			"to":            dates.Format(run.Window.To),
			"items":         entries,
			"notifications": notifications,
		})
	}

	counts := make(map[reconcile.Status]int)
	acked := 0
	for _, e := range entries {
		counts[e.Item.Status]++
		if e.Acknowledged {
			acked++
		}
		if !e.Item.Status.Actionable() && e.Item.Status != reconcile.StatusNewExternal {
			continue
		}
		ref := "-"
		if e.Item.BookingID != nil {
			ref = fmt.Sprintf("#%d", *e.Item.BookingID)
		}
		mark := ""
		if e.Acknowledged {
			mark = " (acknowledged)"
		}
		fmt.Printf("[%s] unit %d %s %s..%s%s\n", e.Item.Status, e.Item.UnitID, ref,
			dates.Format(e.Item.CheckIn), dates.Format(e.Item.CheckOut), mark)
		for _, line := range e.Item.Summary {
			fmt.Printf("    %s\n", line)
		}
	}

	executionTime := time.Since(startTime)

	fmt.Println("\n=== Reconciliation Metrics ===")
	fmt.Printf("Window: %s to %s\n", dates.Format(run.Window.From), dates.Format(run.Window.To))
	fmt.Printf("Items: %d\n", len(entries))
	fmt.Printf("Matched: %d\n", counts[reconcile.StatusMatched])
	fmt.Printf("Conflict: %d\n", counts[reconcile.StatusConflict])
	fmt.Printf("Suspected Cancelled: %d\n", counts[reconcile.StatusSuspectedCancelled])
	fmt.Printf("Replaced: %d\n", counts[reconcile.StatusReplacedBy])
	fmt.Printf("New External: %d\n", counts[reconcile.StatusNewExternal])
	fmt.Printf("Acknowledged: %d\n", acked)
	fmt.Printf("Notifications: %d\n", len(notifications))
	fmt.Printf("Execution Time: %s\n", executionTime.String())

	rt.logger.Info("Reconciliation completed",
		zap.String("unit", unit),
		zap.Int("items", len(entries)),
		zap.Int("notifications", len(notifications)),
		zap.Duration("execution_time", executionTime),
	)
	return nil
}

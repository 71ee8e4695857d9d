package cmd

import (
	"fmt"
	"os"
	"time"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/dates"
	"calendar-reconciler/core/feed"
	"calendar-reconciler/feature/ical"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOutput string

// exportCmd writes the export feed of a unit without checking its token.
var exportCmd = &cobra.Command{
	Use:   "export <id|code>",
	Short: "Write the iCalendar export feed of a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		row, err := rt.repo.FindUnit(ctx, args[0])
		if err != nil {
			return err
		}
		unit := bookings.ToUnit(*row, rt.timezone)

		now := time.Now()
		since := dates.AddDays(dates.Today(now, unit.Location), -ical.ExportLookbackDays)
		rows, err := rt.repo.ListExportable(ctx, unit.ID, since)
		if err != nil {
			return err
		}
		body, err := feed.Export(unit, rows, rt.cfg.Export, now)
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = os.Stdout.Write(body)
			return err
		}
		if err := os.WriteFile(exportOutput, body, 0644); err != nil {
			return fmt.Errorf("failed to save export: %w", err)
		}
		rt.logger.Info("Export saved", zap.String("file", exportOutput), zap.Int64("unit_id", unit.ID))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	RootCmd.AddCommand(exportCmd)
}

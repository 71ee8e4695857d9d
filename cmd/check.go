package cmd

import (
	"fmt"

	"calendar-reconciler/core/bookings"
	"calendar-reconciler/core/config"
	"calendar-reconciler/core/database"
	"calendar-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd is the parent command for health checks.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run integrity checks",
}

// schemaCmd verifies the bookings database schema.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the units and all_bookings tables",
	Long:  `Verifies that the bookings database has every column the reconciler reads and the acknowledgement store writes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		logg.Info("Checking bookings schema...", zap.String("driver", cfg.Database.Driver))
		report, err := bookings.CheckSchema(db)
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}

		if report.Matched {
			logg.Info("Schema matches expected definition.")
			return nil
		}

		logg.Warn("Schema mismatches found")
		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
		return fmt.Errorf("schema check found problems")
	},
}

func init() {
	checkCmd.AddCommand(schemaCmd)
	RootCmd.AddCommand(checkCmd)
}

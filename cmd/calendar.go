package cmd

import (
	"encoding/json"
	"os"

	"calendar-reconciler/feature/calendar"

	"github.com/spf13/cobra"
)

var (
	calendarMerge bool
	calendarFrom  string
	calendarTo    string
)

// calendarCmd prints the availability of a unit.
var calendarCmd = &cobra.Command{
	Use:   "calendar <id|code>",
	Short: "Print the availability of a unit",
	Long:  `Prints the unit's hard and soft intervals as JSON. With --merge, overlapping intervals of the same class are joined.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		svc := calendar.NewService(rt.repo, rt.events, rt.cfg.Calendar, rt.timezone, rt.logger)
		res, err := svc.Availability(cmd.Context(), calendar.Request{
			Unit:  args[0],
			From:  calendarFrom,
			To:    calendarTo,
			Merge: calendarMerge,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if calendarMerge {
			return enc.Encode(res.Spans)
		}
		return enc.Encode(res.Intervals)
	},
}

func init() {
	calendarCmd.Flags().BoolVar(&calendarMerge, "merge", false, "Merge overlapping intervals of the same class")
	calendarCmd.Flags().StringVar(&calendarFrom, "from", "", "Window start (YYYY-MM-DD)")
	calendarCmd.Flags().StringVar(&calendarTo, "to", "", "Window end (YYYY-MM-DD)")
	RootCmd.AddCommand(calendarCmd)
}

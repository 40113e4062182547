package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GuardianAI1/triaia/internal/boardingpass"
)

var extractCmd = &cobra.Command{
	Use:   "extract [scanned text]",
	Short: "Extract flight details from scanned boarding-pass text",
	Long: `Parse a scanned boarding-pass payload (structured barcode text or free
text) and print the recovered flight details and suggested boundary.

Examples:
  triaia extract "M1DOE/JOHN            EABC123 JFKLAXAA 0123 045Y012F0001 100"
  triaia extract "Flight AB123 JFK-LAX 2025-03-10 14:30 REF: XYZ1234"`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("fallback", "", "fallback boundary timestamp (RFC3339) for missing date or time")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var fallback time.Time
	if s, _ := cmd.Flags().GetString("fallback"); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid fallback timestamp: %w", err)
		}
		fallback = ts
	}

	ex := boardingpass.Parse(args[0], fallback, time.Now())
	out := cmd.OutOrStdout()

	source := "free text"
	if ex.Structured {
		source = "structured barcode"
	}
	fmt.Fprintf(out, "Source:    %s\n", source)

	if ex.FlightNumber != "" {
		fmt.Fprintf(out, "Flight:    %s\n", ex.FlightNumber)
	}
	if ex.DepartureAirport != "" || ex.ArrivalAirport != "" {
		fmt.Fprintf(out, "Route:     %s-%s\n", ex.DepartureAirport, ex.ArrivalAirport)
	}
	if ex.BookingReference != "" {
		fmt.Fprintf(out, "Reference: %s\n", ex.BookingReference)
	}
	if !ex.Date.IsZero() {
		fmt.Fprintf(out, "Date:      %s\n", ex.Date.Format("2006-01-02"))
	}
	if ex.TimeOfDay != "" {
		fmt.Fprintf(out, "Time:      %s\n", ex.TimeOfDay)
	}
	if !ex.Boundary.IsZero() {
		fmt.Fprintf(out, "Boundary:  %s\n", ex.Boundary.Format(time.RFC3339))
		fmt.Fprintf(out, "Arrive by: %s\n", ex.ArriveBy.Format(time.RFC3339))
	}

	if ex.FlightNumber == "" && ex.Boundary.IsZero() && ex.BookingReference == "" {
		fmt.Fprintln(out, "No flight details recognized.")
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <log-file>",
	Short: "Print summary statistics for a CAN capture",
	Long: `Parse a CAN capture and print its load statistics without opening
the interactive viewer. Useful for sanity-checking a capture or scripting
around large file sets.`,
	Args: cobra.ExactArgs(1),
	Example: `  canscope stats capture.asc
  canscope stats dump.log -v`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	capture := args[0]
	logger := GetLogger()

	if err := ValidateCaptureFile(capture); err != nil {
		return err
	}

	store, err := LoadStore(capture, logger)
	if err != nil {
		return err
	}

	stats := store.Stats()

	fmt.Println("\n=== CAN Capture Summary ===")
	fmt.Printf("File:          %s\n", capture)
	fmt.Printf("File Hash:     %s\n", stats.FileHash)
	fmt.Printf("Total Frames:  %d\n", stats.TotalFrames)
	fmt.Printf("Unique IDs:    %d\n", stats.UniqueIDs)
	fmt.Printf("Rx / Tx:       %d / %d\n", stats.RxCount, stats.TxCount)
	fmt.Printf("Time Range:    %.6fs to %.6fs (%.3fs)\n",
		stats.TimeStart, stats.TimeEnd, stats.Duration())
	fmt.Printf("Parse Time:    %v\n", stats.ParseTime)
	if stats.SkippedLines > 0 {
		fmt.Printf("Skipped Lines: %d\n", stats.SkippedLines)
	}

	return nil
}

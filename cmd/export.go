package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canscope/canscope/engine"
)

var (
	exportFormat    string
	exportOutput    string
	exportIDs       string
	exportExclude   bool
	exportRxOnly    bool
	exportTxOnly    bool
	exportTimeStart float64
	exportTimeEnd   float64
	exportIndent    bool
)

var exportCmd = &cobra.Command{
	Use:   "export <log-file>",
	Short: "Export filtered frames to CSV or JSON",
	Long: `Export frames from a CAN capture to CSV or JSON. The same filter
criteria the interactive viewer offers apply here, so a scripted export
produces exactly the rows the table would show.`,
	Args: cobra.ExactArgs(1),
	Example: `  canscope export capture.asc -f csv -o frames.csv
  canscope export capture.asc -f json --ids 0x100,0x2A0 --signals db.yaml
  canscope export dump.log --rx-only --time-start 1.5 --time-end 30`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportIDs, "ids", "", "Comma-separated CAN IDs to include (hex or decimal)")
	exportCmd.Flags().BoolVar(&exportExclude, "exclude-ids", false, "Treat --ids as an exclusion list")
	exportCmd.Flags().BoolVar(&exportRxOnly, "rx-only", false, "Export only received frames")
	exportCmd.Flags().BoolVar(&exportTxOnly, "tx-only", false, "Export only transmitted frames")
	exportCmd.Flags().Float64Var(&exportTimeStart, "time-start", 0, "Start of the time range in seconds")
	exportCmd.Flags().Float64Var(&exportTimeEnd, "time-end", 0, "End of the time range in seconds (0 = unbounded)")
	exportCmd.Flags().BoolVar(&exportIndent, "indent", false, "Indent JSON output")
}

func runExport(cmd *cobra.Command, args []string) error {
	capture := args[0]
	logger := GetLogger()

	if err := ValidateCaptureFile(capture); err != nil {
		return err
	}

	if exportRxOnly && exportTxOnly {
		return fmt.Errorf("--rx-only and --tx-only are mutually exclusive")
	}

	store, err := LoadStore(capture, logger)
	if err != nil {
		return err
	}

	decoder, err := LoadDecoder(signalsPath, logger)
	if err != nil {
		return err
	}

	filter, err := buildExportFilter()
	if err != nil {
		return err
	}

	seq := engine.BuildDisplaySequence(store, filter)
	logger.Info("exporting frames",
		"format", exportFormat,
		"total", store.Len(),
		"selected", seq.Len(),
		"filter", filter.Describe())

	var exporter engine.Exporter
	switch strings.ToLower(exportFormat) {
	case "csv":
		exporter = &engine.CSVExporter{Decoder: decoder}
	case "json":
		exporter = &engine.JSONExporter{Decoder: decoder, Indent: exportIndent}
	default:
		return fmt.Errorf("unknown export format %q (want csv or json)", exportFormat)
	}

	var out io.Writer = os.Stdout
	if exportOutput != "" {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := exporter.Export(out, store, seq.Indices()); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Printf("✓ Exported %d frames to %s\n", seq.Len(), exportOutput)
	}

	return nil
}

func buildExportFilter() (*engine.FilterConfig, error) {
	filter := engine.NewFilterConfig()

	if exportIDs != "" {
		ids, skipped := engine.ParseIDList(exportIDs)
		if len(ids) == 0 {
			return nil, fmt.Errorf("no valid CAN IDs in %q", exportIDs)
		}
		if skipped > 0 {
			GetLogger().Warn("ignoring invalid ID entries", "count", skipped)
		}
		filter.FilterByID = true
		filter.IDs = ids
		if exportExclude {
			filter.IDMode = engine.ExcludeIDs
		}
	}

	if exportRxOnly || exportTxOnly {
		filter.FilterByDirection = true
		filter.ShowRx = exportRxOnly
		filter.ShowTx = exportTxOnly
	}

	if exportTimeStart > 0 || exportTimeEnd > 0 {
		filter.FilterByTime = true
		filter.TimeStart = exportTimeStart
		if exportTimeEnd > 0 {
			filter.TimeEnd = exportTimeEnd
		}
	}

	return filter, nil
}

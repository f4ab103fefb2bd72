package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huyng-sec/cyberhealth/internal/report"
	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

var (
	reportInput  string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a previously saved scan result as a PDF report",
	Long: `Render a PDF security report from a scan result.

The input is the JSON produced by "cyberhealth scan --json". When no
output path is given, the report is written next to the current
directory as <domain>_security_report.pdf.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(reportInput)
		if err != nil {
			return fmt.Errorf("read scan result: %w", err)
		}

		var result scanner.ScanResult
		if err := json.Unmarshal(data, &result); err != nil {
			return fmt.Errorf("parse scan result: %w", err)
		}
		if result.Domain == "" {
			return fmt.Errorf("scan result has no domain")
		}

		pdfBytes, err := report.Render(&result)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		output := reportOutput
		if output == "" {
			output = strings.ReplaceAll(result.Domain, ".", "_") + "_security_report.pdf"
		}
		if err := os.WriteFile(output, pdfBytes, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		fmt.Println(colorSuccess("Report written."))
		fmt.Printf("%s %s\n", colorInfo("Output:"), output)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "results.json", "path to a scan result JSON file")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "path for the PDF report")
	_ = reportCmd.MarkFlagRequired("input")
}

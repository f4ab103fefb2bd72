package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

var (
	scanChecks     []string
	scanJSONOutput bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <domain>",
	Short: "Run passive security checks against a domain",
	Long: `Scan a domain for common security weaknesses.

This command will:
- Inspect the HTTPS certificate (validity, expiry, cipher)
- Probe a small set of well-known TCP ports
- Enumerate common subdomains via DNS
- Inspect security-related HTTP response headers

All checks are safe, read-only network operations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain := strings.TrimSpace(args[0])

		kinds, err := scanner.ParseKinds(scanChecks)
		if err != nil {
			return err
		}

		sc := scanner.New(cliConfig.Scan.ScannerConfig(logger.Desugar()))

		result, err := sc.Scan(cmd.Context(), domain, kinds)
		if err != nil {
			if errors.Is(err, scanner.ErrEmptyDomain) {
				return fmt.Errorf("a domain to scan is required")
			}
			return err
		}

		if scanJSONOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printScanResult(result)
		return nil
	},
}

func printScanResult(result *scanner.ScanResult) {
	fmt.Printf("%s %s\n", colorInfo("Domain:"), result.Domain)
	fmt.Printf("%s %s\n\n", colorInfo("Scanned:"), result.Timestamp.Format("2006-01-02 15:04:05 MST"))

	for _, kind := range scanner.AllKinds {
		findings := result.Section(kind)
		if len(findings) == 0 {
			continue
		}
		fmt.Println(colorInfo(sectionHeading(kind)))
		for _, f := range findings {
			fmt.Printf("  [%s] %s\n", formatStatusWithColor(f.Status), f.Name)
			if f.Description != "" {
				fmt.Printf("      %s\n", f.Description)
			}
			if f.Details != "" {
				fmt.Printf("      %s\n", f.Details)
			}
			if f.Status != scanner.StatusPass && f.Mitigation != "" {
				fmt.Printf("      %s %s\n", colorWarn("Fix:"), f.Mitigation)
			}
		}
		fmt.Println()
	}

	summary := scanner.Summarize(result.Flatten())
	fmt.Printf("%s %s passed, %s warnings, %s failed\n",
		colorInfo("Summary:"),
		colorSuccess(fmt.Sprintf("%d", summary.Pass)),
		colorWarn(fmt.Sprintf("%d", summary.Warning)),
		colorError(fmt.Sprintf("%d", summary.Fail)))
	fmt.Printf("%s %s\n", colorInfo("Score:"), formatScore(summary.Score))
}

func sectionHeading(kind scanner.Kind) string {
	switch kind {
	case scanner.KindSSL:
		return "SSL Certificate"
	case scanner.KindPorts:
		return "Open Ports"
	case scanner.KindSubdomains:
		return "Subdomains"
	case scanner.KindHeaders:
		return "Security Headers"
	default:
		return string(kind)
	}
}

func formatScore(score int) string {
	text := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 80:
		return colorSuccess(text)
	case score >= 50:
		return colorWarn(text)
	default:
		return colorError(text)
	}
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanChecks, "checks", nil, "checks to run (ssl, ports, subdomains, headers); all when empty")
	scanCmd.Flags().BoolVar(&scanJSONOutput, "json", false, "emit the raw scan result as JSON")
}

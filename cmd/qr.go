package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huyng-sec/cyberhealth/internal/qr"
)

var qrJSONOutput bool

var qrCmd = &cobra.Command{
	Use:   "qr <content>",
	Short: "Analyze decoded QR code content for payment fraud indicators",
	Long: `Analyze the decoded text content of a QR code.

Supports UPI payment intents (upi://pay?...) and plain URLs. The
content is matched against known fraud indicators and given a risk
score; no network requests are made.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analysis := qr.Analyze(args[0])

		if qrJSONOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		}

		fmt.Printf("%s %s\n", colorInfo("Type:"), analysis.PaymentType)
		if analysis.UPIID != "" {
			fmt.Printf("%s %s\n", colorInfo("UPI ID:"), analysis.UPIID)
		}
		if analysis.MerchantName != "" {
			fmt.Printf("%s %s\n", colorInfo("Merchant:"), analysis.MerchantName)
		}
		if analysis.PaymentURL != "" {
			fmt.Printf("%s %s\n", colorInfo("URL:"), analysis.PaymentURL)
		}
		fmt.Printf("%s %s (%d/100)\n", colorInfo("Risk:"), formatRiskLevel(analysis.RiskLevel), analysis.RiskScore)
		for _, flag := range analysis.Flags {
			fmt.Printf("  - %s\n", flag)
		}
		return nil
	},
}

func formatRiskLevel(level string) string {
	switch level {
	case qr.RiskSafe:
		return colorSuccess(level)
	case qr.RiskWarning:
		return colorWarn(level)
	default:
		return colorError(level)
	}
}

func init() {
	qrCmd.Flags().BoolVar(&qrJSONOutput, "json", false, "emit the analysis as JSON")
}

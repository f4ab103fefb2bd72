// Package qr classifies decoded QR payment content for fraud indicators.
// It is a pure string-pattern heuristic: image decoding happens upstream and
// the analyzer only sees the decoded payload.
package qr

import (
	"regexp"
	"strings"
)

// Flag is one observation about the analyzed content.
type Flag struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "info", "warning", "critical"
}

// Analysis is the classification result for one payload.
type Analysis struct {
	PaymentType  string `json:"paymentType"`
	UPIID        string `json:"upiId,omitempty"`
	MerchantName string `json:"merchantName,omitempty"`
	PaymentURL   string `json:"paymentUrl,omitempty"`
	RiskLevel    string `json:"riskLevel"` // "safe", "warning", "suspicious"
	RiskScore    int    `json:"riskScore"` // 0-100
	Flags        []Flag `json:"flags"`
}

// Risk levels reported in Analysis.RiskLevel.
const (
	RiskSafe       = "safe"
	RiskWarning    = "warning"
	RiskSuspicious = "suspicious"
)

// suspiciousDomains lists URL substrings commonly seen in payment phishing.
var suspiciousDomains = []string{
	"bit.ly", "tinyurl", "short.link", "goo.gl",
	"pay-verify", "confirm-payment", "verify-account",
	"secure-bank", "update-billing", "verify-identity",
}

var (
	upiPattern          = regexp.MustCompile(`upi://pay\?pa=([^&]+)`)
	httpPattern         = regexp.MustCompile(`https?://[^\s]+`)
	merchantNamePattern = regexp.MustCompile(`&pn=([^&]+)`)
)

// Analyze classifies decoded QR content for payment safety.
func Analyze(content string) Analysis {
	analysis := Analysis{PaymentType: "Unknown"}
	score := 0

	upiMatch := upiPattern.FindStringSubmatch(content)
	if upiMatch != nil {
		analysis.PaymentType = "UPI"
		analysis.UPIID = upiMatch[1]
		score = 20

		if nameMatch := merchantNamePattern.FindStringSubmatch(content); nameMatch != nil {
			analysis.MerchantName = strings.ReplaceAll(nameMatch[1], "%20", " ")
			analysis.Flags = append(analysis.Flags, Flag{
				Category: "Merchant Verification",
				Message:  "Merchant name present: " + analysis.MerchantName,
				Severity: "info",
			})
		} else {
			score += 30
			analysis.Flags = append(analysis.Flags,
				Flag{
					Category: "Missing Information",
					Message:  "Merchant name not present in QR code",
					Severity: "warning",
				},
				Flag{
					Category: "Security Risk",
					Message:  "Cannot verify legitimate merchant from QR alone",
					Severity: "warning",
				})
		}
	}

	httpMatch := httpPattern.FindString(content)
	if httpMatch != "" {
		analysis.PaymentType = "URL-based Payment"
		analysis.PaymentURL = httpMatch
		score = 40

		urlLower := strings.ToLower(httpMatch)
		for _, suspicious := range suspiciousDomains {
			if strings.Contains(urlLower, suspicious) {
				score = 80
				analysis.Flags = append(analysis.Flags, Flag{
					Category: "Suspicious Domain",
					Message:  "URL contains potentially suspicious pattern: " + suspicious,
					Severity: "critical",
				})
				break
			}
		}

		if !strings.HasPrefix(httpMatch, "https://") {
			score += 20
			analysis.Flags = append(analysis.Flags, Flag{
				Category: "Security Warning",
				Message:  "Payment URL does not use HTTPS encryption",
				Severity: "critical",
			})
		}
	}

	if upiMatch == nil && httpMatch == "" {
		analysis.PaymentType = "Random Text/Unknown"
		score = 85
		analysis.Flags = append(analysis.Flags,
			Flag{
				Category: "Invalid Format",
				Message:  "QR code contains unrecognized payment format",
				Severity: "critical",
			},
			Flag{
				Category: "Security Risk",
				Message:  "Content does not match known payment system formats",
				Severity: "critical",
			})
	}

	switch {
	case score <= 30:
		analysis.RiskLevel = RiskSafe
		analysis.Flags = append([]Flag{{
			Category: "Payment Format",
			Message:  "Valid payment format detected with proper security indicators",
			Severity: "info",
		}}, analysis.Flags...)
	case score <= 60:
		analysis.RiskLevel = RiskWarning
		analysis.Flags = append([]Flag{{
			Category: "Caution Required",
			Message:  "Payment QR detected but additional verification recommended",
			Severity: "warning",
		}}, analysis.Flags...)
	default:
		analysis.RiskLevel = RiskSuspicious
	}

	if score > 100 {
		score = 100
	}
	analysis.RiskScore = score

	return analysis
}

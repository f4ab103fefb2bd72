// Package report renders a scan result into a PDF security report. The
// renderer is a pure function of the findings it receives: it recomputes the
// pass/warning/fail tally and score itself rather than trusting a
// precomputed value.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

var sectionTitles = map[scanner.Kind]string{
	scanner.KindSSL:        "SSL/TLS Certificate",
	scanner.KindPorts:      "Port Exposure",
	scanner.KindSubdomains: "Subdomain Discovery",
	scanner.KindHeaders:    "Security Headers",
}

// Render produces the PDF report for one scan result.
func Render(result *scanner.ScanResult) ([]byte, error) {
	if result == nil || result.Domain == "" {
		return nil, fmt.Errorf("render report: missing domain")
	}

	summary := scanner.Summarize(result.Flatten())

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title block
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(59, 130, 246)
	pdf.CellFormat(0, 12, "CYBER HEALTH CHECK", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(14, 165, 233)
	pdf.CellFormat(0, 8, "Security Assessment Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Report info
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Domain: %s", result.Domain), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Scan Date: %s", result.Timestamp.Format("2006-01-02 15:04:05")), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, "Assessment Type: Comprehensive Security Scan", "", 1, "", false, 0, "")
	pdf.Ln(4)

	writeScoreBlock(pdf, summary)
	writeSummaryBlock(pdf, summary)

	// Detailed findings per section
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Detailed Findings", "", 1, "", false, 0, "")
	pdf.Ln(1)

	for _, kind := range scanner.AllKinds {
		findings := result.Section(kind)
		if len(findings) == 0 {
			continue
		}
		writeSection(pdf, sectionTitles[kind], findings)
	}

	writeRecommendations(pdf, summary)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Ln(6)
	pdf.CellFormat(0, 5, fmt.Sprintf("Report generated on %s", time.Now().Format("2006-01-02 at 15:04:05")), "", 1, "", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeScoreBlock(pdf *gofpdf.Fpdf, summary scanner.ScoreSummary) {
	riskLevel, status := "High", "AT RISK"
	r, g, b := 239, 68, 68
	switch {
	case summary.Score >= 80:
		riskLevel, status = "Low", "SECURE"
		r, g, b = 16, 185, 129
	case summary.Score >= 50:
		riskLevel, status = "Medium", "CAUTION"
		r, g, b = 245, 158, 11
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Security Score", "", 1, "", false, 0, "")

	pdf.SetFillColor(r, g, b)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(60, 8, fmt.Sprintf("%d/100", summary.Score), "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, fmt.Sprintf("Risk: %s", riskLevel), "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, status, "1", 1, "C", true, 0, "")
	pdf.Ln(4)
}

func writeSummaryBlock(pdf *gofpdf.Fpdf, summary scanner.ScoreSummary) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Findings Summary", "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(228, 233, 247)
	pdf.CellFormat(60, 7, "Passed Checks", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Warning Checks", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, "Failed Checks", "1", 1, "C", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(16, 185, 129)
	pdf.CellFormat(60, 7, fmt.Sprintf("%d", summary.Pass), "1", 0, "C", true, 0, "")
	pdf.SetFillColor(245, 158, 11)
	pdf.CellFormat(60, 7, fmt.Sprintf("%d", summary.Warning), "1", 0, "C", true, 0, "")
	pdf.SetFillColor(239, 68, 68)
	pdf.CellFormat(60, 7, fmt.Sprintf("%d", summary.Fail), "1", 1, "C", true, 0, "")
	pdf.Ln(4)
}

func writeSection(pdf *gofpdf.Fpdf, title string, findings []scanner.Finding) {
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "", true, 0, "")
	pdf.Ln(1)

	for _, f := range findings {
		if pdf.GetY() > 265 {
			pdf.AddPage()
		}

		r, g, b := statusColor(f.Status)
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(r, g, b)
		pdf.CellFormat(22, 5, string(f.Status), "1", 0, "C", true, 0, "")
		pdf.CellFormat(0, 5, f.Name, "", 1, "", false, 0, "")

		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(0, 4, f.Description, "", "", false)
		if f.Details != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, "Details: "+f.Details, "", "", false)
		}
		if f.Mitigation != "" && f.Status != scanner.StatusPass {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, "Mitigation: "+f.Mitigation, "", "", false)
		}
		pdf.Ln(1)
	}
	pdf.Ln(2)
}

func statusColor(status scanner.Status) (int, int, int) {
	switch status {
	case scanner.StatusPass:
		return 212, 237, 218
	case scanner.StatusWarning:
		return 255, 243, 205
	case scanner.StatusInfo:
		return 224, 236, 255
	default:
		return 248, 215, 218
	}
}

func writeRecommendations(pdf *gofpdf.Fpdf, summary scanner.ScoreSummary) {
	if pdf.GetY() > 240 {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Recommendations", "", 1, "", false, 0, "")

	var recommendations []string
	if summary.Fail > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Address all %d failed checks immediately", summary.Fail))
	}
	if summary.Warning > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Review and resolve %d warning findings", summary.Warning))
	}
	if summary.Score < 80 {
		recommendations = append(recommendations, "Implement comprehensive security hardening measures")
	}
	recommendations = append(recommendations,
		"Keep security software and systems updated",
		"Monitor security headers and certificates regularly",
		"Conduct periodic security audits",
		"Implement proper access controls and authentication",
	)

	pdf.SetFont("Arial", "", 9)
	for _, rec := range recommendations {
		pdf.MultiCell(0, 5, "- "+rec, "", "", false)
	}
}

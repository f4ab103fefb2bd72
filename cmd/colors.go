package cmd

import (
	"github.com/fatih/color"

	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatStatusWithColor(status scanner.Status) string {
	switch status {
	case scanner.StatusPass:
		return colorSuccess(string(status))
	case scanner.StatusWarning:
		return colorWarn(string(status))
	case scanner.StatusFail:
		return colorError(string(status))
	default:
		return colorInfo(string(status))
	}
}

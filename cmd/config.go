package cmd

import (
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

const (
	defaultTLSTimeoutSecs  = 5
	defaultPortTimeoutSecs = 1
	defaultDNSTimeoutSecs  = 2
	defaultHTTPTimeoutSecs = 10
	defaultConcurrency     = 20
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Scan  ScanRuntimeConfig
	Serve ServeRuntimeConfig
}

// ScanRuntimeConfig consolidates probe settings for scan-driven commands.
type ScanRuntimeConfig struct {
	TLSTimeoutSecs  int
	PortTimeoutSecs int
	DNSTimeoutSecs  int
	HTTPTimeoutSecs int
	Concurrency     int
	ProbeRate       int
}

// ServeRuntimeConfig groups API server options sourced from config.
type ServeRuntimeConfig struct {
	Addr        string
	CORSOrigins []string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Scan: ScanRuntimeConfig{
			TLSTimeoutSecs:  defaultTLSTimeoutSecs,
			PortTimeoutSecs: defaultPortTimeoutSecs,
			DNSTimeoutSecs:  defaultDNSTimeoutSecs,
			HTTPTimeoutSecs: defaultHTTPTimeoutSecs,
			Concurrency:     defaultConcurrency,
			ProbeRate:       0,
		},
		Serve: ServeRuntimeConfig{
			Addr: "127.0.0.1:8000",
		},
	}
}

// applyConfigDefaults merges config file values into the runtime config.
// Flags explicitly set by the user still win at the command level.
func applyConfigDefaults() {
	if viper.IsSet("scan.tls_timeout_secs") {
		cliConfig.Scan.TLSTimeoutSecs = viper.GetInt("scan.tls_timeout_secs")
	}
	if viper.IsSet("scan.port_timeout_secs") {
		cliConfig.Scan.PortTimeoutSecs = viper.GetInt("scan.port_timeout_secs")
	}
	if viper.IsSet("scan.dns_timeout_secs") {
		cliConfig.Scan.DNSTimeoutSecs = viper.GetInt("scan.dns_timeout_secs")
	}
	if viper.IsSet("scan.http_timeout_secs") {
		cliConfig.Scan.HTTPTimeoutSecs = viper.GetInt("scan.http_timeout_secs")
	}
	if viper.IsSet("scan.concurrency") {
		cliConfig.Scan.Concurrency = viper.GetInt("scan.concurrency")
	}
	if viper.IsSet("scan.probe_rate") {
		cliConfig.Scan.ProbeRate = viper.GetInt("scan.probe_rate")
	}
	if viper.IsSet("serve.addr") {
		cliConfig.Serve.Addr = viper.GetString("serve.addr")
	}
	if viper.IsSet("serve.cors_origins") {
		cliConfig.Serve.CORSOrigins = viper.GetStringSlice("serve.cors_origins")
	}
}

// ScannerConfig converts the runtime config into scanner construction options.
func (c ScanRuntimeConfig) ScannerConfig(l *zap.Logger) scanner.Config {
	return scanner.Config{
		TLSTimeout:  time.Duration(c.TLSTimeoutSecs) * time.Second,
		PortTimeout: time.Duration(c.PortTimeoutSecs) * time.Second,
		DNSTimeout:  time.Duration(c.DNSTimeoutSecs) * time.Second,
		HTTPTimeout: time.Duration(c.HTTPTimeoutSecs) * time.Second,
		Concurrency: c.Concurrency,
		ProbeRate:   c.ProbeRate,
		Logger:      l,
	}
}

package scanner

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

const subdomainsLocation = "DNS Resolution"

// commonSubdomains is the fixed label catalog probed against the target
// domain. Loaded once, never mutated.
var commonSubdomains = []string{
	"www", "mail", "ftp", "localhost", "webmail", "smtp", "pop", "ns", "webdisk",
	"ns1", "ns2", "ns3", "ns4", "ns5", "ns0", "m", "mail2", "test",
	"portal", "admin", "api", "dev", "staging", "beta", "demo", "app", "apps",
	"blog", "shop", "forum", "support", "help", "docs", "static", "media",
	"images", "cdn", "download", "downloads", "secure", "ssl", "vpn", "backup",
	"server", "services", "status", "stats", "analytics", "monitoring", "logs",
	"git", "github", "gitlab", "jenkins", "ci", "build", "deploy",
}

// devMarkers flag names that look like non-production environments.
var devMarkers = []string{"dev", "staging", "test", "beta"}

// SubdomainScanner resolves the common-subdomain catalog against one domain.
// Resolution success (any address) counts as found; failure or timeout counts
// as not found. Neither outcome is an error.
type SubdomainScanner struct {
	Timeout     time.Duration
	Concurrency int
	Rate        int // lookups per second, 0 = unpaced

	// Lookup overrides the DNS resolver, used by tests.
	Lookup func(ctx context.Context, host string) ([]string, error)
}

// Scan fans out one DNS lookup per catalog label, waits for all to settle,
// then applies the judgment policy.
func (s *SubdomainScanner) Scan(ctx context.Context, domain string) []Finding {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}

	lookup := s.Lookup
	if lookup == nil {
		resolver := &net.Resolver{PreferGo: true}
		lookup = resolver.LookupHost
	}

	resolved := make([]bool, len(commonSubdomains))
	runner := &probeRunner{Concurrency: s.Concurrency, Rate: s.Rate, Timeout: timeout}
	runner.run(ctx, len(commonSubdomains), func(probeCtx context.Context, i int) {
		addrs, err := lookup(probeCtx, commonSubdomains[i]+"."+domain)
		if err == nil && len(addrs) > 0 {
			resolved[i] = true
		}
	})

	var found []string
	for i, ok := range resolved {
		if ok {
			found = append(found, commonSubdomains[i]+"."+domain)
		}
	}

	return evaluateSubdomains(domain, found)
}

// evaluateSubdomains applies the post-hoc subdomain policy. The enumeration
// judgment and the dev-exposure judgment are independent: a discovery set of
// only baseline names that still match a dev marker produces both findings.
func evaluateSubdomains(domain string, found []string) []Finding {
	if len(found) == 0 {
		return []Finding{{
			Name:        "Subdomain Enumeration",
			Status:      StatusPass,
			Location:    subdomainsLocation,
			Description: "No common subdomains found",
		}}
	}

	baseline := map[string]bool{
		"www." + domain:  true,
		"mail." + domain: true,
		"ftp." + domain:  true,
	}

	status := StatusPass
	for _, name := range found {
		if !baseline[name] {
			status = StatusWarning
			break
		}
	}

	listed := found
	suffix := ""
	if len(listed) > 5 {
		listed = listed[:5]
		suffix = "..."
	}

	findings := []Finding{{
		Name:        "Subdomain Enumeration",
		Status:      status,
		Location:    subdomainsLocation,
		Description: fmt.Sprintf("Found %d accessible subdomain(s)", len(found)),
		Risk:        "Discoverable subdomains reveal infrastructure an attacker can enumerate.",
		Mitigation:  "Remove DNS records for hosts that do not need to be public.",
		Details:     fmt.Sprintf("Subdomains: %s%s", strings.Join(listed, ", "), suffix),
	}}

	var devNames []string
	for _, name := range found {
		for _, marker := range devMarkers {
			if strings.Contains(name, marker) {
				devNames = append(devNames, name)
				break
			}
		}
	}
	if len(devNames) > 0 {
		findings = append(findings, Finding{
			Name:        "Development Environments",
			Status:      StatusWarning,
			Location:    subdomainsLocation,
			Description: "Development/staging environments may be exposed",
			Risk:        "Non-production environments often run weaker configurations and stale code.",
			Mitigation:  "Restrict development and staging hosts to internal networks or VPN access.",
			Details:     fmt.Sprintf("Found: %s", strings.Join(devNames, ", ")),
		})
	}

	return findings
}

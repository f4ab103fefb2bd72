package scanner

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"
)

const portsLocation = "TCP Connect"

// commonPorts is the fixed probe catalog. Loaded once, never mutated, safe to
// share across concurrent probes.
var commonPorts = []struct {
	Port    int
	Service string
}{
	{21, "FTP"},
	{22, "SSH"},
	{25, "SMTP"},
	{53, "DNS"},
	{80, "HTTP"},
	{110, "POP3"},
	{143, "IMAP"},
	{443, "HTTPS"},
	{465, "SMTPS"},
	{587, "SMTP"},
	{993, "IMAPS"},
	{995, "POP3S"},
	{3306, "MySQL"},
	{5432, "PostgreSQL"},
	{5984, "CouchDB"},
	{6379, "Redis"},
	{27017, "MongoDB"},
	{8080, "HTTP-Alt"},
	{8443, "HTTPS-Alt"},
}

func serviceName(port int) string {
	for _, p := range commonPorts {
		if p.Port == port {
			return p.Service
		}
	}
	return fmt.Sprintf("Port %d", port)
}

// PortScanner probes the common-port catalog with one connect attempt per
// port. A successful connect counts the port open; refusal, timeout, or any
// OS-level error counts it closed. Neither outcome is an error.
type PortScanner struct {
	Timeout     time.Duration
	Concurrency int
	Rate        int // probes per second, 0 = unpaced

	// Dial overrides the TCP dialer, used by tests.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Scan fans out one probe per catalog port, waits for all to settle, then
// applies the judgment policy in fixed order.
func (p *PortScanner) Scan(ctx context.Context, domain string) []Finding {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 1 * time.Second
	}

	dial := p.Dial
	if dial == nil {
		dialer := &net.Dialer{}
		dial = dialer.DialContext
	}

	open := make([]bool, len(commonPorts))
	runner := &probeRunner{Concurrency: p.Concurrency, Rate: p.Rate, Timeout: timeout}
	runner.run(ctx, len(commonPorts), func(probeCtx context.Context, i int) {
		addr := net.JoinHostPort(domain, fmt.Sprintf("%d", commonPorts[i].Port))
		conn, err := dial(probeCtx, "tcp", addr)
		if err != nil {
			return
		}
		open[i] = true
		conn.Close()
	})

	var openPorts []int
	for i, isOpen := range open {
		if isOpen {
			openPorts = append(openPorts, commonPorts[i].Port)
		}
	}

	return evaluatePorts(openPorts)
}

// evaluatePorts applies the post-hoc port policy. The three judgments are
// independent and may all fire in the same scan.
func evaluatePorts(openPorts []int) []Finding {
	if len(openPorts) == 0 {
		return []Finding{{
			Name:        "Port Exposure",
			Status:      StatusPass,
			Location:    portsLocation,
			Description: "No common ports exposed",
		}}
	}

	sort.Ints(openPorts)

	var findings []Finding
	var unexpected []int
	port80, port443 := false, false
	for _, port := range openPorts {
		switch port {
		case 80:
			port80 = true
		case 443:
			port443 = true
		default:
			unexpected = append(unexpected, port)
		}
	}

	if len(unexpected) > 0 {
		numbers := make([]string, 0, len(unexpected))
		names := make([]string, 0, len(unexpected))
		for _, port := range unexpected {
			numbers = append(numbers, fmt.Sprintf("%d", port))
			names = append(names, serviceName(port))
		}
		findings = append(findings, Finding{
			Name:        "Exposed Services",
			Status:      StatusWarning,
			Location:    portsLocation,
			Description: "Unexpected open ports detected",
			Risk:        "Every reachable service widens the attack surface of the host.",
			Mitigation:  "Close unused ports or restrict them to trusted networks with a firewall.",
			Details:     fmt.Sprintf("Ports: %s (%s)", strings.Join(numbers, ", "), strings.Join(names, ", ")),
		})
	}

	if port80 && !port443 {
		findings = append(findings, Finding{
			Name:        "HTTPS Support",
			Status:      StatusWarning,
			Location:    portsLocation,
			Description: "HTTP available but HTTPS not detected",
			Risk:        "Traffic served over plain HTTP can be read and altered in transit.",
			Mitigation:  "Enable HTTPS on port 443 and redirect HTTP traffic to it.",
		})
	} else if port443 {
		findings = append(findings, Finding{
			Name:        "HTTPS Support",
			Status:      StatusPass,
			Location:    portsLocation,
			Description: "HTTPS port is open and accessible",
		})
	}

	return findings
}

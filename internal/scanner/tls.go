package scanner

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

const tlsLocation = "TLS Handshake"

// TLSProbe inspects the certificate presented on a domain's HTTPS port with
// a single bounded handshake attempt. Every failure mode is converted to a
// fail finding; Scan never returns an error and never panics.
type TLSProbe struct {
	Timeout time.Duration
	Port    int         // defaults to 443
	Config  *tls.Config // optional override, used by tests with fixture roots
	now     func() time.Time
}

func (p *TLSProbe) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

// Scan performs the TLS handshake and certificate inspection for a domain.
func (p *TLSProbe) Scan(ctx context.Context, domain string) []Finding {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	port := p.Port
	if port == 0 {
		port = 443
	}

	cfg := p.Config
	if cfg == nil {
		cfg = &tls.Config{}
	} else {
		cfg = cfg.Clone()
	}
	if cfg.ServerName == "" {
		host, _, err := net.SplitHostPort(domain)
		if err != nil {
			host = domain
		}
		cfg.ServerName = host
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config:    cfg,
	}

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(domain, fmt.Sprintf("%d", port)))
	if err != nil {
		return []Finding{classifyTLSError(err)}
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	return certFindings(state, p.clock())
}

// classifyTLSError normalizes a failed connection attempt into one finding.
func classifyTLSError(err error) Finding {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return Finding{
			Name:        "SSL Certificate Valid",
			Status:      StatusFail,
			Location:    tlsLocation,
			Description: "Failed to connect to HTTPS port (timeout)",
			Risk:        "The domain does not answer TLS handshakes within the allowed window.",
			Mitigation:  "Verify that port 443 is reachable and the TLS listener is healthy.",
		}
	}

	if isHandshakeError(err) {
		return Finding{
			Name:        "SSL Certificate Valid",
			Status:      StatusFail,
			Location:    tlsLocation,
			Description: "SSL certificate error",
			Risk:        "Clients cannot establish a trusted encrypted session with this domain.",
			Mitigation:  "Install a valid certificate chain signed by a trusted authority.",
			Details:     err.Error(),
		}
	}

	return Finding{
		Name:        "SSL Certificate Valid",
		Status:      StatusFail,
		Location:    tlsLocation,
		Description: fmt.Sprintf("Failed to verify SSL certificate: %v", err),
		Mitigation:  "Confirm the domain serves HTTPS and retry the scan.",
	}
}

// isHandshakeError reports whether the error came from the TLS or
// certificate-validation layer rather than plain connectivity.
func isHandshakeError(err error) bool {
	var (
		recordErr  tls.RecordHeaderError
		verifyErr  *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	if errors.As(err, &recordErr) || errors.As(err, &verifyErr) ||
		errors.As(err, &authErr) || errors.As(err, &hostErr) || errors.As(err, &invalidErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:")
}

// certFindings converts a completed handshake into the presence, expiry and
// cipher findings.
func certFindings(state tls.ConnectionState, now time.Time) []Finding {
	if len(state.PeerCertificates) == 0 {
		return []Finding{{
			Name:        "SSL Certificate Valid",
			Status:      StatusFail,
			Location:    tlsLocation,
			Description: "No valid SSL certificate found",
			Mitigation:  "Install a certificate for this domain.",
		}}
	}

	cert := state.PeerCertificates[0]
	findings := []Finding{{
		Name:        "SSL Certificate Valid",
		Status:      StatusPass,
		Location:    tlsLocation,
		Description: "Valid SSL/TLS certificate detected",
		Details:     fmt.Sprintf("Issuer: %s", cert.Issuer.String()),
	}}

	findings = append(findings, expiryFinding(cert.NotAfter, now))

	findings = append(findings, Finding{
		Name:        "SSL/TLS Cipher Strength",
		Status:      StatusPass,
		Location:    tlsLocation,
		Description: "Strong encryption cipher detected",
		Details:     fmt.Sprintf("Cipher: %s", tls.CipherSuiteName(state.CipherSuite)),
	})

	return findings
}

// expiryFinding classifies certificate lifetime remaining. The 30-day
// boundary is inclusive on the pass side: exactly 30 days left still passes.
func expiryFinding(notAfter, now time.Time) Finding {
	remaining := notAfter.Sub(now)
	days := int(remaining.Hours() / 24)

	switch {
	case remaining <= 0:
		return Finding{
			Name:        "Certificate Expiration",
			Status:      StatusFail,
			Location:    tlsLocation,
			Description: "Certificate has expired",
			Risk:        "Browsers reject expired certificates and block access to the site.",
			Mitigation:  "Renew the certificate immediately.",
			Details:     fmt.Sprintf("Expires in %d days", days),
		}
	case days >= 30:
		return Finding{
			Name:        "Certificate Expiration",
			Status:      StatusPass,
			Location:    tlsLocation,
			Description: "Certificate expiration is not imminent",
			Details:     fmt.Sprintf("Expires in %d days", days),
		}
	default:
		return Finding{
			Name:        "Certificate Expiration",
			Status:      StatusWarning,
			Location:    tlsLocation,
			Description: "Certificate will expire soon",
			Risk:        "An unrenewed certificate will cause an outage when it lapses.",
			Mitigation:  "Schedule certificate renewal before the expiry date.",
			Details:     fmt.Sprintf("Expires in %d days", days),
		}
	}
}

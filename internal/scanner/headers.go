package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const headersLocation = "HTTP Response"

// headerSpec carries the knowledge-table entry for one tracked security
// header: what it protects against and how to add it.
type headerSpec struct {
	Name       string
	Purpose    string
	Risk       string
	Mitigation string
}

// securityHeaders is the fixed header catalog, in emission order.
var securityHeaders = []headerSpec{
	{
		Name:       "Strict-Transport-Security",
		Purpose:    "HTTPS enforcement",
		Risk:       "Without HSTS, browsers may be downgraded to plain HTTP by an active attacker.",
		Mitigation: "Add 'Strict-Transport-Security: max-age=31536000; includeSubDomains'.",
	},
	{
		Name:       "X-Content-Type-Options",
		Purpose:    "MIME type sniffing prevention",
		Risk:       "Browsers may MIME-sniff responses and execute content as an unintended type.",
		Mitigation: "Add 'X-Content-Type-Options: nosniff'.",
	},
	{
		Name:       "X-Frame-Options",
		Purpose:    "Clickjacking prevention",
		Risk:       "Pages can be framed by hostile sites and used for clickjacking.",
		Mitigation: "Add 'X-Frame-Options: DENY' or 'SAMEORIGIN'.",
	},
	{
		Name:       "Content-Security-Policy",
		Purpose:    "XSS protection",
		Risk:       "Injected scripts run unrestricted without a content security policy.",
		Mitigation: "Implement a strict Content-Security-Policy appropriate for the application.",
	},
	{
		Name:       "Referrer-Policy",
		Purpose:    "Referrer control",
		Risk:       "Full URLs, possibly with sensitive parameters, leak to third parties via the Referer header.",
		Mitigation: "Add 'Referrer-Policy: strict-origin-when-cross-origin' or 'no-referrer'.",
	},
	{
		Name:       "Permissions-Policy",
		Purpose:    "Feature permissions control",
		Risk:       "Embedded content may access powerful browser features (camera, geolocation) unchecked.",
		Mitigation: "Add 'Permissions-Policy' restricting unused browser features.",
	},
}

// HeaderScanner fetches https://{domain} once, following redirects, and
// inspects the response for the tracked security headers. This scheduler is
// a single bounded HTTP call, not a fan-out.
type HeaderScanner struct {
	Timeout time.Duration

	// Client overrides the HTTP client, used by tests.
	Client *http.Client
}

// Scan performs the header inspection for a domain.
func (h *HeaderScanner) Scan(ctx context.Context, domain string) []Finding {
	timeout := h.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, "https://"+domain, nil)
	if err != nil {
		return []Finding{classifyHeaderFetchError(err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return []Finding{classifyHeaderFetchError(err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return evaluateHeaders(resp.StatusCode, resp.Header)
}

// classifyHeaderFetchError normalizes a failed GET into one finding. A TLS
// failure here is only a secondary signal (the TLS probe owns certificate
// judgment), so it downgrades to a warning.
func classifyHeaderFetchError(err error) Finding {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return Finding{
			Name:        "Security Headers",
			Status:      StatusFail,
			Location:    headersLocation,
			Description: "Request timeout while checking headers",
			Mitigation:  "Verify the site responds to HTTPS requests within the allowed window.",
		}
	}

	if isHandshakeError(err) {
		return Finding{
			Name:        "Security Headers",
			Status:      StatusWarning,
			Location:    headersLocation,
			Description: "Failed to check headers due to SSL error",
			Details:     err.Error(),
		}
	}

	return Finding{
		Name:        "Security Headers",
		Status:      StatusWarning,
		Location:    headersLocation,
		Description: fmt.Sprintf("Failed to check security headers: %v", err),
	}
}

// evaluateHeaders emits one finding per catalog header plus the
// accessibility finding, in fixed order.
func evaluateHeaders(statusCode int, headers http.Header) []Finding {
	var findings []Finding

	for _, spec := range securityHeaders {
		value := headers.Get(spec.Name)
		if value != "" {
			findings = append(findings, Finding{
				Name:        spec.Name,
				Status:      StatusPass,
				Location:    headersLocation,
				Description: fmt.Sprintf("%s header present (%s)", spec.Name, spec.Purpose),
				Details:     value,
			})
			continue
		}
		findings = append(findings, Finding{
			Name:        spec.Name,
			Status:      StatusFail,
			Location:    headersLocation,
			Description: fmt.Sprintf("Missing %s header (%s)", spec.Name, spec.Purpose),
			Risk:        spec.Risk,
			Mitigation:  spec.Mitigation,
		})
	}

	// X-XSS-Protection is deprecated; a non-zero value can itself introduce
	// vulnerabilities in older browsers.
	if xss := headers.Get("X-XSS-Protection"); xss != "" && xss != "0" {
		findings = append(findings, Finding{
			Name:        "X-XSS-Protection",
			Status:      StatusWarning,
			Location:    headersLocation,
			Description: "Deprecated X-XSS-Protection header is enabled",
			Risk:        "The XSS auditor it enables has known filter-abuse issues.",
			Mitigation:  "Set 'X-XSS-Protection: 0' or remove the header; rely on Content-Security-Policy.",
			Details:     xss,
		})
	}

	switch {
	case statusCode == http.StatusOK:
		findings = append(findings, Finding{
			Name:        "Website Accessibility",
			Status:      StatusPass,
			Location:    headersLocation,
			Description: "Website is accessible and responding",
			Details:     fmt.Sprintf("HTTP %d", statusCode),
		})
	case statusCode >= 300 && statusCode < 400:
		findings = append(findings, Finding{
			Name:        "Website Redirects",
			Status:      StatusWarning,
			Location:    headersLocation,
			Description: "Request ended on a redirect response",
			Mitigation:  "Check the redirect chain terminates at an accessible page.",
			Details:     fmt.Sprintf("HTTP %d", statusCode),
		})
	default:
		findings = append(findings, Finding{
			Name:        "Website Accessibility",
			Status:      StatusFail,
			Location:    headersLocation,
			Description: "Unexpected HTTP status code",
			Mitigation:  "Investigate why the site does not answer with a success status.",
			Details:     fmt.Sprintf("HTTP %d", statusCode),
		})
	}

	return findings
}

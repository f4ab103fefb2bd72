package scanner

import (
	"math"
	"time"
)

// Status classifies a single finding. Fail and warning both mean "attention
// needed"; pass means verified-safe. Info is reserved for narrative lines and
// never enters the pass/warning/fail tally.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
	StatusInfo    Status = "info"
)

// Kind names one of the four scan sections.
type Kind string

const (
	KindSSL        Kind = "ssl"
	KindPorts      Kind = "ports"
	KindSubdomains Kind = "subdomains"
	KindHeaders    Kind = "headers"
)

// AllKinds lists every scan kind in canonical section order.
var AllKinds = []Kind{KindSSL, KindPorts, KindSubdomains, KindHeaders}

// Finding is one normalized security observation. Name, Status and
// Description are always non-empty; the remaining fields default to "" so
// serialization stays uniform.
type Finding struct {
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
	Risk        string `json:"risk,omitempty"`
	Mitigation  string `json:"mitigation,omitempty"`
	Details     string `json:"details,omitempty"`
}

// ScanResult is one domain's full assessment. Only sections that were
// requested are populated; the rest serialize as absent. Results are built
// fresh per request and never mutated after Scan returns.
type ScanResult struct {
	Domain     string    `json:"domain"`
	Timestamp  time.Time `json:"timestamp"`
	SSL        []Finding `json:"ssl,omitempty"`
	Ports      []Finding `json:"ports,omitempty"`
	Subdomains []Finding `json:"subdomains,omitempty"`
	Headers    []Finding `json:"headers,omitempty"`
}

// Section returns the findings recorded for one scan kind.
func (r *ScanResult) Section(kind Kind) []Finding {
	switch kind {
	case KindSSL:
		return r.SSL
	case KindPorts:
		return r.Ports
	case KindSubdomains:
		return r.Subdomains
	case KindHeaders:
		return r.Headers
	}
	return nil
}

func (r *ScanResult) setSection(kind Kind, findings []Finding) {
	switch kind {
	case KindSSL:
		r.SSL = findings
	case KindPorts:
		r.Ports = findings
	case KindSubdomains:
		r.Subdomains = findings
	case KindHeaders:
		r.Headers = findings
	}
}

// Flatten concatenates all populated sections in canonical order
// (ssl, ports, subdomains, headers).
func (r *ScanResult) Flatten() []Finding {
	var all []Finding
	for _, kind := range AllKinds {
		all = append(all, r.Section(kind)...)
	}
	return all
}

// ScoreSummary is a pure projection of a finding collection. It is
// recomputed on demand and never stored alongside scan results.
type ScoreSummary struct {
	Pass    int `json:"pass"`
	Warning int `json:"warning"`
	Fail    int `json:"fail"`
	Score   int `json:"score"`
}

// Summarize tallies pass/warning/fail counts and derives the 0-100 score as
// the rounded pass ratio. Info findings are excluded from the tally.
func Summarize(findings []Finding) ScoreSummary {
	summary := ScoreSummary{}
	for _, f := range findings {
		switch f.Status {
		case StatusPass:
			summary.Pass++
		case StatusWarning:
			summary.Warning++
		case StatusFail:
			summary.Fail++
		}
	}

	total := summary.Pass + summary.Warning + summary.Fail
	if total < 1 {
		total = 1
	}
	summary.Score = int(math.Round(100 * float64(summary.Pass) / float64(total)))
	return summary
}

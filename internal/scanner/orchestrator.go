package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Boundary errors. Only a structurally unusable request reaches the caller
// as an error; every network-layer failure becomes a finding instead.
var (
	ErrEmptyDomain = errors.New("domain cannot be empty")
	ErrUnknownKind = errors.New("unknown scan kind")
)

// ParseKinds validates a caller-supplied list of scan kind names. An empty
// list selects all four kinds.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return append([]Kind(nil), AllKinds...), nil
	}

	seen := make(map[Kind]bool, len(names))
	var kinds []Kind
	for _, name := range names {
		kind := Kind(strings.ToLower(strings.TrimSpace(name)))
		switch kind {
		case KindSSL, KindPorts, KindSubdomains, KindHeaders:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// Config carries scanner construction options. Zero values select the
// documented per-probe defaults (5s TLS, 1s ports, 2s DNS, 10s HTTP).
type Config struct {
	TLSTimeout  time.Duration
	PortTimeout time.Duration
	DNSTimeout  time.Duration
	HTTPTimeout time.Duration
	Concurrency int // per-scheduler fan-out bound, 0 = unbounded
	ProbeRate   int // probes per second per scheduler, 0 = unpaced
	Logger      *zap.Logger
}

// Scanner orchestrates the four scan schedulers for one domain. Schedulers
// share no mutable state beyond the immutable domain string, so requested
// kinds run concurrently with each other.
type Scanner struct {
	tls        *TLSProbe
	ports      *PortScanner
	subdomains *SubdomainScanner
	headers    *HeaderScanner
	logger     *zap.Logger
}

// New builds a Scanner from config.
func New(cfg Config) *Scanner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		tls: &TLSProbe{Timeout: cfg.TLSTimeout},
		ports: &PortScanner{
			Timeout:     cfg.PortTimeout,
			Concurrency: cfg.Concurrency,
			Rate:        cfg.ProbeRate,
		},
		subdomains: &SubdomainScanner{
			Timeout:     cfg.DNSTimeout,
			Concurrency: cfg.Concurrency,
			Rate:        cfg.ProbeRate,
		},
		headers: &HeaderScanner{Timeout: cfg.HTTPTimeout},
		logger:  logger,
	}
}

// scheduler is the contract every scan section implements: it converts all
// of its own failures into findings and never returns an error.
type scheduler interface {
	Scan(ctx context.Context, domain string) []Finding
}

func (s *Scanner) schedulerFor(kind Kind) scheduler {
	switch kind {
	case KindSSL:
		return s.tls
	case KindPorts:
		return s.ports
	case KindSubdomains:
		return s.subdomains
	case KindHeaders:
		return s.headers
	}
	return nil
}

// Scan runs the requested scan kinds against one domain and assembles the
// result. A failure inside one scheduler never aborts the others; the
// orchestrator itself fails only on a structurally unusable domain.
func (s *Scanner) Scan(ctx context.Context, domain string, kinds []Kind) (*ScanResult, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, ErrEmptyDomain
	}
	if len(kinds) == 0 {
		kinds = AllKinds
	}

	result := &ScanResult{
		Domain:    domain,
		Timestamp: time.Now(),
	}

	start := time.Now()
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, kind := range kinds {
		sched := s.schedulerFor(kind)
		if sched == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}

		wg.Add(1)
		go func(kind Kind, sched scheduler) {
			defer wg.Done()
			findings := s.runScheduler(ctx, kind, sched, domain)
			mu.Lock()
			result.setSection(kind, findings)
			mu.Unlock()
		}(kind, sched)
	}
	wg.Wait()

	s.logger.Info("scan complete",
		zap.String("domain", domain),
		zap.Int("sections", len(kinds)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// runScheduler invokes one scheduler behind a recover boundary. A panic is a
// bug in the scheduler; it surfaces as a single section-level fail finding
// rather than aborting sibling schedulers.
func (s *Scanner) runScheduler(ctx context.Context, kind Kind, sched scheduler, domain string) (findings []Finding) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler panic",
				zap.String("section", string(kind)),
				zap.Any("panic", r),
			)
			findings = []Finding{{
				Name:        fmt.Sprintf("%s Scan", sectionTitle(kind)),
				Status:      StatusFail,
				Description: fmt.Sprintf("%s scan failed unexpectedly", sectionTitle(kind)),
				Details:     fmt.Sprint(r),
			}}
		}
	}()

	findings = sched.Scan(ctx, domain)
	if len(findings) == 0 {
		// Contract: every requested section yields at least one finding.
		findings = []Finding{{
			Name:        fmt.Sprintf("%s Scan", sectionTitle(kind)),
			Status:      StatusFail,
			Description: fmt.Sprintf("%s scan produced no results", sectionTitle(kind)),
		}}
	}
	return findings
}

func sectionTitle(kind Kind) string {
	switch kind {
	case KindSSL:
		return "SSL"
	case KindPorts:
		return "Port"
	case KindSubdomains:
		return "Subdomain"
	case KindHeaders:
		return "Header"
	}
	return string(kind)
}

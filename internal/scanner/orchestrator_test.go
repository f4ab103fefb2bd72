package scanner

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []Kind
		wantErr error
	}{
		{
			name:  "empty selects all kinds",
			input: nil,
			want:  []Kind{KindSSL, KindPorts, KindSubdomains, KindHeaders},
		},
		{
			name:  "explicit subset",
			input: []string{"ssl", "headers"},
			want:  []Kind{KindSSL, KindHeaders},
		},
		{
			name:  "names are case insensitive and trimmed",
			input: []string{" SSL ", "Ports"},
			want:  []Kind{KindSSL, KindPorts},
		},
		{
			name:  "duplicates collapse",
			input: []string{"ports", "ports", "ssl"},
			want:  []Kind{KindPorts, KindSSL},
		},
		{
			name:    "unknown kind is rejected",
			input:   []string{"ssl", "bogus"},
			wantErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKinds(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKinds(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanEmptyDomain(t *testing.T) {
	s := New(Config{})
	for _, domain := range []string{"", "   ", "\t"} {
		if _, err := s.Scan(context.Background(), domain, nil); !errors.Is(err, ErrEmptyDomain) {
			t.Errorf("Scan(%q) error = %v, want ErrEmptyDomain", domain, err)
		}
	}
}

func TestScanPopulatesOnlyRequestedSections(t *testing.T) {
	s := New(Config{PortTimeout: time.Second})
	s.ports.Dial = fakeDialer(nil, 0)

	result, err := s.Scan(context.Background(), "example.com", []Kind{KindPorts})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(result.Ports) == 0 {
		t.Error("ports section should be populated")
	}
	if result.SSL != nil || result.Subdomains != nil || result.Headers != nil {
		t.Errorf("unrequested sections should stay empty: %+v", result)
	}
	if result.Domain != "example.com" {
		t.Errorf("Domain = %q", result.Domain)
	}
	if result.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestScanHealthyDomainScoresFull(t *testing.T) {
	allHeaders := http.Header{}
	for _, spec := range securityHeaders {
		allHeaders.Set(spec.Name, "configured")
	}

	s := New(Config{Concurrency: 8})
	s.ports.Dial = fakeDialer(map[int]bool{80: true, 443: true}, 0)
	s.subdomains.Lookup = func(ctx context.Context, host string) ([]string, error) {
		return nil, errors.New("no such host")
	}
	s.headers.Client = cannedClient(http.StatusOK, allHeaders)

	result, err := s.Scan(context.Background(), "example.com", []Kind{KindPorts, KindSubdomains, KindHeaders})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// 80 alongside 443 is not an unexpected exposure; the section is a
	// single HTTPS pass.
	if len(result.Ports) != 1 || result.Ports[0].Name != "HTTPS Support" {
		t.Errorf("ports section = %+v, want single HTTPS Support pass", result.Ports)
	}
	if len(result.Headers) != 7 {
		t.Errorf("headers section has %d findings, want 7", len(result.Headers))
	}

	summary := Summarize(result.Flatten())
	if summary.Warning != 0 || summary.Fail != 0 {
		t.Fatalf("healthy domain produced warnings/fails: %+v", result)
	}
	if summary.Score != 100 {
		t.Errorf("Score = %d, want 100", summary.Score)
	}
}

type stubScheduler struct {
	findings []Finding
	panics   bool
}

func (s *stubScheduler) Scan(ctx context.Context, domain string) []Finding {
	if s.panics {
		panic("scheduler blew up")
	}
	return s.findings
}

func TestRunSchedulerRecoversPanic(t *testing.T) {
	s := New(Config{})
	findings := s.runScheduler(context.Background(), KindPorts, &stubScheduler{panics: true}, "example.com")

	if len(findings) != 1 {
		t.Fatalf("runScheduler returned %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Name != "Port Scan" || f.Status != StatusFail {
		t.Errorf("panic finding = %q/%q, want Port Scan fail", f.Name, f.Status)
	}
	if !strings.Contains(f.Details, "scheduler blew up") {
		t.Errorf("Details = %q, should carry the panic value", f.Details)
	}
}

func TestRunSchedulerRejectsEmptyResult(t *testing.T) {
	s := New(Config{})
	findings := s.runScheduler(context.Background(), KindSSL, &stubScheduler{}, "example.com")

	if len(findings) != 1 {
		t.Fatalf("runScheduler returned %d findings, want 1", len(findings))
	}
	if findings[0].Name != "SSL Scan" || findings[0].Status != StatusFail {
		t.Errorf("empty-result finding = %q/%q, want SSL Scan fail", findings[0].Name, findings[0].Status)
	}
}

func TestScanSchedulerPanicDoesNotAbortSiblings(t *testing.T) {
	s := New(Config{Concurrency: 8})
	s.ports.Dial = fakeDialer(nil, 0)

	// Force a panic inside the header scheduler while ports stay healthy.
	s.headers.Client = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		panic("injected failure")
	})}

	result, err := s.Scan(context.Background(), "example.com", []Kind{KindPorts, KindHeaders})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(result.Ports) != 1 || result.Ports[0].Status != StatusPass {
		t.Errorf("ports section = %+v, want healthy pass", result.Ports)
	}
	if len(result.Headers) != 1 || result.Headers[0].Status != StatusFail {
		t.Errorf("headers section = %+v, want single fail finding", result.Headers)
	}
	if result.Headers[0].Name != "Header Scan" {
		t.Errorf("fail finding name = %q", result.Headers[0].Name)
	}
}

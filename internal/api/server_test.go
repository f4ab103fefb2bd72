package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

// stubScanService returns a canned result without touching the network.
type stubScanService struct {
	lastDomain string
	lastKinds  []scanner.Kind
	err        error
}

func (s *stubScanService) Scan(ctx context.Context, domain string, kinds []scanner.Kind) (*scanner.ScanResult, error) {
	s.lastDomain = domain
	s.lastKinds = kinds
	if s.err != nil {
		return nil, s.err
	}
	if strings.TrimSpace(domain) == "" {
		return nil, scanner.ErrEmptyDomain
	}
	return &scanner.ScanResult{
		Domain:    domain,
		Timestamp: time.Now(),
		Ports: []scanner.Finding{{
			Name:        "Port Exposure",
			Status:      scanner.StatusPass,
			Description: "No common ports exposed",
		}},
	}, nil
}

func newTestServer(t *testing.T, stub *stubScanService) *Server {
	t.Helper()
	return NewServer(Config{
		Scanner: stub,
		RenderPDF: func(result *scanner.ScanResult) ([]byte, error) {
			return []byte("%PDF-1.4 fake"), nil
		},
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubScanService{})

	for _, path := range []string{"/health", "/api/health"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["status"] != "ok" {
			t.Errorf("status = %q, want ok", body["status"])
		}
	}
}

func TestHealthEndpointRejectsPost(t *testing.T) {
	srv := newTestServer(t, &stubScanService{})
	rec := doJSON(t, srv, http.MethodPost, "/health", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health = %d, want 405", rec.Code)
	}
}

func TestScanEndpoint(t *testing.T) {
	stub := &stubScanService{}
	srv := newTestServer(t, stub)

	rec := doJSON(t, srv, http.MethodPost, "/api/scan", ScanRequest{
		Domain: "example.com",
		Scans:  []string{"ports"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/scan = %d, body %s", rec.Code, rec.Body.String())
	}

	var result scanner.ScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Domain != "example.com" {
		t.Errorf("Domain = %q", result.Domain)
	}
	if len(stub.lastKinds) != 1 || stub.lastKinds[0] != scanner.KindPorts {
		t.Errorf("service received kinds %v, want [ports]", stub.lastKinds)
	}
}

func TestScanEndpointValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		raw      string
		wantCode int
	}{
		{name: "empty domain", body: ScanRequest{Domain: ""}, wantCode: http.StatusBadRequest},
		{name: "unknown scan kind", body: ScanRequest{Domain: "example.com", Scans: []string{"bogus"}}, wantCode: http.StatusBadRequest},
		{name: "malformed json", raw: "{not json", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &stubScanService{})

			var rec *httptest.ResponseRecorder
			if tt.raw != "" {
				req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(tt.raw))
				rec = httptest.NewRecorder()
				srv.ServeHTTP(rec, req)
			} else {
				rec = doJSON(t, srv, http.MethodPost, "/api/scan", tt.body)
			}

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestScanEndpointInternalErrorIsOpaque(t *testing.T) {
	stub := &stubScanService{err: errors.New("resolver exploded with secrets")}
	srv := newTestServer(t, stub)

	rec := doJSON(t, srv, http.MethodPost, "/api/scan", ScanRequest{Domain: "example.com"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secrets") {
		t.Errorf("internal error detail leaked to caller: %s", rec.Body.String())
	}
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubScanService{})

	result := scanner.ScanResult{
		Domain:    "scan.example.com",
		Timestamp: time.Now(),
		Ports:     []scanner.Finding{{Name: "Port Exposure", Status: scanner.StatusPass}},
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/report", result)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/report = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	want := "attachment; filename=scan_example_com_security_report.pdf"
	if cd := rec.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("Content-Disposition = %q, want %q", cd, want)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("response body is not a PDF")
	}
}

func TestReportEndpointValidation(t *testing.T) {
	srv := newTestServer(t, &stubScanService{})

	tests := []struct {
		name string
		body scanner.ScanResult
	}{
		{name: "missing domain", body: scanner.ScanResult{Timestamp: time.Now()}},
		{name: "missing timestamp", body: scanner.ScanResult{Domain: "example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/report", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestReportEndpointWithoutRenderer(t *testing.T) {
	srv := NewServer(Config{Scanner: &stubScanService{}})
	rec := doJSON(t, srv, http.MethodPost, "/api/report", scanner.ScanResult{
		Domain:    "example.com",
		Timestamp: time.Now(),
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestQRAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubScanService{})

	rec := doJSON(t, srv, http.MethodPost, "/api/qr/analyze", QRRequest{
		Content: "upi://pay?pa=shop@upi&pn=Corner%20Shop",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/qr/analyze = %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["paymentType"] != "UPI" {
		t.Errorf("paymentType = %v, want UPI", body["paymentType"])
	}
	if body["riskLevel"] != "safe" {
		t.Errorf("riskLevel = %v, want safe", body["riskLevel"])
	}
}

func TestQRAnalyzeEndpointRequiresContent(t *testing.T) {
	srv := newTestServer(t, &stubScanService{})
	rec := doJSON(t, srv, http.MethodPost, "/api/qr/analyze", QRRequest{Content: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	srv := newTestServer(t, &stubScanService{})
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}
}

func TestCORS(t *testing.T) {
	t.Run("default allows any origin", func(t *testing.T) {
		srv := newTestServer(t, &stubScanService{})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
	})

	t.Run("allowlist echoes matching origin", func(t *testing.T) {
		srv := NewServer(Config{
			Scanner:     &stubScanService{},
			CORSOrigins: []string{"https://dashboard.example"},
		})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://dashboard.example")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("allowlist rejects unknown origin", func(t *testing.T) {
		srv := NewServer(Config{
			Scanner:     &stubScanService{},
			CORSOrigins: []string{"https://dashboard.example"},
		})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		srv := newTestServer(t, &stubScanService{})
		req := httptest.NewRequest(http.MethodOptions, "/api/scan", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("OPTIONS = %d, want 204", rec.Code)
		}
	})
}

package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"rollerstone-site/internal/config"
	"rollerstone-site/internal/inquiry"
	"rollerstone-site/internal/pricing"
	"rollerstone-site/internal/server"
	"rollerstone-site/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ---- Mocks ----

type mockRepo struct {
	mu     sync.Mutex
	saved  []storage.Inquiry
	saveFn func(inq storage.Inquiry) (int64, error)
}

func (m *mockRepo) SaveInquiry(_ context.Context, inq storage.Inquiry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveFn != nil {
		return m.saveFn(inq)
	}
	m.saved = append(m.saved, inq)
	return int64(len(m.saved)), nil
}
func (m *mockRepo) GetInquiry(context.Context, int64) (*storage.Inquiry, error) {
	return nil, storage.ErrNotFound
}
func (m *mockRepo) ListInquiries(context.Context) ([]storage.Inquiry, error) { return nil, nil }
func (m *mockRepo) UpdateInquiryStatus(context.Context, int64, storage.InquiryStatus) error {
	return nil
}
func (m *mockRepo) GetInquiryStatistics(context.Context) (*storage.InquiryStatistics, error) {
	return &storage.InquiryStatistics{}, nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string, int64, time.Duration) (bool, error) {
	return false, nil
}

// ---- Test helpers ----

func makeDeps(opts ...func(*server.Dependencies)) *server.Dependencies {
	d := &server.Dependencies{
		Quoter: pricing.NewQuoter(pricing.NewDefaultPricing(), 64),
		Logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func withInquiries(repo inquiry.Repository, limiter inquiry.RateLimiter) func(*server.Dependencies) {
	return func(d *server.Dependencies) {
		cfg := config.InquiryConfig{RateLimit: 5, RateWindow: time.Hour}
		d.Inquiries = inquiry.NewService(repo, limiter, nil, d.Quoter, cfg, d.Logger)
	}
}

func setupApp(t *testing.T, deps *server.Dependencies) *fiber.App {
	t.Helper()
	srv, err := server.New(config.HTTPConfig{Addr: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second}, deps)
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	return srv.App()
}

func readBody(t *testing.T, body io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func decodeError(t *testing.T, body io.Reader) server.APIError {
	t.Helper()
	var apiErr server.APIError
	if err := json.NewDecoder(body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return apiErr
}

// ---- Quote API ----

func TestQuote(t *testing.T) {
	tests := []struct {
		name      string
		area      string
		unitPrice int64
		total     float64
		minimum   bool
		formatted string
	}{
		{"twenty", "20", 10500, 231000, false, "￥231,000"},
		{"below minimum", "5", 11200, 127490, true, "￥127,490"},
		{"not a number", "abc", 11200, 127490, true, "￥127,490"},
		{"last tier", "63", 9200, 637560, false, "￥637,560"},
		{"area past the cap", "1e308", 11200, 127490, true, "￥127,490"},
	}

	app := setupApp(t, makeDeps())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/quote?area="+tt.area, nil)
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != 200 {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}

			var result struct {
				UnitPrice      int64   `json:"unit_price"`
				Total          float64 `json:"total"`
				MinimumApplied bool    `json:"minimum_applied"`
				Currency       string  `json:"currency"`
				Formatted      struct {
					Total string `json:"total"`
				} `json:"formatted"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				t.Fatal(err)
			}
			if result.UnitPrice != tt.unitPrice || result.Total != tt.total || result.MinimumApplied != tt.minimum {
				t.Errorf("got %+v", result)
			}
			if result.Currency != "JPY" || result.Formatted.Total != tt.formatted {
				t.Errorf("unexpected formatting: %+v", result)
			}
		})
	}
}

func TestTiers_FlagsCurrentRow(t *testing.T) {
	app := setupApp(t, makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tiers?area=63", nil), -1)
	if err != nil {
		t.Fatal(err)
	}

	var result struct {
		Data []pricing.TierRow `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Data) != len(pricing.DefaultTable) {
		t.Fatalf("got %d rows, want %d", len(result.Data), len(pricing.DefaultTable))
	}
	last := result.Data[len(result.Data)-1]
	if !last.Current || last.MaxArea != nil || last.Label != "63㎡以上" {
		t.Errorf("unexpected last row: %+v", last)
	}
}

func TestChart(t *testing.T) {
	app := setupApp(t, makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/chart", nil), -1)
	if err != nil {
		t.Fatal(err)
	}

	var result struct {
		Data []pricing.ChartPoint `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Data) != 9 || result.Data[0].Price != 11200 || result.Data[8].Price != 9200 {
		t.Errorf("unexpected chart: %+v", result.Data)
	}
}

// ---- Estimator page ----

func TestEstimatorPage(t *testing.T) {
	app := setupApp(t, makeDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := readBody(t, resp.Body)
	for _, want := range []string{`value="20"`, "￥231,000", "￥10,500", `class="current"`, `"price":11200`, "ローラーストーンとは？"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "が適用されています") {
		t.Error("minimum notice shown for 20㎡")
	}
	if strings.Contains(body, `id="inquiry-form"`) {
		t.Error("inquiry form shown without storage")
	}
}

func TestEstimatorPage_MinimumNotice(t *testing.T) {
	app := setupApp(t, makeDeps(withInquiries(&mockRepo{}, nil)))

	resp, err := app.Test(httptest.NewRequest("GET", "/?area=5", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp.Body)
	for _, want := range []string{"最低施工価格（￥115,900 税別）が適用されています。", "￥127,490", `id="inquiry-form"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

// ---- Inquiries ----

func postInquiry(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/inquiries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, readBody(t, resp.Body)
}

const validInquiry = `{"area": "20", "name": "山田", "contact": "090-1234-5678"}`

func TestCreateInquiry(t *testing.T) {
	repo := &mockRepo{}
	deps := makeDeps(withInquiries(repo, nil))
	app := setupApp(t, deps)

	status, body := postInquiry(t, app, validInquiry)
	deps.Inquiries.Wait()

	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"id":1`) || !strings.Contains(body, "￥231,000") {
		t.Errorf("unexpected body: %s", body)
	}
	if len(repo.saved) != 1 || repo.saved[0].Total.IntPart() != 231000 {
		t.Errorf("unexpected saved inquiries: %+v", repo.saved)
	}
}

func TestCreateInquiry_Errors(t *testing.T) {
	tests := []struct {
		name   string
		deps   *server.Dependencies
		body   string
		status int
		code   string
	}{
		{"storage disabled", makeDeps(), validInquiry, 503, "unavailable"},
		{"bad json", makeDeps(withInquiries(&mockRepo{}, nil)), `{"area":`, 400, "bad_request"},
		{"bad phone", makeDeps(withInquiries(&mockRepo{}, nil)), `{"area": "20", "name": "山田", "contact": "123"}`, 400, "bad_request"},
		{"missing name", makeDeps(withInquiries(&mockRepo{}, nil)), `{"area": "20", "contact": "090-1234-5678"}`, 400, "bad_request"},
		{"area too large", makeDeps(withInquiries(&mockRepo{}, nil)), `{"area": "1e308", "name": "山田", "contact": "090-1234-5678"}`, 400, "bad_request"},
		{"rate limited", makeDeps(withInquiries(&mockRepo{}, denyLimiter{})), validInquiry, 429, "rate_limited"},
		{"save failure", makeDeps(withInquiries(&mockRepo{saveFn: func(storage.Inquiry) (int64, error) {
			return 0, errors.New("connection refused")
		}}, nil)), validInquiry, 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(t, tt.deps)
			req := httptest.NewRequest("POST", "/api/v1/inquiries", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			apiErr := decodeError(t, resp.Body)
			if apiErr.Code != tt.code || apiErr.Status != tt.status || apiErr.RequestID == "" {
				t.Errorf("unexpected envelope: %+v", apiErr)
			}
		})
	}
}

// ---- Health, metrics, static ----

func TestHealth(t *testing.T) {
	healthy := setupApp(t, makeDeps(func(d *server.Dependencies) {
		d.Checks = map[string]func(context.Context) error{
			"redis": func(context.Context) error { return nil },
		}
	}))
	resp, _ := healthy.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	degraded := setupApp(t, makeDeps(func(d *server.Dependencies) {
		d.Checks = map[string]func(context.Context) error{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		}
	}))
	resp, _ = degraded.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if resp.StatusCode != 503 {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "degraded" {
		t.Errorf("expected degraded status, got %v", result["status"])
	}
}

func TestMetrics(t *testing.T) {
	app := setupApp(t, makeDeps())

	if _, err := app.Test(httptest.NewRequest("GET", "/api/v1/quote?area=20", nil), -1); err != nil {
		t.Fatal(err)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp.Body)
	for _, want := range []string{"rollerstone_http_requests_total", "rollerstone_estimator_quotes_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestNotFound_Envelope(t *testing.T) {
	app := setupApp(t, makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/v1/nope", nil), -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if apiErr := decodeError(t, resp.Body); apiErr.Code != "http_error" {
		t.Errorf("unexpected envelope: %+v", apiErr)
	}
}

func TestStaticGallery(t *testing.T) {
	siteDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(siteDir, "works"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, "works", "case_01.html"), []byte("<h1>case 01</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := setupApp(t, makeDeps(func(d *server.Dependencies) { d.SiteDir = siteDir }))

	resp, err := app.Test(httptest.NewRequest("GET", "/works/case_01.html", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 || !strings.Contains(readBody(t, resp.Body), "case 01") {
		t.Errorf("static page not served, status %d", resp.StatusCode)
	}

	// The estimator still owns /.
	resp, _ = app.Test(httptest.NewRequest("GET", "/", nil), -1)
	if !strings.Contains(readBody(t, resp.Body), "ROLLER STONE") {
		t.Error("estimator page shadowed by static handler")
	}
}

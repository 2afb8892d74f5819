package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"designlift/internal/assets"
	"designlift/internal/config"
	"designlift/internal/fetcher"
	"designlift/internal/model"
	"designlift/internal/policy"
	"designlift/internal/services"
	"designlift/internal/store"
)

// fakeExtraction is a minimal ExtractionService used to avoid network
// access in handler tests.
type fakeExtraction struct {
	lastReq *services.ExtractRequest
	err     error
}

func (f *fakeExtraction) Extract(_ context.Context, req *services.ExtractRequest) (*model.ExtractionResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.ExtractionResult{
		ID:        uuid.NewString(),
		SourceURL: req.URL,
		ProjectID: "p1",
		Config:    policy.BuildConfig(model.TierReplica, nil),
		Brief:     "# Generation brief",
	}, nil
}

func (f *fakeExtraction) PreviewTier(prompt, tier string, o *policy.Overrides) (*services.TierPreview, error) {
	if tier == "bogus" {
		return nil, services.ErrInvalidRequest
	}
	t := policy.DetectTier(prompt)
	return &services.TierPreview{Tier: t, Detected: true, Config: policy.BuildConfig(t, o)}, nil
}

type fakeRecords struct {
	rec store.Extraction
}

func (f fakeRecords) GetExtraction(_ context.Context, id uuid.UUID) (store.Extraction, error) {
	if id != f.rec.ID {
		return store.Extraction{}, store.ErrNotFound
	}
	return f.rec, nil
}

func (fakeRecords) Ping(context.Context) error { return nil }

func newTestServer(t *testing.T, svc services.ExtractionService, deps Deps) *Server {
	t.Helper()
	deps.Extraction = svc
	return NewServer(&config.Config{}, deps, nil)
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp, out
}

func TestExtractHandler_OK(t *testing.T) {
	svc := &fakeExtraction{}
	s := newTestServer(t, svc, Deps{})

	resp, body := doJSON(t, s, http.MethodPost, "/v1/extract",
		`{"url":"https://example.com","prompt":"clone this","projectId":"p1","timeout":5000,"location":{"languages":["es"]}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}
	if svc.lastReq.TimeoutMs != 5000 || len(svc.lastReq.Languages) != 1 || svc.lastReq.ProjectID != "p1" {
		t.Fatalf("request not forwarded: %+v", svc.lastReq)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestExtractHandler_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
		code   string
	}{
		{"malformed", nil, `{`, http.StatusBadRequest, "BAD_REQUEST_INVALID_JSON"},
		{"missing url", nil, `{"prompt":"x"}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid", services.ErrInvalidRequest, `{"url":"x"}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"fetch", &fetcher.FetchError{URL: "https://example.com", Status: 403, Reason: "Forbidden"}, `{"url":"https://example.com"}`, http.StatusBadGateway, "FETCH_FAILED"},
		{"internal", errors.New("boom"), `{"url":"https://example.com"}`, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &fakeExtraction{err: tc.err}, Deps{})
			resp, body := doJSON(t, s, http.MethodPost, "/v1/extract", tc.body)
			if resp.StatusCode != tc.status || body["code"] != tc.code {
				t.Fatalf("expected %d %s, got %d %v", tc.status, tc.code, resp.StatusCode, body)
			}
			if tc.code == "FETCH_FAILED" {
				details, _ := body["details"].(map[string]any)
				if details["status"] != float64(403) {
					t.Fatalf("expected upstream status in details, got %v", body)
				}
			}
		})
	}
}

func TestTierHandler(t *testing.T) {
	s := newTestServer(t, &fakeExtraction{}, Deps{})

	resp, body := doJSON(t, s, http.MethodPost, "/v1/tier", `{"prompt":"copia exacta"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	if data["tier"] != string(model.TierExact) {
		t.Fatalf("expected exact tier, got %v", body)
	}

	resp, _ = doJSON(t, s, http.MethodPost, "/v1/tier", `{"tier":"bogus"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractionStatusHandler(t *testing.T) {
	id := uuid.New()
	rec := store.Extraction{
		ID:        id,
		URL:       "https://example.com",
		ProjectID: "p1",
		Tier:      "exact",
		Status:    store.StatusCompleted,
		Output:    pqtype.NullRawMessage{RawMessage: json.RawMessage(`{"id":"x"}`), Valid: true},
		Error:     sql.NullString{},
		CreatedAt: time.Now().UTC(),
	}
	s := newTestServer(t, &fakeExtraction{}, Deps{Records: fakeRecords{rec: rec}})

	resp, body := doJSON(t, s, http.MethodGet, "/v1/extractions/"+id.String(), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	result, _ := data["result"].(map[string]any)
	if data["status"] != store.StatusCompleted || result["id"] != "x" {
		t.Fatalf("unexpected record %v", body)
	}

	if resp, _ := doJSON(t, s, http.MethodGet, "/v1/extractions/"+uuid.NewString(), ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if resp, _ := doJSON(t, s, http.MethodGet, "/v1/extractions/not-a-uuid", ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	noStore := newTestServer(t, &fakeExtraction{}, Deps{})
	if resp, _ := doJSON(t, noStore, http.MethodGet, "/v1/extractions/"+id.String(), ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without a store, got %d", resp.StatusCode)
	}
}

func TestProjectAssetRoutes(t *testing.T) {
	root := t.TempDir()
	pipe := assets.New(assets.Options{Root: root})
	dir := filepath.Join(root, "p1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logo-0123456789abcdef.svg"), []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, &fakeExtraction{}, Deps{Assets: pipe})

	resp, body := doJSON(t, s, http.MethodGet, "/v1/projects/p1/assets", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	list, _ := body["data"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected one asset, got %v", body)
	}

	req := httptest.NewRequest(http.MethodGet, "/cloned-assets/p1/logo-0123456789abcdef.svg", nil)
	sresp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if sresp.StatusCode != http.StatusOK {
		t.Fatalf("expected stored file to be served, got %d", sresp.StatusCode)
	}

	if resp, _ := doJSON(t, s, http.MethodGet, "/v1/projects/bad..id/assets", ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid project id, got %d", resp.StatusCode)
	}

	if resp, _ := doJSON(t, s, http.MethodDelete, "/v1/projects/p1/assets", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("project directory should be removed, stat err=%v", err)
	}

	noAssets := newTestServer(t, &fakeExtraction{}, Deps{})
	if resp, _ := doJSON(t, noAssets, http.MethodGet, "/v1/projects/p1/assets", ""); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without asset storage, got %d", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, &fakeExtraction{}, Deps{Records: fakeRecords{}})

	resp, body := doJSON(t, s, http.MethodGet, "/healthz?deep=true", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" || body["db"] != "ok" || body["redis"] != "disabled" {
		t.Fatalf("unexpected health %d %v", resp.StatusCode, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mresp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	raw, _ := io.ReadAll(mresp.Body)
	if !strings.Contains(string(raw), "designlift_http_requests_total") {
		t.Fatalf("expected request counter in metrics output:\n%s", raw)
	}
}

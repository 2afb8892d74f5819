package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"designlift/internal/assets"
	"designlift/internal/fetcher"
	"designlift/internal/model"
	"designlift/internal/policy"
	"designlift/internal/store"
	"designlift/internal/tokens"
)

const sitePage = `<!doctype html>
<html lang="en"><head>
<title>Acme | Workflow automation platform</title>
<meta name="description" content="Connect every API and automate your software workflow.">
</head><body>
<header class="site-header">
  <a href="/" class="logo"><img src="/logo.png" alt="Acme logo"></a>
  <nav><a href="/features">Features</a><a href="/pricing">Pricing</a></nav>
</header>
<section class="hero">
  <h1>Automate every workflow</h1>
  <p>Acme connects your tools in minutes.</p>
  <a href="/signup" class="btn btn-primary">Start free</a>
  <img src="/img/hero.png" alt="Dashboard">
</section>
<section class="features">
  <h2>Why teams choose Acme</h2>
  <div class="card"><h3>Integrations</h3><p>Hundreds of API integrations out of the box.</p></div>
  <div class="card"><h3>Analytics</h3><p>Dashboards for every workflow you automate.</p></div>
  <div class="card"><h3>Security</h3><p>Your software data stays encrypted end to end.</p></div>
</section>
<section class="gallery"><h2>Screens</h2><figure><img src="/img/missing.png" alt=""></figure></section>
<footer><p>© 2024 Acme Inc.</p><a href="https://twitter.com/acme">Twitter</a></footer>
</body></html>`

var onePixelPNG, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==")

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(sitePage))
	})
	png := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(onePixelPNG)
	}
	mux.HandleFunc("/logo.png", png)
	mux.HandleFunc("/img/hero.png", png)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type fakeTokens struct {
	res tokens.Result
}

func (f fakeTokens) Extract(context.Context, string, string) tokens.Result {
	return f.res
}

type fakeLanguage struct{}

func (fakeLanguage) Detect(htmlLang, _ string) model.Language {
	return model.Language{Code: htmlLang, Name: "English", Confidence: 0.9}
}

type savedRecord struct {
	id      uuid.UUID
	project string
	tier    string
	status  string
	errMsg  string
	output  any
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []savedRecord
}

func (f *fakeRecorder) SaveExtraction(_ context.Context, id uuid.UUID, _, projectID, tier, status, errMsg string, output any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, savedRecord{id, projectID, tier, status, errMsg, output})
	return nil
}

func newTestService(t *testing.T, rec Recorder) (ExtractionService, *assets.Pipeline) {
	t.Helper()
	pipe := assets.New(assets.Options{Root: t.TempDir()})
	renderErr := errors.New("no browser")
	svc := NewExtractionService(ExtractionDeps{
		Fetcher: fetcher.NewHTTPFetcher(0, nil),
		Tokens: fakeTokens{res: tokens.Result{
			Palette:    tokens.DefaultPalette(),
			Typography: tokens.DefaultTypography(),
			Source:     model.TokenSourceStatic,
			Err:        renderErr,
		}},
		Assets:   pipe,
		Language: fakeLanguage{},
		Recorder: rec,
	})
	return svc, pipe
}

func TestExtract_ExactTier(t *testing.T) {
	site := newSite(t)
	rec := &fakeRecorder{}
	svc, _ := newTestService(t, rec)

	res, err := svc.Extract(context.Background(), &ExtractRequest{
		URL:       site.URL + "/",
		Prompt:    "exact clone of this page for Acme Labs",
		ProjectID: "proj-1",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if res.Config.Tier != model.TierExact || !res.Config.CopyImages {
		t.Fatalf("unexpected config %+v", res.Config)
	}
	if res.Config.BusinessName != "Acme Labs" {
		t.Fatalf("expected inferred business name, got %q", res.Config.BusinessName)
	}
	if len(res.Sections) < 3 || res.Sections[0].Type != model.SectionHeader || res.Sections[1].Type != model.SectionHero {
		t.Fatalf("unexpected sections %+v", res.Sections)
	}
	for i, s := range res.Sections {
		if s.Order != i {
			t.Fatalf("section %d has order %d", i, s.Order)
		}
	}
	if res.Industry.Label != "saas" {
		t.Fatalf("expected saas industry, got %+v", res.Industry)
	}
	if res.Language.Code != "en" {
		t.Fatalf("expected html lang to reach the detector, got %+v", res.Language)
	}

	if res.Assets.Logo == nil {
		t.Fatalf("expected stored logo, errors: %+v", res.AssetErrors)
	}
	if !strings.HasPrefix(res.Assets.Logo.StoredURL, "/cloned-assets/proj-1/logo-") {
		t.Fatalf("unexpected stored logo url %q", res.Assets.Logo.StoredURL)
	}
	if _, err := os.Stat(res.Assets.Logo.LocalPath); err != nil {
		t.Fatalf("logo not on disk: %v", err)
	}
	if len(res.AssetErrors) == 0 {
		t.Fatalf("expected the missing gallery image to be reported")
	}

	if res.TokenSource != model.TokenSourceStatic {
		t.Fatalf("unexpected token source %q", res.TokenSource)
	}
	var sawTokenNote, sawAssetNote bool
	for _, n := range res.Notes {
		sawTokenNote = sawTokenNote || strings.Contains(n, "browser render failed")
		sawAssetNote = sawAssetNote || strings.HasPrefix(n, "assets:")
	}
	if !sawTokenNote || !sawAssetNote {
		t.Fatalf("expected token and asset fallback notes, got %v", res.Notes)
	}

	for _, want := range []string{"## Fidelity: EXACT", "- Name: Acme Labs", res.Assets.Logo.StoredURL, "Automate every workflow"} {
		if !strings.Contains(res.Brief, want) {
			t.Fatalf("brief missing %q:\n%s", want, res.Brief)
		}
	}

	if len(rec.records) != 1 || rec.records[0].status != store.StatusCompleted || rec.records[0].project != "proj-1" {
		t.Fatalf("unexpected records %+v", rec.records)
	}
	if rec.records[0].id.String() != res.ID {
		t.Fatalf("record id %s does not match result id %s", rec.records[0].id, res.ID)
	}
}

func TestExtract_InspirationGeneratesProjectID(t *testing.T) {
	site := newSite(t)
	svc, _ := newTestService(t, nil)

	res, err := svc.Extract(context.Background(), &ExtractRequest{URL: site.URL, Prompt: "make me a landing page"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := uuid.Parse(res.ProjectID); err != nil {
		t.Fatalf("expected generated uuid project id, got %q", res.ProjectID)
	}
	if res.Config.Tier != model.TierInspiration || res.Config.CopyContent {
		t.Fatalf("unexpected config %+v", res.Config)
	}
	if strings.Contains(res.Brief, "/cloned-assets/") || strings.Contains(res.Brief, "Automate every workflow") {
		t.Fatalf("inspiration brief must not carry source content or assets:\n%s", res.Brief)
	}
}

func TestExtract_FetchFailure(t *testing.T) {
	site := newSite(t)
	rec := &fakeRecorder{}
	svc, _ := newTestService(t, rec)

	_, err := svc.Extract(context.Background(), &ExtractRequest{URL: site.URL + "/gone", Prompt: "replica please"})
	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Fatalf("expected upstream status 404, got %d", fe.Status)
	}
	if len(rec.records) != 1 || rec.records[0].status != store.StatusFailed || rec.records[0].errMsg == "" {
		t.Fatalf("failed run must be recorded, got %+v", rec.records)
	}
}

func TestExtract_InvalidRequests(t *testing.T) {
	svc, _ := newTestService(t, nil)
	cases := []*ExtractRequest{
		nil,
		{URL: ""},
		{URL: "ftp://example.com"},
		{URL: "https://example.com", ProjectID: "../etc"},
		{URL: "https://example.com", Tier: "pixel-perfect"},
	}
	for _, req := range cases {
		if _, err := svc.Extract(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("Extract(%+v) = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestPreviewTier(t *testing.T) {
	svc, _ := newTestService(t, nil)

	p, err := svc.PreviewTier("algo similar para mi panadería Dulce Hogar", "", nil)
	if err != nil {
		t.Fatalf("PreviewTier: %v", err)
	}
	if p.Tier != model.TierReplica || !p.Detected || p.BusinessName != "Dulce Hogar" {
		t.Fatalf("unexpected preview %+v", p)
	}

	p, err = svc.PreviewTier("", "EXACT", &policy.Overrides{BusinessName: "Given"})
	if err != nil {
		t.Fatalf("PreviewTier: %v", err)
	}
	if p.Tier != model.TierExact || p.Detected || p.BusinessName != "Given" {
		t.Fatalf("unexpected preview %+v", p)
	}

	if _, err := svc.PreviewTier("", "bogus", nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

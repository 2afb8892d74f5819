package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samplePage = `<!doctype html>
<html lang="es">
<head>
  <title> Panadería Sol </title>
  <meta name="description" content="Pan artesanal cada mañana">
  <meta property="og:image" content="/img/og.jpg">
  <meta name="theme-color" content="#ff6600">
  <link rel="icon" href="/favicon.ico">
</head>
<body>
  <h1>Pan artesanal</h1>
  <p>Horneamos pan de masa madre todos los días en nuestro obrador del centro.</p>
</body>
</html>`

func TestHTTPFetcher_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, nil)
	page, err := f.Fetch(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Fatalf("expected default user agent, got %q", gotUA)
	}
	if page.Status != http.StatusOK || page.Engine != "http" {
		t.Fatalf("unexpected status/engine: %d %q", page.Status, page.Engine)
	}
	if page.Metadata.Title != "Panadería Sol" {
		t.Fatalf("unexpected title %q", page.Metadata.Title)
	}
	if page.Metadata.Language != "es" {
		t.Fatalf("unexpected language %q", page.Metadata.Language)
	}
	if page.Metadata.OgImage != srv.URL+"/img/og.jpg" {
		t.Fatalf("og:image not resolved: %q", page.Metadata.OgImage)
	}
	if page.Metadata.Favicon != srv.URL+"/favicon.ico" {
		t.Fatalf("favicon not resolved: %q", page.Metadata.Favicon)
	}
	if page.Metadata.ThemeColor != "#ff6600" {
		t.Fatalf("unexpected theme color %q", page.Metadata.ThemeColor)
	}
	if !strings.Contains(page.Markdown, "Pan artesanal") {
		t.Fatalf("expected markdown to contain heading, got %q", page.Markdown)
	}
	if !strings.Contains(page.Text, "masa madre") {
		t.Fatalf("expected distilled text to contain body copy, got %q", page.Text)
	}
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, nil)
	_, err := f.Fetch(context.Background(), Request{URL: srv.URL + "/missing"})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fe.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", fe.Status)
	}
}

func TestHTTPFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	f := NewHTTPFetcher(2*time.Second, nil)
	_, err := f.Fetch(context.Background(), Request{URL: addr})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fe.Status != 0 || fe.Reason == "" {
		t.Fatalf("expected transport reason without status, got %+v", fe)
	}
}

func TestHTTPFetcher_RobotsDisallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, NewRobots(time.Second))
	if _, err := f.Fetch(context.Background(), Request{URL: srv.URL + "/private/page"}); err == nil {
		t.Fatalf("expected robots.txt to block /private/page")
	}
	if _, err := f.Fetch(context.Background(), Request{URL: srv.URL + "/public"}); err != nil {
		t.Fatalf("expected /public to be allowed, got %v", err)
	}
}

func TestParseTarget(t *testing.T) {
	u, err := ParseTarget("example.com/pricing#plans")
	if err != nil {
		t.Fatalf("ParseTarget error: %v", err)
	}
	if u.String() != "https://example.com/pricing" {
		t.Fatalf("unexpected url %q", u.String())
	}
	if _, err := ParseTarget("ftp://example.com"); err == nil {
		t.Fatalf("expected ftp scheme to be rejected")
	}
	if _, err := ParseTarget("   "); err == nil {
		t.Fatalf("expected empty url to be rejected")
	}
}

func TestBuildRequestFromOptions(t *testing.T) {
	req := BuildRequestFromOptions(RequestOptions{
		URL:       "https://example.com",
		TimeoutMs: 1500,
		Languages: []string{"es-ES", "es"},
	})
	if req.Headers["Accept-Language"] != "es-ES,es" {
		t.Fatalf("unexpected Accept-Language %q", req.Headers["Accept-Language"])
	}
	if req.Timeout != 1500*time.Millisecond {
		t.Fatalf("unexpected timeout %v", req.Timeout)
	}
}

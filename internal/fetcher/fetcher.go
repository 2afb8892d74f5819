package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent mimics a current desktop browser; many marketing sites
// serve degraded markup to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

const maxPageBytes = 15 << 20

// Request represents a single page fetch.
type Request struct {
	URL       string
	Headers   map[string]string
	Timeout   time.Duration
	UserAgent string
}

// Metadata is the head-level information read off a fetched document.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	OgImage     string `json:"ogImage,omitempty"`
	OgSiteName  string `json:"ogSiteName,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
	ThemeColor  string `json:"themeColor,omitempty"`
}

// Page is a fetched document.
type Page struct {
	URL      string
	FinalURL string
	Status   int
	HTML     string
	Markdown string
	// Text is the readability-distilled main text, used by the classifiers.
	Text     string
	Metadata Metadata
	Engine   string
}

// FetchError is the one fatal failure of an extraction: the document could
// not be retrieved.
type FetchError struct {
	URL    string
	Status int
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.Status, e.Reason)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher defines the interface for page fetchers.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Page, error)
}

// HTTPFetcher retrieves raw HTML with net/http.
type HTTPFetcher struct {
	client *http.Client
	robots *Robots
}

func NewHTTPFetcher(timeout time.Duration, robots *Robots) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		robots: robots,
	}
}

// ParseTarget accepts bare hostnames ("example.com/pricing") as well as
// absolute http(s) URLs.
func ParseTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	u.Fragment = ""
	return u, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*Page, error) {
	u, err := ParseTarget(req.URL)
	if err != nil {
		return nil, &FetchError{URL: req.URL, Reason: "invalid url: " + err.Error(), Err: err}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	if f.robots != nil && !f.robots.Allowed(ctx, u, userAgent) {
		return nil, &FetchError{URL: u.String(), Reason: "robots_disallowed"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Reason: err.Error(), Err: err}
	}
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Reason: transportReason(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: u.String(), Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &FetchError{URL: u.String(), Status: resp.StatusCode, Reason: "read body: " + err.Error(), Err: err}
	}

	finalURL := u.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	page := BuildPage(finalURL, string(body))
	page.URL = u.String()
	page.Status = resp.StatusCode
	page.Engine = "http"
	return page, nil
}

func transportReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return "timeout"
	}
	return err.Error()
}

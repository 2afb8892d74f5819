package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	robotstxt "github.com/temoto/robotstxt"
)

// Robots checks robots.txt before a page is fetched. Any failure to read
// robots.txt is treated as "allowed".
type Robots struct {
	client *http.Client
}

func NewRobots(timeout time.Duration) *Robots {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Robots{client: &http.Client{Timeout: timeout}}
}

func (r *Robots) Allowed(ctx context.Context, target *url.URL, userAgent string) bool {
	robotsURL := &url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return true
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return true
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return true
	}
	return data.TestAgent(target.RequestURI(), userAgent)
}

package fetcher

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserFetcher uses a real browser (via rod) to render JS-heavy pages
// before handing the resulting DOM to the segmenter.
type BrowserFetcher struct {
	BrowserURL string
	Timeout    time.Duration
	robots     *Robots
}

func NewBrowserFetcher(browserURL string, timeout time.Duration, robots *Robots) *BrowserFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BrowserFetcher{BrowserURL: browserURL, Timeout: timeout, robots: robots}
}

func (b *BrowserFetcher) Fetch(ctx context.Context, req Request) (*Page, error) {
	u, err := ParseTarget(req.URL)
	if err != nil {
		return nil, &FetchError{URL: req.URL, Reason: "invalid url: " + err.Error(), Err: err}
	}

	timeout := b.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	if b.robots != nil && !b.robots.Allowed(ctx, u, userAgent) {
		return nil, &FetchError{URL: u.String(), Reason: "robots_disallowed"}
	}

	// Prepare browser with context and timeout
	browser := rod.New().Context(ctx).Timeout(timeout)
	if b.BrowserURL != "" {
		browser = browser.ControlURL(b.BrowserURL)
	}
	if err := browser.Connect(); err != nil {
		return nil, &FetchError{URL: u.String(), Reason: "browser connect: " + err.Error(), Err: err}
	}
	defer browser.MustClose()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &FetchError{URL: u.String(), Reason: "browser page: " + err.Error(), Err: err}
	}
	defer page.MustClose()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		return nil, &FetchError{URL: u.String(), Reason: "set user agent: " + err.Error(), Err: err}
	}
	if err := page.Navigate(u.String()); err != nil {
		return nil, &FetchError{URL: u.String(), Reason: transportReason(err), Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &FetchError{URL: u.String(), Reason: transportReason(err), Err: err}
	}

	htmlStr, err := page.HTML()
	if err != nil {
		return nil, &FetchError{URL: u.String(), Reason: "read dom: " + err.Error(), Err: err}
	}

	finalURL := u.String()
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	out := BuildPage(finalURL, htmlStr)
	out.URL = u.String()
	// rod does not surface the document status; a rendered DOM means the
	// navigation succeeded.
	out.Status = 200
	out.Engine = "browser"
	return out, nil
}

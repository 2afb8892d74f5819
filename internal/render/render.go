// Package render captures computed styles of a page in a headless browser.
package render

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"designlift/internal/tokens"
)

//go:embed snapshot.js
var snapshotScript string

// RenderError reports that the browser session could not produce a
// snapshot. Stage names the step that failed.
type RenderError struct {
	URL   string
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.URL, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// RodRenderer drives Chrome through rod. An empty ControlURL launches a
// local browser.
type RodRenderer struct {
	ControlURL string
	Timeout    time.Duration
	UserAgent  string
}

func NewRodRenderer(controlURL string, timeout time.Duration, userAgent string) *RodRenderer {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &RodRenderer{ControlURL: controlURL, Timeout: timeout, UserAgent: userAgent}
}

func (r *RodRenderer) Snapshot(ctx context.Context, pageURL string) (*tokens.Snapshot, error) {
	browser := rod.New().Context(ctx).Timeout(r.Timeout)
	if r.ControlURL != "" {
		browser = browser.ControlURL(r.ControlURL)
	}
	if err := browser.Connect(); err != nil {
		return nil, &RenderError{URL: pageURL, Stage: "connect", Err: err}
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &RenderError{URL: pageURL, Stage: "open page", Err: err}
	}
	defer page.Close()

	if r.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.UserAgent}); err != nil {
			return nil, &RenderError{URL: pageURL, Stage: "user agent", Err: err}
		}
	}
	if err := page.Navigate(pageURL); err != nil {
		return nil, &RenderError{URL: pageURL, Stage: "navigate", Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &RenderError{URL: pageURL, Stage: "wait load", Err: err}
	}

	res, err := page.Eval(snapshotScript)
	if err != nil {
		return nil, &RenderError{URL: pageURL, Stage: "evaluate", Err: err}
	}
	return DecodeSnapshot(res.Value.Str())
}

// DecodeSnapshot parses the JSON produced by the snapshot script.
func DecodeSnapshot(raw string) (*tokens.Snapshot, error) {
	var snap tokens.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, &RenderError{Stage: "decode", Err: err}
	}
	return &snap, nil
}

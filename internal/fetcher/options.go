package fetcher

import (
	"strings"
	"time"
)

// RequestOptions is a higher-level set of options used to construct a
// low-level fetcher.Request in a consistent way across the API and CLI.
type RequestOptions struct {
	URL       string
	Headers   map[string]string
	TimeoutMs int
	UserAgent string
	// Languages become the Accept-Language header so localized sites serve
	// the language the caller expects.
	Languages []string
}

// BuildRequestFromOptions builds a fetcher.Request from RequestOptions.
func BuildRequestFromOptions(opts RequestOptions) Request {
	headers := map[string]string{}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	if len(opts.Languages) > 0 {
		headers["Accept-Language"] = strings.Join(opts.Languages, ",")
	} else if _, ok := headers["Accept-Language"]; !ok {
		headers["Accept-Language"] = "en-US,en;q=0.9,es;q=0.8"
	}

	var timeout time.Duration
	if opts.TimeoutMs > 0 {
		timeout = time.Duration(opts.TimeoutMs) * time.Millisecond
	}

	return Request{
		URL:       opts.URL,
		Headers:   headers,
		Timeout:   timeout,
		UserAgent: opts.UserAgent,
	}
}

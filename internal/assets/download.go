package assets

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"designlift/internal/metrics"
	"designlift/internal/model"
)

// genericTypes are content types that say nothing about the payload; the
// body is sniffed instead.
var genericTypes = map[string]bool{
	"":                         true,
	"application/octet-stream": true,
	"binary/octet-stream":      true,
	"application/binary":       true,
	"text/plain":               true,
}

// DownloadMany fetches requests in batches of the configured size, each
// batch awaited before the next starts. Individual failures are reported in
// Batch.Errors; the returned error is only set when the project namespace
// itself is unusable.
func (p *Pipeline) DownloadMany(ctx context.Context, reqs []Request, projectID string) (*Batch, error) {
	dir, err := p.projectDir(projectID)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		asset *model.Asset
		err   *model.AssetError
	}
	results := make([]outcome, len(reqs))

	for start := 0; start < len(reqs); start += p.batchSize {
		end := start + p.batchSize
		if end > len(reqs) {
			end = len(reqs)
		}
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				asset, aerr := p.download(ctx, reqs[i], projectID, dir)
				results[i] = outcome{asset: asset, err: aerr}
				return nil
			})
		}
		_ = g.Wait()
	}

	batch := &Batch{}
	for _, r := range results {
		if r.err != nil {
			batch.Errors = append(batch.Errors, *r.err)
			continue
		}
		batch.Assets = append(batch.Assets, *r.asset)
		batch.TotalBytes += r.asset.SizeBytes
	}
	return batch, nil
}

func (p *Pipeline) download(ctx context.Context, req Request, projectID, dir string) (*model.Asset, *model.AssetError) {
	asset, reason := p.fetch(ctx, req, projectID, dir)
	if reason != "" {
		metrics.RecordAssetDownload(string(req.Category), false, 0)
		p.logWarn("asset download failed", "url", req.URL, "category", req.Category, "reason", reason)
		return nil, &model.AssetError{URL: req.URL, Reason: reason}
	}
	metrics.RecordAssetDownload(string(req.Category), true, asset.SizeBytes)
	return asset, nil
}

// fetch returns either a stored asset or a failure reason.
func (p *Pipeline) fetch(ctx context.Context, req Request, projectID, dir string) (*model.Asset, string) {
	if _, ok := categoryMIME[req.Category]; !ok {
		return nil, fmt.Sprintf("unknown category %q", req.Category)
	}
	normalized, err := NormalizeURL(req.URL)
	if err != nil {
		return nil, err.Error()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return nil, err.Error()
	}
	if p.userAgent != "" {
		httpReq.Header.Set("User-Agent", p.userAgent)
	}
	if req.Category == model.CategoryFont {
		httpReq.Header.Set("Accept", "font/woff2,font/woff,*/*;q=0.8")
	} else {
		httpReq.Header.Set("Accept", "image/avif,image/webp,image/svg+xml,image/*,*/*;q=0.8")
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, "timeout"
		}
		return nil, "request failed: " + err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Sprintf("http status %d", resp.StatusCode)
	}
	if resp.ContentLength > p.maxBytes {
		return nil, fmt.Sprintf("too large: %d bytes", resp.ContentLength)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, "read body: " + err.Error()
	}
	if int64(len(body)) > p.maxBytes {
		return nil, fmt.Sprintf("too large: over %d bytes", p.maxBytes)
	}
	if len(body) == 0 {
		return nil, "empty body"
	}

	mimeType := contentType(resp.Header.Get("Content-Type"), body)
	if !Allowed(req.Category, mimeType) {
		return nil, fmt.Sprintf("content type %s not allowed for %s", mimeType, req.Category)
	}

	filename := Filename(req.Category, normalized)
	if filepath.Ext(filename) == "" {
		filename += extForMIME(mimeType)
	}
	localPath := filepath.Join(dir, filename)
	if err := writeFile(localPath, body); err != nil {
		return nil, "write: " + err.Error()
	}

	return &model.Asset{
		OriginalURL: req.URL,
		StoredURL:   p.StoredURL(projectID, filename),
		LocalPath:   localPath,
		Category:    req.Category,
		Filename:    filename,
		MimeType:    mimeType,
		SizeBytes:   int64(len(body)),
	}, ""
}

// contentType trusts a specific Content-Type header and sniffs the body
// when the header is missing or generic.
func contentType(header string, body []byte) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		mediaType = ""
	}
	mediaType = strings.ToLower(mediaType)
	if !genericTypes[mediaType] {
		return mediaType
	}
	detected := mimetype.Detect(body).String()
	base, _, _ := strings.Cut(detected, ";")
	return base
}

// writeFile writes through a temp file and renames it into place so that a
// concurrent writer of the same name never exposes a partial file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// DownloadLogo stores a single logo. A failed download yields nil without
// an error.
func (p *Pipeline) DownloadLogo(ctx context.Context, rawURL, projectID string) (*model.Asset, *Batch, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &Batch{}, nil
	}
	batch, err := p.DownloadMany(ctx, []Request{{URL: rawURL, Category: model.CategoryLogo}}, projectID)
	if err != nil {
		return nil, nil, err
	}
	if len(batch.Assets) == 0 {
		return nil, batch, nil
	}
	return &batch.Assets[0], batch, nil
}

func (p *Pipeline) DownloadHeroImages(ctx context.Context, urls []string, projectID string) (*Batch, error) {
	return p.DownloadMany(ctx, requests(urls, model.CategoryImage, heroLimit), projectID)
}

func (p *Pipeline) DownloadGalleryImages(ctx context.Context, urls []string, projectID string) (*Batch, error) {
	return p.DownloadMany(ctx, requests(urls, model.CategoryImage, galleryLimit), projectID)
}

func (p *Pipeline) DownloadClientLogos(ctx context.Context, urls []string, projectID string) (*Batch, error) {
	return p.DownloadMany(ctx, requests(urls, model.CategoryLogo, clientLogoLimit), projectID)
}

func (p *Pipeline) DownloadBackgrounds(ctx context.Context, urls []string, projectID string) (*Batch, error) {
	return p.DownloadMany(ctx, requests(urls, model.CategoryBackground, backgroundLimit), projectID)
}

func requests(urls []string, category model.AssetCategory, limit int) []Request {
	if len(urls) > limit {
		urls = urls[:limit]
	}
	out := make([]Request, 0, len(urls))
	for _, u := range urls {
		out = append(out, Request{URL: u, Category: category})
	}
	return out
}

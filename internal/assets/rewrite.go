package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"designlift/internal/model"
)

// BuildURLMap maps every original URL to its stored public path.
func BuildURLMap(assets []model.Asset) map[string]string {
	m := make(map[string]string, len(assets))
	for _, a := range assets {
		if a.OriginalURL == "" || a.StoredURL == "" {
			continue
		}
		m[a.OriginalURL] = a.StoredURL
	}
	return m
}

// RewriteURLs replaces every occurrence of each original URL in text with
// its stored path. Longer URLs are matched first so that a URL that is a
// prefix of another never clobbers it.
func RewriteURLs(text string, urlMap map[string]string) string {
	if len(urlMap) == 0 || text == "" {
		return text
	}
	keys := make([]string, 0, len(urlMap))
	for k := range urlMap {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, urlMap[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// CleanupProject removes the project's whole storage namespace. Removing a
// namespace that does not exist is not an error.
func (p *Pipeline) CleanupProject(projectID string) error {
	if !ValidProjectID(projectID) {
		return fmt.Errorf("%w: %q", ErrInvalidProject, projectID)
	}
	if err := os.RemoveAll(filepath.Join(p.root, projectID)); err != nil {
		return fmt.Errorf("cleanup project %s: %w", projectID, err)
	}
	return nil
}

// ListProjectAssets describes the files stored for a project. The original
// URL is not recoverable from disk and is left empty.
func (p *Pipeline) ListProjectAssets(projectID string) ([]model.Asset, error) {
	if !ValidProjectID(projectID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProject, projectID)
	}
	dir := filepath.Join(p.root, projectID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Asset{}, nil
		}
		return nil, fmt.Errorf("list project %s: %w", projectID, err)
	}

	out := make([]model.Asset, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		local := filepath.Join(dir, name)
		category, _, _ := strings.Cut(name, "-")
		out = append(out, model.Asset{
			StoredURL: p.StoredURL(projectID, name),
			LocalPath: local,
			Category:  model.AssetCategory(category),
			Filename:  name,
			MimeType:  storedType(local),
			SizeBytes: info.Size(),
		})
	}
	return out, nil
}

func storedType(path string) string {
	if t, ok := knownExt[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	base, _, _ := strings.Cut(mt.String(), ";")
	return base
}

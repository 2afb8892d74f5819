package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"mime"
	"net/url"
	"path"
	"strings"

	"designlift/internal/model"
)

// placeholderHosts serve stock filler images that are never worth keeping.
var placeholderHosts = []string{
	"placeholder.com",
	"placehold.co",
	"placehold.it",
	"dummyimage.com",
	"placekitten.com",
	"picsum.photos",
	"fakeimg.pl",
	"loremflickr.com",
	"lorempixel.com",
}

var (
	errEmptyURL       = errors.New("empty url")
	errDataURI        = errors.New("data uri not downloadable")
	errPlaceholder    = errors.New("placeholder image host")
	errUnsupportedURL = errors.New("unsupported url scheme")
)

// NormalizeURL prepares an asset URL for fetching and naming: it must be
// absolute http(s), the fragment is dropped and the host lowercased.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyURL
	}
	if strings.HasPrefix(strings.ToLower(raw), "data:") {
		return "", errDataURI
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return "", errUnsupportedURL
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	host := u.Hostname()
	for _, ph := range placeholderHosts {
		if host == ph || strings.HasSuffix(host, "."+ph) {
			return "", errPlaceholder
		}
	}
	return u.String(), nil
}

var categoryMIME = map[model.AssetCategory][]string{
	model.CategoryImage:      {"image/jpeg", "image/png", "image/gif", "image/webp", "image/avif", "image/svg+xml"},
	model.CategoryBackground: {"image/jpeg", "image/png", "image/gif", "image/webp", "image/avif", "image/svg+xml"},
	model.CategoryLogo:       {"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml", "image/x-icon", "image/vnd.microsoft.icon"},
	model.CategoryIcon:       {"image/png", "image/svg+xml", "image/x-icon", "image/vnd.microsoft.icon", "image/webp", "image/gif"},
	model.CategoryFont:       {"font/woff", "font/woff2", "font/ttf", "font/otf", "application/font-woff", "application/x-font-ttf", "application/vnd.ms-fontobject", "font/collection"},
}

// Allowed reports whether mimeType may be stored under category.
func Allowed(category model.AssetCategory, mimeType string) bool {
	for _, m := range categoryMIME[category] {
		if m == mimeType {
			return true
		}
	}
	return false
}

var knownExt = map[string]string{
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".png":   "image/png",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".avif":  "image/avif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".eot":   "application/vnd.ms-fontobject",
}

var mimeExt = map[string]string{
	"image/jpeg":                    ".jpg",
	"image/png":                     ".png",
	"image/gif":                     ".gif",
	"image/webp":                    ".webp",
	"image/avif":                    ".avif",
	"image/svg+xml":                 ".svg",
	"image/x-icon":                  ".ico",
	"image/vnd.microsoft.icon":      ".ico",
	"font/woff":                     ".woff",
	"font/woff2":                    ".woff2",
	"application/font-woff":         ".woff",
	"font/ttf":                      ".ttf",
	"application/x-font-ttf":        ".ttf",
	"font/otf":                      ".otf",
	"application/vnd.ms-fontobject": ".eot",
	"font/collection":               ".ttc",
}

// urlExt returns the lowercase extension of the URL path when it names a
// known asset type.
func urlExt(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if _, ok := knownExt[ext]; ok {
		if ext == ".jpeg" {
			return ".jpg"
		}
		return ext
	}
	return ""
}

// Filename is the content-addressed name of an asset:
// {category}-{first 16 hex of sha256(category|url)}{ext}. The extension
// comes from the URL path. For URLs without one, Filename has no extension
// and the stored name appends the one for the response type, so the stored
// name of an extension-less URL depends on what the server returns.
func Filename(category model.AssetCategory, normalizedURL string) string {
	sum := sha256.Sum256([]byte(string(category) + "|" + normalizedURL))
	return string(category) + "-" + hex.EncodeToString(sum[:])[:16] + urlExt(normalizedURL)
}

// extForMIME falls back to the mime package's table for types the local
// map does not list.
func extForMIME(mimeType string) string {
	if ext, ok := mimeExt[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

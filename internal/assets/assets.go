// Package assets downloads the visual assets of a source page into a
// per-project directory under content-addressed names and rewrites
// references to them.
package assets

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"designlift/internal/model"
)

const (
	DefaultMaxBytes     = 10 << 20
	DefaultBatchSize    = 5
	DefaultTimeout      = 30 * time.Second
	DefaultPublicPrefix = "/cloned-assets"

	galleryLimit    = 12
	clientLogoLimit = 10
	heroLimit       = 4
	backgroundLimit = 6
)

// ErrInvalidProject is returned when a project identifier cannot be used
// as a storage namespace.
var ErrInvalidProject = errors.New("invalid project id")

var projectIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidProjectID reports whether id is safe to use as a directory name.
func ValidProjectID(id string) bool {
	return projectIDRe.MatchString(id)
}

// Request asks for one URL to be stored under a category.
type Request struct {
	URL      string
	Category model.AssetCategory
}

// Batch is the outcome of DownloadMany. Assets and Errors are always
// populated, whatever the mix of successes and failures.
type Batch struct {
	Assets     []model.Asset
	Errors     []model.AssetError
	TotalBytes int64
}

// Success is true only when no request failed.
func (b *Batch) Success() bool {
	return len(b.Errors) == 0
}

func (b *Batch) merge(other *Batch) {
	if other == nil {
		return
	}
	b.Assets = append(b.Assets, other.Assets...)
	b.Errors = append(b.Errors, other.Errors...)
	b.TotalBytes += other.TotalBytes
}

// Options configures a Pipeline. Zero values fall back to the defaults.
type Options struct {
	Root         string
	PublicPrefix string
	UserAgent    string
	Timeout      time.Duration
	MaxBytes     int64
	BatchSize    int
	Client       *http.Client
	Logger       *slog.Logger
}

// Pipeline stores assets below Root/{projectID}/.
type Pipeline struct {
	root         string
	publicPrefix string
	userAgent    string
	timeout      time.Duration
	maxBytes     int64
	batchSize    int
	client       *http.Client
	logger       *slog.Logger
}

func New(opts Options) *Pipeline {
	p := &Pipeline{
		root:         opts.Root,
		publicPrefix: strings.TrimRight(opts.PublicPrefix, "/"),
		userAgent:    opts.UserAgent,
		timeout:      opts.Timeout,
		maxBytes:     opts.MaxBytes,
		batchSize:    opts.BatchSize,
		client:       opts.Client,
		logger:       opts.Logger,
	}
	if p.root == "" {
		p.root = "data/assets"
	}
	if p.publicPrefix == "" {
		p.publicPrefix = DefaultPublicPrefix
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.maxBytes <= 0 {
		p.maxBytes = DefaultMaxBytes
	}
	if p.batchSize <= 0 {
		p.batchSize = DefaultBatchSize
	}
	if p.client == nil {
		p.client = &http.Client{}
	}
	return p
}

// Root returns the directory that holds every project namespace.
func (p *Pipeline) Root() string {
	return p.root
}

// StoredURL is the public path a stored file is served from.
func (p *Pipeline) StoredURL(projectID, filename string) string {
	return p.publicPrefix + "/" + projectID + "/" + filename
}

// projectDir validates projectID and makes sure its directory exists.
func (p *Pipeline) projectDir(projectID string) (string, error) {
	if !ValidProjectID(projectID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProject, projectID)
	}
	dir := filepath.Join(p.root, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create project dir: %w", err)
	}
	return dir, nil
}

func (p *Pipeline) logWarn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"designlift/internal/assets"
	"designlift/internal/classify"
	"designlift/internal/fetcher"
	"designlift/internal/metrics"
	"designlift/internal/model"
	"designlift/internal/policy"
	"designlift/internal/segment"
	"designlift/internal/store"
	"designlift/internal/tokens"
)

// ErrInvalidRequest marks caller mistakes (bad URL, bad project ID, unknown
// tier). It is never returned for upstream failures.
var ErrInvalidRequest = errors.New("invalid request")

// ExtractRequest is the input of one extraction run.
type ExtractRequest struct {
	URL    string
	Prompt string
	// ProjectID namespaces stored assets; a UUID is generated when empty.
	ProjectID string
	// Tier forces a fidelity tier instead of detecting it from Prompt.
	Tier      string
	Overrides *policy.Overrides
	Headers   map[string]string
	TimeoutMs int
	Languages []string
}

// TierPreview is what the policy engine makes of a prompt without fetching
// anything.
type TierPreview struct {
	Tier         model.Tier          `json:"tier"`
	Detected     bool                `json:"detected"`
	BusinessName string              `json:"businessName,omitempty"`
	Config       model.CloningConfig `json:"config"`
}

// TokenExtractor derives design tokens for a fetched page.
type TokenExtractor interface {
	Extract(ctx context.Context, pageURL, rawHTML string) tokens.Result
}

// AssetDownloader discovers and stores a page's visual assets.
type AssetDownloader interface {
	ExtractAndDownloadAll(ctx context.Context, html, baseURL, projectID string) (*assets.Result, error)
}

// LanguageDetector guesses the content language of a page.
type LanguageDetector interface {
	Detect(htmlLang, text string) model.Language
}

// Recorder persists a record of every run.
type Recorder interface {
	SaveExtraction(ctx context.Context, id uuid.UUID, url, projectID, tier, status, errMsg string, output any) error
}

// ExtractionDeps wires the collaborators of ExtractionService. Fetcher is
// required; Tokens defaults to static analysis, Language to a lingua
// detector, and a nil Assets or Recorder disables that step.
type ExtractionDeps struct {
	Fetcher   fetcher.Fetcher
	Tokens    TokenExtractor
	Assets    AssetDownloader
	Language  LanguageDetector
	Recorder  Recorder
	Logger    *slog.Logger
	UserAgent string
	TimeoutMs int
	Languages []string
}

// ExtractionService turns a URL and a free-text prompt into an
// ExtractionResult: sections, design tokens, stored assets, classification
// and a generation brief.
type ExtractionService interface {
	Extract(ctx context.Context, req *ExtractRequest) (*model.ExtractionResult, error)
	PreviewTier(prompt, tier string, overrides *policy.Overrides) (*TierPreview, error)
}

type extractionService struct {
	deps ExtractionDeps
	now  func() time.Time
}

// NewExtractionService constructs an ExtractionService from its
// collaborators.
func NewExtractionService(deps ExtractionDeps) ExtractionService {
	if deps.Tokens == nil {
		deps.Tokens = tokens.NewExtractor(nil, deps.Logger)
	}
	if deps.Language == nil {
		deps.Language = classify.NewLanguageDetector()
	}
	return &extractionService{deps: deps, now: time.Now}
}

func (s *extractionService) logInfo(msg string, args ...any) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, args...)
	}
}

func (s *extractionService) logWarn(msg string, args ...any) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, args...)
	}
}

func (s *extractionService) PreviewTier(prompt, tier string, overrides *policy.Overrides) (*TierPreview, error) {
	t, detected, err := resolveTier(prompt, tier)
	if err != nil {
		return nil, err
	}
	o := withInferredName(overrides, prompt)
	cfg := policy.BuildConfig(t, o)
	return &TierPreview{Tier: cfg.Tier, Detected: detected, BusinessName: cfg.BusinessName, Config: cfg}, nil
}

func (s *extractionService) Extract(ctx context.Context, req *ExtractRequest) (*model.ExtractionResult, error) {
	if req == nil || strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidRequest)
	}
	target, err := fetcher.ParseTarget(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	projectID := strings.TrimSpace(req.ProjectID)
	if projectID == "" {
		projectID = uuid.NewString()
	} else if !assets.ValidProjectID(projectID) {
		return nil, fmt.Errorf("%w: project id %q", ErrInvalidRequest, projectID)
	}

	tier, _, err := resolveTier(req.Prompt, req.Tier)
	if err != nil {
		return nil, err
	}
	cfg := policy.BuildConfig(tier, withInferredName(req.Overrides, req.Prompt))

	id := uuid.New()
	started := s.now()
	elapsed := func() int64 { return s.now().Sub(started).Milliseconds() }

	timeoutMs := req.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = s.deps.TimeoutMs
	}
	languages := req.Languages
	if len(languages) == 0 {
		languages = s.deps.Languages
	}
	freq := fetcher.BuildRequestFromOptions(fetcher.RequestOptions{
		URL:       target.String(),
		Headers:   req.Headers,
		TimeoutMs: timeoutMs,
		UserAgent: s.deps.UserAgent,
		Languages: languages,
	})

	page, err := s.deps.Fetcher.Fetch(ctx, freq)
	if err != nil {
		var fe *fetcher.FetchError
		if !errors.As(err, &fe) {
			fe = &fetcher.FetchError{URL: target.String(), Reason: err.Error(), Err: err}
		}
		metrics.RecordExtraction(string(cfg.Tier), "fetch_failed", elapsed())
		s.logWarn("extraction fetch failed", "id", id, "url", target.String(), "status", fe.Status, "reason", fe.Reason)
		s.record(ctx, id, target.String(), projectID, cfg.Tier, store.StatusFailed, fe.Error(), nil)
		return nil, fe
	}

	baseURL := page.FinalURL
	if baseURL == "" {
		baseURL = target.String()
	}

	var (
		sections []model.Section
		tok      tokens.Result
		g        errgroup.Group
	)
	g.Go(func() error {
		sections = segment.Segment(page.HTML, baseURL)
		return nil
	})
	g.Go(func() error {
		tok = s.deps.Tokens.Extract(ctx, baseURL, page.HTML)
		return nil
	})
	_ = g.Wait()

	var notes []string
	notes = append(notes, tokenNotes(tok)...)
	if len(sections) == 0 {
		notes = append(notes, "structure: no sections could be identified on the page")
	}

	var (
		set       model.AssetSet
		assetErrs []model.AssetError
	)
	if s.deps.Assets != nil {
		res, err := s.deps.Assets.ExtractAndDownloadAll(ctx, page.HTML, baseURL, projectID)
		switch {
		case err != nil:
			s.logWarn("asset pipeline failed", "id", id, "project_id", projectID, "error", err)
			notes = append(notes, "assets: pipeline failed, continuing without stored assets")
		default:
			set = res.Set
			assetErrs = res.Errors
			if len(assetErrs) > 0 {
				notes = append(notes, fmt.Sprintf("assets: %d of %d downloads failed", len(assetErrs), len(assetErrs)+len(set.All())))
			}
		}
	}

	title := firstNonEmpty(page.Metadata.Title, page.Metadata.OgSiteName)
	description := page.Metadata.Description
	text := page.Text
	if text == "" {
		text = page.Markdown
	}
	industry := classify.DetectIndustry(title, description, text)
	language := s.deps.Language.Detect(page.Metadata.Language, text)

	brief := policy.BuildBrief(policy.BriefInput{
		Config:       cfg,
		SourceURL:    baseURL,
		Title:        title,
		Description:  description,
		Palette:      tok.Palette,
		Typography:   tok.Typography,
		BorderRadius: tok.BorderRadius,
		Sections:     sections,
		Assets:       set,
		Language:     language,
		Industry:     industry,
	})
	if cfg.Tier == model.TierExact && cfg.CopyImages {
		brief = assets.RewriteURLs(brief, assets.BuildURLMap(set.All()))
	}

	result := &model.ExtractionResult{
		ID:           id.String(),
		SourceURL:    baseURL,
		ProjectID:    projectID,
		Title:        title,
		Description:  description,
		Palette:      tok.Palette,
		Typography:   tok.Typography,
		BorderRadius: tok.BorderRadius,
		TokenSource:  tok.Source,
		Sections:     sections,
		Assets:       set,
		AssetErrors:  assetErrs,
		Industry:     industry,
		Language:     language,
		Config:       cfg,
		Brief:        brief,
		Notes:        notes,
		CreatedAt:    started.UTC(),
	}

	metrics.RecordExtraction(string(cfg.Tier), "completed", elapsed())
	metrics.RecordTokenSource(string(tok.Source))
	s.logInfo("extraction completed",
		"id", id,
		"url", baseURL,
		"project_id", projectID,
		"tier", cfg.Tier,
		"sections", len(sections),
		"assets", len(set.All()),
		"asset_errors", len(assetErrs),
		"token_source", tok.Source,
		"latency_ms", elapsed(),
	)
	s.record(ctx, id, baseURL, projectID, cfg.Tier, store.StatusCompleted, "", result)
	return result, nil
}

func (s *extractionService) record(ctx context.Context, id uuid.UUID, url, projectID string, tier model.Tier, status, errMsg string, output any) {
	if s.deps.Recorder == nil {
		return
	}
	if err := s.deps.Recorder.SaveExtraction(ctx, id, url, projectID, string(tier), status, errMsg, output); err != nil {
		s.logWarn("failed to record extraction", "id", id, "error", err)
	}
}

// resolveTier prefers an explicit tier and otherwise detects one from the
// prompt. detected reports which path was taken.
func resolveTier(prompt, explicit string) (tier model.Tier, detected bool, err error) {
	if strings.TrimSpace(explicit) != "" {
		t, ok := policy.ParseTier(explicit)
		if !ok {
			return "", false, fmt.Errorf("%w: unknown tier %q", ErrInvalidRequest, explicit)
		}
		return t, false, nil
	}
	return policy.DetectTier(prompt), true, nil
}

// withInferredName copies overrides and fills the business name from the
// prompt when the caller gave none.
func withInferredName(o *policy.Overrides, prompt string) *policy.Overrides {
	var out policy.Overrides
	if o != nil {
		out = *o
	}
	if strings.TrimSpace(out.BusinessName) == "" {
		out.BusinessName = policy.InferBusinessName(prompt)
	}
	return &out
}

func tokenNotes(r tokens.Result) []string {
	switch r.Source {
	case model.TokenSourceRendered:
		return nil
	case model.TokenSourceDefault:
		if r.Err != nil {
			return []string{fmt.Sprintf("design tokens: browser render failed (%v) and no static styles were found, using the default palette and typography", r.Err)}
		}
		return []string{"design tokens: no styles found, using the default palette and typography"}
	default:
		if r.Err != nil {
			return []string{fmt.Sprintf("design tokens: browser render failed (%v), derived from static HTML", r.Err)}
		}
		return []string{"design tokens: derived from static HTML without a browser render"}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

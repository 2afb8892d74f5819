package model

import "time"

// Tier is the fidelity level requested for a clone.
type Tier string

const (
	TierInspiration Tier = "inspiration"
	TierReplica     Tier = "replica"
	TierExact       Tier = "exact"
)

// ColorPalette is the color half of the extracted design tokens. IsDark is
// always derived from Background via colorutil.IsDark.
type ColorPalette struct {
	Primary          string            `json:"primary"`
	Secondary        string            `json:"secondary"`
	Accent           string            `json:"accent"`
	Background       string            `json:"background"`
	Foreground       string            `json:"foreground"`
	Muted            string            `json:"muted"`
	Border           string            `json:"border"`
	IsDark           bool              `json:"isDark"`
	HasGradients     bool              `json:"hasGradients"`
	Gradients        []string          `json:"gradients,omitempty"`
	AdditionalColors []string          `json:"additionalColors,omitempty"`
	CustomProperties map[string]string `json:"customProperties,omitempty"`
}

// HeadingSizes holds the resolved font size per heading level.
type HeadingSizes struct {
	H1 string `json:"h1,omitempty"`
	H2 string `json:"h2,omitempty"`
	H3 string `json:"h3,omitempty"`
	H4 string `json:"h4,omitempty"`
}

// Typography is the type half of the extracted design tokens.
type Typography struct {
	HeadingFont   string       `json:"headingFont"`
	BodyFont      string       `json:"bodyFont"`
	HeadingWeight string       `json:"headingWeight"`
	BodyWeight    string       `json:"bodyWeight"`
	HeadingSizes  HeadingSizes `json:"headingSizes"`
	BodySize      string       `json:"bodySize"`
	LineHeight    string       `json:"lineHeight"`
	LetterSpacing string       `json:"letterSpacing"`
	FontURLs      []string     `json:"fontUrls,omitempty"`
}

// AssetCategory groups downloaded files by the role they play on the page.
type AssetCategory string

const (
	CategoryImage      AssetCategory = "image"
	CategoryLogo       AssetCategory = "logo"
	CategoryIcon       AssetCategory = "icon"
	CategoryFont       AssetCategory = "font"
	CategoryBackground AssetCategory = "background"
)

// Asset is a locally persisted copy of a remote file.
type Asset struct {
	OriginalURL string        `json:"originalUrl"`
	StoredURL   string        `json:"storedUrl"`
	LocalPath   string        `json:"localPath"`
	Category    AssetCategory `json:"category"`
	Filename    string        `json:"filename"`
	MimeType    string        `json:"mimeType"`
	SizeBytes   int64         `json:"sizeBytes"`
}

// AssetError records why a single asset could not be stored.
type AssetError struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

func (e AssetError) Error() string {
	return e.URL + ": " + e.Reason
}

// AssetSet partitions downloaded assets by the role they were discovered in.
type AssetSet struct {
	Logo        *Asset  `json:"logo,omitempty"`
	Hero        []Asset `json:"hero,omitempty"`
	Gallery     []Asset `json:"gallery,omitempty"`
	Backgrounds []Asset `json:"backgrounds,omitempty"`
	ClientLogos []Asset `json:"clientLogos,omitempty"`
}

// All returns every asset in the set, logo first.
func (s AssetSet) All() []Asset {
	out := make([]Asset, 0, 1+len(s.Hero)+len(s.Gallery)+len(s.Backgrounds)+len(s.ClientLogos))
	if s.Logo != nil {
		out = append(out, *s.Logo)
	}
	out = append(out, s.Hero...)
	out = append(out, s.Gallery...)
	out = append(out, s.Backgrounds...)
	out = append(out, s.ClientLogos...)
	return out
}

// CloningConfig selects which facets of the source page are propagated to
// the generated site.
type CloningConfig struct {
	Tier                Tier              `json:"tier"`
	CopyColors          bool              `json:"copyColors"`
	CopyTypography      bool              `json:"copyTypography"`
	CopyStructure       bool              `json:"copyStructure"`
	CopyContent         bool              `json:"copyContent"`
	CopyImages          bool              `json:"copyImages"`
	CopyAnimations      bool              `json:"copyAnimations"`
	BusinessName        string            `json:"businessName,omitempty"`
	BusinessDescription string            `json:"businessDescription,omitempty"`
	ColorOverrides      map[string]string `json:"colorOverrides,omitempty"`
	CustomHero          *Heading          `json:"customHero,omitempty"`
	CustomFeatures      []Item            `json:"customFeatures,omitempty"`
}

// Confidence is a coarse confidence tier.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Industry is the detected business vertical of the source page.
type Industry struct {
	Label      string     `json:"label"`
	Confidence Confidence `json:"confidence"`
	Score      int        `json:"score"`
}

// Language is the detected content language of the source page.
type Language struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// TokenSource tells where the palette and typography came from.
type TokenSource string

const (
	TokenSourceRendered TokenSource = "rendered"
	TokenSourceStatic   TokenSource = "static"
	TokenSourceDefault  TokenSource = "default"
)

// ExtractionResult is the aggregate output of one extraction run.
type ExtractionResult struct {
	ID           string        `json:"id"`
	SourceURL    string        `json:"sourceUrl"`
	ProjectID    string        `json:"projectId"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Palette      ColorPalette  `json:"palette"`
	Typography   Typography    `json:"typography"`
	BorderRadius string        `json:"borderRadius,omitempty"`
	TokenSource  TokenSource   `json:"tokenSource"`
	Sections     []Section     `json:"sections"`
	Assets       AssetSet      `json:"assets"`
	AssetErrors  []AssetError  `json:"assetErrors,omitempty"`
	Industry     Industry      `json:"industry"`
	Language     Language      `json:"language"`
	Config       CloningConfig `json:"config"`
	Brief        string        `json:"brief"`
	Notes        []string      `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

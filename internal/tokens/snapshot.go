package tokens

import "context"

// ElementStyle is the resolved style of one element that anchors the
// typography or the page colors (html, body, first heading).
type ElementStyle struct {
	Background    string `json:"background"`
	Color         string `json:"color"`
	FontFamily    string `json:"fontFamily"`
	FontSize      string `json:"fontSize"`
	FontWeight    string `json:"fontWeight"`
	LineHeight    string `json:"lineHeight"`
	LetterSpacing string `json:"letterSpacing"`
	BorderRadius  string `json:"borderRadius"`
}

// Element roles recorded in a Sample.
const (
	RoleButton = "button"
	RoleLink   = "link"
)

// Sample is the computed color data of one visible element.
type Sample struct {
	Role            string `json:"role"`
	Background      string `json:"background"`
	Color           string `json:"color"`
	BorderColor     string `json:"borderColor"`
	BackgroundImage string `json:"backgroundImage"`
	BorderRadius    string `json:"borderRadius"`
}

// Snapshot is the computed-style view of a rendered page.
type Snapshot struct {
	Root             ElementStyle      `json:"root"`
	Body             ElementStyle      `json:"body"`
	Heading          *ElementStyle     `json:"heading"`
	HeadingSizes     map[string]string `json:"headingSizes"`
	Elements         []Sample          `json:"elements"`
	CustomProperties map[string]string `json:"customProperties"`
	FontURLs         []string          `json:"fontUrls"`
}

// Renderer loads a page in a real browser and captures its computed styles.
type Renderer interface {
	Snapshot(ctx context.Context, pageURL string) (*Snapshot, error)
}

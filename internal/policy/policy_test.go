package policy

import (
	"strings"
	"testing"

	"designlift/internal/model"
)

func TestDetectTier(t *testing.T) {
	cases := []struct {
		text string
		want model.Tier
	}{
		{"copia exacta 100% idéntica", model.TierExact},
		{"algo similar a esta web", model.TierReplica},
		{"crea una landing para mi negocio", model.TierInspiration},
		{"Make it IDENTICAL to stripe.com", model.TierExact},
		{"clone this page but for my bakery", model.TierReplica},
		{"I want something like this", model.TierReplica},
		{"exact clone please", model.TierExact},
		{"© copyright notice only", model.TierInspiration},
		{"", model.TierInspiration},
		{"quiero una web tal cual", model.TierExact},
		{"hazla parecida, basada en esta", model.TierReplica},
	}
	for _, tc := range cases {
		if got := DetectTier(tc.text); got != tc.want {
			t.Fatalf("DetectTier(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestBuildConfig_TierFacets(t *testing.T) {
	insp := BuildConfig(model.TierInspiration, nil)
	if insp.CopyContent || insp.CopyImages {
		t.Fatalf("inspiration must not copy content or images: %+v", insp)
	}
	for _, tier := range []model.Tier{model.TierReplica, model.TierExact} {
		c := BuildConfig(tier, nil)
		if !(c.CopyColors && c.CopyTypography && c.CopyStructure && c.CopyContent && c.CopyImages && c.CopyAnimations) {
			t.Fatalf("%s must enable every facet: %+v", tier, c)
		}
		if c.Tier != tier {
			t.Fatalf("expected tier %q, got %q", tier, c.Tier)
		}
	}
	if got := BuildConfig("bogus", nil).Tier; got != model.TierInspiration {
		t.Fatalf("unknown tier should fall back to inspiration, got %q", got)
	}
}

func TestBuildConfig_Overrides(t *testing.T) {
	off := false
	c := BuildConfig(model.TierExact, &Overrides{
		BusinessName:   "  Acme  ",
		ColorOverrides: map[string]string{"Primary": "rgb(255, 0, 0)", "shadow": "#000", "accent": "not-a-color"},
		CopyAnimations: &off,
	})
	if c.BusinessName != "Acme" {
		t.Fatalf("expected trimmed business name, got %q", c.BusinessName)
	}
	if c.CopyAnimations {
		t.Fatalf("explicit override must win over the tier")
	}
	if !c.CopyContent {
		t.Fatalf("facets without overrides keep the tier value")
	}
	if len(c.ColorOverrides) != 1 || c.ColorOverrides["primary"] != "#ff0000" {
		t.Fatalf("unexpected color overrides %v", c.ColorOverrides)
	}
}

func TestInferBusinessName(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Build a landing for Acme Labs, similar to stripe.com", "Acme Labs"},
		{`a site called "the green room" like this`, "the green room"},
		{"una empresa llamada Sol y Mar", "Sol y Mar"},
		{"una web para mi panadería Dulce Hogar", "Dulce Hogar"},
		{"crea una landing para mi negocio", ""},
		{"something nice before lunch", ""},
	}
	for _, tc := range cases {
		if got := InferBusinessName(tc.text); got != tc.want {
			t.Fatalf("InferBusinessName(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func sampleInput(tier model.Tier) BriefInput {
	return BriefInput{
		Config:    BuildConfig(tier, &Overrides{BusinessName: "Acme"}),
		SourceURL: "https://example.com/",
		Title:     "Example",
		Palette: model.ColorPalette{
			Primary: "#2563eb", Secondary: "#64748b", Accent: "#f59e0b",
			Background: "#0b0b0b", Foreground: "#fafafa", Muted: "#9ca3af", Border: "#27272a",
			IsDark: true, HasGradients: true, Gradients: []string{"linear-gradient(red, blue)"},
		},
		Typography: model.Typography{
			HeadingFont: "Poppins", BodyFont: "Inter", HeadingWeight: "700", BodyWeight: "400",
			HeadingSizes: model.HeadingSizes{H1: "48px", H2: "36px", H3: "24px", H4: "20px"},
			BodySize:     "16px", LineHeight: "1.5",
		},
		BorderRadius: "12px",
		Sections: []model.Section{
			{Type: model.SectionHero, Variant: "centered", Content: model.HeroContent{Heading: model.Heading{Title: "Ship faster"}}},
			{Type: model.SectionFeatures, Variant: "cards3d", Content: model.ItemsContent{Items: []model.Item{{Title: "Fast"}, {Title: "Safe"}, {Title: "Cheap"}}}},
			{Type: model.SectionStats, Content: model.StatsContent{}},
			{Type: model.SectionFooter, Content: model.FooterContent{Copyright: "© 2024 Example"}},
		},
		Assets: model.AssetSet{
			Logo: &model.Asset{StoredURL: "/cloned-assets/p/logo-1.png"},
			Hero: []model.Asset{{StoredURL: "/cloned-assets/p/image-2.jpg"}},
		},
		Language: model.Language{Code: "es", Name: "Spanish", Confidence: 0.9},
	}
}

func TestBuildBrief_Exact(t *testing.T) {
	brief := BuildBrief(sampleInput(model.TierExact))
	for _, want := range []string{
		"## Fidelity: EXACT",
		"- Name: Acme",
		"- primary: #2563eb",
		"- Headings: Poppins, weight 700",
		"1. hero (centered)",
		"2. features (cards3d), 3 items",
		"3. footer",
		"Reproduce the source text verbatim",
		`- title: "Ship faster"`,
		`- copyright: "© 2024 Example"`,
		"- logo: /cloned-assets/p/logo-1.png",
		"- hero: /cloned-assets/p/image-2.jpg",
		"- Theme: dark",
		"- Corner rounding: 12px",
		"MUST be written in Spanish (es)",
	} {
		if !strings.Contains(brief, want) {
			t.Fatalf("brief missing %q:\n%s", want, brief)
		}
	}
	if strings.Contains(brief, "stats") {
		t.Fatalf("empty stats section must not be listed:\n%s", brief)
	}
	if BuildBrief(sampleInput(model.TierExact)) != brief {
		t.Fatalf("brief must be deterministic")
	}
}

func TestBuildBrief_Inspiration(t *testing.T) {
	brief := BuildBrief(sampleInput(model.TierInspiration))
	if !strings.Contains(brief, "Do not copy any source text") {
		t.Fatalf("inspiration brief must forbid copying text:\n%s", brief)
	}
	if strings.Contains(brief, "Ship faster") {
		t.Fatalf("inspiration brief leaked source text:\n%s", brief)
	}
	if strings.Contains(brief, "/cloned-assets/") {
		t.Fatalf("inspiration brief must not reference stored assets:\n%s", brief)
	}
	if !strings.Contains(brief, "Generate new images") {
		t.Fatalf("expected image generation instructions:\n%s", brief)
	}
}

func TestBuildBrief_ReplicaAndOverrides(t *testing.T) {
	in := sampleInput(model.TierReplica)
	in.Config.ColorOverrides = map[string]string{"background": "#ffffff"}
	in.Language = model.Language{}
	brief := BuildBrief(in)
	if !strings.Contains(brief, "Adapt the source tone") {
		t.Fatalf("replica brief must ask for adaptation:\n%s", brief)
	}
	if !strings.Contains(brief, "- background: #ffffff") || !strings.Contains(brief, "- Theme: light") {
		t.Fatalf("override must drive background and theme:\n%s", brief)
	}
	if !strings.Contains(brief, "English (en)") {
		t.Fatalf("missing language should default to English:\n%s", brief)
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Idéntica PÁGINA ñu"); got != "identica pagina nu" {
		t.Fatalf("unexpected fold %q", got)
	}
}

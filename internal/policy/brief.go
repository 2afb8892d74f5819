package policy

import (
	"fmt"
	"strings"

	"designlift/internal/model"
)

// BriefInput is everything the brief is assembled from.
type BriefInput struct {
	Config       model.CloningConfig
	SourceURL    string
	Title        string
	Description  string
	Palette      model.ColorPalette
	Typography   model.Typography
	BorderRadius string
	Sections     []model.Section
	Assets       model.AssetSet
	Language     model.Language
	Industry     model.Industry
}

var tierGoals = map[model.Tier]string{
	model.TierInspiration: "Create an original site that borrows the overall feel of the source. Structure and palette guide the design; every word and image is new.",
	model.TierReplica:     "Rebuild the source site for the target business. Keep its layout, palette and type, and adapt its content and tone to the new business.",
	model.TierExact:       "Reproduce the source site as faithfully as possible. Layout, colors, typography, text and images must match the source.",
}

var languageNames = map[string]string{
	"en": "English", "es": "Spanish", "pt": "Portuguese", "fr": "French",
	"de": "German", "it": "Italian", "nl": "Dutch", "ca": "Catalan",
}

// BuildBrief assembles the generation brief. The output depends only on
// its input.
func BuildBrief(in BriefInput) string {
	cfg := in.Config
	var b strings.Builder

	fmt.Fprintf(&b, "# Generation brief\n\n## Fidelity: %s\n%s\n", strings.ToUpper(string(cfg.Tier)), tierGoals[cfg.Tier])
	if in.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n", in.SourceURL)
	}

	if cfg.BusinessName != "" || cfg.BusinessDescription != "" {
		b.WriteString("\n## Business\n")
		if cfg.BusinessName != "" {
			fmt.Fprintf(&b, "- Name: %s\n", cfg.BusinessName)
		}
		if cfg.BusinessDescription != "" {
			fmt.Fprintf(&b, "- Description: %s\n", cfg.BusinessDescription)
		}
	}
	if in.Industry.Label != "" && in.Industry.Label != "general" {
		fmt.Fprintf(&b, "- Detected industry: %s (%s confidence)\n", in.Industry.Label, in.Industry.Confidence)
	}

	writeColors(&b, in)
	writeTypography(&b, in)
	writeStructure(&b, in)
	writeContent(&b, in)
	writeImages(&b, in)
	writeStyle(&b, in)
	writeLanguage(&b, in.Language)
	return b.String()
}

func writeColors(b *strings.Builder, in BriefInput) {
	b.WriteString("\n## Colors\n")
	if !in.Config.CopyColors {
		b.WriteString("Choose a new palette that fits the business. Do not reuse the source colors.\n")
		return
	}
	p := ApplyColorOverrides(in.Palette, in.Config.ColorOverrides)
	b.WriteString("Use these exact values:\n")
	for _, c := range []struct{ name, value string }{
		{"primary", p.Primary}, {"secondary", p.Secondary}, {"accent", p.Accent},
		{"background", p.Background}, {"foreground", p.Foreground},
		{"muted", p.Muted}, {"border", p.Border},
	} {
		fmt.Fprintf(b, "- %s: %s\n", c.name, c.value)
	}
	if len(p.AdditionalColors) > 0 {
		fmt.Fprintf(b, "- additional: %s\n", strings.Join(p.AdditionalColors, ", "))
	}
	if len(in.Config.ColorOverrides) > 0 {
		b.WriteString("Requested overrides are already applied above.\n")
	}
}

func writeTypography(b *strings.Builder, in BriefInput) {
	t := in.Typography
	b.WriteString("\n## Typography\n")
	if !in.Config.CopyTypography {
		b.WriteString("Pick fonts that suit the business.\n")
		return
	}
	fmt.Fprintf(b, "- Headings: %s, weight %s\n", t.HeadingFont, t.HeadingWeight)
	fmt.Fprintf(b, "- Body: %s, weight %s, size %s, line height %s\n", t.BodyFont, t.BodyWeight, t.BodySize, t.LineHeight)
	fmt.Fprintf(b, "- Heading sizes: h1 %s, h2 %s, h3 %s, h4 %s\n", t.HeadingSizes.H1, t.HeadingSizes.H2, t.HeadingSizes.H3, t.HeadingSizes.H4)
	if t.LetterSpacing != "" && t.LetterSpacing != "normal" {
		fmt.Fprintf(b, "- Letter spacing: %s\n", t.LetterSpacing)
	}
	if len(t.FontURLs) > 0 {
		fmt.Fprintf(b, "- Font stylesheets: %s\n", strings.Join(t.FontURLs, ", "))
	}
}

func writeStructure(b *strings.Builder, in BriefInput) {
	b.WriteString("\n## Section order\n")
	sections := populated(in.Sections)
	if len(sections) == 0 {
		b.WriteString("No clear structure was detected. Use header, hero, features, call to action and footer.\n")
		return
	}
	if !in.Config.CopyStructure {
		b.WriteString("The source uses the sections below; treat the order as a suggestion.\n")
	} else {
		b.WriteString("Build these sections in this order:\n")
	}
	for i, s := range sections {
		line := fmt.Sprintf("%d. %s", i+1, s.Type)
		if s.Variant != "" && s.Variant != model.DefaultVariant {
			line += " (" + s.Variant + ")"
		}
		if n := itemCount(s.Content); n > 0 {
			line += fmt.Sprintf(", %d items", n)
		}
		b.WriteString(line + "\n")
	}
}

func writeContent(b *strings.Builder, in BriefInput) {
	cfg := in.Config
	b.WriteString("\n## Content\n")
	switch {
	case cfg.Tier == model.TierExact && cfg.CopyContent:
		b.WriteString("Reproduce the source text verbatim:\n")
		for _, s := range populated(in.Sections) {
			writeVerbatim(b, s)
		}
	case cfg.CopyContent:
		b.WriteString("Adapt the source tone and messaging to the target business. Keep the same kind of claims and calls to action, rewritten for the new business.\n")
		if in.Title != "" {
			fmt.Fprintf(b, "Source title for reference: %s\n", in.Title)
		}
		if in.Description != "" {
			fmt.Fprintf(b, "Source description for reference: %s\n", in.Description)
		}
	default:
		b.WriteString("Write entirely new content for the business. Do not copy any source text.\n")
	}
	if h := cfg.CustomHero; h != nil && h.Title != "" {
		fmt.Fprintf(b, "Hero override: title %q", h.Title)
		if h.Subtitle != "" {
			fmt.Fprintf(b, ", subtitle %q", h.Subtitle)
		}
		b.WriteString("\n")
	}
	for _, f := range cfg.CustomFeatures {
		fmt.Fprintf(b, "Required feature: %s", f.Title)
		if f.Description != "" {
			fmt.Fprintf(b, ": %s", f.Description)
		}
		b.WriteString("\n")
	}
}

func writeImages(b *strings.Builder, in BriefInput) {
	cfg := in.Config
	b.WriteString("\n## Images\n")
	all := in.Assets.All()
	if cfg.Tier == model.TierExact && cfg.CopyImages && len(all) > 0 {
		b.WriteString("Use these downloaded assets exactly:\n")
		if in.Assets.Logo != nil {
			fmt.Fprintf(b, "- logo: %s\n", in.Assets.Logo.StoredURL)
		}
		writeAssetList(b, "hero", in.Assets.Hero)
		writeAssetList(b, "gallery", in.Assets.Gallery)
		writeAssetList(b, "background", in.Assets.Backgrounds)
		writeAssetList(b, "client logo", in.Assets.ClientLogos)
		return
	}
	if cfg.CopyImages && in.Assets.Logo != nil {
		fmt.Fprintf(b, "Logo available at %s.\n", in.Assets.Logo.StoredURL)
	}
	b.WriteString("Generate new images in a style similar to the source: same mood, color temperature and framing.\n")
}

func writeAssetList(b *strings.Builder, label string, assets []model.Asset) {
	for _, a := range assets {
		fmt.Fprintf(b, "- %s: %s\n", label, a.StoredURL)
	}
}

func writeStyle(b *strings.Builder, in BriefInput) {
	p := ApplyColorOverrides(in.Palette, in.Config.ColorOverrides)
	b.WriteString("\n## Visual style\n")
	if p.IsDark {
		b.WriteString("- Theme: dark\n")
	} else {
		b.WriteString("- Theme: light\n")
	}
	if p.HasGradients {
		fmt.Fprintf(b, "- Gradients: yes (%d found)\n", len(p.Gradients))
	} else {
		b.WriteString("- Gradients: none\n")
	}
	radius := in.BorderRadius
	if radius == "" {
		radius = "8px"
	}
	fmt.Fprintf(b, "- Corner rounding: %s\n", radius)
	if in.Config.CopyAnimations {
		b.WriteString("- Motion: keep subtle entrance animations where the source uses them\n")
	}
}

func writeLanguage(b *strings.Builder, lang model.Language) {
	code := lang.Code
	if code == "" {
		code = "en"
	}
	name := lang.Name
	if name == "" {
		name = languageNames[code]
	}
	if name == "" {
		name = code
	}
	b.WriteString("\n## Language\n")
	fmt.Fprintf(b, "All generated content MUST be written in %s (%s), the language of the source site.\n", name, code)
}

// populated drops sections whose content carries nothing to build from.
func populated(sections []model.Section) []model.Section {
	out := make([]model.Section, 0, len(sections))
	for _, s := range sections {
		if hasContent(s.Content) {
			out = append(out, s)
		}
	}
	return out
}

func hasContent(c model.Content) bool {
	if c == nil {
		return false
	}
	if c.Head().Title != "" {
		return true
	}
	switch v := c.(type) {
	case model.HeaderContent:
		return v.Logo != "" || len(v.Navigation) > 0
	case model.FooterContent:
		return v.Copyright != "" || len(v.Navigation) > 0 || len(v.Social) > 0
	case model.LocationContent:
		return v.Address != "" || v.Phone != "" || v.Email != "" || v.MapURL != ""
	case model.AboutContent:
		return len(v.Paragraphs) > 0
	case model.GenericContent:
		return len(v.Paragraphs) > 0 || len(v.Images) > 0
	case model.HeroContent:
		return len(v.Images) > 0 || len(v.CTAs) > 0
	}
	return itemCount(c) > 0
}

// itemCount is the length of the section's main list.
func itemCount(c model.Content) int {
	switch v := c.(type) {
	case model.ItemsContent:
		return len(v.Items)
	case model.LogoCloudContent:
		return len(v.Logos)
	case model.ProcessContent:
		return len(v.Steps)
	case model.StatsContent:
		return len(v.Stats)
	case model.TestimonialsContent:
		return len(v.Testimonials)
	case model.PricingContent:
		return len(v.Plans)
	case model.FAQContent:
		return len(v.FAQs)
	case model.GalleryContent:
		return len(v.Images) + len(v.Items)
	case model.TeamContent:
		return len(v.Members)
	case model.CTAContent:
		return len(v.CTAs)
	case model.FormContent:
		return len(v.Fields)
	}
	return 0
}

// writeVerbatim enumerates the source text of one section.
func writeVerbatim(b *strings.Builder, s model.Section) {
	h := s.Content.Head()
	fmt.Fprintf(b, "\n### %s\n", s.Type)
	quote := func(label, text string) {
		if text != "" {
			fmt.Fprintf(b, "- %s: %q\n", label, text)
		}
	}
	quote("title", h.Title)
	quote("subtitle", h.Subtitle)
	quote("description", h.Description)

	switch v := s.Content.(type) {
	case model.HeaderContent:
		for _, l := range v.Navigation {
			quote("nav", l.Label)
		}
		writeCTAs(b, v.CTAs)
	case model.HeroContent:
		writeCTAs(b, v.CTAs)
	case model.ItemsContent:
		for _, it := range v.Items {
			quote("item", joinNonEmpty(" | ", it.Title, it.Description, it.Price))
		}
		writeCTAs(b, v.CTAs)
	case model.AboutContent:
		for _, p := range v.Paragraphs {
			quote("paragraph", p)
		}
		for _, st := range v.Stats {
			quote("stat", st.Value+" "+st.Label)
		}
	case model.ProcessContent:
		for _, st := range v.Steps {
			quote(fmt.Sprintf("step %d", st.Number), joinNonEmpty(" | ", st.Title, st.Description))
		}
	case model.StatsContent:
		for _, st := range v.Stats {
			quote("stat", st.Value+" "+st.Label)
		}
	case model.TestimonialsContent:
		for _, t := range v.Testimonials {
			quote("testimonial", joinNonEmpty(" | ", t.Quote, t.Author, t.Role, t.Company))
		}
	case model.PricingContent:
		for _, p := range v.Plans {
			quote("plan", joinNonEmpty(" | ", p.Name, p.Price+p.Period, p.Description, strings.Join(p.Features, "; ")))
		}
	case model.FAQContent:
		for _, f := range v.FAQs {
			quote("question", f.Question)
			quote("answer", f.Answer)
		}
	case model.GalleryContent:
		for _, it := range v.Items {
			quote("item", joinNonEmpty(" | ", it.Title, it.Description))
		}
	case model.TeamContent:
		for _, m := range v.Members {
			quote("member", joinNonEmpty(" | ", m.Name, m.Role))
		}
	case model.LocationContent:
		quote("address", v.Address)
		quote("phone", v.Phone)
		quote("email", v.Email)
	case model.CTAContent:
		writeCTAs(b, v.CTAs)
	case model.FormContent:
		for _, f := range v.Fields {
			quote("field", joinNonEmpty(" | ", f.Label, f.Name, f.Type))
		}
		quote("submit", v.Submit)
	case model.FooterContent:
		for _, l := range v.Navigation {
			quote("link", l.Label)
		}
		quote("copyright", v.Copyright)
	case model.GenericContent:
		for _, p := range v.Paragraphs {
			quote("paragraph", p)
		}
		writeCTAs(b, v.CTAs)
	}
}

func writeCTAs(b *strings.Builder, ctas []model.CTA) {
	for _, c := range ctas {
		fmt.Fprintf(b, "- button (%s): %q\n", c.Style, c.Text)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

package policy

import (
	"strings"

	"designlift/internal/colorutil"
	"designlift/internal/model"
)

// facets is the set of propagation flags a tier implies.
type facets struct {
	colors, typography, structure, content, images, animations bool
}

// tierFacets is the policy table. Adding a tier means adding a row.
var tierFacets = map[model.Tier]facets{
	model.TierInspiration: {colors: true, typography: true, structure: true},
	model.TierReplica:     {colors: true, typography: true, structure: true, content: true, images: true, animations: true},
	model.TierExact:       {colors: true, typography: true, structure: true, content: true, images: true, animations: true},
}

// Overrides are caller-supplied adjustments applied after the tier table.
// Nil facet pointers leave the tier's value in place.
type Overrides struct {
	BusinessName        string            `json:"businessName,omitempty"`
	BusinessDescription string            `json:"businessDescription,omitempty"`
	ColorOverrides      map[string]string `json:"colorOverrides,omitempty"`
	CustomHero          *model.Heading    `json:"customHero,omitempty"`
	CustomFeatures      []model.Item      `json:"customFeatures,omitempty"`

	CopyColors     *bool `json:"copyColors,omitempty"`
	CopyTypography *bool `json:"copyTypography,omitempty"`
	CopyStructure  *bool `json:"copyStructure,omitempty"`
	CopyContent    *bool `json:"copyContent,omitempty"`
	CopyImages     *bool `json:"copyImages,omitempty"`
	CopyAnimations *bool `json:"copyAnimations,omitempty"`
}

// paletteRoles are the keys accepted in ColorOverrides.
var paletteRoles = map[string]bool{
	"primary": true, "secondary": true, "accent": true, "background": true,
	"foreground": true, "muted": true, "border": true,
}

// BuildConfig expands tier through the policy table and applies o. An
// unknown tier is treated as inspiration.
func BuildConfig(tier model.Tier, o *Overrides) model.CloningConfig {
	f, ok := tierFacets[tier]
	if !ok {
		tier = model.TierInspiration
		f = tierFacets[tier]
	}
	cfg := model.CloningConfig{
		Tier:           tier,
		CopyColors:     f.colors,
		CopyTypography: f.typography,
		CopyStructure:  f.structure,
		CopyContent:    f.content,
		CopyImages:     f.images,
		CopyAnimations: f.animations,
	}
	if o == nil {
		return cfg
	}

	cfg.BusinessName = strings.TrimSpace(o.BusinessName)
	cfg.BusinessDescription = strings.TrimSpace(o.BusinessDescription)
	cfg.CustomHero = o.CustomHero
	cfg.CustomFeatures = o.CustomFeatures
	for role, value := range o.ColorOverrides {
		role = strings.ToLower(strings.TrimSpace(role))
		if !paletteRoles[role] {
			continue
		}
		if c, ok := colorutil.Parse(value); ok {
			if cfg.ColorOverrides == nil {
				cfg.ColorOverrides = map[string]string{}
			}
			cfg.ColorOverrides[role] = c.Hex()
		}
	}

	apply := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&cfg.CopyColors, o.CopyColors)
	apply(&cfg.CopyTypography, o.CopyTypography)
	apply(&cfg.CopyStructure, o.CopyStructure)
	apply(&cfg.CopyContent, o.CopyContent)
	apply(&cfg.CopyImages, o.CopyImages)
	apply(&cfg.CopyAnimations, o.CopyAnimations)
	return cfg
}

// ApplyColorOverrides returns p with the configured overrides applied and
// IsDark re-derived from the resulting background.
func ApplyColorOverrides(p model.ColorPalette, overrides map[string]string) model.ColorPalette {
	for role, v := range overrides {
		switch role {
		case "primary":
			p.Primary = v
		case "secondary":
			p.Secondary = v
		case "accent":
			p.Accent = v
		case "background":
			p.Background = v
		case "foreground":
			p.Foreground = v
		case "muted":
			p.Muted = v
		case "border":
			p.Border = v
		}
	}
	p.IsDark = colorutil.IsDark(p.Background)
	return p
}

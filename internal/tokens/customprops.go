package tokens

import (
	"regexp"
	"strings"

	"designlift/internal/colorutil"
	"designlift/internal/model"
)

// tokenNames lists conventional custom property names per palette role,
// without the leading "--". Earlier names win.
var tokenNames = []struct {
	role  string
	names []string
}{
	{"primary", []string{"primary", "color-primary", "primary-color", "brand", "brand-color", "color-brand", "brand-primary", "theme-primary", "theme-color", "main-color"}},
	{"secondary", []string{"secondary", "color-secondary", "secondary-color", "brand-secondary", "theme-secondary"}},
	{"accent", []string{"accent", "color-accent", "accent-color", "brand-accent", "theme-accent"}},
	{"background", []string{"background", "bg", "color-background", "background-color", "bg-color", "theme-background"}},
	{"foreground", []string{"foreground", "text", "color-text", "text-color", "fg", "color-foreground"}},
}

var varRefRe = regexp.MustCompile(`^var\(\s*(--[\w-]+)\s*(?:,\s*(.+))?\)$`)

// resolveVar follows var() references inside props, up to a few levels.
func resolveVar(value string, props map[string]string) string {
	value = strings.TrimSpace(value)
	for depth := 0; depth < 4; depth++ {
		m := varRefRe.FindStringSubmatch(value)
		if m == nil {
			return value
		}
		next, ok := props[m[1]]
		if !ok {
			return strings.TrimSpace(m[2])
		}
		value = strings.TrimSpace(next)
	}
	return value
}

// tokenColors resolves the conventional token names found in props to
// #rrggbb colors, keyed by "--name".
func tokenColors(props map[string]string) (byRole map[string]string, resolved map[string]string) {
	byRole = map[string]string{}
	resolved = map[string]string{}
	for _, group := range tokenNames {
		for _, name := range group.names {
			raw, ok := props["--"+name]
			if !ok {
				continue
			}
			c, ok := colorutil.Parse(resolveVar(raw, props))
			if !ok {
				continue
			}
			hex := c.Hex()
			resolved["--"+name] = hex
			if _, taken := byRole[group.role]; !taken {
				byRole[group.role] = hex
			}
		}
	}
	return byRole, resolved
}

// applyCustomProperties lets declared design tokens override the primary,
// secondary, and accent colors and records every resolved token.
func applyCustomProperties(p *model.ColorPalette, props map[string]string) {
	if len(props) == 0 {
		return
	}
	byRole, resolved := tokenColors(props)
	if v, ok := byRole["primary"]; ok {
		if p.Accent == p.Primary {
			p.Accent = v
		}
		p.Primary = v
	}
	if v, ok := byRole["secondary"]; ok {
		p.Secondary = v
	}
	if v, ok := byRole["accent"]; ok {
		p.Accent = v
	}
	if len(resolved) > 0 {
		p.CustomProperties = resolved
	}
}

// Package colorutil parses CSS color values and derives the perceptual
// properties the segmenter and token extractor rely on.
package colorutil

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// RGBA is a parsed CSS color with straight alpha in [0,1].
type RGBA struct {
	Color colorful.Color
	Alpha float64
}

// Hex returns the color as #rrggbb, ignoring alpha.
func (c RGBA) Hex() string {
	return c.Color.Clamped().Hex()
}

// Parse understands hex (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb()/rgba(),
// hsl()/hsla() in both comma and space syntax, bare "H S% L%" triplets as
// used by many CSS variable themes, named colors and "transparent".
func Parse(raw string) (RGBA, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "!important")
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBA{}, false
	}

	switch {
	case s == "transparent":
		return RGBA{Alpha: 0}, true
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFunc(s, false)
	case strings.HasPrefix(s, "hsl"):
		return parseFunc(s, true)
	}

	if named, ok := colornames.Map[s]; ok {
		c, _ := colorful.MakeColor(named)
		return RGBA{Color: c, Alpha: 1}, true
	}

	// Bare "222.2 47.4% 11.2%" component triplets.
	if parts := strings.Fields(s); len(parts) == 3 && strings.HasSuffix(parts[1], "%") && strings.HasSuffix(parts[2], "%") {
		return parseFunc("hsl("+s+")", true)
	}

	return RGBA{}, false
}

func parseHex(s string) (RGBA, bool) {
	digits := strings.TrimPrefix(s, "#")
	alpha := 1.0
	switch len(digits) {
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(digits[3:], 2), 16, 8)
		if err != nil {
			return RGBA{}, false
		}
		alpha = float64(a) / 255
		digits = digits[:3]
	case 8:
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return RGBA{}, false
		}
		alpha = float64(a) / 255
		digits = digits[:6]
	}
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 {
		return RGBA{}, false
	}
	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return RGBA{}, false
	}
	return RGBA{Color: c, Alpha: alpha}, true
}

func parseFunc(s string, hsl bool) (RGBA, bool) {
	open := strings.Index(s, "(")
	closeIdx := strings.LastIndex(s, ")")
	if open < 0 || closeIdx <= open {
		return RGBA{}, false
	}
	body := s[open+1 : closeIdx]
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	parts := strings.Fields(body)
	if len(parts) < 3 {
		return RGBA{}, false
	}

	alpha := 1.0
	if len(parts) >= 4 {
		a, ok := parseComponent(parts[3], 1)
		if !ok {
			return RGBA{}, false
		}
		alpha = a
	}

	if hsl {
		h, err := strconv.ParseFloat(strings.TrimSuffix(parts[0], "deg"), 64)
		if err != nil {
			return RGBA{}, false
		}
		sat, ok1 := parseComponent(parts[1], 1)
		light, ok2 := parseComponent(parts[2], 1)
		if !ok1 || !ok2 {
			return RGBA{}, false
		}
		return RGBA{Color: colorful.Hsl(math.Mod(h+360, 360), sat, light), Alpha: alpha}, true
	}

	r, ok1 := parseComponent(parts[0], 255)
	g, ok2 := parseComponent(parts[1], 255)
	b, ok3 := parseComponent(parts[2], 255)
	if !ok1 || !ok2 || !ok3 {
		return RGBA{}, false
	}
	return RGBA{Color: colorful.Color{R: r, G: g, B: b}, Alpha: alpha}, true
}

// parseComponent returns v/scale in [0,1]; percentages are taken literally.
func parseComponent(v string, scale float64) (float64, bool) {
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(f / scale), true
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// Normalize converts a CSS color to #rrggbb. Values that cannot be resolved
// (oklch(), var(), color-mix() ...) are returned trimmed and unchanged.
func Normalize(raw string) string {
	c, ok := Parse(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return c.Hex()
}

// IsHex reports whether s is already a normalized #rrggbb value.
func IsHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// Opaque reports whether the color parses with alpha close to 1.
func Opaque(raw string) bool {
	c, ok := Parse(raw)
	return ok && c.Alpha >= 0.95
}

// Visible reports whether the color parses with a non-zero alpha.
func Visible(raw string) bool {
	c, ok := Parse(raw)
	return ok && c.Alpha > 0.05
}

// Luminance is the Rec. 601 perceptual luminance in [0,1]. Unparseable
// input yields -1.
func Luminance(raw string) float64 {
	c, ok := Parse(raw)
	if !ok {
		return -1
	}
	cc := c.Color.Clamped()
	return 0.299*cc.R + 0.587*cc.G + 0.114*cc.B
}

// IsDark is the single source of truth for dark-background detection.
func IsDark(background string) bool {
	l := Luminance(background)
	return l >= 0 && l < 0.5
}

// IsPureBlackOrWhite reports #000000 and #ffffff.
func IsPureBlackOrWhite(raw string) bool {
	h := Normalize(raw)
	return h == "#000000" || h == "#ffffff"
}

// Saturation returns the HSL saturation, or 0 when unparseable.
func Saturation(raw string) float64 {
	c, ok := Parse(raw)
	if !ok {
		return 0
	}
	_, s, _ := c.Color.Clamped().Hsl()
	return s
}

// Mix blends a toward b by t in RGB space and returns #rrggbb.
func Mix(a, b string, t float64) string {
	ca, ok1 := Parse(a)
	cb, ok2 := Parse(b)
	if !ok1 || !ok2 {
		return Normalize(a)
	}
	return ca.Color.BlendRgb(cb.Color, t).Clamped().Hex()
}

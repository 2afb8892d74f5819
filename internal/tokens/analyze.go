package tokens

import (
	"sort"
	"strings"

	"designlift/internal/colorutil"
	"designlift/internal/model"
)

// tally counts colors and ranks them by frequency, ties broken by first
// appearance so the ranking is deterministic.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(hex string, weight int) {
	if hex == "" {
		return
	}
	if _, ok := t.counts[hex]; !ok {
		t.order = append(t.order, hex)
	}
	t.counts[hex] += weight
}

func (t *tally) ranked() []string {
	out := append([]string(nil), t.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return t.counts[out[i]] > t.counts[out[j]]
	})
	return out
}

func (t *tally) top() string {
	if r := t.ranked(); len(r) > 0 {
		return r[0]
	}
	return ""
}

// opaqueHex returns the #rrggbb form of an opaque color, or "".
func opaqueHex(raw string) string {
	if !colorutil.Opaque(raw) {
		return ""
	}
	return colorutil.Normalize(raw)
}

func visibleHex(raw string) string {
	if !colorutil.Visible(raw) {
		return ""
	}
	return colorutil.Normalize(raw)
}

// Analyze derives palette, typography, and corner rounding from a rendered
// snapshot. It is a pure function of its input.
func Analyze(s *Snapshot) Result {
	palette := analyzePalette(s)
	return Result{
		Palette:      palette,
		Typography:   analyzeTypography(s),
		BorderRadius: dominantRadius(s.Elements),
		Source:       model.TokenSourceRendered,
	}
}

func analyzePalette(s *Snapshot) model.ColorPalette {
	def := DefaultPalette()
	p := model.ColorPalette{}

	p.Background = firstNonEmpty(opaqueHex(s.Root.Background), opaqueHex(s.Body.Background), def.Background)
	p.Foreground = firstNonEmpty(visibleHex(s.Body.Color), visibleHex(s.Root.Color), def.Foreground)

	overall := newTally()
	buttons := newTally()
	links := newTally()
	texts := newTally()
	borders := newTally()
	seenGradient := map[string]bool{}

	for _, e := range s.Elements {
		if bg := opaqueHex(e.Background); bg != "" && !colorutil.IsPureBlackOrWhite(bg) {
			overall.add(bg, 1)
			if e.Role == RoleButton {
				buttons.add(bg, 1)
			}
		}
		if fg := visibleHex(e.Color); fg != "" {
			overall.add(fg, 1)
			texts.add(fg, 1)
			if e.Role == RoleLink {
				links.add(fg, 1)
			}
		}
		if bc := visibleHex(e.BorderColor); bc != "" {
			borders.add(bc, 1)
		}
		if img := e.BackgroundImage; strings.Contains(img, "gradient(") && !seenGradient[img] && len(p.Gradients) < 10 {
			seenGradient[img] = true
			p.Gradients = append(p.Gradients, img)
		}
	}
	p.HasGradients = len(p.Gradients) > 0

	ranked := overall.ranked()
	p.Primary = buttons.top()
	if p.Primary == "" {
		for _, c := range ranked {
			if l := colorutil.Luminance(c); l > 0.2 && l < 0.8 {
				p.Primary = c
				break
			}
		}
	}
	if p.Primary == "" {
		p.Primary = def.Primary
	}

	for _, c := range ranked {
		if c != p.Primary && c != p.Background && c != p.Foreground {
			p.Secondary = c
			break
		}
	}
	if p.Secondary == "" {
		p.Secondary = def.Secondary
	}

	for _, c := range links.ranked() {
		if c != p.Foreground {
			p.Accent = c
			break
		}
	}
	if p.Accent == "" {
		p.Accent = p.Primary
	}

	for _, c := range texts.ranked() {
		if c != p.Foreground && colorutil.Saturation(c) < 0.2 {
			p.Muted = c
			break
		}
	}
	if p.Muted == "" {
		p.Muted = colorutil.Mix(p.Foreground, p.Background, 0.4)
	}
	for _, c := range borders.ranked() {
		if c != p.Foreground {
			p.Border = c
			break
		}
	}
	if p.Border == "" {
		p.Border = colorutil.Mix(p.Foreground, p.Background, 0.85)
	}

	used := map[string]bool{p.Primary: true, p.Secondary: true, p.Accent: true, p.Background: true, p.Foreground: true, p.Muted: true, p.Border: true}
	for _, c := range ranked {
		if used[c] {
			continue
		}
		p.AdditionalColors = append(p.AdditionalColors, c)
		if len(p.AdditionalColors) >= 5 {
			break
		}
	}

	applyCustomProperties(&p, s.CustomProperties)
	p.IsDark = colorutil.IsDark(p.Background)
	return p
}

func analyzeTypography(s *Snapshot) model.Typography {
	def := DefaultTypography()
	t := model.Typography{
		BodyFont:      firstNonEmpty(primaryFamily(s.Body.FontFamily), def.BodyFont),
		BodyWeight:    firstNonEmpty(s.Body.FontWeight, def.BodyWeight),
		BodySize:      firstNonEmpty(s.Body.FontSize, def.BodySize),
		LineHeight:    firstNonEmpty(s.Body.LineHeight, def.LineHeight),
		LetterSpacing: firstNonEmpty(s.Body.LetterSpacing, def.LetterSpacing),
		FontURLs:      s.FontURLs,
	}
	t.HeadingFont = t.BodyFont
	t.HeadingWeight = def.HeadingWeight
	if s.Heading != nil {
		t.HeadingFont = firstNonEmpty(primaryFamily(s.Heading.FontFamily), t.BodyFont)
		t.HeadingWeight = firstNonEmpty(s.Heading.FontWeight, def.HeadingWeight)
	}
	t.HeadingSizes = model.HeadingSizes{
		H1: firstNonEmpty(s.HeadingSizes["h1"], def.HeadingSizes.H1),
		H2: firstNonEmpty(s.HeadingSizes["h2"], def.HeadingSizes.H2),
		H3: firstNonEmpty(s.HeadingSizes["h3"], def.HeadingSizes.H3),
		H4: firstNonEmpty(s.HeadingSizes["h4"], def.HeadingSizes.H4),
	}
	return t
}

// primaryFamily returns the first family of a CSS font-family list.
func primaryFamily(list string) string {
	first, _, _ := strings.Cut(list, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

// dominantRadius is the most common non-zero corner radius among buttons,
// then among all elements.
func dominantRadius(elements []Sample) string {
	buttons := newTally()
	all := newTally()
	for _, e := range elements {
		r := strings.TrimSpace(e.BorderRadius)
		if r == "" || r == "0px" || r == "0" {
			continue
		}
		all.add(r, 1)
		if e.Role == RoleButton {
			buttons.add(r, 1)
		}
	}
	return firstNonEmpty(buttons.top(), all.top(), "0px")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

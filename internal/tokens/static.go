package tokens

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"designlift/internal/colorutil"
	"designlift/internal/model"
)

var (
	cssCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cssRuleRe     = regexp.MustCompile(`([^{}]+)\{([^{}]*)\}`)
	customPropRe  = regexp.MustCompile(`(--[\w-]+)\s*:\s*([^;]+)`)
	declarationRe = regexp.MustCompile(`(?i)(?:^|[;{\s])(background-color|background|color|font-family|font-weight|font-size|line-height)\s*:\s*([^;]+)`)
	importRe      = regexp.MustCompile(`@import\s+(?:url\()?\s*['"]?([^'")\s;]+)`)
	gradientRe    = regexp.MustCompile(`(?:linear|radial|conic)-gradient\([^;{}]*\)`)
	rootSelector  = regexp.MustCompile(`(?i)(?:^|,)\s*(?::root|html|body)\s*(?:,|$)`)
	headingSel    = regexp.MustCompile(`(?i)(?:^|[,\s])h[1-4](?:$|[,\s:.])`)
	googleFamily  = regexp.MustCompile(`family=([^:&;]+)`)
)

// staticSheet is what can be read from inline CSS without a browser.
type staticSheet struct {
	props       map[string]string
	rootDecls   map[string]string
	headingFont string
	gradients   []string
	imports     []string
}

func readInlineCSS(css string) staticSheet {
	sheet := staticSheet{props: map[string]string{}, rootDecls: map[string]string{}}
	css = cssCommentRe.ReplaceAllString(css, "")
	for _, m := range cssRuleRe.FindAllStringSubmatch(css, -1) {
		selector, body := m[1], m[2]
		// Drop at-rule statements such as @import that precede the selector.
		if i := strings.LastIndex(selector, ";"); i >= 0 {
			selector = selector[i+1:]
		}
		selector = strings.TrimSpace(selector)
		if rootSelector.MatchString(selector) {
			for _, p := range customPropRe.FindAllStringSubmatch(body, -1) {
				if _, ok := sheet.props[p[1]]; !ok {
					sheet.props[p[1]] = strings.TrimSpace(p[2])
				}
			}
			for _, d := range declarationRe.FindAllStringSubmatch(body, -1) {
				name := strings.ToLower(d[1])
				if _, ok := sheet.rootDecls[name]; !ok {
					sheet.rootDecls[name] = strings.TrimSpace(d[2])
				}
			}
		}
		if sheet.headingFont == "" && headingSel.MatchString(selector) {
			for _, d := range declarationRe.FindAllStringSubmatch(body, -1) {
				if strings.EqualFold(d[1], "font-family") {
					sheet.headingFont = primaryFamily(d[2])
					break
				}
			}
		}
	}
	for _, g := range gradientRe.FindAllString(css, 10) {
		sheet.gradients = append(sheet.gradients, g)
	}
	for _, m := range importRe.FindAllStringSubmatch(css, -1) {
		sheet.imports = append(sheet.imports, m[1])
	}
	return sheet
}

// Static reads tokens from the fetched HTML alone: inline <style> blocks,
// the theme-color meta tag, and linked web fonts, merged over the defaults.
// Source is "static" when anything was found and "default" otherwise.
func Static(rawHTML, pageURL string) Result {
	palette := DefaultPalette()
	typography := DefaultTypography()
	res := Result{Palette: palette, Typography: typography, BorderRadius: defaultRadius, Source: model.TokenSourceDefault}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		res.Palette.IsDark = colorutil.IsDark(res.Palette.Background)
		return res
	}
	base, _ := url.Parse(pageURL)

	var css strings.Builder
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		css.WriteString(s.Text())
		css.WriteByte('\n')
	})
	for _, sel := range []string{"html", "body"} {
		if style, ok := doc.Find(sel).First().Attr("style"); ok {
			css.WriteString(sel + "{" + style + "}\n")
		}
	}
	sheet := readInlineCSS(css.String())
	found := false

	if bg := firstNonEmpty(sheet.rootDecls["background-color"], sheet.rootDecls["background"]); bg != "" {
		if hex := opaqueHex(bg); hex != "" {
			res.Palette.Background = hex
			found = true
		}
	}
	if fg := visibleHex(sheet.rootDecls["color"]); fg != "" {
		res.Palette.Foreground = fg
		found = true
	}
	if theme := doc.Find(`meta[name="theme-color"]`).First().AttrOr("content", ""); theme != "" {
		if hex := opaqueHex(theme); hex != "" {
			res.Palette.Primary = hex
			res.Palette.Accent = hex
			found = true
		}
	}
	if len(sheet.gradients) > 0 {
		res.Palette.Gradients = sheet.gradients
		res.Palette.HasGradients = true
	}
	before := res.Palette
	applyCustomProperties(&res.Palette, sheet.props)
	if res.Palette.CustomProperties != nil || before.Primary != res.Palette.Primary {
		found = true
	}
	if res.Palette.Background != palette.Background || res.Palette.Foreground != palette.Foreground {
		res.Palette.Muted = colorutil.Mix(res.Palette.Foreground, res.Palette.Background, 0.4)
		res.Palette.Border = colorutil.Mix(res.Palette.Foreground, res.Palette.Background, 0.85)
	}
	res.Palette.IsDark = colorutil.IsDark(res.Palette.Background)

	fontURLs := staticFontURLs(doc, base, sheet.imports)
	if len(fontURLs) > 0 {
		res.Typography.FontURLs = fontURLs
		found = true
	}
	bodyFont := primaryFamily(sheet.rootDecls["font-family"])
	if bodyFont == "" {
		bodyFont = googleFontFamily(fontURLs)
	}
	if bodyFont != "" {
		res.Typography.BodyFont = bodyFont
		res.Typography.HeadingFont = bodyFont
		found = true
	}
	if sheet.headingFont != "" {
		res.Typography.HeadingFont = sheet.headingFont
		found = true
	}
	if v := sheet.rootDecls["font-size"]; v != "" {
		res.Typography.BodySize = v
	}
	if v := sheet.rootDecls["line-height"]; v != "" {
		res.Typography.LineHeight = v
	}

	if found {
		res.Source = model.TokenSourceStatic
	}
	return res
}

func staticFontURLs(doc *goquery.Document, base *url.URL, imports []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(href string) {
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if u, err := url.Parse(href); err == nil && base != nil {
			href = base.ResolveReference(u).String()
		}
		if !seen[href] {
			seen[href] = true
			out = append(out, href)
		}
	}
	doc.Find("link[href]").Each(func(_ int, l *goquery.Selection) {
		rel := strings.ToLower(l.AttrOr("rel", ""))
		href := l.AttrOr("href", "")
		if !strings.Contains(rel, "stylesheet") && !(strings.Contains(rel, "preload") && l.AttrOr("as", "") == "font") {
			return
		}
		if isFontURL(href) || l.AttrOr("as", "") == "font" {
			add(href)
		}
	})
	for _, imp := range imports {
		if isFontURL(imp) {
			add(imp)
		}
	}
	return out
}

func isFontURL(href string) bool {
	lower := strings.ToLower(href)
	return strings.Contains(lower, "font") || strings.Contains(lower, "typekit")
}

// googleFontFamily reads the first family from a Google Fonts-style URL.
func googleFontFamily(urls []string) string {
	for _, u := range urls {
		if m := googleFamily.FindStringSubmatch(u); m != nil {
			name, err := url.QueryUnescape(m[1])
			if err != nil {
				name = m[1]
			}
			return strings.ReplaceAll(name, "+", " ")
		}
	}
	return ""
}

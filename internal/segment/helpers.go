package segment

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"designlift/internal/colorutil"
	"designlift/internal/model"
)

var (
	priceRe     = regexp.MustCompile(`(?i)(?:[$€£¥]\s?\d[\d.,]*(?:\s?[kK])?|\d[\d.,]*\s?(?:€|\$|£|usd|eur|mxn|ars|cop|clp))`)
	freeRe      = regexp.MustCompile(`(?i)\b(?:free|gratis)\b`)
	periodRe    = regexp.MustCompile(`(?i)(?:/\s?(?:mo|month|mes|year|yr|año|ano|week|semana|user|usuario)\b|per\s+(?:month|year|user)|al\s+mes|por\s+mes|mensual|anual|monthly|yearly|annually)`)
	digitRe     = regexp.MustCompile(`\d`)
	bgURLRe     = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)
	bgColorRe   = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*([^;]+)`)
	copyrightRe = regexp.MustCompile(`(?i)(?:©|\(c\)|copyright)[^\n]{0,160}?\b(?:19|20)\d{2}\b|\b(?:19|20)\d{2}\b\s*(?:©|\(c\))`)
)

func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

func lowerAttrs(sel *goquery.Selection) string {
	parts := []string{
		sel.AttrOr("class", ""),
		sel.AttrOr("id", ""),
		sel.AttrOr("data-section", ""),
		sel.AttrOr("aria-label", ""),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// descendantClasses concatenates class attributes of sel and every element
// below it; used for layout marker detection.
func descendantClasses(sel *goquery.Selection) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(sel.AttrOr("class", "")))
	sel.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(s.AttrOr("class", "")))
	})
	return b.String()
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// wholeWordKeywords only match as a complete word (plural "s" allowed), so
// "form" does not match "format".
var wholeWordKeywords = map[string]bool{"form": true, "plan": true, "work": true, "step": true}

// matchKeyword reports whether kw starts a word inside s.
func matchKeyword(s, kw string) bool {
	for offset := 0; offset < len(s); {
		idx := strings.Index(s[offset:], kw)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(kw)
		offset = start + 1

		if start > 0 && isWordByte(s[start-1]) {
			continue
		}
		if len(kw) > 3 && !wholeWordKeywords[kw] || end == len(s) || !isWordByte(s[end]) {
			return true
		}
		if s[end] == 's' && (end+1 == len(s) || !isWordByte(s[end+1])) {
			return true
		}
	}
	return false
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 0x80
}

func hasDigit(s string) bool {
	return digitRe.MatchString(s)
}

func firstText(sel *goquery.Selection, selectors string, skip ...string) string {
	var out string
	sel.Find(selectors).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := text(s)
		if t == "" {
			return true
		}
		for _, sk := range skip {
			if t == sk {
				return true
			}
		}
		out = t
		return false
	})
	return out
}

// resolver turns document-relative references into absolute URLs.
type resolver struct {
	base *url.URL
}

func (r resolver) resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "javascript:") {
		return ""
	}
	if strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "mailto:") || strings.HasPrefix(ref, "tel:") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if r.base == nil {
		return u.String()
	}
	return r.base.ResolveReference(u).String()
}

// imageSrc reads the best source of an <img>, honoring lazy-loading
// attributes and srcset.
func (r resolver) imageSrc(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src", "data-original"} {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" && !strings.HasPrefix(v, "data:") {
			return r.resolve(v)
		}
	}
	for _, attr := range []string{"srcset", "data-srcset"} {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" {
			first := strings.Fields(strings.Split(v, ",")[0])
			if len(first) > 0 {
				return r.resolve(first[0])
			}
		}
	}
	return ""
}

func (r resolver) images(sel *goquery.Selection, limit int) []string {
	seen := map[string]bool{}
	var out []string
	sel.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := r.imageSrc(img)
		if src == "" || seen[src] {
			return true
		}
		seen[src] = true
		out = append(out, src)
		return len(out) < limit
	})
	return out
}

// backgroundImage returns the first url() in an inline style attribute.
func (r resolver) backgroundImage(sel *goquery.Selection) string {
	m := bgURLRe.FindStringSubmatch(sel.AttrOr("style", ""))
	if len(m) < 2 {
		return ""
	}
	return r.resolve(m[1])
}

func ctaStyle(class string) model.CTAStyle {
	class = strings.ToLower(class)
	switch {
	case strings.Contains(class, "outline"):
		return model.CTAOutline
	case containsAny(class, "secondary", "ghost", "link", "tertiary"):
		return model.CTASecondary
	default:
		return model.CTAPrimary
	}
}

const buttonSelector = "a[class*=btn], a[class*=button], a[class*=cta], a[role=button], button"

func (r resolver) ctas(sel *goquery.Selection, limit int, fallbackLinks bool) []model.CTA {
	out := r.ctaList(sel.Find(buttonSelector), limit)
	if len(out) == 0 && fallbackLinks {
		short := sel.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return utf8.RuneCountInString(text(s)) < 30
		})
		out = r.ctaList(short, limit)
	}
	return out
}

// ctaList converts candidate links and buttons into CTAs, skipping empty,
// overlong, and duplicate labels as well as form submit buttons.
func (r resolver) ctaList(candidates *goquery.Selection, limit int) []model.CTA {
	var out []model.CTA
	seen := map[string]bool{}
	candidates.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := text(s)
		if t == "" || utf8.RuneCountInString(t) > 40 || seen[t] {
			return true
		}
		if goquery.NodeName(s) == "button" && s.Closest("form").Length() > 0 {
			return true
		}
		seen[t] = true
		out = append(out, model.CTA{
			Text:  t,
			Href:  r.resolve(s.AttrOr("href", "")),
			Style: ctaStyle(s.AttrOr("class", "")),
		})
		return len(out) < limit
	})
	return out
}

func isAncestor(a, b *html.Node) bool {
	for p := b.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}

func node(sel *goquery.Selection) *html.Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

var darkClassPrefixes = []string{
	"bg-black", "bg-dark", "bg-gray-9", "bg-slate-9", "bg-zinc-9", "bg-neutral-9", "bg-stone-9", "text-white",
}

// darkClass looks for utility or BEM classes that paint a dark surface.
// Tailwind "dark:" variants only apply in dark mode and are ignored.
func darkClass(class string) bool {
	for _, tok := range strings.Fields(class) {
		if strings.HasPrefix(tok, "dark:") {
			continue
		}
		if tok == "dark" || tok == "inverse" || strings.HasSuffix(tok, "-dark") || strings.HasSuffix(tok, "--dark") {
			return true
		}
		for _, p := range darkClassPrefixes {
			if strings.HasPrefix(tok, p) {
				return true
			}
		}
	}
	return false
}

func styleHints(sel *goquery.Selection) model.StyleHints {
	style := sel.AttrOr("style", "")
	class := strings.ToLower(sel.AttrOr("class", ""))

	var hints model.StyleHints
	if m := bgColorRe.FindStringSubmatch(style); len(m) > 1 {
		value := strings.TrimSpace(m[1])
		if c, ok := colorutil.Parse(value); ok && c.Alpha > 0 {
			hints.Background = c.Hex()
		} else if !strings.Contains(value, "url(") && !strings.Contains(value, "gradient") {
			hints.Background = value
		}
	}
	hints.HasGradient = strings.Contains(strings.ToLower(style), "gradient") || strings.Contains(class, "gradient")
	hints.DarkBackground = darkClass(class)
	if hints.Background != "" && colorutil.IsDark(hints.Background) {
		hints.DarkBackground = true
	}
	return hints
}

func stripQuotes(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`"'“”«»„‘’`, r)
	})
}

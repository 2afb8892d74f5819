package segment

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"designlift/internal/model"
)

func findHeader(doc *goquery.Document) *goquery.Selection {
	topLevel := func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("footer, article, section, aside").Length() == 0
	}
	outsideFooter := func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("footer").Length() == 0
	}
	for _, sel := range []*goquery.Selection{
		doc.Find("header").FilterFunction(topLevel).First(),
		doc.Find("[role=banner]").First(),
		doc.Find("nav").FilterFunction(outsideFooter).First(),
		doc.Find("header").First(),
	} {
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func findFooter(doc *goquery.Document, header *goquery.Selection) *goquery.Selection {
	topLevel := func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("header, article, section, aside").Length() == 0
	}
	for _, sel := range []*goquery.Selection{
		doc.Find("footer").FilterFunction(topLevel).Last(),
		doc.Find("[role=contentinfo]").Last(),
		doc.Find("footer").Last(),
	} {
		if sel.Length() == 0 {
			continue
		}
		if h := node(header); h != nil && (h == sel.Get(0) || isAncestor(h, sel.Get(0)) || isAncestor(sel.Get(0), h)) {
			continue
		}
		return sel
	}
	return nil
}

const logoSelector = "[class*=logo] img, img[class*=logo], [class*=brand] img, img[class*=brand], img[alt*=logo], img[alt*=Logo], img[src*=logo]"

func (b *builder) logo(sel *goquery.Selection) string {
	img := sel.Find(logoSelector).First()
	if img.Length() == 0 {
		img = sel.Find(`a[href="/"] img, a[href="./"] img`).First()
	}
	if img.Length() == 0 {
		img = sel.Find("img").First()
	}
	if img.Length() == 0 {
		return ""
	}
	return b.imageSrc(img)
}

var skippedNavLabels = map[string]bool{"menu": true, "close": true, "search": true, "toggle navigation": true, "skip to content": true}

func extractHeader(b *builder, sel *goquery.Selection) model.Content {
	c := model.HeaderContent{Logo: b.logo(sel)}
	c.Title = truncate(firstText(sel, "[class*=logo], [class*=brand], [class*=site-title], h1"), 80)
	c.CTAs = b.ctaList(sel.Find("a[class*=btn], a[class*=button], a[class*=cta], a[role=button]"), 2)

	ctaText := map[string]bool{}
	for _, cta := range c.CTAs {
		ctaText[cta.Text] = true
	}

	links := sel.Find("nav a[href]")
	if links.Length() == 0 {
		links = sel.Find("a[href]")
	}
	seen := map[string]bool{}
	links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		label := text(a)
		if label == "" || utf8.RuneCountInString(label) > 30 || ctaText[label] || skippedNavLabels[strings.ToLower(label)] {
			return true
		}
		if strings.Contains(strings.ToLower(label), "logo") || containsAny(strings.ToLower(a.AttrOr("class", "")), "logo", "brand") {
			return true
		}
		href := b.resolve(a.AttrOr("href", ""))
		key := label + "\x00" + href
		if seen[key] {
			return true
		}
		seen[key] = true
		c.Navigation = append(c.Navigation, model.Link{Label: label, Href: href})
		return len(c.Navigation) < 8
	})
	return c
}

var socialPlatforms = []struct {
	platform string
	hosts    []string
}{
	{"facebook", []string{"facebook.com", "fb.com"}},
	{"twitter", []string{"twitter.com", "x.com"}},
	{"instagram", []string{"instagram.com"}},
	{"linkedin", []string{"linkedin.com"}},
	{"youtube", []string{"youtube.com", "youtu.be"}},
	{"tiktok", []string{"tiktok.com"}},
}

func socialPlatform(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, p := range socialPlatforms {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	lower := strings.ToLower(href)
	for _, p := range socialPlatforms {
		if strings.Contains(lower, p.platform) {
			return p.platform
		}
	}
	return ""
}

func extractFooter(b *builder, sel *goquery.Selection) model.Content {
	c := model.FooterContent{Logo: b.logo(sel), Copyright: copyright(sel)}

	seenSocial := map[string]bool{}
	seenNav := map[string]bool{}
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := b.resolve(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		if p := socialPlatform(href); p != "" {
			if !seenSocial[href] && len(c.Social) < 8 {
				seenSocial[href] = true
				c.Social = append(c.Social, model.SocialLink{Platform: p, URL: href})
			}
			return
		}
		label := text(a)
		if label == "" || utf8.RuneCountInString(label) > 30 {
			return
		}
		key := label + "\x00" + href
		if seenNav[key] || len(c.Navigation) >= listLimit {
			return
		}
		seenNav[key] = true
		c.Navigation = append(c.Navigation, model.Link{Label: label, Href: href})
	})

	sel.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		t := text(p)
		if t == "" || copyrightRe.MatchString(t) {
			return true
		}
		c.Description = truncate(t, subtitleLimit)
		return false
	})
	return c
}

// copyright returns the shortest element text carrying a copyright notice.
func copyright(sel *goquery.Selection) string {
	var best string
	sel.Find("*").Each(func(_ int, s *goquery.Selection) {
		t := text(s)
		if t == "" || utf8.RuneCountInString(t) > 300 || !copyrightRe.MatchString(t) {
			return
		}
		if best == "" || len(t) < len(best) {
			best = t
		}
	})
	if best == "" {
		best = copyrightRe.FindString(text(sel))
	}
	return best
}

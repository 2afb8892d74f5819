package fetcher

import (
	"net/url"
	"strings"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// BuildPage parses html once and fills in metadata, Markdown and the
// distilled main text. It never fails; unparseable input yields a page with
// only HTML set.
func BuildPage(pageURL, html string) *Page {
	page := &Page{URL: pageURL, FinalURL: pageURL, HTML: html}

	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}

	converter := htmlmd.NewConverter(u.Hostname(), true, nil)
	markdown, mdErr := converter.ConvertString(html)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		if mdErr == nil {
			page.Markdown = markdown
		}
		return page
	}

	if mdErr != nil {
		markdown = doc.Text()
	}
	page.Markdown = markdown
	page.Metadata = readMetadata(doc, u)

	// Let go-readability find the main content; the body text is the
	// fallback for pages it cannot make sense of.
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), u)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		if adoc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
			page.Text = collapseSpace(adoc.Text())
		}
		if page.Metadata.Description == "" {
			page.Metadata.Description = strings.TrimSpace(article.Excerpt)
		}
	}
	if page.Text == "" {
		body := doc.Find("body").Clone()
		body.Find("script,style,noscript,svg").Remove()
		page.Text = collapseSpace(body.Text())
	}

	return page
}

func readMetadata(doc *goquery.Document, u *url.URL) Metadata {
	md := Metadata{
		Title:       collapseSpace(doc.Find("title").First().Text()),
		Description: strings.TrimSpace(doc.Find("meta[name=description]").AttrOr("content", "")),
		Language:    strings.TrimSpace(doc.Find("html").First().AttrOr("lang", "")),
		OgImage:     strings.TrimSpace(doc.Find("meta[property='og:image']").AttrOr("content", "")),
		OgSiteName:  strings.TrimSpace(doc.Find("meta[property='og:site_name']").AttrOr("content", "")),
		ThemeColor:  strings.TrimSpace(doc.Find("meta[name=theme-color]").AttrOr("content", "")),
	}
	if md.Title == "" {
		md.Title = strings.TrimSpace(doc.Find("meta[property='og:title']").AttrOr("content", ""))
	}
	if md.Description == "" {
		md.Description = strings.TrimSpace(doc.Find("meta[property='og:description']").AttrOr("content", ""))
	}

	resolve := func(href string) string {
		href = strings.TrimSpace(href)
		if href == "" {
			return ""
		}
		ref, err := url.Parse(href)
		if err != nil {
			return ""
		}
		return u.ResolveReference(ref).String()
	}

	md.OgImage = resolve(md.OgImage)
	md.Favicon = resolve(doc.Find("link[rel='icon'], link[rel='shortcut icon'], link[rel='apple-touch-icon']").First().AttrOr("href", ""))
	md.Canonical = resolve(doc.Find("link[rel=canonical]").AttrOr("href", ""))
	return md
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

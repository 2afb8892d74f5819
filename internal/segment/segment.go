// Package segment splits a landing page into ordered semantic sections
// (header, hero, features, pricing, footer, ...) with typed content.
package segment

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"designlift/internal/model"
)

// candidateLayers are tried in priority order; a block accepted from an
// earlier layer shadows everything inside or around it.
var candidateLayers = []string{
	"section",
	"main > *",
	"[class*=section], [id*=section]",
	"[id]",
}

var blockTags = map[string]bool{"section": true, "div": true, "article": true, "aside": true, "form": true}

// minWeight is the score a block must exceed to become a section.
const minWeight = 8

// Segment parses rawHTML and returns its sections in page order. Header is
// always first and footer last when present. Unparseable input yields nil.
func Segment(rawHTML, pageURL string) []model.Section {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	return newBuilder(doc, pageURL).run()
}

// builder holds the per-document traversal state.
type builder struct {
	resolver
	doc      *goquery.Document
	position map[*html.Node]int
	next     int
	header   *goquery.Selection
	footer   *goquery.Selection
}

func newBuilder(doc *goquery.Document, pageURL string) *builder {
	doc.Find("script, style, noscript, template").Remove()

	b := &builder{doc: doc, position: map[*html.Node]int{}}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		b.base = u
		if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
			if ref, err := url.Parse(href); err == nil {
				b.base = u.ResolveReference(ref)
			}
		}
	}
	for _, n := range doc.Nodes {
		b.index(n)
	}
	b.header = findHeader(doc)
	b.footer = findFooter(doc, b.header)
	return b
}

// index assigns document-order positions to n and its element descendants.
func (b *builder) index(n *html.Node) {
	if n.Type == html.ElementNode {
		b.position[n] = b.next
		b.next++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.index(c)
	}
}

func (b *builder) pos(sel *goquery.Selection) int {
	n := node(sel)
	if n == nil {
		return -1
	}
	if p, ok := b.position[n]; ok {
		return p
	}
	return -1
}

func (b *builder) run() []model.Section {
	var out []model.Section
	if b.header != nil {
		out = append(out, b.section(model.SectionHeader, b.header))
		b.detachNestedHeader()
	}
	content := b.contentSections()
	if len(content) == 0 {
		content = b.headingFallback()
	}
	out = append(out, content...)
	if b.footer != nil {
		out = append(out, b.section(model.SectionFooter, b.footer))
	}

	out = dedupe(out)
	for i := range out {
		out[i].Order = i
		out[i].ID = fmt.Sprintf("%s-%d", out[i].Type, i)
	}
	return out
}

func (b *builder) section(typ model.SectionType, sel *goquery.Selection) model.Section {
	return model.Section{
		Type:       typ,
		Variant:    b.variant(typ, sel),
		Content:    extractors[typ](b, sel),
		StyleHints: styleHints(sel),
	}
}

// detachNestedHeader removes a header landmark found inside a content
// section (typically a nav inside the hero) once it has been extracted, so
// the enclosing section stays a candidate without the navigation in it.
func (b *builder) detachNestedHeader() {
	if b.header.ParentsFiltered("section").Length() == 0 {
		return
	}
	b.header.Remove()
}

// touchesLandmark reports whether n is, contains, or sits inside the page
// header or footer.
func (b *builder) touchesLandmark(n *html.Node) bool {
	for _, l := range []*goquery.Selection{b.header, b.footer} {
		ln := node(l)
		if ln == nil {
			continue
		}
		if n == ln || isAncestor(ln, n) || isAncestor(n, ln) {
			return true
		}
	}
	return false
}

func (b *builder) contentSections() []model.Section {
	body := b.doc.Find("body")

	var raw []*goquery.Selection
	seen := map[*html.Node]bool{}
	for _, layer := range candidateLayers {
		body.Find(layer).Each(func(_ int, s *goquery.Selection) {
			n := s.Get(0)
			if seen[n] || !blockTags[goquery.NodeName(s)] || b.touchesLandmark(n) {
				return
			}
			seen[n] = true
			raw = append(raw, s)
		})
	}

	major := map[*html.Node]bool{}
	for _, s := range raw {
		if s.Find("h1, h2").Length() > 0 {
			major[s.Get(0)] = true
		}
	}

	var accepted []*goquery.Selection
	for _, s := range raw {
		n := s.Get(0)
		if overlaps(accepted, n) || isWrapper(n, raw, major) || weight(s) <= minWeight {
			continue
		}
		accepted = append(accepted, s)
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return b.position[accepted[i].Get(0)] < b.position[accepted[j].Get(0)]
	})

	var out []model.Section
	for i, s := range accepted {
		typ, ok := classify(newCandidate(s, i))
		if !ok {
			continue
		}
		out = append(out, b.section(typ, s))
	}
	return out
}

func newCandidate(s *goquery.Selection, index int) *candidate {
	t := text(s)
	return &candidate{
		sel:     s,
		index:   index,
		attrs:   lowerAttrs(s),
		text:    strings.ToLower(t),
		textLen: utf8.RuneCountInString(t),
		images:  s.Find("img").Length(),
	}
}

func overlaps(accepted []*goquery.Selection, n *html.Node) bool {
	for _, a := range accepted {
		an := a.Get(0)
		if an == n || isAncestor(an, n) || isAncestor(n, an) {
			return true
		}
	}
	return false
}

// isWrapper reports whether n groups two or more candidates that carry
// their own h1/h2; such blocks are layout containers, not sections.
func isWrapper(n *html.Node, raw []*goquery.Selection, major map[*html.Node]bool) bool {
	count := 0
	for _, s := range raw {
		m := s.Get(0)
		if m != n && major[m] && isAncestor(n, m) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func weight(s *goquery.Selection) int {
	children := s.Children().Length()
	textLen := utf8.RuneCountInString(text(s))
	images := s.Find("img").Length()
	return children*2 + textLen/20 + images*5
}

// headingFallback builds sections around top-level headings for pages
// without usable section markup: the first h1 becomes a hero and every
// h2 a features block.
func (b *builder) headingFallback() []model.Section {
	body := b.doc.Find("body")
	var blocks []*html.Node
	var out []model.Section

	add := func(typ model.SectionType, h *goquery.Selection) {
		if b.touchesLandmark(h.Get(0)) {
			return
		}
		block := b.headingBlock(h)
		n := block.Get(0)
		for _, used := range blocks {
			if used == n || isAncestor(used, n) || isAncestor(n, used) {
				return
			}
		}
		blocks = append(blocks, n)
		out = append(out, b.section(typ, block))
	}

	if h1 := body.Find("h1").First(); h1.Length() > 0 {
		add(model.SectionHero, h1)
	}
	body.Find("h2").Each(func(_ int, h2 *goquery.Selection) {
		add(model.SectionFeatures, h2)
	})
	return out
}

// headingBlock returns the largest ancestor of h that holds no other h1/h2
// and no landmark. When the heading sits directly in the page flow, its
// following siblings up to the next h1/h2 are gathered into a detached
// wrapper.
func (b *builder) headingBlock(h *goquery.Selection) *goquery.Selection {
	block := h
walk:
	for p := h.Parent(); p.Length() > 0; p = p.Parent() {
		switch goquery.NodeName(p) {
		case "body", "html", "main":
			break walk
		}
		if b.touchesLandmark(p.Get(0)) || p.Find("h1, h2").Length() > 1 {
			break
		}
		block = p
	}
	if block != h {
		return block
	}

	wrapper := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	group := h.AddSelection(h.NextUntil("h1, h2"))
	for _, n := range group.Clone().Nodes {
		wrapper.AppendChild(n)
	}
	b.index(wrapper)
	return goquery.NewDocumentFromNode(wrapper).Selection
}

func dedupe(sections []model.Section) []model.Section {
	seen := map[string]bool{}
	out := sections[:0]
	for _, s := range sections {
		key := string(s.Type) + "\x00" + strings.ToLower(s.Title())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

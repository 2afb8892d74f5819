package segment

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"designlift/internal/model"
)

type extractFunc func(b *builder, sel *goquery.Selection) model.Content

var extractors = map[model.SectionType]extractFunc{
	model.SectionHeader:       extractHeader,
	model.SectionHero:         extractHero,
	model.SectionFeatures:     extractItems(12),
	model.SectionServices:     extractItems(12),
	model.SectionBenefits:     extractItems(8),
	model.SectionPortfolio:    extractItems(12),
	model.SectionLogoCloud:    extractLogos,
	model.SectionClients:      extractLogos,
	model.SectionAbout:        extractAbout,
	model.SectionProcess:      extractProcess,
	model.SectionStats:        extractStats,
	model.SectionTestimonials: extractTestimonials,
	model.SectionPricing:      extractPricing,
	model.SectionFAQ:          extractFAQ,
	model.SectionGallery:      extractGallery,
	model.SectionTeam:         extractTeam,
	model.SectionLocation:     extractLocation,
	model.SectionCTA:          extractCTA,
	model.SectionForm:         extractForm,
	model.SectionFooter:       extractFooter,
	model.SectionUnknown:      extractGeneric,
}

const (
	titleLimit       = 200
	subtitleLimit    = 300
	descriptionLimit = 500

	// listLimit caps image and link lists.
	listLimit = 12
)

// heading reads the title block of a section: the first matching heading
// outside any card, then up to two paragraphs that follow it.
func (b *builder) heading(sel *goquery.Selection, tags string) model.Heading {
	root := sel.Get(0)
	cards := cardSet(findCards(sel))
	outsideCards := func(s *goquery.Selection) bool {
		for p := s.Get(0); p != nil && p != root; p = p.Parent {
			if cards[p] {
				return false
			}
		}
		return true
	}

	var h model.Heading
	headPos := -1
	head := sel.Find(tags).FilterFunction(func(_ int, s *goquery.Selection) bool { return outsideCards(s) }).First()
	if head.Length() > 0 {
		h.Title = truncate(text(head), titleLimit)
		headPos = b.pos(head)
	}

	var paras []string
	seen := map[string]bool{h.Title: true}
	sel.Find("p, [class*=subtitle], [class*=tagline], [class*=lead]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !outsideCards(s) || b.pos(s) < headPos {
			return true
		}
		if s.Closest("details, dd, li, blockquote, form, figure, [class*=answer]").Length() > 0 {
			return true
		}
		if s.Find("p").Length() > 0 {
			return true
		}
		t := text(s)
		if t == "" || seen[t] {
			return true
		}
		seen[t] = true
		paras = append(paras, t)
		return len(paras) < 2
	})
	if len(paras) > 0 {
		h.Subtitle = truncate(paras[0], subtitleLimit)
	}
	if len(paras) > 1 {
		h.Description = truncate(paras[1], descriptionLimit)
	}
	return h
}

func (b *builder) sectionHeading(sel *goquery.Selection) model.Heading {
	return b.heading(sel, "h1, h2, h3")
}

func extractHero(b *builder, sel *goquery.Selection) model.Content {
	tags := "h1"
	if sel.Find("h1").Length() == 0 {
		tags = "h2, h3"
	}
	c := model.HeroContent{Heading: b.heading(sel, tags)}
	c.CTAs = b.ctas(sel, 3, true)
	c.Images = b.images(sel, 4)
	if bg := b.backgroundImage(sel); bg != "" {
		c.Images = append([]string{bg}, c.Images...)
	}
	return c
}

func extractItems(limit int) extractFunc {
	return func(b *builder, sel *goquery.Selection) model.Content {
		c := model.ItemsContent{Heading: b.sectionHeading(sel)}
		cards := findCards(sel)
		for _, card := range cards {
			if it, ok := b.item(card); ok {
				c.Items = append(c.Items, it)
			}
			if len(c.Items) >= limit {
				break
			}
		}
		if len(c.Items) == 0 {
			sel.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
				t := text(li)
				if n := utf8.RuneCountInString(t); n >= 3 && n <= 160 {
					c.Items = append(c.Items, model.Item{Title: t})
				}
				return len(c.Items) < limit
			})
		}
		if c.Items == nil {
			c.Items = []model.Item{}
		}

		rest := sel.Clone()
		for _, card := range findCards(rest) {
			card.Remove()
		}
		c.CTAs = b.ctas(rest, 2, false)
		return c
	}
}

var iconClassPrefixes = []string{"fa-", "bi-", "ri-", "icon-", "lni-", "ti-", "ph-"}

func iconName(class string) string {
	for _, tok := range strings.Fields(class) {
		for _, p := range iconClassPrefixes {
			if strings.HasPrefix(tok, p) && !containsAny(tok, "fa-solid", "fa-regular", "fa-light", "fa-brands", "fa-lg", "fa-2x", "fa-fw") {
				return tok
			}
		}
	}
	return ""
}

func isIconImage(img *goquery.Selection) bool {
	attrs := strings.ToLower(img.AttrOr("class", "") + " " + img.AttrOr("alt", "") + " " + img.AttrOr("src", ""))
	if strings.Contains(attrs, "icon") {
		return true
	}
	if w, err := strconv.Atoi(img.AttrOr("width", "")); err == nil && w > 0 && w <= 64 {
		return true
	}
	return false
}

func (b *builder) item(card *goquery.Selection) (model.Item, bool) {
	var it model.Item
	it.Title = truncate(firstText(card, "h2, h3, h4, h5, h6, strong, [class*=title], [class*=name]"), 160)
	it.Description = truncate(firstText(card, "p, [class*=desc], [class*=text]", it.Title), 400)
	if it.Title == "" && it.Description == "" {
		return it, false
	}

	if img := card.Find("img").First(); img.Length() > 0 {
		if src := b.imageSrc(img); src != "" {
			if isIconImage(img) {
				it.Icon = src
			} else {
				it.Image = src
			}
		}
	}
	if it.Icon == "" {
		card.Find("i[class], span[class*=icon], [class*=icon]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class := s.AttrOr("class", "")
			if strings.Contains(class, "material") {
				it.Icon = text(s)
			} else {
				it.Icon = iconName(class)
			}
			return it.Icon == ""
		})
	}
	if it.Icon == "" && card.Find("svg").Length() > 0 {
		it.Icon = "svg"
	}
	it.Price = priceRe.FindString(text(card))

	if goquery.NodeName(card) == "a" {
		it.Link = b.resolve(card.AttrOr("href", ""))
	} else if a := card.Find("a[href]").First(); a.Length() > 0 {
		it.Link = b.resolve(a.AttrOr("href", ""))
	}
	return it, true
}

func extractLogos(b *builder, sel *goquery.Selection) model.Content {
	logos := b.images(sel, listLimit)
	if logos == nil {
		logos = []string{}
	}
	return model.LogoCloudContent{Heading: b.sectionHeading(sel), Logos: logos}
}

func (b *builder) paragraphs(sel *goquery.Selection, skip model.Heading, limit int) []string {
	var out []string
	seen := map[string]bool{skip.Title: true, skip.Subtitle: true, skip.Description: true}
	sel.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		t := text(p)
		if utf8.RuneCountInString(t) < 20 || seen[t] {
			return true
		}
		seen[t] = true
		out = append(out, truncate(t, descriptionLimit))
		return len(out) < limit
	})
	return out
}

func extractAbout(b *builder, sel *goquery.Selection) model.Content {
	c := model.AboutContent{Heading: b.sectionHeading(sel)}
	c.Paragraphs = b.paragraphs(sel, c.Heading, 5)
	c.Images = b.images(sel, 4)
	for _, u := range statUnits(sel) {
		if st, ok := statFrom(u); ok {
			c.Stats = append(c.Stats, st)
		}
		if len(c.Stats) >= 4 {
			break
		}
	}
	return c
}

var stepNumberRe = regexp.MustCompile(`^\D{0,8}?(\d{1,2})\D{0,3}$`)

func extractProcess(b *builder, sel *goquery.Selection) model.Content {
	c := model.ProcessContent{Heading: b.sectionHeading(sel), Steps: []model.Step{}}
	units := findCards(sel)
	if len(units) == 0 {
		sel.Find("ol > li").Each(func(_ int, li *goquery.Selection) {
			units = append(units, li)
		})
	}
	for i, u := range units {
		step := model.Step{Number: i + 1}
		if m := stepNumberRe.FindStringSubmatch(firstText(u, "[class*=number], [class*=step], [class*=count], span")); len(m) > 1 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				step.Number = n
			}
		}
		step.Title = truncate(firstText(u, "h3, h4, h5, strong, [class*=title]"), 160)
		step.Description = truncate(firstText(u, "p", step.Title), 400)
		if step.Title == "" {
			step.Title = truncate(text(u), 160)
		}
		if step.Title == "" {
			continue
		}
		c.Steps = append(c.Steps, step)
		if len(c.Steps) >= 8 {
			break
		}
	}
	return c
}

func extractStats(b *builder, sel *goquery.Selection) model.Content {
	c := model.StatsContent{Heading: b.sectionHeading(sel), Stats: []model.Stat{}}
	for _, u := range statUnits(sel) {
		if st, ok := statFrom(u); ok {
			c.Stats = append(c.Stats, st)
		}
		if len(c.Stats) >= 8 {
			break
		}
	}
	return c
}

func extractTestimonials(b *builder, sel *goquery.Selection) model.Content {
	c := model.TestimonialsContent{Heading: b.sectionHeading(sel), Testimonials: []model.Testimonial{}}
	units := findCards(sel)
	if len(units) == 0 {
		sel.Find("blockquote").Each(func(_ int, q *goquery.Selection) {
			units = append(units, q)
		})
	}
	for _, u := range units {
		if t, ok := b.testimonial(u); ok {
			c.Testimonials = append(c.Testimonials, t)
		}
		if len(c.Testimonials) >= 6 {
			break
		}
	}
	return c
}

var ratingRe = regexp.MustCompile(`(?i)([1-5])(?:[.,]\d)?\s*(?:/\s*5|stars?|out of 5|estrellas?)`)

func (b *builder) testimonial(unit *goquery.Selection) (model.Testimonial, bool) {
	scope := unit
	if goquery.NodeName(unit) == "blockquote" && goquery.NodeName(unit.Parent()) == "figure" {
		scope = unit.Parent()
	}

	quote := firstText(unit, "blockquote, q, [class*=quote], [class*=content] p, [class*=text], p")
	if quote == "" && goquery.NodeName(unit) == "blockquote" {
		quote = text(unit)
	}
	quote = stripQuotes(quote)
	if utf8.RuneCountInString(quote) < 10 {
		return model.Testimonial{}, false
	}

	t := model.Testimonial{Quote: truncate(quote, 600)}
	author := firstText(scope, "cite, [class*=author], [class*=name], figcaption, strong, h3, h4, h5", quote)
	author = strings.TrimLeft(author, "—–-~ ")
	t.Role = firstText(scope, "[class*=role], [class*=position], [class*=job]")
	t.Company = firstText(scope, "[class*=company]")
	if name, rest, ok := strings.Cut(author, ","); ok && t.Role == "" {
		author = strings.TrimSpace(name)
		t.Role = strings.TrimSpace(rest)
	}
	if t.Role != "" && t.Company == "" {
		for _, sep := range []string{" at ", " @ ", " en ", " de "} {
			if role, company, ok := strings.Cut(t.Role, sep); ok {
				t.Role, t.Company = strings.TrimSpace(role), strings.TrimSpace(company)
				break
			}
		}
	}
	if t.Role != "" {
		author = strings.TrimSpace(strings.TrimSuffix(author, t.Role))
	}
	t.Author = truncate(author, 120)
	if img := scope.Find("img").First(); img.Length() > 0 {
		t.Avatar = b.imageSrc(img)
	}
	t.Rating = rating(scope)
	return t, true
}

func rating(scope *goquery.Selection) int {
	if n := strings.Count(scope.Text(), "★"); n > 0 {
		return min(n, 5)
	}
	label := scope.Find("[aria-label]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return ratingRe.MatchString(s.AttrOr("aria-label", ""))
	}).First().AttrOr("aria-label", "")
	if m := ratingRe.FindStringSubmatch(label); len(m) > 1 {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	stars := scope.Find("[class*=star]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class := strings.ToLower(s.AttrOr("class", ""))
		return s.Children().Length() == 0 && !containsAny(class, "empty", "off", "outline", "half", "stars")
	}).Length()
	return min(stars, 5)
}

var highlightMarkers = []string{"popular", "featured", "highlight", "recommended", "best", "recomendado"}

func extractPricing(b *builder, sel *goquery.Selection) model.Content {
	c := model.PricingContent{Heading: b.sectionHeading(sel), Plans: []model.Plan{}}
	for _, card := range findCards(sel) {
		if p, ok := b.plan(card); ok {
			c.Plans = append(c.Plans, p)
		}
		if len(c.Plans) >= 4 {
			break
		}
	}
	return c
}

func (b *builder) plan(card *goquery.Selection) (model.Plan, bool) {
	all := text(card)
	priceText := firstText(card, "[class*=price], [class*=amount], [class*=cost]")
	source := priceText
	if source == "" {
		source = all
	}

	price := priceRe.FindString(source)
	if price == "" {
		price = priceRe.FindString(all)
	}
	if price == "" {
		price = freeRe.FindString(source)
	}
	if price == "" {
		return model.Plan{}, false
	}

	p := model.Plan{Price: strings.TrimSpace(price)}
	p.Name = truncate(firstText(card, "h2, h3, h4, h5, [class*=name], [class*=title]", priceText), 80)
	p.Period = periodRe.FindString(source)
	if p.Period == "" {
		p.Period = periodRe.FindString(all)
	}
	card.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := text(s)
		if t == "" || t == p.Name || priceRe.MatchString(t) {
			return true
		}
		p.Description = truncate(t, 300)
		return false
	})
	card.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if t := text(li); t != "" && utf8.RuneCountInString(t) <= 160 {
			p.Features = append(p.Features, t)
		}
		return len(p.Features) < 10
	})
	if ctas := b.ctas(card, 1, true); len(ctas) > 0 {
		p.CTA = &ctas[0]
	}
	class := strings.ToLower(card.AttrOr("class", ""))
	p.Highlighted = containsAny(class, highlightMarkers...) || containsAny(strings.ToLower(all), "most popular", "más popular", "recomendado", "recommended")
	return p, true
}

func extractFAQ(b *builder, sel *goquery.Selection) model.Content {
	c := model.FAQContent{Heading: b.sectionHeading(sel), FAQs: []model.FAQ{}}
	seen := map[string]bool{}
	add := func(q, a string) {
		q, a = strings.TrimSpace(q), strings.TrimSpace(a)
		if q == "" || a == "" || q == a || seen[q] || len(c.FAQs) >= 12 {
			return
		}
		seen[q] = true
		c.FAQs = append(c.FAQs, model.FAQ{Question: truncate(q, 300), Answer: truncate(a, 1000)})
	}

	sel.Find("details").Each(func(_ int, d *goquery.Selection) {
		q := text(d.Find("summary").First())
		body := d.Clone()
		body.Find("summary").Remove()
		add(q, text(body))
	})
	if len(c.FAQs) == 0 {
		sel.Find("[class*=faq-item], [class*=faq__item], [class*=accordion-item], [class*=accordion__item], [itemtype*=Question]").Each(func(_ int, item *goquery.Selection) {
			q := firstText(item, "[class*=question], [class*=title], [class*=header], summary, button, h3, h4, h5, dt, strong")
			add(q, firstText(item, "[class*=answer], [class*=content], [class*=body], [class*=panel], dd, p", q))
		})
	}
	if len(c.FAQs) == 0 {
		sel.Find("dt").Each(func(_ int, dt *goquery.Selection) {
			add(text(dt), text(dt.NextFiltered("dd")))
		})
	}
	if len(c.FAQs) == 0 {
		sel.Find("h3, h4, h5").Each(func(_ int, h *goquery.Selection) {
			add(text(h), text(h.NextFiltered("p, div")))
		})
	}
	return c
}

func extractGallery(b *builder, sel *goquery.Selection) model.Content {
	c := model.GalleryContent{Heading: b.sectionHeading(sel)}
	c.Images = b.images(sel, listLimit)
	if c.Images == nil {
		c.Images = []string{}
	}
	sel.Find("figure").EachWithBreak(func(_ int, fig *goquery.Selection) bool {
		caption := text(fig.Find("figcaption").First())
		img := fig.Find("img").First()
		if caption == "" || img.Length() == 0 {
			return true
		}
		c.Items = append(c.Items, model.Item{Title: truncate(caption, 160), Image: b.imageSrc(img)})
		return len(c.Items) < listLimit
	})
	return c
}

func extractTeam(b *builder, sel *goquery.Selection) model.Content {
	c := model.TeamContent{Heading: b.sectionHeading(sel), Members: []model.Member{}}
	for _, card := range findCards(sel) {
		name := firstText(card, "h3, h4, h5, h2, [class*=name], strong")
		if name == "" {
			continue
		}
		m := model.Member{
			Name: truncate(name, 120),
			Role: truncate(firstText(card, "[class*=role], [class*=position], [class*=job], p, span", name), 160),
		}
		if img := card.Find("img").First(); img.Length() > 0 {
			m.Photo = b.imageSrc(img)
		}
		c.Members = append(c.Members, m)
		if len(c.Members) >= 12 {
			break
		}
	}
	return c
}

func extractLocation(b *builder, sel *goquery.Selection) model.Content {
	c := model.LocationContent{Heading: b.sectionHeading(sel)}
	c.Address = truncate(firstText(sel, "address, [class*=address], [itemprop=address]"), 300)
	if tel := sel.Find(`a[href^="tel:"]`).First(); tel.Length() > 0 {
		c.Phone = strings.TrimSpace(strings.TrimPrefix(tel.AttrOr("href", ""), "tel:"))
	}
	if mail := sel.Find(`a[href^="mailto:"]`).First(); mail.Length() > 0 {
		addr := strings.TrimPrefix(mail.AttrOr("href", ""), "mailto:")
		addr, _, _ = strings.Cut(addr, "?")
		c.Email = strings.TrimSpace(addr)
	}
	if iframe := sel.Find("iframe[src*=map]").First(); iframe.Length() > 0 {
		c.MapURL = b.resolve(iframe.AttrOr("src", ""))
	} else if a := sel.Find(`a[href*="google.com/maps"], a[href*="maps.google"], a[href*="goo.gl/maps"], a[href*="maps.app.goo.gl"]`).First(); a.Length() > 0 {
		c.MapURL = b.resolve(a.AttrOr("href", ""))
	}
	return c
}

func extractCTA(b *builder, sel *goquery.Selection) model.Content {
	ctas := b.ctas(sel, 3, true)
	if ctas == nil {
		ctas = []model.CTA{}
	}
	return model.CTAContent{Heading: b.sectionHeading(sel), CTAs: ctas}
}

var skippedInputTypes = map[string]bool{"hidden": true, "submit": true, "button": true, "reset": true, "image": true}

func extractForm(b *builder, sel *goquery.Selection) model.Content {
	c := model.FormContent{Heading: b.sectionHeading(sel), Fields: []model.FormField{}}
	form := sel.Find("form").First()
	if form.Length() == 0 {
		form = sel
	}

	form.Find("input, textarea, select").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		typ := goquery.NodeName(f)
		if typ == "input" {
			typ = strings.ToLower(f.AttrOr("type", "text"))
		}
		if skippedInputTypes[typ] {
			return true
		}
		label := fieldLabel(form, f)
		name := f.AttrOr("name", f.AttrOr("id", ""))
		if name == "" {
			name = typ
		}
		_, required := f.Attr("required")
		c.Fields = append(c.Fields, model.FormField{
			Name:     name,
			Type:     typ,
			Label:    truncate(label, 120),
			Required: required || f.AttrOr("aria-required", "") == "true",
		})
		return len(c.Fields) < 12
	})

	submit := form.Find("button[type=submit], input[type=submit], button").First()
	if goquery.NodeName(submit) == "input" {
		c.Submit = submit.AttrOr("value", "")
	} else {
		c.Submit = text(submit)
	}
	return c
}

func fieldLabel(form, field *goquery.Selection) string {
	if id := field.AttrOr("id", ""); id != "" {
		var label string
		form.Find("label[for]").EachWithBreak(func(_ int, l *goquery.Selection) bool {
			if l.AttrOr("for", "") == id {
				label = text(l)
				return false
			}
			return true
		})
		if label != "" {
			return label
		}
	}
	if l := field.ParentsFiltered("label").First(); l.Length() > 0 {
		if t := text(l); t != "" {
			return t
		}
	}
	if p := field.AttrOr("placeholder", ""); p != "" {
		return p
	}
	return field.AttrOr("aria-label", "")
}

func extractGeneric(b *builder, sel *goquery.Selection) model.Content {
	c := model.GenericContent{Heading: b.sectionHeading(sel)}
	c.Paragraphs = b.paragraphs(sel, c.Heading, 4)
	c.Images = b.images(sel, 4)
	c.CTAs = b.ctas(sel, 2, false)
	return c
}

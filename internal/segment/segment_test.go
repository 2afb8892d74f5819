package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"designlift/internal/model"
)

const landingPage = `<!doctype html>
<html><head><title>Acme</title></head><body>
<header class="site-header">
  <a href="/" class="logo"><img src="/logo.png" alt="Acme logo"></a>
  <nav><a href="/">Acme Logo</a><a href="/features">Features</a><a href="/pricing">Pricing</a><a href="/about">About</a></nav>
</header>
<section class="hero">
  <h1>Build landing pages faster</h1>
  <p>Acme turns any idea into a polished page in minutes.</p>
  <a href="/signup" class="btn btn-primary">Get started</a>
  <img src="/img/hero.png" alt="Product screenshot">
</section>
<section class="features">
  <h2>Why teams choose Acme</h2>
  <div class="card"><h3>Fast</h3><p>Pages render quickly on every device.</p></div>
  <div class="card"><h3>Flexible</h3><p>Swap layouts without touching code.</p></div>
  <div class="card"><h3>Friendly</h3><p>Everyone on the team can edit content.</p></div>
</section>
<footer>
  <p>© 2024 Acme Inc. All rights reserved.</p>
  <a href="https://twitter.com/acme">Twitter</a>
  <a href="https://www.linkedin.com/company/acme">LinkedIn</a>
</footer>
</body></html>`

func sectionTypes(sections []model.Section) []model.SectionType {
	out := make([]model.SectionType, len(sections))
	for i, s := range sections {
		out[i] = s.Type
	}
	return out
}

func assertTypes(t *testing.T, sections []model.Section, want ...model.SectionType) {
	t.Helper()
	got := sectionTypes(sections)
	if len(got) != len(want) {
		t.Fatalf("expected sections %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sections %v, got %v", want, got)
		}
	}
}

func TestSegment_LandingPage(t *testing.T) {
	sections := Segment(landingPage, "https://acme.test/")
	assertTypes(t, sections, model.SectionHeader, model.SectionHero, model.SectionFeatures, model.SectionFooter)

	for i, s := range sections {
		if s.Order != i {
			t.Fatalf("section %d has order %d", i, s.Order)
		}
	}
	if sections[0].ID != "header-0" || sections[3].ID != "footer-3" {
		t.Fatalf("unexpected ids %q %q", sections[0].ID, sections[3].ID)
	}

	header, ok := sections[0].Content.(model.HeaderContent)
	if !ok {
		t.Fatalf("expected HeaderContent, got %T", sections[0].Content)
	}
	if header.Logo != "https://acme.test/logo.png" {
		t.Fatalf("unexpected logo %q", header.Logo)
	}
	if len(header.Navigation) != 3 || header.Navigation[1].Href != "https://acme.test/pricing" {
		t.Fatalf("unexpected navigation %+v", header.Navigation)
	}
	for _, l := range header.Navigation {
		if l.Label == "Acme Logo" {
			t.Fatalf("logo link must not be navigation: %+v", header.Navigation)
		}
	}

	hero, ok := sections[1].Content.(model.HeroContent)
	if !ok {
		t.Fatalf("expected HeroContent, got %T", sections[1].Content)
	}
	if hero.Title != "Build landing pages faster" {
		t.Fatalf("unexpected hero title %q", hero.Title)
	}
	if hero.Subtitle != "Acme turns any idea into a polished page in minutes." {
		t.Fatalf("unexpected hero subtitle %q", hero.Subtitle)
	}
	if len(hero.CTAs) != 1 || hero.CTAs[0].Href != "https://acme.test/signup" || hero.CTAs[0].Style != model.CTAPrimary {
		t.Fatalf("unexpected hero ctas %+v", hero.CTAs)
	}
	if len(hero.Images) != 1 || hero.Images[0] != "https://acme.test/img/hero.png" {
		t.Fatalf("unexpected hero images %v", hero.Images)
	}
	if sections[1].Variant != "split-right" {
		t.Fatalf("expected split-right hero, got %q", sections[1].Variant)
	}

	features, ok := sections[2].Content.(model.ItemsContent)
	if !ok {
		t.Fatalf("expected ItemsContent, got %T", sections[2].Content)
	}
	if len(features.Items) != 3 || features.Items[0].Title != "Fast" {
		t.Fatalf("unexpected features %+v", features.Items)
	}
	if features.Title != "Why teams choose Acme" {
		t.Fatalf("unexpected features title %q", features.Title)
	}
	if sections[2].Variant != "cards3d" {
		t.Fatalf("expected cards3d variant, got %q", sections[2].Variant)
	}

	footer, ok := sections[3].Content.(model.FooterContent)
	if !ok {
		t.Fatalf("expected FooterContent, got %T", sections[3].Content)
	}
	if footer.Copyright != "© 2024 Acme Inc. All rights reserved." {
		t.Fatalf("unexpected copyright %q", footer.Copyright)
	}
	if len(footer.Social) != 2 || footer.Social[0].Platform != "twitter" || footer.Social[1].Platform != "linkedin" {
		t.Fatalf("unexpected social links %+v", footer.Social)
	}
}

const mixedPage = `<html><body>
<section class="pricing">
  <h2>Planes</h2>
  <div class="plan"><h3>Starter</h3><div class="price">$19<span>/mo</span></div><ul><li>1 sitio</li><li>Soporte por email</li></ul><a class="btn" href="/buy/starter">Elegir</a></div>
  <div class="plan popular"><h3>Pro</h3><div class="price">$49<span>/mo</span></div><ul><li>10 sitios</li></ul><a class="btn" href="/buy/pro">Elegir</a></div>
  <div class="plan"><h3>Team</h3><div class="price">$99<span>/mo</span></div><ul><li>Sitios ilimitados</li></ul><a class="btn" href="/buy/team">Elegir</a></div>
</section>
<section class="faq">
  <h2>Preguntas frecuentes</h2>
  <details><summary>¿Hacen envíos?</summary><p>Sí, a todo el país.</p></details>
  <details><summary>¿Puedo devolver?</summary><p>Tienes 30 días.</p></details>
</section>
<section>
  <h2>Lo que dicen</h2>
  <blockquote><p>“El mejor café que he probado en años.”</p><cite>Ana López, Chef at Bistro Sol</cite></blockquote>
  <blockquote><p>“Llega siempre fresco y bien empacado.”</p><cite>Luis Pérez</cite></blockquote>
</section>
<section>
  <h2>Nuestros números</h2>
  <div class="stat"><strong>10k+</strong><span>clientes</span></div>
  <div class="stat"><strong>98%</strong><span>satisfacción</span></div>
  <div class="stat"><strong>24h</strong><span>envío</span></div>
</section>
<section id="contacto">
  <h2>Escríbenos</h2>
  <p>Respondemos en menos de 24 horas a todas las consultas.</p>
  <form>
    <label for="email">Correo</label><input id="email" name="email" type="email" required>
    <textarea name="mensaje" placeholder="Tu mensaje"></textarea>
    <input type="hidden" name="token" value="x">
    <button type="submit">Enviar</button>
  </form>
</section>
</body></html>`

func TestSegment_ClassifiesAndExtracts(t *testing.T) {
	sections := Segment(mixedPage, "https://cafe.test/")
	assertTypes(t, sections,
		model.SectionPricing, model.SectionFAQ, model.SectionTestimonials, model.SectionStats, model.SectionForm)

	pricing := sections[0].Content.(model.PricingContent)
	if len(pricing.Plans) != 3 {
		t.Fatalf("expected 3 plans, got %+v", pricing.Plans)
	}
	starter := pricing.Plans[0]
	if starter.Name != "Starter" || starter.Price != "$19" || starter.Period != "/mo" {
		t.Fatalf("unexpected starter plan %+v", starter)
	}
	if len(starter.Features) != 2 || starter.CTA == nil || starter.CTA.Href != "https://cafe.test/buy/starter" {
		t.Fatalf("unexpected starter details %+v", starter)
	}
	if starter.Highlighted || !pricing.Plans[1].Highlighted {
		t.Fatalf("expected only the Pro plan highlighted: %+v", pricing.Plans)
	}
	if sections[0].Variant != "cards" {
		t.Fatalf("expected cards pricing variant, got %q", sections[0].Variant)
	}

	faq := sections[1].Content.(model.FAQContent)
	if len(faq.FAQs) != 2 || faq.FAQs[0].Question != "¿Hacen envíos?" || faq.FAQs[0].Answer != "Sí, a todo el país." {
		t.Fatalf("unexpected faqs %+v", faq.FAQs)
	}

	testimonials := sections[2].Content.(model.TestimonialsContent)
	if len(testimonials.Testimonials) != 2 {
		t.Fatalf("expected 2 testimonials, got %+v", testimonials.Testimonials)
	}
	first := testimonials.Testimonials[0]
	if first.Quote != "El mejor café que he probado en años." {
		t.Fatalf("quote not cleaned: %q", first.Quote)
	}
	if first.Author != "Ana López" || first.Role != "Chef" || first.Company != "Bistro Sol" {
		t.Fatalf("unexpected attribution %+v", first)
	}

	stats := sections[3].Content.(model.StatsContent)
	if len(stats.Stats) != 3 || stats.Stats[0].Value != "10k+" || stats.Stats[0].Label != "clientes" {
		t.Fatalf("unexpected stats %+v", stats.Stats)
	}

	form := sections[4].Content.(model.FormContent)
	if len(form.Fields) != 2 {
		t.Fatalf("expected hidden input to be skipped, got %+v", form.Fields)
	}
	if f := form.Fields[0]; f.Name != "email" || f.Type != "email" || f.Label != "Correo" || !f.Required {
		t.Fatalf("unexpected email field %+v", f)
	}
	if f := form.Fields[1]; f.Type != "textarea" || f.Label != "Tu mensaje" || f.Required {
		t.Fatalf("unexpected message field %+v", f)
	}
	if form.Submit != "Enviar" {
		t.Fatalf("unexpected submit label %q", form.Submit)
	}
}

func TestSegment_SkipsWrappersAndClassifiesByText(t *testing.T) {
	page := `<html><body><main><div class="wrapper">
  <div id="a"><h2>Sobre nosotros</h2><p>Somos una cooperativa de tostadores independientes que trabaja directamente con pequeños productores de la región.</p></div>
  <div id="b"><h2>Nuestros servicios</h2><p>Tostamos, molemos y enviamos café de especialidad para cafeterías, oficinas y hogares en todo el país.</p></div>
</div></main></body></html>`

	sections := Segment(page, "https://cafe.test/")
	assertTypes(t, sections, model.SectionAbout, model.SectionServices)
	if sections[0].Title() != "Sobre nosotros" {
		t.Fatalf("unexpected about title %q", sections[0].Title())
	}
}

func TestSegment_HeadingFallback(t *testing.T) {
	page := `<html><body>
<div><h1>Hola mundo</h1><p>Bienvenidos a nuestra tienda online de café.</p></div>
<div><h2>Nuestros cafés</h2><ul><li>Colombia Supremo</li><li>Etiopía Yirgacheffe</li></ul></div>
<div><h2>Envíos</h2></div>
</body></html>`

	sections := Segment(page, "https://cafe.test/")
	assertTypes(t, sections, model.SectionHero, model.SectionFeatures, model.SectionFeatures)
	if sections[0].Title() != "Hola mundo" {
		t.Fatalf("unexpected hero title %q", sections[0].Title())
	}
	coffees := sections[1].Content.(model.ItemsContent)
	if len(coffees.Items) != 2 || coffees.Items[1].Title != "Etiopía Yirgacheffe" {
		t.Fatalf("unexpected list items %+v", coffees.Items)
	}
	if sections[2].Title() != "Envíos" {
		t.Fatalf("unexpected features title %q", sections[2].Title())
	}
}

func TestSegment_FlatHeadingFallback(t *testing.T) {
	page := `<html><body><h1>Estudio Luna</h1><p>Fotografía de bodas y eventos.</p><h2>Portafolio</h2><p>Más de 200 bodas.</p></body></html>`

	sections := Segment(page, "")
	assertTypes(t, sections, model.SectionHero, model.SectionFeatures)
	hero := sections[0].Content.(model.HeroContent)
	if hero.Title != "Estudio Luna" || hero.Subtitle != "Fotografía de bodas y eventos." {
		t.Fatalf("unexpected hero %+v", hero.Heading)
	}
}

func TestSegment_DropsDuplicateSections(t *testing.T) {
	block := `<section class="features"><h2>Features</h2>
  <div class="card"><h3>One</h3><p>First feature description with a little more detail.</p></div>
  <div class="card"><h3>Two</h3><p>Second feature description with a little more detail.</p></div>
</section>`
	sections := Segment("<html><body>"+block+block+"</body></html>", "https://acme.test/")
	assertTypes(t, sections, model.SectionFeatures)
	if sections[0].ID != "features-0" {
		t.Fatalf("unexpected id %q", sections[0].ID)
	}
}

func TestSegment_EmptyDocument(t *testing.T) {
	if sections := Segment("", "https://acme.test/"); len(sections) != 0 {
		t.Fatalf("expected no sections, got %v", sectionTypes(sections))
	}
}

func TestHeroVariant(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"centered", `<section class="hero"><h1>Title here</h1><p>Some supporting copy for the hero block that explains the product in one sentence.</p><a class="btn" href="#">Go</a></section>`, "centered"},
		{"image first", `<section class="hero"><img src="/a.png"><div><h1>Title here</h1><p>Some supporting copy.</p></div></section>`, "split-left"},
		{"image last", `<section class="hero"><div><h1>Title here</h1><p>Some supporting copy.</p></div><img src="/a.png"></section>`, "split-right"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sections := Segment("<html><body>"+tc.html+"</body></html>", "https://acme.test/")
			if len(sections) != 1 || sections[0].Type != model.SectionHero {
				t.Fatalf("expected a single hero, got %v", sectionTypes(sections))
			}
			if sections[0].Variant != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, sections[0].Variant)
			}
		})
	}
}

func TestSegment_HeroContainingNav(t *testing.T) {
	page := `<html><body>
<section class="hero">
  <nav><a href="/">Home</a><a href="/menu">Our breads</a><a href="/contact">Contact</a></nav>
  <h1>Grow your bakery online</h1>
  <p>Fresh bread delivered every morning to your door.</p>
  <img src="/img/bread.jpg" alt="Bread">
</section>
<section class="features">
  <h2>Why us</h2>
  <div class="card"><h3>Fresh</h3><p>Baked before dawn.</p></div>
  <div class="card"><h3>Local</h3><p>Flour from nearby farms.</p></div>
  <div class="card"><h3>Fast</h3><p>Delivered by eight.</p></div>
</section>
<footer>© 2024 Crumb</footer>
</body></html>`
	sections := Segment(page, "https://crumb.test/")
	assertTypes(t, sections, model.SectionHeader, model.SectionHero, model.SectionFeatures, model.SectionFooter)

	header := sections[0].Content.(model.HeaderContent)
	if len(header.Navigation) != 3 || header.Navigation[1].Href != "https://crumb.test/menu" {
		t.Fatalf("unexpected navigation %+v", header.Navigation)
	}
	hero := sections[1].Content.(model.HeroContent)
	if hero.Title != "Grow your bakery online" {
		t.Fatalf("unexpected hero title %q", hero.Title)
	}
	for _, cta := range hero.CTAs {
		if cta.Text == "Our breads" {
			t.Fatalf("navigation leaked into hero ctas %+v", hero.CTAs)
		}
	}
	if len(hero.Images) != 1 || hero.Images[0] != "https://crumb.test/img/bread.jpg" {
		t.Fatalf("unexpected hero images %v", hero.Images)
	}
}

// firstSection parses fragment and returns its first <section>.
func firstSection(t *testing.T, fragment string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sel := doc.Find("section").First()
	if sel.Length() == 0 {
		t.Fatalf("no section in %q", fragment)
	}
	return sel
}

func TestFeaturesVariant(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"grid", `<section><div class="grid grid-cols-4"><div class="card"><h3>A</h3></div><div class="card"><h3>B</h3></div></div></section>`, "grid"},
		{"three cards", `<section><div class="card"><h3>A</h3></div><div class="card"><h3>B</h3></div><div class="card"><h3>C</h3></div></section>`, "cards3d"},
		{"alternating", `<section><div class="feature reverse"><h3>A</h3></div><div class="feature"><h3>B</h3></div></section>`, "alternating"},
		{"bento", `<section><div class="card"><h3>A</h3></div><div class="card"><h3>B</h3></div></section>`, "bento"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := featuresVariant(firstSection(t, tc.html)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTestimonialsVariant(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"carousel", `<section><div class="swiper"><blockquote>Great</blockquote></div></section>`, "carousel"},
		{"masonry", `<section><div class="masonry"><blockquote>Great</blockquote></div></section>`, "masonry"},
		{"featured", `<section><div class="quote featured"><blockquote>Great</blockquote></div></section>`, "featured"},
		{"grid", `<section><div class="quotes"><blockquote>Great</blockquote></div></section>`, "grid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := testimonialsVariant(firstSection(t, tc.html)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPricingVariant(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"table", `<section><table><tr><td>Pro</td><td>$49</td></tr></table></section>`, "comparison"},
		{"compare class", `<section class="pricing-compare"><div class="plan">Pro $49</div></section>`, "comparison"},
		{"horizontal", `<section class="pricing pricing-horizontal"><div class="plan horizontal">Pro $49</div></section>`, "horizontal"},
		{"cards", `<section class="pricing"><div class="plan">Pro $49</div><div class="plan">Team $99</div></section>`, "cards"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pricingVariant(firstSection(t, tc.html)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSegment_HorizontalPricing(t *testing.T) {
	page := `<html><body><section class="pricing pricing-horizontal">
  <h2>Plans</h2>
  <p>Simple monthly pricing for teams of every size, cancel anytime.</p>
  <div class="plan horizontal"><h3>Starter</h3><div class="price">$19<span>/mo</span></div><ul><li>1 site</li></ul></div>
  <div class="plan horizontal"><h3>Pro</h3><div class="price">$49<span>/mo</span></div><ul><li>10 sites</li></ul></div>
</section></body></html>`
	sections := Segment(page, "https://acme.test/")
	if len(sections) != 1 || sections[0].Type != model.SectionPricing {
		t.Fatalf("expected a single pricing section, got %v", sectionTypes(sections))
	}
	if sections[0].Variant != "horizontal" {
		t.Fatalf("expected horizontal variant, got %q", sections[0].Variant)
	}
}

func TestSegment_GalleryListsAreCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><section class="gallery"><h2>Our work</h2>`)
	for i := 0; i < 14; i++ {
		fmt.Fprintf(&b, `<figure><img src="/g/%d.jpg"><figcaption>Photo %d</figcaption></figure>`, i, i)
	}
	b.WriteString(`</section></body></html>`)

	sections := Segment(b.String(), "https://acme.test/")
	if len(sections) != 1 || sections[0].Type != model.SectionGallery {
		t.Fatalf("expected a single gallery, got %v", sectionTypes(sections))
	}
	gallery := sections[0].Content.(model.GalleryContent)
	if len(gallery.Images) != 12 || len(gallery.Items) != 12 {
		t.Fatalf("expected 12 images and items, got %d and %d", len(gallery.Images), len(gallery.Items))
	}
}

func TestGridColumns(t *testing.T) {
	cases := map[string]int{
		"grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4": 4,
		"row col-md-4":  3,
		"col-span-2":    0,
		"features card": 0,
	}
	for classes, want := range cases {
		if got := gridColumns(classes); got != want {
			t.Fatalf("gridColumns(%q) = %d, want %d", classes, got, want)
		}
	}
}

func TestMatchKeyword(t *testing.T) {
	cases := []struct {
		attrs string
		kw    string
		want  bool
	}{
		{"section-hero container", "hero", true},
		{"herosection", "hero", true},
		{"superhero", "hero", false},
		{"contact-form", "form", true},
		{"format-text", "form", false},
		{"our-plans", "plan", true},
		{"planet", "plan", false},
	}
	for _, tc := range cases {
		if got := matchKeyword(tc.attrs, tc.kw); got != tc.want {
			t.Fatalf("matchKeyword(%q, %q) = %v, want %v", tc.attrs, tc.kw, got, tc.want)
		}
	}
}

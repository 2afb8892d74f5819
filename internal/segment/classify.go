package segment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"designlift/internal/model"
)

// candidate is a block under consideration for a content section.
type candidate struct {
	sel     *goquery.Selection
	index   int
	attrs   string
	text    string
	textLen int
	images  int
}

type keywordRule struct {
	typ      model.SectionType
	keywords []string
}

// keywordRules are checked in order against class, id, and labelling
// attributes; the first match wins.
var keywordRules = []keywordRule{
	{model.SectionHero, []string{"hero", "banner", "jumbotron", "masthead", "splash"}},
	{model.SectionTestimonials, []string{"testimonial", "review", "quote", "feedback", "testimonio", "opinion"}},
	{model.SectionPricing, []string{"pricing", "price", "plan", "tarifa", "precio"}},
	{model.SectionFAQ, []string{"faq", "accordion", "question", "pregunta"}},
	{model.SectionLogoCloud, []string{"logo-cloud", "logocloud", "logos", "brands", "partners", "trusted", "sponsor"}},
	{model.SectionClients, []string{"client", "customer", "cliente"}},
	{model.SectionStats, []string{"stats", "statistic", "counter", "numbers", "metrics", "achievement", "cifras"}},
	{model.SectionProcess, []string{"process", "step", "how-it-works", "workflow", "proceso", "pasos"}},
	{model.SectionTeam, []string{"team", "staff", "people", "equipo"}},
	{model.SectionGallery, []string{"gallery", "galeria", "photos"}},
	{model.SectionPortfolio, []string{"portfolio", "project", "work", "case-stud", "proyecto"}},
	{model.SectionFeatures, []string{"feature", "caracteristica"}},
	{model.SectionServices, []string{"service", "servicio"}},
	{model.SectionBenefits, []string{"benefit", "advantage", "why", "ventaja", "beneficio"}},
	{model.SectionAbout, []string{"about", "story", "mission", "who-we-are", "nosotros", "historia"}},
	{model.SectionLocation, []string{"location", "map", "address", "ubicacion", "direccion"}},
	{model.SectionCTA, []string{"cta", "call-to-action", "signup", "get-started"}},
	{model.SectionForm, []string{"contact", "form", "newsletter", "subscribe", "contacto"}},
}

// textRules are the last resort: phrases found near the top of the block.
var textRules = []keywordRule{
	{model.SectionFAQ, []string{"faq", "preguntas frecuentes", "frequently asked", "common questions"}},
	{model.SectionTestimonials, []string{"testimonials", "what our clients say", "what people say", "testimonios", "lo que dicen", "opiniones"}},
	{model.SectionPricing, []string{"pricing", "precios", "our plans", "nuestros planes"}},
	{model.SectionTeam, []string{"our team", "meet the team", "nuestro equipo"}},
	{model.SectionProcess, []string{"how it works", "cómo funciona", "como funciona"}},
	{model.SectionAbout, []string{"about us", "sobre nosotros", "quiénes somos", "quienes somos"}},
	{model.SectionServices, []string{"our services", "nuestros servicios"}},
	{model.SectionGallery, []string{"gallery", "galería"}},
	{model.SectionForm, []string{"contact us", "contáctanos", "contactanos"}},
}

type heuristic struct {
	typ   model.SectionType
	match func(c *candidate) bool
}

var heuristics = []heuristic{
	{model.SectionHero, func(c *candidate) bool {
		return c.index < 3 && c.sel.Find("h1").Length() > 0
	}},
	{model.SectionTestimonials, func(c *candidate) bool {
		return c.sel.Find("blockquote, q").Length() > 0
	}},
	{model.SectionPricing, func(c *candidate) bool {
		return priceRe.MatchString(c.text) && len(findCards(c.sel)) >= 3
	}},
	{model.SectionForm, func(c *candidate) bool {
		return c.sel.Find("input:not([type=hidden]), textarea, select").Length() > 0
	}},
	{model.SectionStats, func(c *candidate) bool {
		return len(statUnits(c.sel)) >= 2
	}},
	{model.SectionLogoCloud, func(c *candidate) bool {
		return c.images >= 4 && c.sel.Find("h1, h2, h3, h4").Length() <= 1 && c.textLen < 200
	}},
	{model.SectionFeatures, func(c *candidate) bool {
		return len(findCards(c.sel)) >= 2 && c.sel.Find("h2").Length() > 0
	}},
}

// classify maps a candidate to a section type. The bool is false when the
// block carries no recognizable signal and too little content to keep.
func classify(c *candidate) (model.SectionType, bool) {
	for _, r := range keywordRules {
		for _, kw := range r.keywords {
			if matchKeyword(c.attrs, kw) {
				return r.typ, true
			}
		}
	}
	for _, h := range heuristics {
		if h.match(c) {
			return h.typ, true
		}
	}
	head := c.text
	if r := []rune(head); len(r) > 300 {
		head = string(r[:300])
	}
	for _, r := range textRules {
		for _, kw := range r.keywords {
			if strings.Contains(head, kw) {
				return r.typ, true
			}
		}
	}
	if significant(c) {
		return model.SectionUnknown, true
	}
	return "", false
}

func significant(c *candidate) bool {
	return c.textLen >= 100 || c.images >= 1 && c.textLen >= 30
}

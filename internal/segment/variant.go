package segment

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"designlift/internal/model"
)

func (b *builder) variant(typ model.SectionType, sel *goquery.Selection) string {
	switch typ {
	case model.SectionHero:
		return b.heroVariant(sel)
	case model.SectionFeatures:
		return featuresVariant(sel)
	case model.SectionTestimonials:
		return testimonialsVariant(sel)
	case model.SectionPricing:
		return pricingVariant(sel)
	default:
		return model.DefaultVariant
	}
}

// heroVariant compares the document position of the first image with the
// main heading: an image before the heading puts media on the left.
func (b *builder) heroVariant(sel *goquery.Selection) string {
	img := sel.Find("img, picture, video").First()
	if img.Length() == 0 {
		return "centered"
	}
	head := sel.Find("h1").First()
	if head.Length() == 0 {
		head = sel.Find("h2, h3").First()
	}
	if head.Length() == 0 {
		return "split-right"
	}
	if b.pos(img) < b.pos(head) {
		return "split-left"
	}
	return "split-right"
}

func featuresVariant(sel *goquery.Selection) string {
	classes := descendantClasses(sel)
	cols := gridColumns(classes)
	if cols == 0 {
		cols = len(findCards(sel))
	}
	switch {
	case cols >= 4:
		return "grid"
	case cols == 3:
		return "cards3d"
	case containsAny(classes, "alternat", "zigzag", "zig-zag", "reverse"):
		return "alternating"
	default:
		return "bento"
	}
}

var columnClassPrefixes = []string{"grid-cols-", "columns-", "row-cols-", "cols-"}

// gridColumns reads the widest column count declared by grid utility
// classes, including 12-column "col-md-4" style classes.
func gridColumns(classes string) int {
	widest := 0
	for _, tok := range strings.Fields(classes) {
		if i := strings.LastIndex(tok, ":"); i >= 0 {
			tok = tok[i+1:]
		}
		n := 0
		for _, p := range columnClassPrefixes {
			if strings.HasPrefix(tok, p) {
				n, _ = strconv.Atoi(tok[len(p):])
				break
			}
		}
		if n == 0 && strings.HasPrefix(tok, "col-") && !containsAny(tok, "span", "start", "end", "auto", "offset") {
			parts := strings.Split(tok, "-")
			if span, err := strconv.Atoi(parts[len(parts)-1]); err == nil && span > 0 && span <= 12 {
				n = 12 / span
			}
		}
		if n > widest && n <= 12 {
			widest = n
		}
	}
	return widest
}

func testimonialsVariant(sel *goquery.Selection) string {
	classes := descendantClasses(sel)
	switch {
	case containsAny(classes, "carousel", "slider", "swiper", "slick", "splide", "glide", "owl-"):
		return "carousel"
	case strings.Contains(classes, "masonry"):
		return "masonry"
	case containsAny(classes, "featured", "spotlight"):
		return "featured"
	default:
		return "grid"
	}
}

func pricingVariant(sel *goquery.Selection) string {
	classes := descendantClasses(sel)
	switch {
	case sel.Find("table").Length() > 0 || containsAny(classes, "comparison", "compare"):
		return "comparison"
	case containsAny(classes, "horizontal", "plan-row", "pricing-row", "plans-row"):
		return "horizontal"
	default:
		return "cards"
	}
}

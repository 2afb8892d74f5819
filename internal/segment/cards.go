package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"designlift/internal/model"
)

var cardClassMarkers = []string{
	"card", "item", "box", "tile", "feature", "service", "plan", "tier", "member",
	"step", "testimonial", "review", "col", "panel", "pricing",
}

var inlineTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "a": true, "span": true, "img": true, "br": true, "button": true,
	"strong": true, "em": true, "i": true, "svg": true, "picture": true, "source": true,
}

func cardLike(s *goquery.Selection) bool {
	if inlineTags[goquery.NodeName(s)] {
		return false
	}
	class := strings.ToLower(s.AttrOr("class", ""))
	for _, m := range cardClassMarkers {
		if matchKeyword(class, m) {
			return true
		}
	}
	if s.Find("h3, h4, h5").Length() > 0 {
		return true
	}
	return s.Find("img").Length() > 0 && strings.TrimSpace(s.Text()) != ""
}

// findCards returns the largest group of card-like siblings within four
// levels of root, or nil when no container holds at least two.
func findCards(root *goquery.Selection) []*goquery.Selection {
	var best []*goquery.Selection
	level := []*goquery.Selection{root}
	for depth := 0; depth < 4 && len(level) > 0; depth++ {
		var next []*goquery.Selection
		for _, container := range level {
			var cards []*goquery.Selection
			container.Children().Each(func(_ int, ch *goquery.Selection) {
				next = append(next, ch)
				if cardLike(ch) {
					cards = append(cards, ch)
				}
			})
			if len(cards) > len(best) {
				best = cards
			}
		}
		level = next
	}
	if len(best) < 2 {
		return nil
	}
	return best
}

func cardSet(cards []*goquery.Selection) map[*html.Node]bool {
	set := make(map[*html.Node]bool, len(cards))
	for _, c := range cards {
		set[c.Get(0)] = true
	}
	return set
}

// statValue reports whether s reads like a figure: short, with a digit and
// at most a unit suffix ("98%", "10k+", "24h").
func statValue(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > 12 || !hasDigit(s) {
		return false
	}
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters <= 3
}

func statFrom(unit *goquery.Selection) (model.Stat, bool) {
	var value string
	unit.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() > 0 {
			return true
		}
		if t := text(s); statValue(t) {
			value = t
			return false
		}
		return true
	})
	if value == "" {
		return model.Stat{}, false
	}
	label := strings.TrimSpace(strings.Replace(text(unit), value, "", 1))
	if label == "" || utf8.RuneCountInString(label) > 80 {
		return model.Stat{}, false
	}
	return model.Stat{Value: value, Label: label}, true
}

const statSelector = "[class*=stat], [class*=counter], [class*=metric]"

func statUnits(sel *goquery.Selection) []*goquery.Selection {
	var units []*goquery.Selection
	for _, c := range findCards(sel) {
		if _, ok := statFrom(c); ok {
			units = append(units, c)
		}
	}
	if len(units) >= 2 {
		return units
	}

	units = units[:0]
	sel.Find(statSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() < 2 {
			return
		}
		if _, ok := statFrom(s); ok {
			units = append(units, s)
		}
	})
	// Keep the innermost units when stat wrappers nest.
	out := units[:0:0]
	for i, u := range units {
		wraps := false
		for j, other := range units {
			if i != j && isAncestor(u.Get(0), other.Get(0)) {
				wraps = true
				break
			}
		}
		if !wraps {
			out = append(out, u)
		}
	}
	return out
}

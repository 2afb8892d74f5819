// Package classify guesses the business vertical and content language of a
// fetched page.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"designlift/internal/model"
)

// GeneralIndustry is reported when no keyword scored.
const GeneralIndustry = "general"

// industryKeywords holds accent-free lowercase stems; a stem matches any
// word that starts with it.
var industryKeywords = []struct {
	label string
	stems []string
}{
	{"restaurant", []string{"restaurant", "menu", "chef", "cuisine", "dinner", "brunch", "reserv", "restaurante", "carta", "cocina", "comida", "cena", "platos", "tapas"}},
	{"cafe-bakery", []string{"bakery", "coffee", "pastr", "bread", "panaderia", "pasteleria", "cafeteria", "pan artesan", "reposteria"}},
	{"saas", []string{"saas", "software", "platform", "dashboard", "api", "integration", "workflow", "automat", "analytics", "plataforma", "integracion", "automatiz"}},
	{"ecommerce", []string{"shop", "cart", "checkout", "shipping", "product", "store", "tienda", "carrito", "envio", "producto", "comprar"}},
	{"healthcare", []string{"clinic", "doctor", "patient", "health", "medical", "dental", "dentist", "therap", "clinica", "medic", "paciente", "salud", "dentista", "terapia"}},
	{"fitness", []string{"gym", "fitness", "workout", "training", "yoga", "pilates", "crossfit", "gimnasio", "entrenamiento", "entrenador"}},
	{"real-estate", []string{"real estate", "property", "properties", "apartment", "realtor", "mortgage", "inmobiliaria", "propiedad", "vivienda", "alquiler", "piso"}},
	{"legal", []string{"lawyer", "attorney", "legal", "law firm", "abogad", "bufete", "juridic", "despacho"}},
	{"education", []string{"course", "student", "learn", "school", "academy", "teacher", "curso", "estudiante", "escuela", "academia", "aprend", "formacion"}},
	{"beauty", []string{"salon", "beauty", "spa", "hair", "nails", "makeup", "peluqueria", "belleza", "estetica", "unas", "maquillaje"}},
	{"finance", []string{"finance", "invest", "bank", "loan", "insurance", "accounting", "financ", "inversion", "banco", "prestamo", "seguro", "contabilidad", "asesoria fiscal"}},
	{"construction", []string{"construction", "renovation", "contractor", "plumb", "roofing", "construccion", "reforma", "fontaner", "albanil"}},
	{"travel", []string{"travel", "hotel", "tour", "booking", "vacation", "resort", "viaje", "reserva", "vacaciones", "turismo", "alojamiento"}},
	{"agency", []string{"agency", "branding", "marketing", "design studio", "seo", "campaign", "agencia", "diseno", "campana", "publicidad"}},
	{"photography", []string{"photograph", "photo", "portrait", "wedding", "fotograf", "foto", "retrato", "boda"}},
}

// Field weights: a hit in the title says more than one in the body.
const (
	titleWeight = 3
	descWeight  = 2
	bodyWeight  = 1

	highScore   = 10
	mediumScore = 4

	maxBodyRunes = 20000
)

// DetectIndustry scores every label over the page title, description and
// body text and returns the best one. Ties go to the earlier label.
func DetectIndustry(title, description, body string) model.Industry {
	fields := []struct {
		words  []string
		weight int
	}{
		{words(title), titleWeight},
		{words(description), descWeight},
		{words(truncateRunes(body, maxBodyRunes)), bodyWeight},
	}

	best := model.Industry{Label: GeneralIndustry, Confidence: model.ConfidenceLow}
	for _, group := range industryKeywords {
		score := 0
		for _, f := range fields {
			score += f.weight * countStems(f.words, group.stems)
		}
		if score > best.Score {
			best = model.Industry{Label: group.label, Score: score}
		}
	}
	switch {
	case best.Score >= highScore:
		best.Confidence = model.ConfidenceHigh
	case best.Score >= mediumScore:
		best.Confidence = model.ConfidenceMedium
	default:
		best.Confidence = model.ConfidenceLow
	}
	return best
}

// countStems counts words that start with a stem. Multi-word stems match
// consecutive words.
func countStems(ws []string, stems []string) int {
	n := 0
	for i := range ws {
		for _, stem := range stems {
			if matchAt(ws, i, stem) {
				n++
				break
			}
		}
	}
	return n
}

func matchAt(ws []string, i int, stem string) bool {
	parts := strings.Fields(stem)
	if i+len(parts) > len(ws) {
		return false
	}
	last := len(parts) - 1
	for j, p := range parts {
		w := ws[i+j]
		if j < last && w != p {
			return false
		}
		if j == last && !strings.HasPrefix(w, p) {
			return false
		}
	}
	// Short stems must be whole words so "api" does not count "apiary".
	if len(parts) == 1 && len(stem) <= 3 {
		return ws[i] == stem || ws[i] == stem+"s"
	}
	return true
}

// words folds accents and case and splits on anything but letters and
// digits.
func words(s string) []string {
	// Chains keep state, so each call builds its own.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	return strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package classify

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"designlift/internal/model"
)

// minTextRunes is the least amount of text worth running the detector on;
// shorter pages rely on the lang attribute.
const minTextRunes = 40

var supportedLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Dutch,
	lingua.Catalan,
}

// LanguageDetector wraps a lingua detector restricted to the languages the
// generator supports. The underlying models load lazily on first use.
type LanguageDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{}
}

func (d *LanguageDetector) get() lingua.LanguageDetector {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(supportedLanguages...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	return d.detector
}

// Detect combines the declared <html lang> with statistical detection over
// text. Agreement raises confidence; without usable text the declared
// language is trusted with medium confidence, and without either the result
// is English with low confidence.
func (d *LanguageDetector) Detect(htmlLang, text string) model.Language {
	declared := normalizeLangTag(htmlLang)
	text = strings.TrimSpace(text)

	if len([]rune(text)) >= minTextRunes {
		if lang, ok := d.get().DetectLanguageOf(text); ok {
			code := strings.ToLower(lang.IsoCode639_1().String())
			conf := d.get().ComputeLanguageConfidence(text, lang)
			if declared != "" && declared == code && conf < 0.95 {
				conf = 0.95
			}
			return model.Language{Code: code, Name: lang.String(), Confidence: round2(conf)}
		}
	}
	if declared != "" {
		return model.Language{Code: declared, Name: languageName(declared), Confidence: 0.6}
	}
	return model.Language{Code: "en", Name: "English", Confidence: 0.1}
}

// normalizeLangTag turns "es-ES" or "EN_us" into "es" / "en".
func normalizeLangTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	if len(tag) != 2 {
		return ""
	}
	return tag
}

func languageName(code string) string {
	for _, l := range supportedLanguages {
		if strings.EqualFold(l.IsoCode639_1().String(), code) {
			return l.String()
		}
	}
	return strings.ToUpper(code)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

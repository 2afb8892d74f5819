// Package policy turns a user's free-text request into a fidelity tier, a
// facet configuration and the generation brief handed to the content
// generator.
package policy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"designlift/internal/model"
)

// tierKeywords is checked in order; the first tier with a matching phrase
// wins. Phrases are accent-free and lowercase.
var tierKeywords = []struct {
	tier    model.Tier
	phrases []string
}{
	{model.TierExact, []string{
		"exact", "exactly", "identical", "100%", "copy everything", "pixel perfect",
		"pixel-perfect", "1:1", "word for word", "verbatim", "the same site", "exact copy",
		"exacta", "exacto", "exactamente", "identica", "identico", "copia exacta",
		"copiar todo", "copia todo", "tal cual", "igualita", "igualito", "al pie de la letra",
	}},
	{model.TierReplica, []string{
		"similar", "like this", "like that", "clone", "based on", "replica", "replicate",
		"copy", "same style", "same look", "look like", "looks like", "resemble",
		"parecido", "parecida", "parecidos", "como esta", "como este", "como la de",
		"clon", "clonar", "clona", "basado en", "basada en", "basandote en", "replicar",
		"copia", "copiar", "mismo estilo", "estilo de", "igual que",
	}},
}

// Fold lowercases s and strips diacritics so that "Idéntica" and
// "identica" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// padded folds s and reduces it to space-separated words framed by spaces,
// so phrase lookups match whole words only. '%' and ':' survive for
// phrases like "100%" and "1:1".
func padded(s string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range Fold(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' || r == ':' || r == '-' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// containsPhrase reports whether phrase occurs as whole words in the
// padded text.
func containsPhrase(text, phrase string) bool {
	return strings.Contains(text, " "+phrase+" ")
}

// DetectTier maps any request text to exactly one tier: exact keywords win
// over replica keywords, and everything else is inspiration.
func DetectTier(text string) model.Tier {
	p := padded(text)
	for _, group := range tierKeywords {
		for _, phrase := range group.phrases {
			if containsPhrase(p, phrase) {
				return group.tier
			}
		}
	}
	return model.TierInspiration
}

// ParseTier accepts a tier name from configuration or an API caller.
func ParseTier(s string) (model.Tier, bool) {
	switch model.Tier(strings.ToLower(strings.TrimSpace(s))) {
	case model.TierInspiration:
		return model.TierInspiration, true
	case model.TierReplica:
		return model.TierReplica, true
	case model.TierExact:
		return model.TierExact, true
	}
	return "", false
}

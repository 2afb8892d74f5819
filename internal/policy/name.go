package policy

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var nameCueRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(for|called|named|para|llamad[oa]|de nombre)\s+`)

// nameFillers may sit between the cue and the name itself:
// "for my bakery Sweet Home", "para la empresa Sol y Mar".
var nameFillers = map[string]bool{
	"a": true, "an": true, "the": true, "my": true, "our": true,
	"un": true, "una": true, "el": true, "la": true, "mi": true, "nuestra": true, "nuestro": true,
	"company": true, "business": true, "brand": true, "shop": true, "store": true, "startup": true,
	"restaurant": true, "bakery": true, "cafe": true, "clinic": true, "studio": true, "agency": true,
	"salon": true, "gym": true, "hotel": true, "bar": true, "website": true, "site": true, "landing": true,
	"empresa": true, "negocio": true, "marca": true, "tienda": true, "restaurante": true, "panaderia": true,
	"cafeteria": true, "clinica": true, "estudio": true, "agencia": true, "gimnasio": true, "web": true,
	"pagina": true, "sitio": true, "llamada": true, "llamado": true, "called": true, "named": true,
}

// nameJoiners may link two capitalized words inside one name.
var nameJoiners = map[string]bool{"&": true, "and": true, "y": true, "de": true, "del": true, "of": true}

const maxNameWords = 5

// InferBusinessName pulls a business name out of requests such as
// `a landing for "Acme Labs"` or `una web para Panadería Dulce Hogar`. It
// returns "" when no capitalized or quoted name follows a cue word.
func InferBusinessName(text string) string {
	for _, loc := range nameCueRe.FindAllStringSubmatchIndex(text, -1) {
		if name := nameAfter(text[loc[1]:]); name != "" {
			return name
		}
	}
	return ""
}

func nameAfter(rest string) string {
	rest = strings.TrimSpace(rest)
	for _, q := range [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}, {"«", "»"}} {
		if strings.HasPrefix(rest, q[0]) {
			body := rest[len(q[0]):]
			if end := strings.Index(body, q[1]); end > 0 {
				return strings.TrimSpace(body[:end])
			}
		}
	}

	words := strings.Fields(rest)
	i := 0
	for i < len(words) {
		w := trimPunct(words[i])
		if capitalized(w) || !nameFillers[Fold(w)] {
			break
		}
		i++
	}
	var name []string
	for ; i < len(words) && len(name) < maxNameWords; i++ {
		w := trimPunct(words[i])
		if w == "" {
			break
		}
		if capitalized(w) {
			name = append(name, w)
			if strings.ContainsAny(words[i], ",.;:!?") {
				break
			}
			continue
		}
		if len(name) > 0 && nameJoiners[strings.ToLower(w)] && i+1 < len(words) && capitalized(trimPunct(words[i+1])) {
			name = append(name, w)
			continue
		}
		break
	}
	return strings.Join(name, " ")
}

func capitalized(w string) bool {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return false
	}
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

func trimPunct(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsPunct(r) && r != '&'
	})
}

package theme

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DisplayName turns a directory name such as "dark-ocean" into "Dark Ocean".
func DisplayName(dirName string) string {
	name := strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(dirName)
	name = strings.Join(strings.Fields(name), " ")
	return cases.Title(language.English).String(name)
}

// Slug converts a theme name to a URL-safe path segment: lower-case ASCII
// letters and digits separated by single hyphens. Diacritics are stripped,
// Cyrillic and Greek are transliterated, and letters of other scripts become
// their code point ("u65e5"), so "Café Noir" becomes "cafe-noir" and
// "Тёмная" becomes "temnaya".
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	pendingHyphen := false
	write := func(s string) {
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteString(s)
	}

	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			write(string(r))
		case transliterations[r] != "":
			write(transliterations[r])
		case r == 'ъ' || r == 'ь':
			// hard and soft signs have no Latin form
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			pendingHyphen = true
			write(fmt.Sprintf("u%x", r))
			pendingHyphen = true
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// transliterations maps lower-case Cyrillic and Greek letters, after
// diacritics are stripped, to Latin.
var transliterations = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h",
	'ц': "c", 'ч': "ch", 'ш': "sh", 'щ': "shch", 'ы': "y", 'э': "e",
	'ю': "yu", 'я': "ya", 'є': "ye", 'і': "i", 'ґ': "g",

	'α': "a", 'β': "b", 'γ': "g", 'δ': "d", 'ε': "e", 'ζ': "z", 'η': "i",
	'θ': "th", 'ι': "i", 'κ': "k", 'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "ks",
	'ο': "o", 'π': "p", 'ρ': "r", 'σ': "s", 'ς': "s", 'τ': "t", 'υ': "y",
	'φ': "f", 'χ': "x", 'ψ': "ps", 'ω': "w",
}

package airports

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases maps normalized colloquial place names and country abbreviations to
// the canonical normalized form found in the reference table.
var aliases = map[string]string{
	"tp hcm":        "ho chi minh city",
	"tphcm":         "ho chi minh city",
	"hcmc":          "ho chi minh city",
	"saigon":        "ho chi minh city",
	"sai gon":       "ho chi minh city",
	"ho chi minh":   "ho chi minh city",
	"hn":            "hanoi",
	"ha noi":        "hanoi",
	"nyc":           "new york",
	"bombay":        "mumbai",
	"saint p":       "saint petersburg",
	"st petersburg": "saint petersburg",
	"spb":           "saint petersburg",
	"msk":           "moscow",

	"vn":                 "vietnam",
	"viet nam":           "vietnam",
	"uk":                 "united kingdom",
	"usa":                "united states",
	"us":                 "united states",
	"uae":                "united arab emirates",
	"rf":                 "russia",
	"russian federation": "russia",
	"kr":                 "south korea",
	"korea":              "south korea",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize case-folds s, strips diacritics and punctuation, and collapses
// whitespace, so "Đà Nẵng" and "da nang" compare equal.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func applyAlias(s string) string {
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}

package category

import (
	"regexp"
	"strings"
	"unicode"
)

// preambles are openings the model uses when it explains itself instead
// of answering with a bare category name.
var preambles = []string{
	"okay",
	"oke",
	"sure",
	"based on",
	"berdasarkan",
	"the transaction",
	"transaksi ini",
	"this transaction",
	"the category",
	"kategori yang",
	"i would",
	"it seems",
	"sepertinya",
}

var quotedRe = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// maxCategoryLength is the cutoff past which model output is treated as
// an explanation rather than a category name.
const maxCategoryLength = 30

// CleanModelOutput trims a raw model reply down to a plausible category
// name. Explanatory replies yield their quoted category when one exists,
// otherwise the catch-all.
func CleanModelOutput(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'`“”‘’.:* \t\n")
	s = strings.TrimSpace(s)

	if s == "" {
		return CatchAll
	}

	lower := strings.ToLower(s)
	for _, p := range preambles {
		if strings.HasPrefix(lower, p) {
			if m := quotedRe.FindStringSubmatch(raw); m != nil {
				quoted := m[1]
				if quoted == "" {
					quoted = m[2]
				}
				return capitalize(strings.TrimSpace(quoted))
			}
			return CatchAll
		}
	}

	if len([]rune(s)) > maxCategoryLength {
		return CatchAll
	}

	return capitalize(s)
}

// capitalize uppercases the first letter only.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

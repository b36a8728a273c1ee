// Package normalize prepares free-text transaction descriptions for cache
// lookups and model prompts.
package normalize

import (
	"strings"
	"unicode"
)

// fillerPrefixes are transactional filler words stripped only when they
// lead the description. Both the English and Indonesian spellings show up
// in imported data.
var fillerPrefixes = []string{
	"payment ",
	"pembayaran ",
	"transfer ",
	"purchase ",
	"pembelian ",
	"beli ",
	"bayar ",
	"trx ",
}

// Description lowercases the input, strips a leading filler word, replaces
// every rune that is not a letter, digit, or whitespace with a space, and
// collapses runs of whitespace. It always returns a string, possibly empty.
func Description(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

package category

import (
	"regexp"
	"strings"
	"unicode"
)

// CatchAll is the fallback category used whenever no rule or model
// resolves a confident category name.
const CatchAll = "Lain-lain"

// canonicalNames is the fixed category taxonomy. Every resolved category
// is one of these names or a user-created name that survived cleaning.
var canonicalNames = []string{
	"Makanan",
	"Minuman",
	"Jajan",
	"Transportasi",
	"Belanja",
	"Pakaian",
	"Utilitas",
	"Hiburan",
	"Kesehatan",
	"Pendidikan",
	"Olahraga",
	"Komunikasi",
	"Rumah Tangga",
	"Perawatan",
	"Keluarga",
	"Hadiah",
	"Perjalanan",
	"Investasi",
	"Tabungan",
	"Hutang",
	"Zakat",
	"Sedekah",
	"Pendapatan",
	CatchAll,
}

// CanonicalNames returns a copy of the category taxonomy.
func CanonicalNames() []string {
	out := make([]string, len(canonicalNames))
	copy(out, canonicalNames)
	return out
}

// Canonical returns the canonical spelling for a name, matching
// case-insensitively, and whether the name is part of the taxonomy.
func Canonical(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, c := range canonicalNames {
		if strings.ToLower(c) == lower {
			return c, true
		}
	}
	return "", false
}

// mistranslations corrects raw model output that came back in English, or
// outright wrong. "Temple" is the model mangling the food "tempe".
var mistranslations = map[string]string{
	"temple":         "Hiburan",
	"food":           "Makanan",
	"meal":           "Makanan",
	"drink":          "Minuman",
	"beverage":       "Minuman",
	"snack":          "Jajan",
	"snacks":         "Jajan",
	"transport":      "Transportasi",
	"transportation": "Transportasi",
	"shopping":       "Belanja",
	"clothing":       "Pakaian",
	"utility":        "Utilitas",
	"utilities":      "Utilitas",
	"entertainment":  "Hiburan",
	"health":         "Kesehatan",
	"education":      "Pendidikan",
	"income":         "Pendapatan",
	"salary":         "Pendapatan",
	"debt":           "Hutang",
	"charity":        "Sedekah",
	"savings":        "Tabungan",
	"investment":     "Investasi",
	"travel":         "Perjalanan",
	"gift":           "Hadiah",
	"family":         "Keluarga",
	"other":          CatchAll,
	"others":         CatchAll,
	"miscellaneous":  CatchAll,
}

// Term tables. Single-word terms match on word boundaries, multi-word
// terms match as substrings. Word-boundary matching is what keeps the
// Javanese "uti" (grandmother) from ever hitting Utilitas.
var (
	foodTerms = []string{
		"nasi", "ayam", "bakso", "mie", "bakmi", "sate", "soto", "tempe",
		"tahu", "rendang", "gorengan", "warteg", "padang", "geprek",
		"seblak", "pecel", "gado-gado", "bubur", "lontong", "nasgor",
		"sarapan", "makan", "makanan", "lauk", "sambal", "warung makan",
	}

	jajanTerms = []string{
		"jajan", "jajanan", "cemilan", "camilan", "cilok", "cireng",
		"batagor", "boba", "martabak", "donat", "kue", "keripik",
		"biskuit", "permen", "coklat", "cokelat", "es krim",
	}

	repaymentTerms = []string{
		"pengembalian hutang", "pengembalian utang", "pelunasan hutang",
		"pelunasan utang", "hutang kembali", "utang kembali",
		"hutang dibayar", "utang dibayar",
	}

	debtTerms = []string{
		"hutang", "utang", "pinjam", "pinjaman", "cicilan", "kredit",
		"paylater",
	}

	utilityTerms = []string{
		"utilitas", "utility", "listrik", "pulsa", "internet", "wifi",
		"indihome", "pln", "pdam", "iuran", "tagihan", "token listrik",
		"air pam", "gas",
	}

	incomeTerms = []string{
		"gaji", "gajian", "upah", "bonus", "thr", "tunjangan",
		"jual", "penjualan", "cashback", "refund", "komisi", "honor",
		"dividen", "pendapatan", "pemasukan", "tunjangan hari raya",
	}
)

// wordTable maps common single nouns the model sometimes returns verbatim
// to their category.
var wordTable = map[string]string{
	// Pakaian
	"sepatu": "Pakaian", "baju": "Pakaian", "celana": "Pakaian",
	"kaos": "Pakaian", "kemeja": "Pakaian", "jaket": "Pakaian",
	"sandal": "Pakaian", "topi": "Pakaian", "rok": "Pakaian",
	"jilbab": "Pakaian", "kerudung": "Pakaian", "tas": "Pakaian",

	// Rumah Tangga
	"sabun": "Rumah Tangga", "deterjen": "Rumah Tangga",
	"sapu": "Rumah Tangga", "piring": "Rumah Tangga",
	"gelas": "Rumah Tangga", "panci": "Rumah Tangga",
	"galon": "Rumah Tangga", "tisu": "Rumah Tangga",
	"lampu": "Rumah Tangga", "kasur": "Rumah Tangga",

	// Transportasi
	"bensin": "Transportasi", "pertalite": "Transportasi",
	"pertamax": "Transportasi", "solar": "Transportasi",
	"parkir": "Transportasi", "tol": "Transportasi",
	"ojek": "Transportasi", "ojol": "Transportasi",
	"grab": "Transportasi", "gojek": "Transportasi",
	"busway": "Transportasi", "kereta": "Transportasi",
	"angkot": "Transportasi", "taksi": "Transportasi",
	"bus": "Transportasi",

	// Minuman
	"kopi": "Minuman", "teh": "Minuman", "jus": "Minuman",
	"susu": "Minuman", "soda": "Minuman",

	// Kesehatan
	"obat": "Kesehatan", "vitamin": "Kesehatan", "dokter": "Kesehatan",
	"apotek": "Kesehatan", "klinik": "Kesehatan", "bpjs": "Kesehatan",

	// Pendidikan
	"buku": "Pendidikan", "kursus": "Pendidikan", "les": "Pendidikan",
	"spp": "Pendidikan", "seminar": "Pendidikan", "pulpen": "Pendidikan",
	"pensil": "Pendidikan",

	// Hiburan
	"netflix": "Hiburan", "spotify": "Hiburan", "bioskop": "Hiburan",
	"game": "Hiburan", "konser": "Hiburan", "steam": "Hiburan",

	// Komunikasi
	"kuota": "Komunikasi", "telepon": "Komunikasi",

	// Perawatan
	"shampo": "Perawatan", "sampo": "Perawatan", "skincare": "Perawatan",
	"salon": "Perawatan", "pangkas": "Perawatan", "cukur": "Perawatan",
	"parfum": "Perawatan",

	// Olahraga
	"gym": "Olahraga", "futsal": "Olahraga", "badminton": "Olahraga",
	"renang": "Olahraga",

	// Keluarga
	"popok": "Keluarga", "mainan": "Keluarga",

	// Investasi
	"saham": "Investasi", "reksadana": "Investasi", "emas": "Investasi",
	"crypto": "Investasi", "bitcoin": "Investasi",

	// Perjalanan
	"hotel": "Perjalanan", "tiket": "Perjalanan", "pesawat": "Perjalanan",
	"liburan": "Perjalanan", "villa": "Perjalanan",

	// Hadiah
	"kado": "Hadiah", "parsel": "Hadiah",

	// Tabungan
	"nabung": "Tabungan", "menabung": "Tabungan",
}

// rule pairs a category result with its predicate. Rules are evaluated in
// slice order, so precedence is explicit and testable.
type rule struct {
	predicate func(string) bool
	result    string
}

var mappingRules = []rule{
	{result: "Makanan", predicate: func(s string) bool { return matchesAny(s, foodTerms) }},
	{result: "Jajan", predicate: func(s string) bool { return matchesAny(s, jajanTerms) }},
	{result: "Pendapatan", predicate: func(s string) bool { return matchesAny(s, repaymentTerms) }},
	{result: "Hutang", predicate: func(s string) bool { return matchesAny(s, debtTerms) }},
	{result: "Utilitas", predicate: func(s string) bool { return matchesAny(s, utilityTerms) }},
	{result: "Pendapatan", predicate: func(s string) bool { return matchesAny(s, incomeTerms) }},
}

// matchesAny reports whether any term occurs in the text. Terms without a
// space must match a whole word; multi-word terms match as substrings.
func matchesAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	words := tokenize(lower)

	for _, term := range terms {
		if strings.Contains(term, " ") || strings.Contains(term, "-") {
			if strings.Contains(lower, term) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == term {
				return true
			}
		}
	}
	return false
}

// tokenize splits lowercased text into letter/digit words.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var nonLetterOnlyRe = regexp.MustCompile(`^[^\p{L}]*$`)

// unclear reports whether cleaned category text is too vague to keep: the
// model hedging ("tidak", "unknown"), stray punctuation, or fragments.
func unclear(s string) bool {
	lower := strings.ToLower(s)
	if len([]rune(s)) < 3 {
		return true
	}
	if nonLetterOnlyRe.MatchString(s) {
		return true
	}
	for _, marker := range []string{"tidak", "unknown", "unclassified", "uncategorized"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// MapToCanonical turns cleaned model output into a canonical category
// name, falling back to the catch-all.
func MapToCanonical(cleaned string) string {
	if cleaned == "" || unclear(cleaned) {
		return CatchAll
	}

	if fixed, ok := mistranslations[strings.ToLower(cleaned)]; ok {
		return fixed
	}

	for _, r := range mappingRules {
		if r.predicate(cleaned) {
			return r.result
		}
	}

	if canonical, ok := Canonical(cleaned); ok {
		return canonical
	}

	lower := strings.ToLower(cleaned)
	if mapped, ok := wordTable[lower]; ok {
		return mapped
	}

	// A lone unrecognized word is almost always a product name, not a
	// category.
	words := tokenize(lower)
	if len(words) == 1 && len([]rune(lower)) < 15 {
		return CatchAll
	}

	return CatchAll
}

// MatchSpecial is the deterministic pre-model check: descriptions with
// religiously or financially significant keywords never reach the LLM.
func MatchSpecial(description string) (string, bool) {
	lower := strings.ToLower(description)

	if strings.Contains(lower, "zakat") {
		return "Zakat", true
	}
	if strings.Contains(lower, "tunjangan hari raya") {
		return "Pendapatan", true
	}
	for _, w := range tokenize(lower) {
		if w == "thr" {
			return "Pendapatan", true
		}
	}
	if matchesAny(lower, foodTerms) {
		return "Makanan", true
	}

	return "", false
}

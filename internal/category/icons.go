package category

import "strings"

// defaultIcon is used when no keyword mapping matches.
const defaultIcon = "money"

// iconKeywords maps category names and common synonyms to symbolic icon
// identifiers consumed by the frontend.
var iconKeywords = []struct {
	icon     string
	keywords []string
}{
	{icon: "utensils", keywords: []string{"makanan", "makan", "food"}},
	{icon: "coffee", keywords: []string{"minuman", "kopi", "drink"}},
	{icon: "cookie", keywords: []string{"jajan", "snack", "cemilan"}},
	{icon: "car", keywords: []string{"transportasi", "transport", "bensin"}},
	{icon: "shopping-bag", keywords: []string{"belanja", "shopping"}},
	{icon: "shirt", keywords: []string{"pakaian", "baju", "clothing"}},
	{icon: "bolt", keywords: []string{"utilitas", "listrik", "utility"}},
	{icon: "film", keywords: []string{"hiburan", "entertainment"}},
	{icon: "heart-pulse", keywords: []string{"kesehatan", "health", "obat"}},
	{icon: "book", keywords: []string{"pendidikan", "education", "buku"}},
	{icon: "dumbbell", keywords: []string{"olahraga", "gym", "sport"}},
	{icon: "phone", keywords: []string{"komunikasi", "pulsa", "kuota"}},
	{icon: "home", keywords: []string{"rumah tangga", "rumah"}},
	{icon: "sparkles", keywords: []string{"perawatan", "salon", "skincare"}},
	{icon: "users", keywords: []string{"keluarga", "family"}},
	{icon: "gift", keywords: []string{"hadiah", "kado", "gift"}},
	{icon: "plane", keywords: []string{"perjalanan", "liburan", "travel"}},
	{icon: "trending-up", keywords: []string{"investasi", "saham", "investment"}},
	{icon: "piggy-bank", keywords: []string{"tabungan", "nabung", "savings"}},
	{icon: "hand-coins", keywords: []string{"hutang", "utang", "debt"}},
	{icon: "heart", keywords: []string{"zakat", "sedekah", "donasi", "charity"}},
	{icon: "wallet", keywords: []string{"pendapatan", "gaji", "income"}},
}

// IconFor picks an icon identifier for a category name.
func IconFor(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range iconKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.icon
			}
		}
	}
	return defaultIcon
}

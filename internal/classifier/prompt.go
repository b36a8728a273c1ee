package classifier

import (
	"fmt"
	"strings"

	"github.com/arkanhakim/catatduit/internal/category"
)

// classifySystemPrompt instructs the model to answer with a bare category
// name. Existing user categories are appended so the model prefers reuse
// over inventing near-duplicates.
func classifySystemPrompt(existingNames []string) string {
	var b strings.Builder

	b.WriteString(`You are a financial transaction categorizer for an Indonesian personal finance app.
Given a transaction description, respond with EXACTLY ONE category name in Indonesian and nothing else.
No explanation, no punctuation, no quotes. Just the category name.

Choose from these categories:
`)
	for _, name := range category.CanonicalNames() {
		fmt.Fprintf(&b, "- %s\n", name)
	}

	b.WriteString(`
Rules:
- Meals and main dishes (nasi, ayam, mie, bakso, sate, warteg, padang) -> Makanan
- Snacks and light bites (gorengan, martabak, cilok, boba, es krim) -> Jajan
- Coffee, tea, juice, mineral water -> Minuman
- Fuel, parking, toll, ojek, bus, train, Gojek, Grab rides -> Transportasi
- Electricity token, water bill, phone credit (pulsa), internet data -> Utilitas
- Salary, bonus, THR, cashback, refunds, repaid debts -> Pendapatan
- Money lent out or borrowed -> Hutang
- Zakat, infaq, sedekah, donations -> Zakat or Sedekah
- Movies, games, streaming subscriptions, concerts -> Hiburan
- If nothing fits, answer: ` + category.CatchAll + "\n")

	extras := extraNames(existingNames)
	if len(extras) > 0 {
		b.WriteString("\nThe user also has these custom categories; reuse one when it fits better:\n")
		for _, name := range extras {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return b.String()
}

// extraNames filters out names already in the canonical list.
func extraNames(names []string) []string {
	canonical := make(map[string]struct{})
	for _, name := range category.CanonicalNames() {
		canonical[strings.ToLower(name)] = struct{}{}
	}

	var extras []string
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := canonical[strings.ToLower(name)]; ok {
			continue
		}
		extras = append(extras, name)
	}
	return extras
}

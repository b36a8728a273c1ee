package chat

import (
	"fmt"
	"strings"
	"time"
)

// parserSystemPrompt instructs the model to emit a strict JSON array of
// transaction candidates. The currency field must be omitted when the user
// did not state one; its absence is what triggers the confirmation flow.
func parserSystemPrompt(now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You extract financial transactions from Indonesian chat messages.
Today is %s (year %d, month %d).

Respond with ONLY a JSON array, no prose, no Markdown. Each element:
{"description": string, "amount": number, "currency": string, "date": "YYYY-MM-DD", "type": "income"|"outcome"}

Rules:
- "description": the activity without the amount, currency, or date words. Never empty.
- "amount": plain number only. Strip currency symbols and thousands separators ("Rp 8.000" -> 8000). Expand shorthand ("50 ribu" -> 50000, "1,5 juta" -> 1500000). OMIT the field if no amount is stated.
- "currency": exactly as the user wrote it ("Rp", "rupiah", "USD"). OMIT the field entirely when the message does not state a currency. Never guess or default.
- "date": no date mentioned -> today. Day only ("tanggal 5") -> current year and month. Day plus month name ("5 maret") -> current year. Full date -> as given.
  Indonesian months: januari, februari, maret, april, mei, juni, juli, agustus, september, oktober, november, desember.
- "type": "income" for money received (gaji, bonus, jualan), otherwise "outcome". Omit when unsure.
- The message may describe several transactions; return one element per transaction.
- If the message describes no transaction at all, return [].
`,
		now.Format("2006-01-02"), now.Year(), int(now.Month()))

	return b.String()
}

// chatSystemPrompt frames the conversational fallback when a message holds
// no transactions.
func chatSystemPrompt(chatContext string) string {
	base := `You are CatatDuit, a friendly Indonesian personal-finance assistant.
Answer briefly in Indonesian. You help users record transactions by chat
("Makan siang 25 ribu"), review their spending, and understand categories.
If the user seems to be describing a purchase, ask for the missing details.`

	if chatContext != "" {
		base += "\nThe user is currently on the " + chatContext + " page."
	}
	return base
}

// conversationStarters are the suggested first messages per app context.
var conversationStarters = map[string][]string{
	"transactions": {
		"Makan siang 25 ribu",
		"Catat pengeluaran bensin 50 ribu kemarin",
		"Gajian 5 juta hari ini",
		"Berapa total pengeluaran saya bulan ini?",
	},
	"dashboard": {
		"Ringkas pengeluaran saya minggu ini",
		"Kategori apa yang paling boros?",
		"Catat jajan boba 15 ribu",
	},
}

var defaultStarters = []string{
	"Catat pengeluaran makan siang 25 ribu",
	"Bagaimana cara mencatat transaksi lewat chat?",
	"Apa saja kategori yang tersedia?",
}

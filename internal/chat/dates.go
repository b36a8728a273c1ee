// Package chat turns free-text Indonesian messages into transactions: an
// LLM extracts candidates, validation fills the gaps, and a confirmation
// flow asks for whatever is still missing.
package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// indonesianMonths maps month names and their common abbreviations.
var indonesianMonths = map[string]time.Month{
	"januari": time.January, "jan": time.January,
	"februari": time.February, "feb": time.February,
	"maret": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mei":  time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"agustus": time.August, "agu": time.August, "agt": time.August,
	"september": time.September, "sep": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"desember": time.December, "des": time.December,
}

var dayMonthYearRe = regexp.MustCompile(`^(\d{1,2})(?:\s+(\p{L}+))?(?:\s+(\d{4}))?$`)

// ResolveDate parses a date string from the model or the user. Supported
// forms, in order: ISO (2006-01-02), numeric D-M-Y, and "D [bulan] [tahun]"
// with Indonesian month names. A missing month or year is filled from now;
// anything unparseable resolves to today.
func ResolveDate(raw string, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	raw = strings.ToLower(strings.TrimSpace(raw))
	raw = strings.TrimPrefix(raw, "tanggal ")
	if raw == "" || raw == "hari ini" {
		return today
	}
	if raw == "kemarin" {
		return today.AddDate(0, 0, -1)
	}
	if raw == "besok" {
		return today.AddDate(0, 0, 1)
	}

	for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006", "2/1/2006"} {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t
		}
	}

	m := dayMonthYearRe.FindStringSubmatch(raw)
	if m == nil {
		return today
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return today
	}

	month := now.Month()
	if m[2] != "" {
		mon, ok := indonesianMonths[m[2]]
		if !ok {
			return today
		}
		month = mon
	}

	year := now.Year()
	if m[3] != "" {
		year, err = strconv.Atoi(m[3])
		if err != nil {
			return today
		}
	}

	resolved := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	// Reject overflow like "31 februari" rolling into March.
	if resolved.Day() != day {
		return today
	}
	return resolved
}

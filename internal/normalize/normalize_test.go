package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases input",
			input: "Makan Siang",
			want:  "makan siang",
		},
		{
			name:  "strips leading filler word",
			input: "Payment Netflix subscription",
			want:  "netflix subscription",
		},
		{
			name:  "strips indonesian filler word",
			input: "bayar listrik bulan ini",
			want:  "listrik bulan ini",
		},
		{
			name:  "filler word mid-sentence is kept",
			input: "nasi goreng payment",
			want:  "nasi goreng payment",
		},
		{
			name:  "punctuation becomes space",
			input: "kopi@kenangan, 2x!!",
			want:  "kopi kenangan 2x",
		},
		{
			name:  "collapses repeated whitespace",
			input: "es   teh \t manis",
			want:  "es teh manis",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!!!???",
			want:  "",
		},
		{
			name:  "unicode letters survive",
			input: "Soto Pak Déwa",
			want:  "soto pak déwa",
		},
		{
			name:  "only one filler prefix is stripped",
			input: "bayar pembayaran listrik",
			want:  "pembayaran listrik",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Description(tt.input))
		})
	}
}

package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"json number", `8000`, "8000", true},
		{"json decimal", `8000.5`, "8000.5", true},
		{"string number", `"8000"`, "8000", true},
		{"thousands dots", `"8.000"`, "8000", true},
		{"thousands commas", `"1,250,000"`, "1250000", true},
		{"rupiah prefix", `"Rp 8.000"`, "8000", true},
		{"ribu shorthand", `"50 ribu"`, "50000", true},
		{"rb shorthand", `"8rb"`, "8000", true},
		{"k shorthand", `"10k"`, "10000", true},
		{"juta with decimal comma", `"1,5 juta"`, "1500000", true},
		{"jt shorthand", `"2jt"`, "2000000", true},
		{"zero rejected", `0`, "", false},
		{"negative rejected", `-5`, "", false},
		{"absent", ``, "", false},
		{"null", `null`, "", false},
		{"words only", `"banyak"`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(json.RawMessage(tt.raw))
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

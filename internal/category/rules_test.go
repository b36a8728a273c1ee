package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapToCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"food term maps to Makanan", "Nasi Goreng", "Makanan"},
		{"tempe is food", "Tempe goreng", "Makanan"},
		{"jajan term maps to Jajan", "Martabak manis", "Jajan"},
		{"boba is jajan", "Boba", "Jajan"},
		{"debt term maps to Hutang", "Pinjaman teman", "Hutang"},
		{"plain hutang", "Hutang", "Hutang"},
		{"debt repayment is income", "Pengembalian hutang", "Pendapatan"},
		{"utility term maps to Utilitas", "Token listrik", "Utilitas"},
		{"pulsa is utility", "Pulsa", "Utilitas"},
		{"income term maps to Pendapatan", "Gaji bulanan", "Pendapatan"},
		{"cashback is income", "Cashback", "Pendapatan"},
		{"canonical name passes through", "Minuman", "Minuman"},
		{"canonical name case-insensitive", "kesehatan", "Kesehatan"},
		{"word table lookup", "Sepatu", "Pakaian"},
		{"word table lookup transport", "Bensin", "Transportasi"},
		{"mistranslated Temple", "Temple", "Hiburan"},
		{"english category translated", "Entertainment", "Hiburan"},
		{"unknown single short word", "Xyzzy", CatchAll},
		{"unknown multi-word", "Peralatan Dapur Modern", CatchAll},
		{"unclear tidak", "Tidak jelas", CatchAll},
		{"unclear unknown", "Unknown", CatchAll},
		{"too short", "ab", CatchAll},
		{"punctuation only", "???", CatchAll},
		{"empty", "", CatchAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapToCanonical(tt.input))
		})
	}
}

func TestFoodBeatsJajan(t *testing.T) {
	// "gorengan" is in the food table, so food precedence wins even though
	// it reads like a snack.
	assert.Equal(t, "Makanan", MapToCanonical("Gorengan"))
}

func TestUtiNeverMapsToUtilitas(t *testing.T) {
	// "uti" is Javanese for grandmother, not a utility.
	for _, input := range []string{"Uti", "uti", "UTI", "kado untuk uti", "Uang buat uti"} {
		got := MapToCanonical(input)
		assert.NotEqual(t, "Utilitas", got, "input %q must not resolve to Utilitas", input)
	}

	// The real utility words still work.
	assert.Equal(t, "Utilitas", MapToCanonical("Utilitas"))
	assert.Equal(t, "Utilitas", MapToCanonical("Bayar listrik"))
}

func TestMatchSpecial(t *testing.T) {
	t.Run("zakat substring any casing", func(t *testing.T) {
		for _, input := range []string{"zakat fitrah", "Bayar ZAKAT mal", "Zakat"} {
			name, ok := MatchSpecial(input)
			assert.True(t, ok, "input %q", input)
			assert.Equal(t, "Zakat", name)
		}
	})

	t.Run("thr keyword is income", func(t *testing.T) {
		name, ok := MatchSpecial("THR lebaran")
		assert.True(t, ok)
		assert.Equal(t, "Pendapatan", name)

		name, ok = MatchSpecial("tunjangan hari raya dari kantor")
		assert.True(t, ok)
		assert.Equal(t, "Pendapatan", name)
	})

	t.Run("thr must be a whole word", func(t *testing.T) {
		_, ok := MatchSpecial("threadmill bekas")
		assert.False(t, ok)
	})

	t.Run("food short circuits", func(t *testing.T) {
		name, ok := MatchSpecial("makan siang di warteg")
		assert.True(t, ok)
		assert.Equal(t, "Makanan", name)
	})

	t.Run("ordinary description does not match", func(t *testing.T) {
		_, ok := MatchSpecial("beli sepatu baru")
		assert.False(t, ok)
	})
}

func TestCanonical(t *testing.T) {
	name, ok := Canonical("makanan")
	assert.True(t, ok)
	assert.Equal(t, "Makanan", name)

	_, ok = Canonical("Mystery")
	assert.False(t, ok)

	assert.Len(t, CanonicalNames(), 24)
}

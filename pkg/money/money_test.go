package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{"plain", "200000", "200000", true},
		{"decimal", "199.5", "199.5", true},
		{"with symbol", "150000₫", "150000", true},
		{"negative", "-5", "-5", true},
		{"empty", "", "", false},
		{"letters only", "abc", "", false},
		{"grouped is ambiguous", "1.000.000", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			assert.Equal(t, tt.valid, got.Valid())
			if tt.valid {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Number Amount  `json:"number"`
		Str    Amount  `json:"str"`
		Null   Amount  `json:"null"`
		Bad    Amount  `json:"bad"`
		Absent *Amount `json:"absent"`
	}
	err := json.Unmarshal([]byte(`{"number": 100000, "str": "250000.5", "null": null, "bad": "n/a"}`), &payload)
	require.NoError(t, err)

	assert.True(t, payload.Number.Equal(New(100000)))
	assert.Equal(t, "250000.5", payload.Str.String())
	assert.False(t, payload.Null.Valid())
	assert.False(t, payload.Bad.Valid())
	assert.Nil(t, payload.Absent)
}

func TestAmount_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Amount{"a": New(5), "b": Invalid()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 5, "b": null}`, string(out))
}

func TestAmount_Discount(t *testing.T) {
	price := New(200000)

	assert.True(t, price.Discount(decimal.NewFromInt(50)).Equal(New(100000)))
	assert.True(t, price.Discount(decimal.Zero).Equal(price))
	assert.True(t, price.Discount(decimal.NewFromInt(15)).Equal(New(170000)))
	assert.False(t, Invalid().Discount(decimal.NewFromInt(10)).Valid())
}

func TestAmount_InvalidPropagates(t *testing.T) {
	assert.False(t, New(1).Add(Invalid()).Valid())
	assert.False(t, Invalid().Sub(New(1)).Valid())
	assert.False(t, Invalid().Mul(3).Valid())
	assert.Equal(t, 0, Invalid().Cmp(Zero))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "100.000₫", Format(New(100000)))
	assert.Equal(t, "1.000.000₫", Format(New(1000000)))
	assert.Equal(t, "900.000₫", Format(New(900000)))
	assert.Equal(t, "0₫", Format(Zero))
	assert.Equal(t, "0₫", Format(Invalid()))
	assert.Equal(t, "1.500₫", Format(FromDecimal(decimal.NewFromFloat(1499.6))))
	assert.Equal(t, "0₫", Format(Parse("NaN")))
	assert.Equal(t, "0₫", Format(Parse("-Infinity")))
}

// Package money holds storefront currency amounts.
//
// Amounts arrive from the server as JSON numbers, numeric strings or null, so
// decoding is lenient: anything that cannot be read as a number becomes an
// invalid amount instead of an error. Invalid amounts propagate through
// arithmetic and render as zero.
package money

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal currency value that may be invalid.
type Amount struct {
	value decimal.Decimal
	valid bool
}

var hundred = decimal.NewFromInt(100)

// Zero is the valid zero amount.
var Zero = Amount{value: decimal.Zero, valid: true}

// New returns a valid amount of whole currency units.
func New(units int64) Amount {
	return Amount{value: decimal.NewFromInt(units), valid: true}
}

// FromDecimal wraps d as a valid amount.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{value: d, valid: true}
}

// Invalid returns an amount that formats as zero.
func Invalid() Amount {
	return Amount{}
}

// Parse reads s leniently: every character other than digits, '.' and '-' is
// dropped before parsing. An empty or unparsable remainder is invalid.
func Parse(s string) Amount {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return Invalid()
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Invalid()
	}
	return FromDecimal(d)
}

func (a Amount) Valid() bool { return a.valid }

// Decimal returns the underlying value, or zero when invalid.
func (a Amount) Decimal() decimal.Decimal {
	if !a.valid {
		return decimal.Zero
	}
	return a.value
}

func (a Amount) Add(b Amount) Amount {
	if !a.valid || !b.valid {
		return Invalid()
	}
	return FromDecimal(a.value.Add(b.value))
}

func (a Amount) Sub(b Amount) Amount {
	if !a.valid || !b.valid {
		return Invalid()
	}
	return FromDecimal(a.value.Sub(b.value))
}

// Mul multiplies by a quantity.
func (a Amount) Mul(qty int) Amount {
	if !a.valid {
		return a
	}
	return FromDecimal(a.value.Mul(decimal.NewFromInt(int64(qty))))
}

// Discount applies a percentage discount: a - a*percent/100.
func (a Amount) Discount(percent decimal.Decimal) Amount {
	if !a.valid {
		return a
	}
	if percent.IsZero() {
		return a
	}
	return FromDecimal(a.value.Sub(a.value.Mul(percent).Div(hundred)))
}

// Abs drops the sign.
func (a Amount) Abs() Amount {
	if !a.valid {
		return a
	}
	return FromDecimal(a.value.Abs())
}

// Cmp compares two amounts, treating invalid as zero.
func (a Amount) Cmp(b Amount) int {
	return a.Decimal().Cmp(b.Decimal())
}

// Equal reports whether both amounts are valid and numerically equal.
func (a Amount) Equal(b Amount) bool {
	return a.valid && b.valid && a.value.Equal(b.value)
}

func (a Amount) IsPositive() bool {
	return a.valid && a.value.IsPositive()
}

func (a Amount) String() string {
	if !a.valid {
		return "invalid"
	}
	return a.value.String()
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Invalid()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Invalid()
			return nil
		}
		*a = Parse(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		*a = Invalid()
		return nil
	}
	*a = FromDecimal(d)
	return nil
}

// MarshalJSON writes a bare JSON number, or null when invalid.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return []byte("null"), nil
	}
	return []byte(a.value.String()), nil
}

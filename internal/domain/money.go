package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in the currency's minor unit (cents for USD).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// minorUnitExponents lists ISO 4217 currencies whose minor unit is not 2.
var minorUnitExponents = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"CLP": 0,
	"ISK": 0,
	"BHD": 3,
	"JOD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
}

func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

// MinorUnitExponent returns the number of decimal places of the currency's minor unit.
func MinorUnitExponent(currency string) int32 {
	if exp, ok := minorUnitExponents[strings.ToUpper(currency)]; ok {
		return exp
	}
	return 2
}

// MoneyFromDecimal converts a major-unit decimal into Money, rounding half
// away from zero to the currency's minor unit.
func MoneyFromDecimal(d decimal.Decimal, currency string) Money {
	exp := MinorUnitExponent(currency)
	minor := d.Shift(exp).Round(0)
	return NewMoney(minor.IntPart(), currency)
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -MinorUnitExponent(m.Currency))
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) IsNegative() bool {
	return m.Amount < 0
}

func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

func (m Money) String() string {
	return m.Decimal().StringFixed(MinorUnitExponent(m.Currency)) + " " + m.Currency
}

func equalMoneyPtr(a, b *Money) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

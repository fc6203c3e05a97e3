package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

const DefaultCurrency = CurrencyARS

var currencySymbols = map[Currency]string{
	CurrencyARS: "$",
	CurrencyUSD: "US$",
	CurrencyEUR: "€",
}

// Money is an immutable currency amount. The zero value is not usable;
// construct through NewMoney or ZeroMoney.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(value float64, currency Currency) (Money, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Money{}, NewError(KindInvalidMoney, "MONEY_NOT_FINITE", "money amount must be a finite number").
			With("value", value)
	}
	if value <= 0 {
		return Money{}, NewError(KindInvalidMoney, "MONEY_NOT_POSITIVE", "money amount must be greater than zero").
			With("value", value)
	}
	if _, ok := currencySymbols[currency]; !ok {
		return Money{}, NewError(KindInvalidMoney, "MONEY_UNSUPPORTED_CURRENCY", fmt.Sprintf("unsupported currency %q", currency)).
			With("currency", string(currency))
	}
	return Money{amount: decimal.NewFromFloat(value), currency: currency}, nil
}

// ZeroMoney is the only constructor that admits a zero amount.
func ZeroMoney(currency Currency) (Money, error) {
	if _, ok := currencySymbols[currency]; !ok {
		return Money{}, NewError(KindInvalidMoney, "MONEY_UNSUPPORTED_CURRENCY", fmt.Sprintf("unsupported currency %q", currency)).
			With("currency", string(currency))
	}
	return Money{amount: decimal.Zero, currency: currency}, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Float64() float64        { f, _ := m.amount.Float64(); return f }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

func (m Money) checkCurrency(other Money) error {
	if m.currency != other.currency {
		return NewError(KindInvalidMoney, "MONEY_CURRENCY_MISMATCH", "cannot operate on different currencies").
			With("left", string(m.currency)).
			With("right", string(other.currency))
	}
	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, NewError(KindInvalidMoney, "MONEY_NEGATIVE_RESULT", "subtraction would yield a negative amount").
			With("left", m.amount.String()).
			With("right", other.amount.String())
	}
	return Money{amount: result, currency: m.currency}, nil
}

func (m Money) Multiply(factor float64) (Money, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return Money{}, NewError(KindInvalidMoney, "MONEY_INVALID_FACTOR", "multiplication factor must be a non-negative finite number").
			With("factor", factor)
	}
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(factor)), currency: m.currency}, nil
}

func (m Money) Divide(divisor float64) (Money, error) {
	if math.IsNaN(divisor) || math.IsInf(divisor, 0) || divisor <= 0 {
		return Money{}, NewError(KindInvalidMoney, "MONEY_INVALID_DIVISOR", "division divisor must be a positive finite number").
			With("divisor", divisor)
	}
	return Money{amount: m.amount.Div(decimal.NewFromFloat(divisor)), currency: m.currency}, nil
}

// ApplyDiscountPercent returns the amount after deducting percent (0..100).
func (m Money) ApplyDiscountPercent(percent float64) (Money, error) {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return Money{}, NewError(KindInvalidMoney, "MONEY_INVALID_PERCENT", "discount percent must be between 0 and 100").
			With("percent", percent)
	}
	factor := decimal.NewFromFloat(1 - percent/100)
	return Money{amount: m.amount.Mul(factor), currency: m.currency}, nil
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.checkCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	if err := m.checkCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) Format() string {
	symbol, ok := currencySymbols[m.currency]
	if !ok {
		symbol = string(m.currency)
	}
	return symbol + " " + m.amount.StringFixed(2)
}

package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, value float64, currency Currency) Money {
	t.Helper()
	m, err := NewMoney(value, currency)
	require.NoError(t, err)
	return m
}

func TestNewMoney_Valid(t *testing.T) {
	m, err := NewMoney(1500.50, CurrencyARS)

	require.NoError(t, err)
	assert.Equal(t, 1500.50, m.Float64())
	assert.Equal(t, CurrencyARS, m.Currency())
	assert.False(t, m.IsZero())
}

func TestNewMoney_RejectsZeroAndNegative(t *testing.T) {
	for _, value := range []float64{0, -1, -1500.50} {
		_, err := NewMoney(value, CurrencyARS)
		assert.True(t, IsInvalidMoney(err), "value %v should be rejected", value)
	}
}

func TestNewMoney_RejectsNonFinite(t *testing.T) {
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewMoney(value, CurrencyARS)
		assert.True(t, IsInvalidMoney(err))
	}
}

func TestNewMoney_RejectsUnknownCurrency(t *testing.T) {
	_, err := NewMoney(100, Currency("GBP"))

	require.True(t, IsInvalidMoney(err))
	de, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "MONEY_UNSUPPORTED_CURRENCY", de.Code)
}

func TestZeroMoney(t *testing.T) {
	m, err := ZeroMoney(CurrencyUSD)

	require.NoError(t, err)
	assert.True(t, m.IsZero())
	assert.Equal(t, CurrencyUSD, m.Currency())
}

func TestMoney_Add(t *testing.T) {
	a := mustMoney(t, 1000, CurrencyARS)
	b := mustMoney(t, 500.50, CurrencyARS)

	sum, err := a.Add(b)

	require.NoError(t, err)
	assert.Equal(t, 1500.50, sum.Float64())
	// Operands are untouched.
	assert.Equal(t, 1000.0, a.Float64())
	assert.Equal(t, 500.50, b.Float64())
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := mustMoney(t, 100, CurrencyARS)
	b := mustMoney(t, 100, CurrencyUSD)

	_, err := a.Add(b)

	require.True(t, IsInvalidMoney(err))
	de, _ := AsError(err)
	assert.Equal(t, "MONEY_CURRENCY_MISMATCH", de.Code)
}

func TestMoney_Subtract(t *testing.T) {
	a := mustMoney(t, 1000, CurrencyARS)
	b := mustMoney(t, 400, CurrencyARS)

	diff, err := a.Subtract(b)

	require.NoError(t, err)
	assert.Equal(t, 600.0, diff.Float64())
}

func TestMoney_Subtract_NegativeResult(t *testing.T) {
	a := mustMoney(t, 100, CurrencyARS)
	b := mustMoney(t, 200, CurrencyARS)

	_, err := a.Subtract(b)

	require.True(t, IsInvalidMoney(err))
	de, _ := AsError(err)
	assert.Equal(t, "MONEY_NEGATIVE_RESULT", de.Code)
}

func TestMoney_Multiply(t *testing.T) {
	m := mustMoney(t, 650, CurrencyARS)

	result, err := m.Multiply(3)

	require.NoError(t, err)
	assert.Equal(t, 1950.0, result.Float64())
}

func TestMoney_Multiply_NoFloatDrift(t *testing.T) {
	m := mustMoney(t, 0.1, CurrencyARS)

	result, err := m.Multiply(3)

	require.NoError(t, err)
	assert.Equal(t, "$ 0.30", result.Format())
}

func TestMoney_Multiply_RejectsNegativeFactor(t *testing.T) {
	m := mustMoney(t, 100, CurrencyARS)

	_, err := m.Multiply(-1)

	assert.True(t, IsInvalidMoney(err))
}

func TestMoney_Divide(t *testing.T) {
	m := mustMoney(t, 100, CurrencyARS)

	result, err := m.Divide(4)

	require.NoError(t, err)
	assert.Equal(t, 25.0, result.Float64())
}

func TestMoney_Divide_RejectsZeroDivisor(t *testing.T) {
	m := mustMoney(t, 100, CurrencyARS)

	_, err := m.Divide(0)

	assert.True(t, IsInvalidMoney(err))
}

func TestMoney_ApplyDiscountPercent(t *testing.T) {
	m := mustMoney(t, 200, CurrencyARS)

	result, err := m.ApplyDiscountPercent(25)

	require.NoError(t, err)
	assert.Equal(t, 150.0, result.Float64())
}

func TestMoney_ApplyDiscountPercent_Bounds(t *testing.T) {
	m := mustMoney(t, 200, CurrencyARS)

	_, err := m.ApplyDiscountPercent(-1)
	assert.True(t, IsInvalidMoney(err))

	_, err = m.ApplyDiscountPercent(101)
	assert.True(t, IsInvalidMoney(err))

	full, err := m.ApplyDiscountPercent(100)
	require.NoError(t, err)
	assert.True(t, full.IsZero())
}

func TestMoney_Comparisons(t *testing.T) {
	a := mustMoney(t, 100, CurrencyARS)
	b := mustMoney(t, 200, CurrencyARS)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	assert.True(t, a.Equals(mustMoney(t, 100, CurrencyARS)))
	assert.False(t, a.Equals(mustMoney(t, 100.01, CurrencyARS)))
}

func TestMoney_Comparisons_CurrencyMismatch(t *testing.T) {
	a := mustMoney(t, 100, CurrencyARS)
	b := mustMoney(t, 100, CurrencyEUR)

	_, err := a.GreaterThan(b)
	assert.True(t, IsInvalidMoney(err))

	_, err = a.LessThan(b)
	assert.True(t, IsInvalidMoney(err))

	assert.False(t, a.Equals(b))
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "$ 1500.50", mustMoney(t, 1500.5, CurrencyARS).Format())
	assert.Equal(t, "US$ 99.90", mustMoney(t, 99.9, CurrencyUSD).Format())
	assert.Equal(t, "€ 10.00", mustMoney(t, 10, CurrencyEUR).Format())
}

package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"1.015", "1.02"},
		{"316.901408", "316.90"},
		{"0", "0"},
	}
	for _, tc := range cases {
		got := Round2(decimal.RequireFromString(tc.in))
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%s -> %s, want %s", tc.in, got, tc.want)
	}
}

func TestApplyPercent(t *testing.T) {
	got := ApplyPercent(decimal.RequireFromString("2500"), decimal.RequireFromString("25"))
	assert.True(t, decimal.RequireFromString("3125").Equal(got), "got %s", got)

	got = ApplyPercent(decimal.RequireFromString("100"), decimal.Zero)
	assert.True(t, decimal.RequireFromString("100").Equal(got))
}

func TestNewRounds(t *testing.T) {
	a := New(decimal.RequireFromString("99.999"), "EUR")
	assert.True(t, decimal.RequireFromString("100").Equal(a.Value))
	assert.Equal(t, "EUR", a.Currency)
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency("EUR"))
	assert.NoError(t, ValidateCurrency("TRY"))
	assert.Error(t, ValidateCurrency("EURO"))
	assert.Error(t, ValidateCurrency(""))
}

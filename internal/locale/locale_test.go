package locale

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belegwerk/internal/domain"
)

func TestParseAmount_German(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"234,56", "234.56"},
		{"0,99", "0.99"},
		{"-1.234,56", "-1234.56"},
		{"12.345.678,90", "12345678.90"},
		{"1.234", "1234"},
		{"500", "500"},
		{"119,00-", "-119.00"},
		{"1.234,56 €", "1234.56"},
		{"EUR 99,95", "99.95"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestParseAmount_Plain(t *testing.T) {
	got, err := ParseAmount("1234.56")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1234.56).Equal(got))

	got, err = ParseAmount("1,234.56")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1234.56).Equal(got))
}

func TestParseAmount_Malformed(t *testing.T) {
	for _, in := range []string{"", "abc", "12,34,56", "1.2.3", "--5", "1..234"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnparseableValue)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.234,56", FormatAmount(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "-119,00", FormatAmount(decimal.NewFromFloat(-119)))
	assert.Equal(t, "0,50", FormatAmount(decimal.NewFromFloat(0.5)))
	assert.Equal(t, "12.345.678,90", FormatAmount(decimal.NewFromFloat(12345678.9)))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"24.11.2025", time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)},
		{"1.2.2025", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-11-24", time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)},
		{"24. November 2025", time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)},
		{"3. März 2025", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, in := range []string{"", "99.99.2025", "yesterday", "2025/11/24"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDate(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnparseableValue)
		})
	}
}

func TestSplitGross(t *testing.T) {
	net, vat := SplitGross(decimal.NewFromFloat(-119), decimal.NewFromInt(19))
	assert.True(t, decimal.NewFromFloat(-100).Equal(net), "net: %s", net)
	assert.True(t, decimal.NewFromFloat(-19).Equal(vat), "vat: %s", vat)

	net, vat = SplitGross(decimal.NewFromFloat(107), decimal.NewFromInt(7))
	assert.True(t, decimal.NewFromFloat(100).Equal(net))
	assert.True(t, decimal.NewFromFloat(7).Equal(vat))

	// Gross always equals net + vat exactly, even when rounding.
	net, vat = SplitGross(decimal.NewFromFloat(100), decimal.NewFromInt(19))
	assert.True(t, decimal.NewFromFloat(100).Equal(net.Add(vat)))

	net, vat = SplitGross(decimal.NewFromFloat(250), decimal.Zero)
	assert.True(t, decimal.NewFromFloat(250).Equal(net))
	assert.True(t, vat.IsZero())
}

func TestVATRateFromHint(t *testing.T) {
	assert.True(t, decimal.NewFromInt(19).Equal(VATRateFromHint("19% Umsatzsteuer")))
	assert.True(t, decimal.NewFromInt(7).Equal(VATRateFromHint("enthält 7 % USt")))
	assert.True(t, VATRateFromHint("Reverse Charge").IsZero())
	assert.True(t, VATRateFromHint("").IsZero())
}

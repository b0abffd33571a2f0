package locale

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var vatRatePattern = regexp.MustCompile(`(\d{1,2})\s*%`)

// SplitGross decomposes a gross amount into net and VAT for a given rate:
// net = round(gross / (1 + rate/100), 2), vat = gross - net.
// The decomposition is exact for signed amounts: outflows keep their sign.
func SplitGross(gross decimal.Decimal, rate decimal.Decimal) (net, vat decimal.Decimal) {
	if rate.IsZero() {
		return gross, decimal.Zero
	}
	divisor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100)))
	net = gross.DivRound(divisor, 2)
	vat = gross.Sub(net)
	return net, vat
}

// VATRateFromHint extracts a VAT rate from a free-text classification token
// ("19% Umsatzsteuer", "7%", "Reverse Charge"). Tokens without a percentage,
// including reverse-charge ones, yield a zero rate.
func VATRateFromHint(hint string) decimal.Decimal {
	m := vatRatePattern.FindStringSubmatch(hint)
	if m == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero
	}
	return d
}

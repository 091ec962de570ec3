package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"order-compat/internal/compat/audit"
)

const USD = "USD"

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// DefaultRates maps currency codes to the USD value of one unit.
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.0"),
		"EUR": decimal.RequireFromString("1.10"),
		"JPY": decimal.RequireFromString("0.0067"),
		"GBP": decimal.RequireFromString("1.27"),
		"CAD": decimal.RequireFromString("0.73"),
	}
}

// Converter holds a rate table that is fixed for its whole lifetime and is
// safe for concurrent use.
type Converter struct {
	rates map[string]decimal.Decimal
}

// NewConverter copies rates; a nil map means DefaultRates.
func NewConverter(rates map[string]decimal.Decimal) *Converter {
	if rates == nil {
		rates = DefaultRates()
	}
	own := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		own[normalizeCode(code)] = rate
	}
	return &Converter{rates: own}
}

func (c *Converter) Rate(code string) (decimal.Decimal, error) {
	rate, ok := c.rates[normalizeCode(code)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return rate, nil
}

// Convert returns amount in USD rounded to cents. Unknown codes are
// converted 1:1 and reported with ErrUnsupportedCurrency next to the value.
func (c *Converter) Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, err := c.Rate(code)
	if err != nil {
		return amount.Round(2), err
	}
	return amount.Mul(rate).Round(2), nil
}

// ToUSD is Convert that reports unknown codes as a trail warning.
func (c *Converter) ToUSD(amount decimal.Decimal, code string, trail *audit.Trail) decimal.Decimal {
	usd, err := c.Convert(amount, code)
	if err != nil {
		trail.WarnOnce(fmt.Sprintf("unknown currency %q: converted 1:1 to USD", code))
	}
	return usd
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

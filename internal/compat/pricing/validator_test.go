package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-compat/internal/compat/audit"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name       string
		items      []LineItem
		declared   string
		total      string
		consistent bool
	}{
		{
			name:       "exact match",
			items:      []LineItem{{Name: "a", Price: d("10.00"), Quantity: 2}},
			declared:   "20.00",
			total:      "20.00",
			consistent: true,
		},
		{
			name:       "within one cent",
			items:      []LineItem{{Name: "a", Price: d("33.33"), Quantity: 3}},
			declared:   "100.00",
			total:      "100.00",
			consistent: true,
		},
		{
			name: "mismatch uses line items",
			items: []LineItem{
				{Name: "x", Price: d("7.25"), Quantity: 2},
				{Name: "y", Price: d("5.50"), Quantity: 1},
			},
			declared:   "50.00",
			total:      "20.00",
			consistent: false,
		},
		{
			name:       "declared under line items",
			items:      []LineItem{{Name: "a", Price: d("125.00"), Quantity: 1}},
			declared:   "100.00",
			total:      "125.00",
			consistent: false,
		},
		{
			name:       "no items flags nonzero declared",
			declared:   "199.99",
			total:      "0.00",
			consistent: false,
		},
		{
			name:       "no items and zero declared",
			declared:   "0",
			total:      "0.00",
			consistent: true,
		},
	}
	validator := NewValidator(DefaultTolerance)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := validator.Validate(test.items, d(test.declared))
			assert.Equal(t, test.total, res.Total.StringFixed(2))
			assert.Equal(t, test.consistent, res.Consistent)
		})
	}
}

func TestResult_Record(t *testing.T) {
	validator := NewValidator(DefaultTolerance)

	trail := audit.New()
	validator.Validate([]LineItem{{Price: d("10"), Quantity: 1}}, d("10")).Record(trail)
	assert.Empty(t, trail.Warnings)
	decision, ok := trail.Find(audit.KeyPriceConsistency)
	require.True(t, ok)
	assert.Equal(t, "consistent, using declared", decision.Value)

	trail = audit.New()
	validator.Validate([]LineItem{{Price: d("125"), Quantity: 1}}, d("100")).Record(trail)
	require.Len(t, trail.Warnings, 1)
	assert.Contains(t, trail.Warnings[0], "declared 100.00 USD")
	assert.Contains(t, trail.Warnings[0], "calculated 125.00 USD")
	assert.Contains(t, trail.Warnings[0], "discrepancy 25.00 USD")
	decision, ok = trail.Find(audit.KeyPriceCorrection)
	require.True(t, ok)
	assert.Equal(t, "calculated", decision.Value.(map[string]string)["using"])
}

func TestNewValidator_NegativeTolerance(t *testing.T) {
	validator := NewValidator(d("-0.05"))
	assert.Equal(t, "0.05", validator.Tolerance().String())
}

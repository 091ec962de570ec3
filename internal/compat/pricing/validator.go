package pricing

import (
	"github.com/shopspring/decimal"

	"order-compat/internal/compat/audit"
)

// DefaultTolerance is the largest declared/calculated gap still treated as
// consistent.
var DefaultTolerance = decimal.New(1, -2)

// LineItem is a priced line whose price is already in USD.
type LineItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

func (li LineItem) Total() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Result struct {
	Declared    decimal.Decimal
	Calculated  decimal.Decimal
	Discrepancy decimal.Decimal
	Total       decimal.Decimal
	Consistent  bool
}

// Record writes the outcome to trail: a decision when the declared total is
// kept, a warning plus a correction decision when it is replaced.
func (r Result) Record(trail *audit.Trail) {
	if r.Consistent {
		trail.AddDecision(audit.KeyPriceConsistency, "consistent, using declared")
		return
	}
	trail.Warnf(
		"price mismatch: declared %s USD, calculated %s USD from line items, discrepancy %s USD; using calculated",
		r.Declared.StringFixed(2),
		r.Calculated.StringFixed(2),
		r.Discrepancy.StringFixed(2),
	)
	trail.AddDecision(audit.KeyPriceCorrection, map[string]string{
		"declared":   r.Declared.StringFixed(2),
		"calculated": r.Calculated.StringFixed(2),
		"using":      "calculated",
	})
}

type Validator struct {
	tolerance decimal.Decimal
}

func NewValidator(tolerance decimal.Decimal) *Validator {
	return &Validator{
		tolerance: tolerance.Abs(),
	}
}

func (v *Validator) Tolerance() decimal.Decimal {
	return v.tolerance
}

// Validate compares declared against the sum of items. Line items are the
// trusted source when the two disagree by more than the tolerance.
func (v *Validator) Validate(items []LineItem, declared decimal.Decimal) Result {
	calculated := Sum(items)
	discrepancy := declared.Sub(calculated).Abs()

	res := Result{
		Declared:    declared,
		Calculated:  calculated,
		Discrepancy: discrepancy,
	}
	if discrepancy.GreaterThan(v.tolerance) {
		res.Total = calculated
		return res
	}
	res.Total = declared
	res.Consistent = true
	return res
}

func Sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}

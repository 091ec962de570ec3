// Package transform turns v1, v2 and v3 order payloads into the v1 order
// shape consumed by legacy clients.
//
// ToLegacy is pure: it performs no I/O, keeps no state between calls and
// returns the audit trail as a separate value. A Transformer is safe for
// concurrent use.
package transform

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/audit"
	"order-compat/internal/compat/currency"
	"order-compat/internal/compat/dates"
	"order-compat/internal/compat/pricing"
	"order-compat/internal/compat/status"
	"order-compat/internal/compat/version"
)

var (
	ErrEmptyData = errors.New("v3 response has empty data list")
)

type Transformer struct {
	converter *currency.Converter
	validator *pricing.Validator
}

func New(converter *currency.Converter, validator *pricing.Validator) *Transformer {
	return &Transformer{
		converter: converter,
		validator: validator,
	}
}

// NewDefault uses the built-in rate table and a one cent tolerance.
func NewDefault() *Transformer {
	return New(currency.NewConverter(nil), pricing.NewValidator(pricing.DefaultTolerance))
}

// ToLegacy converts payload to a v1 order. On error the order is the zero
// value and the trail holds whatever was recorded before the failure.
func (t *Transformer) ToLegacy(payload common.Payload) (v1protocol.Order, audit.Trail, error) {
	trail := audit.New()

	parsed, err := version.Parse(payload)
	if errors.Is(err, version.ErrUndetectableVersion) {
		return v1protocol.Order{}, trail.Clone(), fmt.Errorf("failed to detect version: %w", err)
	}
	if err != nil {
		return v1protocol.Order{}, trail.Clone(), fmt.Errorf("failed to decode payload: %w", err)
	}
	trail.AddDecision(audit.KeyVersionDetection, string(parsed.Version))

	var fields resolved
	switch parsed.Version {
	case version.V1:
		fields, err = t.fromV1(parsed.V1, trail)
	case version.V2:
		fields, err = t.fromV2(parsed.V2, trail)
	case version.V3:
		fields, err = t.fromV3(parsed.V3, parsed.V3Received, trail)
	}
	if err != nil {
		return v1protocol.Order{}, trail.Clone(), err
	}

	return fields.order(trail), trail.Clone(), nil
}

// resolved collects the normalized fields of one order before assembly.
type resolved struct {
	orderID      string
	status       v1protocol.Status
	total        decimal.Decimal
	customerID   string
	customerName string
	createdAt    string
	items        []pricing.LineItem
}

func (r resolved) order(trail *audit.Trail) v1protocol.Order {
	total := r.total
	if total.IsNegative() {
		trail.Warnf("order %s: negative total %s USD clamped to 0.00", r.orderID, total.StringFixed(2))
		total = decimal.Zero
	}

	items := make([]v1protocol.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, v1protocol.Item{
			Name:     item.Name,
			Price:    v1protocol.NewAmount(item.Price),
			Quantity: item.Quantity,
		})
	}

	return v1protocol.Order{
		OrderID:      r.orderID,
		Status:       r.status,
		TotalPrice:   v1protocol.NewAmount(total),
		CustomerID:   r.customerID,
		CustomerName: r.customerName,
		CreatedAt:    r.createdAt,
		Items:        items,
	}
}

// declaredToUSD converts an order level amount and records the rate used.
func (t *Transformer) declaredToUSD(amount decimal.Decimal, code string, trail *audit.Trail) decimal.Decimal {
	code = currencyOrUSD(code)
	if rate, err := t.converter.Rate(code); err == nil && code != currency.USD {
		trail.AddDecision(audit.KeyCurrencyConversion, map[string]string{
			"from": code,
			"to":   currency.USD,
			"rate": rate.String(),
		})
	}
	return t.converter.ToUSD(amount, code, trail)
}

func (t *Transformer) mapStatus(orderID, state string, tracking status.Tracking, trail *audit.Trail) (v1protocol.Status, error) {
	mapping, err := status.Map(state, tracking)
	if err != nil {
		return "", fmt.Errorf("order %s: status: %w", orderID, err)
	}
	mapping.Record(trail)
	return mapping.To, nil
}

func normalizeDate(orderID, field, value string) (string, error) {
	res, err := dates.Normalize(value)
	if err != nil {
		return "", fmt.Errorf("order %s: %s: %w", orderID, field, err)
	}
	return res, nil
}

// keepPositive drops lines with a non-positive quantity; the v1 contract
// only allows positive quantities.
func keepPositive(orderID string, items []pricing.LineItem, trail *audit.Trail) []pricing.LineItem {
	res := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			trail.Warnf("order %s: line item %q has quantity %d and was dropped", orderID, item.Name, item.Quantity)
			continue
		}
		res = append(res, item)
	}
	return res
}

func currencyOrUSD(code string) string {
	if code == "" {
		return currency.USD
	}
	return code
}

package transform

import (
	"fmt"

	"order-compat/internal/common/v3protocol"
	"order-compat/internal/compat/audit"
	"order-compat/internal/compat/pricing"
	"order-compat/internal/compat/status"
)

// fromV3 transforms the first order of the data list. Multi-order responses
// are not supported: extra orders are discarded undecoded and reported as a
// warning.
func (t *Transformer) fromV3(first *v3protocol.Order, received int, trail *audit.Trail) (resolved, error) {
	if first == nil || received == 0 {
		return resolved{}, ErrEmptyData
	}
	order := *first
	trail.AddDecision(audit.KeyOrderSelection, map[string]string{
		"index":    "0",
		"received": fmt.Sprint(received),
	})
	if extra := received - 1; extra > 0 {
		trail.Warnf("v3 response carries %d orders; only %s was transformed, %d discarded", received, order.OrderID, extra)
	}

	st, err := t.mapStatus(order.OrderID, string(order.OrderStatus.Current), trackingOf(order), trail)
	if err != nil {
		return resolved{}, err
	}

	createdAt, err := normalizeDate(order.OrderID, "timestamps.created", order.Timestamps.Created)
	if err != nil {
		return resolved{}, err
	}

	code := currencyOrUSD(order.Pricing.Currency)
	declared := t.declaredToUSD(order.Pricing.Total, code, trail)

	items := make([]pricing.LineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		items = append(items, pricing.LineItem{
			Name:     item.Name,
			Price:    t.converter.ToUSD(item.Pricing.Unit, code, trail),
			Quantity: item.Quantity,
		})
	}
	items = keepPositive(order.OrderID, items, trail)

	check := t.validator.Validate(t.v3Lines(items, order.Pricing, code, trail), declared)
	check.Record(trail)

	return resolved{
		orderID:      order.OrderID,
		status:       st,
		total:        check.Total,
		customerID:   order.Customer.ID,
		customerName: order.Customer.Name,
		createdAt:    createdAt,
		items:        items,
	}, nil
}

// v3Lines builds the lines the declared total is checked against: the
// itemized lines, or the subtotal as one synthetic line when there are none,
// followed by tax and a negative discount line.
func (t *Transformer) v3Lines(items []pricing.LineItem, p v3protocol.Pricing, code string, trail *audit.Trail) []pricing.LineItem {
	lines := make([]pricing.LineItem, 0, len(items)+3)
	if len(items) > 0 {
		lines = append(lines, items...)
	} else {
		lines = append(lines, pricing.LineItem{
			Name:     "subtotal",
			Price:    t.converter.ToUSD(p.Subtotal, code, trail),
			Quantity: 1,
		})
	}
	if !p.Tax.IsZero() {
		lines = append(lines, pricing.LineItem{
			Name:     "tax",
			Price:    t.converter.ToUSD(p.Tax, code, trail),
			Quantity: 1,
		})
	}
	if !p.Discount.Amount.IsZero() {
		lines = append(lines, pricing.LineItem{
			Name:     "discount",
			Price:    t.converter.ToUSD(p.Discount.Amount.Abs(), code, trail).Neg(),
			Quantity: 1,
		})
	}
	return lines
}

// trackingOf reads the fulfillment signal from the status history only. A
// shipment block alone does not make an order physical.
func trackingOf(order v3protocol.Order) status.Tracking {
	return status.TrackingFromHistory(order.OrderStatus.History)
}

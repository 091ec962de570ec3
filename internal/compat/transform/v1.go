package transform

import (
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/audit"
	"order-compat/internal/compat/currency"
	"order-compat/internal/compat/pricing"
	"order-compat/internal/compat/status"
)

// fromV1 renames fields only, but still re-checks status, prices and date so
// a hand-built v1 body gets the same guarantees as a converted one.
func (t *Transformer) fromV1(order *v1protocol.Order, trail *audit.Trail) (resolved, error) {
	st, err := t.mapStatus(order.OrderID, string(order.Status), status.Tracking{}, trail)
	if err != nil {
		return resolved{}, err
	}

	createdAt, err := normalizeDate(order.OrderID, "createdAt", order.CreatedAt)
	if err != nil {
		return resolved{}, err
	}

	declared := t.converter.ToUSD(order.TotalPrice.Decimal, currency.USD, trail)

	items := make([]pricing.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, pricing.LineItem{
			Name:     item.Name,
			Price:    t.converter.ToUSD(item.Price.Decimal, currency.USD, trail),
			Quantity: item.Quantity,
		})
	}
	items = keepPositive(order.OrderID, items, trail)

	check := t.validator.Validate(items, declared)
	check.Record(trail)

	return resolved{
		orderID:      order.OrderID,
		status:       st,
		total:        check.Total,
		customerID:   order.CustomerID,
		customerName: order.CustomerName,
		createdAt:    createdAt,
		items:        items,
	}, nil
}

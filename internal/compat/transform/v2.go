package transform

import (
	"order-compat/internal/common/v2protocol"
	"order-compat/internal/compat/audit"
	"order-compat/internal/compat/pricing"
	"order-compat/internal/compat/status"
)

func (t *Transformer) fromV2(order *v2protocol.Order, trail *audit.Trail) (resolved, error) {
	st, err := t.mapStatus(order.OrderID, string(order.State), status.TrackingNumber(order.TrackingNumber), trail)
	if err != nil {
		return resolved{}, err
	}

	createdAt, err := normalizeDate(order.OrderID, "createdAt", order.CreatedAt)
	if err != nil {
		return resolved{}, err
	}

	orderCurrency := currencyOrUSD(order.Amount.Currency)
	declared := t.declaredToUSD(order.Amount.Value, orderCurrency, trail)

	items := make([]pricing.LineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		itemCurrency := orderCurrency
		if item.Currency != "" {
			itemCurrency = item.Currency
		}
		items = append(items, pricing.LineItem{
			Name:     item.DisplayName(),
			Price:    t.converter.ToUSD(item.UnitAmount(), itemCurrency, trail),
			Quantity: item.Count(),
		})
	}
	items = keepPositive(order.OrderID, items, trail)

	check := t.validator.Validate(items, declared)
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

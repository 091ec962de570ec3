package v2protocol

import (
	"github.com/shopspring/decimal"
)

const (
	Paid      State = "PAID"
	Cancelled State = "CANCELLED"
	Shipped   State = "SHIPPED"
	Fulfilled State = "FULFILLED"
)

type State string

type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type LineItem struct {
	Name      string           `json:"name,omitempty"`
	SKU       string           `json:"sku,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	Currency  string           `json:"currency,omitempty"`
}

// DisplayName falls back to the SKU for items published without a name.
func (li LineItem) DisplayName() string {
	if li.Name != "" {
		return li.Name
	}
	return li.SKU
}

// UnitAmount returns price, or unitPrice for feeds that use the newer key.
func (li LineItem) UnitAmount() decimal.Decimal {
	switch {
	case li.Price != nil:
		return *li.Price
	case li.UnitPrice != nil:
		return *li.UnitPrice
	}
	return decimal.Zero
}

// Count defaults to a single unit when quantity is omitted.
func (li LineItem) Count() int {
	if li.Quantity == nil {
		return 1
	}
	return *li.Quantity
}

type Order struct {
	OrderID        string     `json:"orderId"`
	State          State      `json:"state"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Amount         Amount     `json:"amount"`
	Customer       Customer   `json:"customer"`
	CreatedAt      string     `json:"createdAt"`
	LineItems      []LineItem `json:"lineItems,omitempty"`
}

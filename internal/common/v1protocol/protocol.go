package v1protocol

import (
	"github.com/shopspring/decimal"
)

const (
	Paid      Status = "PAID"
	Cancelled Status = "CANCELLED"
	Shipped   Status = "SHIPPED"
)

type Status string

func (s Status) Valid() bool {
	switch s {
	case Paid, Cancelled, Shipped:
		return true
	}
	return false
}

// Amount is a USD value always rendered with two fractional digits as a
// JSON number.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d.Round(2)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

type Item struct {
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	OrderID      string `json:"orderId"`
	Status       Status `json:"status"`
	TotalPrice   Amount `json:"totalPrice"`
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	CreatedAt    string `json:"createdAt"`
	Items        []Item `json:"items"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

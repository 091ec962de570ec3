package v3protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	Paid      State = "PAID"
	Cancelled State = "CANCELLED"
	Shipped   State = "SHIPPED"
	Fulfilled State = "FULFILLED"

	ShippedEvent = "shipped"
)

type State string

// HistoryEntry is one order status transition. Older feeds publish bare
// strings or use "status" instead of "type"; both decode here.
type HistoryEntry struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp,omitempty"`
	Tracking  string `json:"tracking,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*e = HistoryEntry{Type: name}
		return nil
	}

	var raw struct {
		Type      string `json:"type"`
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Tracking  string `json:"tracking"`
		Reason    string `json:"reason"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("history entry: %w", err)
	}
	*e = HistoryEntry{
		Type:      raw.Type,
		Timestamp: raw.Timestamp,
		Tracking:  raw.Tracking,
		Reason:    raw.Reason,
	}
	if e.Type == "" {
		e.Type = raw.Status
	}
	return nil
}

type OrderStatus struct {
	Current State          `json:"current"`
	History []HistoryEntry `json:"history,omitempty"`
}

// Discount is either a plain amount or an object with a promo code.
type Discount struct {
	Code   string          `json:"code,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

func (d *Discount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*d = Discount{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var raw struct {
			Code   string          `json:"code"`
			Amount decimal.Decimal `json:"amount"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("discount: %w", err)
		}
		*d = Discount{Code: raw.Code, Amount: raw.Amount}
		return nil
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("discount: %w", err)
	}
	*d = Discount{Amount: amount}
	return nil
}

type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount Discount        `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	LoyaltyTier string `json:"loyaltyTier,omitempty"`
}

type Timestamps struct {
	Created   string  `json:"created"`
	Updated   string  `json:"updated,omitempty"`
	Fulfilled *string `json:"fulfilled"`
}

type LineItemPricing struct {
	Unit     decimal.Decimal `json:"unit"`
	Tax      decimal.Decimal `json:"tax"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type LineItem struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Pricing  LineItemPricing `json:"pricing"`
}

type Shipment struct {
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

type Order struct {
	OrderID     string      `json:"orderId"`
	OrderStatus OrderStatus `json:"orderStatus"`
	Pricing     Pricing     `json:"pricing"`
	Customer    Customer    `json:"customer"`
	Timestamps  Timestamps  `json:"timestamps"`
	LineItems   []LineItem  `json:"lineItems,omitempty"`
	Shipment    *Shipment   `json:"shipment,omitempty"`
}

// Response is the list envelope. Orders stay raw so that only the one being
// transformed is decoded. Pagination and metadata are ignored.
type Response struct {
	Data []json.RawMessage `json:"data"`
}

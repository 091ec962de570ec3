package status

import (
	"errors"
	"fmt"
	"strings"

	"order-compat/internal/common/v1protocol"
	"order-compat/internal/common/v3protocol"
	"order-compat/internal/compat/audit"
)

const (
	Physical Fulfillment = "physical"
	Digital  Fulfillment = "digital"

	fulfilled = "FULFILLED"
)

var (
	ErrUnrecognizedStatus = errors.New("unrecognized status")
)

// Fulfillment annotates how a FULFILLED order left the warehouse. It never
// changes the mapped status.
type Fulfillment string

// Tracking is the shipment signal found next to a status value.
type Tracking struct {
	Number string
	Source string
}

func (t Tracking) Present() bool {
	return t.Number != ""
}

func TrackingNumber(number string) Tracking {
	if number == "" {
		return Tracking{}
	}
	return Tracking{Number: number, Source: "trackingNumber"}
}

// TrackingFromHistory returns the first "shipped" history entry carrying a
// tracking field.
func TrackingFromHistory(history []v3protocol.HistoryEntry) Tracking {
	for _, entry := range history {
		if strings.EqualFold(entry.Type, v3protocol.ShippedEvent) && entry.Tracking != "" {
			return Tracking{Number: entry.Tracking, Source: "history"}
		}
	}
	return Tracking{}
}

type Mapping struct {
	From        string
	To          v1protocol.Status
	Fulfillment Fulfillment
	Tracking    Tracking
}

func (m Mapping) Record(trail *audit.Trail) {
	value := map[string]string{
		"from": m.From,
		"to":   string(m.To),
	}
	if m.Fulfillment != "" {
		value["fulfillment"] = string(m.Fulfillment)
	}
	if m.Tracking.Present() {
		value["tracking_source"] = m.Tracking.Source
	}
	trail.AddDecision(audit.KeyStatusMapping, value)
}

// Map resolves a source state to a v1 status.
func Map(state string, tracking Tracking) (Mapping, error) {
	res := Mapping{
		From:     state,
		Tracking: tracking,
	}
	switch state {
	case string(v1protocol.Paid), string(v1protocol.Cancelled), string(v1protocol.Shipped):
		res.To = v1protocol.Status(state)
	case fulfilled:
		res.To = v1protocol.Shipped
		res.Fulfillment = Digital
		if tracking.Present() {
			res.Fulfillment = Physical
		}
	default:
		return Mapping{}, fmt.Errorf("%w: %q", ErrUnrecognizedStatus, state)
	}
	return res, nil
}

package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-compat/internal/common/v1protocol"
	"order-compat/internal/common/v3protocol"
	"order-compat/internal/compat/audit"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name        string
		state       string
		tracking    Tracking
		expected    v1protocol.Status
		fulfillment Fulfillment
	}{
		{name: "paid", state: "PAID", expected: v1protocol.Paid},
		{name: "cancelled", state: "CANCELLED", expected: v1protocol.Cancelled},
		{name: "shipped", state: "SHIPPED", tracking: TrackingNumber("TRK-1"), expected: v1protocol.Shipped},
		{name: "fulfilled physical", state: "FULFILLED", tracking: TrackingNumber("TRK-1"), expected: v1protocol.Shipped, fulfillment: Physical},
		{name: "fulfilled digital", state: "FULFILLED", expected: v1protocol.Shipped, fulfillment: Digital},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mapping, err := Map(test.state, test.tracking)
			require.NoError(t, err)
			assert.Equal(t, test.expected, mapping.To)
			assert.Equal(t, test.fulfillment, mapping.Fulfillment)
			assert.True(t, mapping.To.Valid())
		})
	}
}

func TestMap_Unrecognized(t *testing.T) {
	for _, state := range []string{"", "REFUNDED", "paid", "UNKNOWN"} {
		_, err := Map(state, Tracking{})
		assert.True(t, errors.Is(err, ErrUnrecognizedStatus), "state %q", state)
	}
}

func TestMapping_Record(t *testing.T) {
	mapping, err := Map("FULFILLED", TrackingNumber("TRK-9"))
	require.NoError(t, err)

	trail := audit.New()
	mapping.Record(trail)

	decision, ok := trail.Find(audit.KeyStatusMapping)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"from":            "FULFILLED",
		"to":              "SHIPPED",
		"fulfillment":     "physical",
		"tracking_source": "trackingNumber",
	}, decision.Value)
}

func TestTrackingFromHistory(t *testing.T) {
	tests := []struct {
		name     string
		history  []v3protocol.HistoryEntry
		expected Tracking
	}{
		{
			name:     "empty",
			expected: Tracking{},
		},
		{
			name: "shipped with tracking",
			history: []v3protocol.HistoryEntry{
				{Type: "paid"},
				{Type: "shipped", Tracking: "TRK-7"},
			},
			expected: Tracking{Number: "TRK-7", Source: "history"},
		},
		{
			name: "shipped without tracking",
			history: []v3protocol.HistoryEntry{
				{Type: "SHIPPED", Reason: "Dispatched from warehouse"},
			},
			expected: Tracking{},
		},
		{
			name: "tracking on a non shipped entry",
			history: []v3protocol.HistoryEntry{
				{Type: "paid", Tracking: "TRK-0"},
			},
			expected: Tracking{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, TrackingFromHistory(test.history))
		})
	}
}

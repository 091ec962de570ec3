// Package audit records the decisions and data-quality warnings made while
// transforming one payload. A Trail is created per call and handed back to
// the caller next to the transformed order; it is never merged into it.
package audit

import "fmt"

const (
	KeyVersionDetection   = "version_detection"
	KeyStatusMapping      = "status_mapping"
	KeyCurrencyConversion = "currency_conversion"
	KeyPriceConsistency   = "price_consistency"
	KeyPriceCorrection    = "price_correction"
	KeyOrderSelection     = "order_selection"
)

type Decision struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type Trail struct {
	Decisions []Decision `json:"decisions"`
	Warnings  []string   `json:"warnings"`
}

func New() *Trail {
	return &Trail{
		Decisions: []Decision{},
		Warnings:  []string{},
	}
}

func (t *Trail) AddDecision(key string, value any) {
	t.Decisions = append(t.Decisions, Decision{Key: key, Value: value})
}

func (t *Trail) AddWarning(message string) {
	t.Warnings = append(t.Warnings, message)
}

func (t *Trail) Warnf(format string, args ...any) {
	t.AddWarning(fmt.Sprintf(format, args...))
}

// WarnOnce appends message unless an identical warning is already recorded.
func (t *Trail) WarnOnce(message string) {
	for _, w := range t.Warnings {
		if w == message {
			return
		}
	}
	t.AddWarning(message)
}

// Find returns the first decision recorded under key.
func (t *Trail) Find(key string) (Decision, bool) {
	for _, d := range t.Decisions {
		if d.Key == key {
			return d, true
		}
	}
	return Decision{}, false
}

func (t *Trail) HasWarnings() bool {
	return len(t.Warnings) > 0
}

// Clone returns a deep copy of the decision and warning lists.
func (t *Trail) Clone() Trail {
	res := Trail{
		Decisions: make([]Decision, len(t.Decisions)),
		Warnings:  make([]string, len(t.Warnings)),
	}
	copy(res.Decisions, t.Decisions)
	copy(res.Warnings, t.Warnings)
	return res
}

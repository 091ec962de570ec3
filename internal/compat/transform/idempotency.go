package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"order-compat/internal/common"
)

// CheckIdempotent reports whether transforming the v1 output of payload a
// second time yields the same order.
func (t *Transformer) CheckIdempotent(payload common.Payload) (bool, error) {
	first, _, err := t.ToLegacy(payload)
	if err != nil {
		return false, err
	}

	again, err := common.ToPayload(first)
	if err != nil {
		return false, fmt.Errorf("failed to re-encode order: %w", err)
	}
	second, _, err := t.ToLegacy(again)
	if err != nil {
		return false, fmt.Errorf("second pass failed: %w", err)
	}

	firstJSON, err := json.Marshal(first)
	if err != nil {
		return false, err
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		return false, err
	}
	return bytes.Equal(firstJSON, secondJSON), nil
}

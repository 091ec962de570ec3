package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotAnObject = errors.New("payload is not a JSON object")
)

// Payload is an already parsed response body. Numbers are kept as
// json.Number when decoded with DecodePayload so amounts stay exact.
type Payload map[string]any

func DecodePayload(r io.Reader) (Payload, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return Payload(obj), nil
}

func DecodePayloadBytes(data []byte) (Payload, error) {
	return DecodePayload(bytes.NewReader(data))
}

// Has reports whether key is present, even with a null value.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// IsList reports whether the value under key is a JSON array.
func (p Payload) IsList(key string) bool {
	switch p[key].(type) {
	case []any, []map[string]any, []Payload:
		return true
	}
	return false
}

// DecodeInto re-encodes the payload and decodes it into out.
func (p Payload) DecodeInto(out any) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// ToPayload converts any JSON-encodable value into a Payload.
func ToPayload(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return DecodePayloadBytes(raw)
}

// UnmarshalJSON keeps numbers as json.Number when a Payload is embedded in a
// larger document. A null body leaves the payload nil.
func (p *Payload) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*p = nil
		return nil
	}
	decoded, err := DecodePayloadBytes(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/common/v2protocol"
	"order-compat/internal/common/v3protocol"
)

const (
	V1 Version = "v1"
	V2 Version = "v2"
	V3 Version = "v3"
)

var (
	ErrUndetectableVersion = errors.New("cannot detect api version")
	ErrMalformedPayload    = errors.New("malformed payload")
)

type Version string

// Detect classifies payload by shape only. Rules are checked in priority
// order: a "data" list is v3, "orderId" with "state" is v2, "orderId" with
// "status" is v1.
func Detect(payload common.Payload) (Version, error) {
	switch {
	case payload.IsList("data"):
		return V3, nil
	case payload.Has("orderId") && payload.Has("state"):
		return V2, nil
	case payload.Has("orderId") && payload.Has("status"):
		return V1, nil
	}
	return "", fmt.Errorf("%w: keys %v", ErrUndetectableVersion, keys(payload))
}

// Parsed holds exactly one decoded body, selected by Version. For v3 only the
// first element of the data list is decoded; V3Received counts all of them.
type Parsed struct {
	Version    Version
	V1         *v1protocol.Order
	V2         *v2protocol.Order
	V3         *v3protocol.Order
	V3Received int
}

func Parse(payload common.Payload) (Parsed, error) {
	v, err := Detect(payload)
	if err != nil {
		return Parsed{}, err
	}

	res := Parsed{Version: v}
	switch v {
	case V1:
		res.V1 = &v1protocol.Order{}
		err = payload.DecodeInto(res.V1)
	case V2:
		res.V2 = &v2protocol.Order{}
		err = payload.DecodeInto(res.V2)
	case V3:
		var envelope v3protocol.Response
		if err = payload.DecodeInto(&envelope); err != nil {
			break
		}
		res.V3Received = len(envelope.Data)
		if len(envelope.Data) > 0 {
			res.V3 = &v3protocol.Order{}
			err = json.Unmarshal(envelope.Data[0], res.V3)
		}
	}
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %s body: %w", ErrMalformedPayload, v, err)
	}
	return res, nil
}

func keys(payload common.Payload) []string {
	res := make([]string, 0, len(payload))
	for k := range payload {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

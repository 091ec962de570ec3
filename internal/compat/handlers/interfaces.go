package handlers

import (
	"context"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/audit"
	"order-compat/internal/compat/responses"
	"order-compat/internal/compat/source"
)

type LegacyTransformer interface {
	ToLegacy(payload common.Payload) (v1protocol.Order, audit.Trail, error)
}

type PayloadSource interface {
	Fetch(ctx context.Context, req source.Request) (source.Response, error)
}

type Observer interface {
	ObserveTrail(trail audit.Trail, err error)
	ObserveClass(class responses.Class)
}

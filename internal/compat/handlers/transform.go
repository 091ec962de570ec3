package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/audit"
	"order-compat/pkg/logging"
)

type transformResponse struct {
	Order v1protocol.Order `json:"order"`
	Audit audit.Trail      `json:"audit"`
}

type TransformHandler struct {
	transformer LegacyTransformer
	observer    Observer
	logger      *logging.ZapLogger
}

func NewTransformHandler(transformer LegacyTransformer, observer Observer, logger *logging.ZapLogger) *TransformHandler {
	return &TransformHandler{
		transformer: transformer,
		observer:    observer,
		logger:      logger,
	}
}

func (h *TransformHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	payload, err := common.DecodePayload(r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "failed to decode payload", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error(), h.logger)
		return
	}

	order, trail, err := h.transformer.ToLegacy(payload)
	h.observer.ObserveTrail(trail, err)
	if err != nil {
		h.logger.InfoCtx(r.Context(), "payload cannot be transformed", zap.Error(err))
		writeError(r.Context(), w, http.StatusUnprocessableEntity, "TRANSFORMATION_FAILED", err.Error(), h.logger)
		return
	}
	logTrail(r.Context(), trail, h.logger)

	writeResponse(r.Context(), w, http.StatusOK, transformResponse{Order: order, Audit: trail}, h.logger)
}

package handlers

import (
	"errors"
	"net/http"

	"order-compat/internal/common"
	"order-compat/internal/compat/version"
	"order-compat/pkg/logging"
)

type detectResponse struct {
	Version version.Version `json:"version"`
}

type DetectHandler struct {
	logger *logging.ZapLogger
}

func NewDetectHandler(logger *logging.ZapLogger) *DetectHandler {
	return &DetectHandler{
		logger: logger,
	}
}

func (h *DetectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	payload, err := common.DecodePayload(r.Body)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error(), h.logger)
		return
	}

	v, err := version.Detect(payload)
	switch {
	case errors.Is(err, version.ErrUndetectableVersion):
		writeError(r.Context(), w, http.StatusUnprocessableEntity, "UNDETECTABLE_VERSION", err.Error(), h.logger)
	case err != nil:
		writeError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), h.logger)
	default:
		writeResponse(r.Context(), w, http.StatusOK, detectResponse{Version: v}, h.logger)
	}
}

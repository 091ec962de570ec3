package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/responses"
	"order-compat/pkg/logging"
)

type classifyRequest struct {
	StatusCode int            `json:"statusCode"`
	Body       common.Payload `json:"body"`
}

type classifyResponse struct {
	Class     responses.Class           `json:"class"`
	Retryable bool                      `json:"retryable"`
	Error     *v1protocol.ErrorResponse `json:"error,omitempty"`
}

type ClassifyHandler struct {
	observer Observer
	logger   *logging.ZapLogger
}

func NewClassifyHandler(observer Observer, logger *logging.ZapLogger) *ClassifyHandler {
	return &ClassifyHandler{
		observer: observer,
		logger:   logger,
	}
}

func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	req, err := decodeJSON[classifyRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "failed to decode classify request", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), h.logger)
		return
	}

	class := responses.Classify(req.StatusCode, req.Body)
	h.observer.ObserveClass(class)

	res := classifyResponse{
		Class:     class,
		Retryable: class.Retryable(),
	}
	if class != responses.OK {
		normalized := responses.NormalizeError(req.StatusCode, req.Body)
		res.Error = &normalized
	}
	writeResponse(r.Context(), w, http.StatusOK, res, h.logger)
}

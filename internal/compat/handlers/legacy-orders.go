package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"order-compat/internal/compat/responses"
	"order-compat/internal/compat/source"
	"order-compat/pkg/logging"
)

// LegacyOrdersHandler serves the v1 orders endpoint on top of a newer
// upstream API.
type LegacyOrdersHandler struct {
	source       PayloadSource
	transformer  LegacyTransformer
	observer     Observer
	upstreamPath string
	logger       *logging.ZapLogger
}

func NewLegacyOrdersHandler(
	src PayloadSource,
	transformer LegacyTransformer,
	observer Observer,
	upstreamPath string,
	logger *logging.ZapLogger,
) *LegacyOrdersHandler {
	return &LegacyOrdersHandler{
		source:       src,
		transformer:  transformer,
		observer:     observer,
		upstreamPath: upstreamPath,
		logger:       logger,
	}
}

func (h *LegacyOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)
	ctx := r.Context()

	query := make(map[string]string, len(r.URL.Query()))
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}

	resp, err := h.source.Fetch(ctx, source.Request{
		Method: http.MethodGet,
		Path:   h.upstreamPath,
		Query:  query,
	})
	if err != nil {
		h.logger.ErrorCtx(ctx, "upstream fetch failed", zap.Error(err))
		writeError(ctx, w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "upstream request failed", h.logger)
		return
	}

	class := responses.Classify(resp.StatusCode, resp.Body)
	h.observer.ObserveClass(class)
	if class != responses.OK {
		h.logger.InfoCtx(ctx, "upstream returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("class", string(class)),
		)
		statusCode := resp.StatusCode
		if statusCode < 400 || statusCode > 599 {
			statusCode = http.StatusBadGateway
		}
		writeResponse(ctx, w, statusCode, responses.NormalizeError(resp.StatusCode, resp.Body), h.logger)
		return
	}

	order, trail, err := h.transformer.ToLegacy(resp.Body)
	h.observer.ObserveTrail(trail, err)
	if err != nil {
		h.logger.ErrorCtx(ctx, "upstream payload cannot be transformed", zap.Error(err))
		writeError(ctx, w, http.StatusBadGateway, "INCOMPATIBLE_PAYLOAD", err.Error(), h.logger)
		return
	}
	logTrail(ctx, trail, h.logger)

	writeResponse(ctx, w, http.StatusOK, order, h.logger)
}

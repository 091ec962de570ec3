package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/audit"
	"order-compat/pkg/logging"
)

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&out)
	return out, err
}

func tryWriteResponseJSON(w http.ResponseWriter, statusCode int, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err = w.Write(res)
	if err != nil {
		return err
	}
	return nil
}

func writeResponse(ctx context.Context, w http.ResponseWriter, statusCode int, responseItem any, logger *logging.ZapLogger) {
	if err := tryWriteResponseJSON(w, statusCode, responseItem); err != nil {
		logger.ErrorCtx(ctx, "failed to write response", zap.Error(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, code, message string, logger *logging.ZapLogger) {
	writeResponse(ctx, w, statusCode, v1protocol.ErrorResponse{Error: code, Message: message}, logger)
}

// logTrail writes audit warnings to the log. The trail itself never goes
// into a legacy order body.
func logTrail(ctx context.Context, trail audit.Trail, logger *logging.ZapLogger) {
	for _, warning := range trail.Warnings {
		logger.WarnCtx(ctx, "transformation warning", zap.String("warning", warning))
	}
	logger.DebugCtx(ctx, "transformation decisions", zap.Any("decisions", trail.Decisions))
}

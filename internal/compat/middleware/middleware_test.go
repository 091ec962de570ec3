package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"order-compat/pkg/logging"
)

func TestLoggerContext_AddsRequestFields(t *testing.T) {
	var keys []string
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID, NewLoggerContext().CreateHandler)
	router.Get("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		for _, f := range logging.ContextFields(r.Context()) {
			keys = append(keys, f.Key)
		}
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	assert.Equal(t, []string{"method", "path", "remote-addr", "request-id"}, keys)
}

func TestPanicRecover(t *testing.T) {
	handler := NewPanicRecover(logging.NewNopLogger()).CreateHandler(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}),
	)

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "INTERNAL_ERROR", "message": "Internal Server Error"}`, rec.Body.String())
}

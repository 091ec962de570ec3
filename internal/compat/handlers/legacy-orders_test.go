package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/audit"
	"order-compat/internal/compat/responses"
	"order-compat/internal/compat/source"
	"order-compat/pkg/logging"
)

type stubSource struct {
	resp source.Response
	err  error
	got  source.Request
}

func (s *stubSource) Fetch(_ context.Context, req source.Request) (source.Response, error) {
	s.got = req
	return s.resp, s.err
}

type stubTransformer struct {
	calls int
}

func (s *stubTransformer) ToLegacy(common.Payload) (v1protocol.Order, audit.Trail, error) {
	s.calls++
	trail := audit.New()
	trail.AddWarning("price mismatch")
	return v1protocol.Order{OrderID: "ORD-1", Status: v1protocol.Paid, Items: []v1protocol.Item{}}, trail.Clone(), nil
}

type recordingObserver struct {
	classes []responses.Class
	trails  int
}

func (o *recordingObserver) ObserveTrail(audit.Trail, error) { o.trails++ }

func (o *recordingObserver) ObserveClass(class responses.Class) {
	o.classes = append(o.classes, class)
}

func TestLegacyOrdersHandler(t *testing.T) {
	tests := []struct {
		name      string
		src       *stubSource
		wantCode  int
		wantBody  string
		wantCalls int
		wantClass []responses.Class
	}{
		{
			name:      "upstream unreachable",
			src:       &stubSource{err: errors.New("connection refused")},
			wantCode:  http.StatusBadGateway,
			wantBody:  `{"error": "UPSTREAM_UNAVAILABLE", "message": "upstream request failed"}`,
			wantClass: nil,
		},
		{
			name:      "rate limited",
			src:       &stubSource{resp: source.Response{StatusCode: http.StatusTooManyRequests}},
			wantCode:  http.StatusTooManyRequests,
			wantBody:  `{"error": "HTTP_429", "message": "Too Many Requests"}`,
			wantClass: []responses.Class{responses.Transient},
		},
		{
			name:      "redirect is not passed through",
			src:       &stubSource{resp: source.Response{StatusCode: http.StatusMovedPermanently}},
			wantCode:  http.StatusBadGateway,
			wantBody:  `{"error": "HTTP_301", "message": "Moved Permanently"}`,
			wantClass: []responses.Class{responses.ClientError},
		},
		{
			name:      "ok",
			src:       &stubSource{resp: source.Response{StatusCode: http.StatusOK, Body: common.Payload{"orderId": "ORD-1"}}},
			wantCode:  http.StatusOK,
			wantBody:  `{"orderId": "ORD-1", "status": "PAID", "totalPrice": 0.00, "customerId": "", "customerName": "", "createdAt": "", "items": []}`,
			wantCalls: 1,
			wantClass: []responses.Class{responses.OK},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transformer := &stubTransformer{}
			observer := &recordingObserver{}
			handler := NewLegacyOrdersHandler(tt.src, transformer, observer, "/api/v3/orders", logging.NewNopLogger())

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders?userId=42", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantCalls, transformer.calls)
			assert.Equal(t, tt.wantClass, observer.classes)
			assert.Equal(t, tt.wantCalls, observer.trails)
			assert.Equal(t, source.Request{
				Method: http.MethodGet,
				Path:   "/api/v3/orders",
				Query:  map[string]string{"userId": "42"},
			}, tt.src.got)
		})
	}
}

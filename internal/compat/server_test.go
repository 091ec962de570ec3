package compat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-compat/internal/common"
	"order-compat/internal/compat/metrics"
	"order-compat/internal/compat/source"
	"order-compat/internal/compat/transform"
	"order-compat/pkg/logging"
)

const upstreamPath = "/api/v2/orders"

func newTestMux(t *testing.T, fixtures ...source.Fixture) (http.Handler, *metrics.Registry) {
	t.Helper()
	registry := metrics.NewRegistry()
	mux := createMux(
		Config{ServerAddress: "localhost:0", UpstreamPath: upstreamPath, ShutdownTimeout: time.Second},
		source.NewFixtureSource(fixtures...),
		transform.NewDefault(),
		registry,
		logging.NewNopLogger(),
	)
	return mux, registry
}

func body(t *testing.T, raw string) common.Payload {
	t.Helper()
	p, err := common.DecodePayloadBytes([]byte(raw))
	require.NoError(t, err)
	return p
}

func serve(mux http.Handler, method, target, reqBody string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(reqBody)))
	return rec
}

func TestLegacyOrders_TransformsUpstreamOrder(t *testing.T) {
	mux, registry := newTestMux(t, source.Fixture{
		Request: source.Request{Method: "GET", Path: upstreamPath, Query: map[string]string{"userId": "555"}},
		Response: source.Response{StatusCode: 200, Body: body(t, `{
			"orderId": "ORD-555", "state": "FULFILLED",
			"amount": {"value": 120.0, "currency": "EUR"},
			"customer": {"id": "C555", "name": "Charlie"},
			"createdAt": "2024-12-16T08:20:15Z",
			"lineItems": [{"name": "Lamp", "price": 120.0, "quantity": 1}]
		}`)},
	})

	rec := serve(mux, http.MethodGet, "/api/v1/orders?userId=555", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"orderId": "ORD-555", "status": "SHIPPED", "totalPrice": 132.00,
		"customerId": "C555", "customerName": "Charlie", "createdAt": "2024-12-16",
		"items": [{"name": "Lamp", "price": 132.00, "quantity": 1}]
	}`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.Transformations.WithLabelValues("v2", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.Classifications.WithLabelValues("OK")))
}

func TestLegacyOrders_NormalizesUpstreamErrors(t *testing.T) {
	mux, registry := newTestMux(t, source.Fixture{
		Request: source.Request{Method: "GET", Path: upstreamPath, Query: map[string]string{"userId": "invalid"}},
		Response: source.Response{StatusCode: 400, Body: body(t, `{"errors": [
			{"code": "INVALID_USER_ID", "message": "User ID must be numeric", "field": "userId"},
			{"code": "RATE_LIMIT", "message": "Too many requests", "field": null}
		]}`)},
	})

	rec := serve(mux, http.MethodGet, "/api/v1/orders?userId=invalid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "INVALID_USER_ID", "message": "User ID must be numeric; Too many requests"}`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.Classifications.WithLabelValues("CLIENT_ERROR")))
}

func TestLegacyOrders_UnknownFixtureIsNotFound(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := serve(mux, http.MethodGet, "/api/v1/orders?userId=1", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"NOT_FOUND"`)
}

func TestLegacyOrders_UntransformablePayload(t *testing.T) {
	mux, _ := newTestMux(t, source.Fixture{
		Request:  source.Request{Method: "GET", Path: upstreamPath},
		Response: source.Response{StatusCode: 200, Body: body(t, `{"orderId": "ORD-1", "state": "REFUNDED"}`)},
	})

	rec := serve(mux, http.MethodGet, "/api/v1/orders", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"INCOMPATIBLE_PAYLOAD"`)
}

func TestTransformEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	t.Run("returns order and audit", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, "/api/compat/transform", `{
			"orderId": "ORD-1", "state": "PAID",
			"amount": {"value": 100.00, "currency": "USD"},
			"customer": {"id": "C1", "name": "Ann"},
			"createdAt": "2024-03-01T10:00:00Z",
			"lineItems": [{"name": "Widget", "price": 25.00, "quantity": 5}]
		}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalPrice":125.00`)
		assert.Contains(t, rec.Body.String(), `"key":"version_detection","value":"v2"`)
		assert.Contains(t, rec.Body.String(), `price mismatch`)
	})

	t.Run("fatal error", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, "/api/compat/transform", `{"foo": 1}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"TRANSFORMATION_FAILED"`)
	})

	t.Run("not json", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, "/api/compat/transform", `[1]`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDetectEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		want     string
	}{
		{name: "v3", body: `{"data": []}`, wantCode: http.StatusOK, want: `{"version": "v3"}`},
		{name: "v2", body: `{"orderId": "1", "state": "PAID"}`, wantCode: http.StatusOK, want: `{"version": "v2"}`},
		{name: "v1", body: `{"orderId": "1", "status": "PAID"}`, wantCode: http.StatusOK, want: `{"version": "v1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, http.MethodPost, "/api/compat/detect", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}

	rec := serve(mux, http.MethodPost, "/api/compat/detect", `{"foo": 1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"UNDETECTABLE_VERSION"`)
}

func TestClassifyEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := serve(mux, http.MethodPost, "/api/compat/classify",
		`{"statusCode": 410, "body": {"error": "API_VERSION_DEPRECATED", "message": "Please migrate to /api/v2/orders"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"class": "DEPRECATED", "retryable": false,
		"error": {"error": "API_VERSION_DEPRECATED", "message": "Please migrate to /api/v2/orders"}
	}`, rec.Body.String())

	rec = serve(mux, http.MethodPost, "/api/compat/classify", `{"statusCode": 200}`)
	assert.JSONEq(t, `{"class": "OK", "retryable": false}`, rec.Body.String())

	rec = serve(mux, http.MethodPost, "/api/compat/classify", `{"statusCode": 503, "body": null}`)
	assert.JSONEq(t, `{
		"class": "OUTAGE", "retryable": true,
		"error": {"error": "HTTP_503", "message": "Service Unavailable"}
	}`, rec.Body.String())

	rec = serve(mux, http.MethodPost, "/api/compat/classify", `{"code": 503}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)
	serve(mux, http.MethodPost, "/api/compat/classify", `{"statusCode": 429}`)

	rec := serve(mux, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `compat_classifications_total{class="TRANSIENT"} 1`)
}

// Package source fetches raw order payloads for the compatibility layer,
// either from an upstream API or from a caller-supplied fixture table.
package source

import (
	"context"
	"net/http"
	"net/url"

	"order-compat/internal/common"
)

type Source interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

type Request struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Query  map[string]string `json:"query,omitempty"`
}

// Key identifies a request regardless of query parameter order.
func (r Request) Key() string {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	values := url.Values{}
	for k, v := range r.Query {
		values.Set(k, v)
	}
	return method + " " + r.Path + "?" + values.Encode()
}

// Response is an upstream reply. Body is nil when the reply was empty or
// not a JSON object.
type Response struct {
	StatusCode int            `json:"statusCode"`
	Body       common.Payload `json:"body"`
}

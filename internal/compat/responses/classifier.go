package responses

import (
	"fmt"
	"net/http"
	"strings"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
)

const (
	OK          Class = "OK"
	ClientError Class = "CLIENT_ERROR"
	Transient   Class = "TRANSIENT"
	Deprecated  Class = "DEPRECATED"
	Outage      Class = "OUTAGE"
)

// Class drives the caller's retry decision for an upstream response.
type Class string

func (c Class) Retryable() bool {
	return c == Transient || c == Outage
}

// Classify maps a status code to a Class. Codes outside the explicit table
// fall back to CLIENT_ERROR for 4xx, OUTAGE for 5xx and CLIENT_ERROR for
// everything else, since such a body can never be transformed and repeating
// the request does not change that. The body is accepted for symmetry with
// NormalizeError and does not influence the result.
func Classify(statusCode int, _ common.Payload) Class {
	switch {
	case statusCode >= 200 && statusCode <= 299:
		return OK
	case statusCode == http.StatusBadRequest, statusCode == http.StatusNotFound:
		return ClientError
	case statusCode == http.StatusTooManyRequests:
		return Transient
	case statusCode == http.StatusGone:
		return Deprecated
	case statusCode >= 500 && statusCode <= 599:
		return Outage
	case statusCode >= 400 && statusCode <= 499:
		return ClientError
	}
	return ClientError
}

type fieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e fieldError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Detail
}

type errorBody struct {
	Error   any          `json:"error"`
	Code    any          `json:"code"`
	Message string       `json:"message"`
	Detail  string       `json:"detail"`
	Errors  []fieldError `json:"errors"`
}

// NormalizeError flattens v2/v3 error bodies into the v1 {error, message}
// shape. It never fails: unreadable bodies fall back to the status code.
func NormalizeError(statusCode int, body common.Payload) v1protocol.ErrorResponse {
	res := v1protocol.ErrorResponse{
		Error:   fmt.Sprintf("HTTP_%d", statusCode),
		Message: http.StatusText(statusCode),
	}
	if res.Message == "" {
		res.Message = "An error occurred"
	}
	if len(body) == 0 {
		return res
	}

	var parsed errorBody
	if err := body.DecodeInto(&parsed); err != nil {
		parsed = errorBody{}
		if list, ok := body["errors"].([]any); ok {
			parsed.Errors = looseErrors(list)
		}
	}

	switch {
	case asText(parsed.Error) != "":
		res.Error = asText(parsed.Error)
	case asText(parsed.Code) != "":
		res.Error = asText(parsed.Code)
	case firstCode(parsed.Errors) != "":
		res.Error = firstCode(parsed.Errors)
	}

	switch {
	case parsed.Message != "":
		res.Message = parsed.Message
	case parsed.Detail != "":
		res.Message = parsed.Detail
	case len(parsed.Errors) > 0:
		messages := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			if text := e.text(); text != "" {
				messages = append(messages, text)
			}
		}
		if len(messages) > 0 {
			res.Message = strings.Join(messages, "; ")
		}
	}
	return res
}

func firstCode(errs []fieldError) string {
	for _, e := range errs {
		if e.Code != "" {
			return e.Code
		}
	}
	return ""
}

// looseErrors salvages code/message pairs from an errors list whose entries
// do not all decode cleanly.
func looseErrors(list []any) []fieldError {
	res := make([]fieldError, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			res = append(res, fieldError{Message: v})
		case map[string]any:
			res = append(res, fieldError{
				Code:    asText(v["code"]),
				Message: asText(v["message"]),
				Detail:  asText(v["detail"]),
			})
		}
	}
	return res
}

func asText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

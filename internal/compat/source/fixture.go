package source

import (
	"context"
	"fmt"
	"net/http"

	"order-compat/internal/common"
)

type Fixture struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

// FixtureSource answers from a fixed table. Requests missing from the table
// get a 404 with a NOT_FOUND error body.
type FixtureSource struct {
	responses map[string]Response
}

func NewFixtureSource(fixtures ...Fixture) *FixtureSource {
	responses := make(map[string]Response, len(fixtures))
	for _, f := range fixtures {
		responses[f.Request.Key()] = f.Response
	}
	return &FixtureSource{
		responses: responses,
	}
}

func (s *FixtureSource) Fetch(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, fmt.Errorf("fixture fetch canceled: %w", err)
	}
	resp, ok := s.responses[req.Key()]
	if !ok {
		return Response{
			StatusCode: http.StatusNotFound,
			Body: common.Payload{
				"error":   "NOT_FOUND",
				"message": "no fixture for " + req.Key(),
			},
		}, nil
	}
	return resp, nil
}

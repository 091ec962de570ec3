package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"order-compat/internal/common"
	"order-compat/internal/compat/responses"
	"order-compat/pkg/logging"
	"order-compat/pkg/timeutils"
)

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RetryDelays []time.Duration
}

// HTTPSource fetches payloads from an upstream API. Transport errors and
// responses classified as retryable are retried over Config.RetryDelays; the
// last upstream response is returned once the attempts run out.
type HTTPSource struct {
	client *resty.Client
	cfg    Config
	logger *logging.ZapLogger
}

func NewHTTPSource(cfg Config, logger *logging.ZapLogger) *HTTPSource {
	client := resty.New().SetBaseURL(cfg.BaseURL)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &HTTPSource{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, req Request) (Response, error) {
	delays := s.cfg.RetryDelays
	if len(delays) == 0 {
		delays = []time.Duration{0}
	}

	attempt := 0
	resp, err := timeutils.Retry(
		ctx,
		delays,
		func(ctx context.Context) (Response, error) {
			attempt++
			return s.fetchOnce(ctx, req)
		},
		func(resp Response, err error) bool {
			if err != nil {
				s.logger.WarnCtx(ctx, "upstream request failed",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				return true
			}
			class := responses.Classify(resp.StatusCode, resp.Body)
			if class.Retryable() {
				s.logger.WarnCtx(ctx, "upstream response is retryable",
					zap.Int("attempt", attempt),
					zap.Int("status", resp.StatusCode),
					zap.String("class", string(class)),
				)
				return true
			}
			return false
		},
	)
	if err != nil {
		if errors.Is(err, timeutils.ErrAllAttemptsFailed) && resp.StatusCode != 0 {
			return resp, nil
		}
		return Response{}, fmt.Errorf("fetch %s failed: %w", req.Key(), err)
	}
	return resp, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context, req Request) (Response, error) {
	method := req.Method
	if method == "" {
		method = resty.MethodGet
	}
	resp, err := s.client.
		R().
		SetContext(ctx).
		SetQueryParams(req.Query).
		Execute(method, req.Path)
	if err != nil {
		return Response{}, fmt.Errorf("%s request failed: %w", method, err)
	}

	res := Response{
		StatusCode: resp.StatusCode(),
	}
	if len(resp.Body()) == 0 {
		return res, nil
	}
	body, err := common.DecodePayloadBytes(resp.Body())
	if err != nil {
		s.logger.DebugCtx(ctx, "upstream body is not a JSON object",
			zap.Int("status", res.StatusCode),
			zap.Error(err),
		)
		return res, nil
	}
	res.Body = body
	return res, nil
}

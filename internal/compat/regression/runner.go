package regression

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"order-compat/internal/common"
	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/dates"
	"order-compat/internal/compat/responses"
	"order-compat/internal/compat/source"
	"order-compat/internal/compat/transform"
	"order-compat/internal/compat/version"
	"order-compat/pkg/logging"
)

var legacyFields = []string{"orderId", "status", "totalPrice", "items", "customerId", "customerName", "createdAt"}

type Result struct {
	Name    string
	OK      bool
	Details string
}

type Report struct {
	Results []Result
}

func (r Report) Passed() int {
	passed := 0
	for _, res := range r.Results {
		if res.OK {
			passed++
		}
	}
	return passed
}

func (r Report) Failed() bool {
	return r.Passed() != len(r.Results)
}

// Write prints one PASS/FAIL line per case followed by a summary.
func (r Report) Write(w io.Writer) error {
	for _, res := range r.Results {
		state := "PASS"
		if !res.OK {
			state = "FAIL"
		}
		line := state + " - " + res.Name
		if res.Details != "" {
			line += " :: " + res.Details
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nSummary: %d/%d PASS\n", r.Passed(), len(r.Results))
	return err
}

type Runner struct {
	source      source.Source
	transformer *transform.Transformer
	logger      *logging.ZapLogger
}

func NewRunner(src source.Source, transformer *transform.Transformer, logger *logging.ZapLogger) *Runner {
	return &Runner{
		source:      src,
		transformer: transformer,
		logger:      logger,
	}
}

func (r *Runner) Run(ctx context.Context, suite Suite) Report {
	report := Report{Results: make([]Result, 0, len(suite.Cases))}
	for _, c := range suite.Cases {
		caseCtx := logging.WithContextFields(ctx, zap.String("case", c.ID))
		res := r.runCase(caseCtx, c)
		if !res.OK {
			r.logger.WarnCtx(caseCtx, "case failed", zap.String("details", res.Details))
		} else {
			r.logger.DebugCtx(caseCtx, "case passed", zap.String("details", res.Details))
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	resp, err := r.source.Fetch(ctx, c.Request)
	if err != nil {
		return Result{Name: c.ID, Details: err.Error()}
	}

	chk := &checker{}
	class := responses.Classify(resp.StatusCode, resp.Body)
	if c.Expect.Class != "" {
		chk.equal("class", string(c.Expect.Class), string(class))
	}

	if class != responses.OK {
		normalized := responses.NormalizeError(resp.StatusCode, resp.Body)
		chk.check(normalized.Error != "", "normalized error code is empty")
		if c.Expect.Error != "" {
			chk.equal("error", c.Expect.Error, normalized.Error)
		}
		return chk.result(c.ID, fmt.Sprintf("class=%s error=%s", class, normalized.Error))
	}

	if c.Expect.Version != "" {
		v, err := version.Detect(resp.Body)
		if err != nil {
			chk.failf("detect: %v", err)
		} else {
			chk.equal("version", string(c.Expect.Version), string(v))
		}
	}

	order, trail, err := r.transformer.ToLegacy(resp.Body)
	if err != nil {
		chk.failf("transform: %v", err)
		return chk.result(c.ID, "")
	}
	for _, warning := range trail.Warnings {
		r.logger.DebugCtx(ctx, "transformation warning", zap.String("warning", warning))
	}

	chk.legacyShape(order)
	if c.Expect.Status != "" {
		chk.equal("status", string(c.Expect.Status), string(order.Status))
	}
	if c.Expect.TotalPrice != nil {
		chk.equal("totalPrice", c.Expect.TotalPrice.StringFixed(2), order.TotalPrice.StringFixed(2))
	}
	if c.Expect.CreatedAt != "" {
		chk.equal("createdAt", c.Expect.CreatedAt, order.CreatedAt)
	}
	if c.Expect.Warnings != nil {
		chk.equal("warnings", fmt.Sprint(*c.Expect.Warnings), fmt.Sprint(trail.HasWarnings()))
	}
	if c.Expect.Idempotent != nil {
		idempotent, err := r.transformer.CheckIdempotent(resp.Body)
		if err != nil {
			chk.failf("idempotency: %v", err)
		} else {
			chk.equal("idempotent", fmt.Sprint(*c.Expect.Idempotent), fmt.Sprint(idempotent))
		}
	}

	return chk.result(c.ID, fmt.Sprintf("status=%s totalPrice=%s", order.Status, order.TotalPrice.StringFixed(2)))
}

type checker struct {
	failures []string
}

func (c *checker) failf(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}

func (c *checker) check(ok bool, failure string) {
	if !ok {
		c.failures = append(c.failures, failure)
	}
}

func (c *checker) equal(field, want, got string) {
	if want != got {
		c.failf("%s: expected %s, got %s", field, want, got)
	}
}

// legacyShape checks the order the way a v1 consumer reads it: as JSON.
func (c *checker) legacyShape(order v1protocol.Order) {
	body, err := common.ToPayload(order)
	if err != nil {
		c.failf("encode: %v", err)
		return
	}
	for _, field := range legacyFields {
		c.check(body.Has(field), "missing field "+field)
	}
	c.check(!body.Has("data"), "not unwrapped")
	c.check(body.IsList("items"), "items is not a list")
	c.check(order.Status.Valid(), "invalid status "+string(order.Status))
	if _, err := dates.Normalize(order.CreatedAt); err != nil || len(order.CreatedAt) != len(dates.Layout) {
		c.failf("createdAt is not %s: %q", dates.Layout, order.CreatedAt)
	}
}

func (c *checker) result(name, details string) Result {
	if len(c.failures) > 0 {
		return Result{Name: name, Details: strings.Join(c.failures, "; ")}
	}
	return Result{Name: name, OK: true, Details: details}
}

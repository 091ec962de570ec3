package regression

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"order-compat/internal/common/v1protocol"
	"order-compat/internal/compat/responses"
	"order-compat/internal/compat/source"
	"order-compat/internal/compat/version"
)

//go:embed default-suite.json
var defaultSuite []byte

type Suite struct {
	Cases []Case `json:"cases"`
}

// Case is one upstream request with what the legacy consumer must see.
// Response is the canned upstream reply; it is absent when the suite runs
// against a live upstream.
type Case struct {
	ID       string           `json:"id"`
	Request  source.Request   `json:"request"`
	Response *source.Response `json:"response,omitempty"`
	Expect   Expect           `json:"expect"`
}

// Expect lists checks for a case. Unset fields are not checked.
type Expect struct {
	Class      responses.Class   `json:"class,omitempty"`
	Version    version.Version   `json:"version,omitempty"`
	Status     v1protocol.Status `json:"status,omitempty"`
	TotalPrice *decimal.Decimal  `json:"totalPrice,omitempty"`
	CreatedAt  string            `json:"createdAt,omitempty"`
	Error      string            `json:"error,omitempty"`
	Warnings   *bool             `json:"warnings,omitempty"`
	Idempotent *bool             `json:"idempotent,omitempty"`
}

func LoadSuite(r io.Reader) (Suite, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var suite Suite
	if err := decoder.Decode(&suite); err != nil {
		return Suite{}, fmt.Errorf("failed to decode suite: %w", err)
	}
	seen := make(map[string]bool, len(suite.Cases))
	for _, c := range suite.Cases {
		if c.ID == "" {
			return Suite{}, errors.New("suite case without id")
		}
		if seen[c.ID] {
			return Suite{}, fmt.Errorf("duplicate suite case %q", c.ID)
		}
		seen[c.ID] = true
	}
	return suite, nil
}

// DefaultSuite returns the built-in migration cases covering v2 and v3
// payloads and the error formats of every version.
func DefaultSuite() (Suite, error) {
	return LoadSuite(bytes.NewReader(defaultSuite))
}

// Fixtures returns the canned replies of the suite for a source.FixtureSource.
func (s Suite) Fixtures() []source.Fixture {
	res := make([]source.Fixture, 0, len(s.Cases))
	for _, c := range s.Cases {
		if c.Response == nil {
			continue
		}
		res = append(res, source.Fixture{
			Request:  c.Request,
			Response: *c.Response,
		})
	}
	return res
}

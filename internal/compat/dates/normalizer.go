package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the v1 calendar date format.
const Layout = "2006-01-02"

var (
	ErrMalformedDate = errors.New("malformed date")
)

// Normalize renders input as YYYY-MM-DD. RFC 3339 timestamps keep the
// calendar date of their own offset; no shift to UTC happens. A bare date is
// validated and returned unchanged.
func Normalize(input string) (string, error) {
	if len(input) == len(Layout) {
		if _, err := time.Parse(Layout, input); err != nil {
			return "", fmt.Errorf("%w: %q", ErrMalformedDate, input)
		}
		return input, nil
	}

	ts, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedDate, input)
	}
	return ts.Format(Layout), nil
}

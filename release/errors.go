package release

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned when a user supplied date matches none of
	// the accepted layouts or names an impossible calendar day.
	ErrInvalidDate = errors.New("invalid date")

	// ErrCatalogUnavailable wraps any failure of the external catalog query.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrNoReleases marks a day with nothing scheduled. It is an outcome,
	// not a failure: on-demand callers answer with an informational message
	// and the scheduler skips the post.
	ErrNoReleases = errors.New("no releases scheduled")
)

// InvalidDateError carries the rejected input.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: expected DD-MM-YYYY, DD/MM/YYYY or DD.MM.YYYY", e.Input)
}

// Is lets errors.Is(err, ErrInvalidDate) match.
func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDate }

// IsOutcome reports whether err describes a user-facing outcome (bad input,
// empty day) rather than a failure worth alerting on.
func IsOutcome(err error) bool {
	return errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrNoReleases)
}

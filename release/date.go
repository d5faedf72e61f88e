package release

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
// Day and month accept one or two digits.
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
}

// DateResolver turns an optional user date into a start-of-day instant.
type DateResolver struct {
	loc *time.Location
	now func() time.Time
}

// NewDateResolver returns a resolver bound to loc.
func NewDateResolver(loc *time.Location) *DateResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &DateResolver{loc: loc, now: time.Now}
}

// WithClock returns a copy of the resolver reading "now" from fn.
func (r *DateResolver) WithClock(fn func() time.Time) *DateResolver {
	cp := *r
	cp.now = fn
	return &cp
}

// Resolve returns 00:00 of the requested day in the resolver's location.
// An empty input means today.
func (r *DateResolver) Resolve(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StartOfDay(r.now(), r.loc), nil
	}
	for _, layout := range dateLayouts {
		// time.ParseInLocation rejects out-of-range days such as 31-02.
		t, err := time.ParseInLocation(layout, raw, r.loc)
		if err == nil {
			return StartOfDay(t, r.loc), nil
		}
	}
	return time.Time{}, &InvalidDateError{Input: raw}
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

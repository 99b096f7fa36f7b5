// Package clock supplies "today" in the business timezone.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type zoned struct{ loc *time.Location }

// New returns the wall clock in loc.
func New(loc *time.Location) Clock { return zoned{loc: loc} }

func (z zoned) Now() time.Time { return time.Now().In(z.loc) }

type fixed time.Time

// Fixed always returns t.
func Fixed(t time.Time) Clock { return fixed(t) }

func (f fixed) Now() time.Time { return time.Time(f) }

// Today is the current local calendar day as a UTC midnight, which is how
// dates are stored.
func Today(c Clock) time.Time {
	n := c.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Resolve maps "today", "tomorrow" or a YYYY-MM-DD string to a stored day.
func Resolve(c Clock, on string) (time.Time, bool) {
	switch on {
	case "", "today":
		return Today(c), true
	case "tomorrow":
		return Today(c).AddDate(0, 0, 1), true
	}
	t, err := time.Parse("2006-01-02", on)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

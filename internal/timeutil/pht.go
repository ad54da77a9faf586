package timeutil

import (
	"strings"
	"time"
)

// PHT is the Philippine Standard Time location (UTC+8)
var PHT *time.Location

func init() {
	var err error
	PHT, err = time.LoadLocation("Asia/Manila")
	if err != nil {
		// Fallback: create fixed zone if Asia/Manila not available
		PHT = time.FixedZone("PHT", 8*60*60)
	}
}

// Clock supplies the current time. Services take a Clock so "today" checks
// can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in PHT.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return Now() }

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Now returns the current time in PHT
func Now() time.Time {
	return time.Now().In(PHT)
}

// StartOfDay returns the start of day (00:00:00) in PHT for the given time
func StartOfDay(t time.Time) time.Time {
	p := t.In(PHT)
	return time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, PHT)
}

// SameDay reports whether a and b fall on the same PHT calendar day.
// Two nil dates are equal; a nil and a non-nil date are not.
func SameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return StartOfDay(*a).Equal(StartOfDay(*b))
}

// AfterDay reports whether t falls on a later calendar day than ref.
func AfterDay(t, ref time.Time) bool {
	return StartOfDay(t).After(StartOfDay(ref))
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// ParseDate parses a calendar date. Timestamps are accepted and truncated to
// the PHT day they fall on.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, PHT)
		if err == nil {
			return StartOfDay(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseOptionalDate returns nil for a blank value.
func ParseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseScheduleDate extracts the date from a free-text schedule such as
// "2024-01-10 09:00 AM" by parsing its first token.
func ParseScheduleDate(schedule string) (time.Time, bool) {
	fields := strings.Fields(schedule)
	if len(fields) == 0 {
		return time.Time{}, false
	}
	t, err := ParseDate(fields[0])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatLocalDate renders a date the way notices shown to parishioners do (MM/DD/YYYY).
func FormatLocalDate(t time.Time) string {
	return t.In(PHT).Format(LocalDateLayout)
}

// Common layouts
const (
	DateLayout      = "2006-01-02"
	LocalDateLayout = "01/02/2006"
	DateTimeLayout  = "2006-01-02 15:04:05"
)

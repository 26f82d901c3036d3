package model

import "time"

// DateFormat is the canonical YYYY-MM-DD layout used for all civil dates.
// Dates in this format compare correctly as plain strings, which is relied
// on throughout the price history and valuation code.
const DateFormat = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// FormatDate renders t as a YYYY-MM-DD string in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// Today returns the current UTC date as a YYYY-MM-DD string.
func Today() string {
	return FormatDate(time.Now())
}

// IsValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// DaysBetween returns the number of whole calendar days from start to end.
// Returns 0 when end is not after start.
func DaysBetween(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DateRange returns every calendar date from start to end inclusive.
// Returns nil if either date is malformed or start is after end.
func DateRange(start, end string) []string {
	from, err := ParseDate(start)
	if err != nil {
		return nil
	}
	to, err := ParseDate(end)
	if err != nil || from.After(to) {
		return nil
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// Package daterange expands partial dates (YYYY, YYYY-MM, YYYY-MM-DD) into
// inclusive calendar date ranges.
package daterange

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/bryan-cox/taimio-report/internal/model"
)

var dateRegex = regexp.MustCompile(`^(\d+)(?:-(0\d|1[0-2])(?:-([0-2]\d|3[0-1]))?)?$`)

// InvalidDateError is returned when a date string does not match the accepted grammar.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("Invalid date %s, use YYYY, YYYY-MM or YYYY-MM-DD", e.Value)
}

// Granularity is the precision a partial date was written with.
type Granularity int

const (
	Year Granularity = iota
	Month
	Day
)

// Partial is a parsed partial date. Month and Day are zero when absent.
type Partial struct {
	Year        int
	Month       time.Month
	Day         int
	Granularity Granularity
}

// First returns the first calendar date covered by p.
func (p Partial) First() time.Time {
	month, day := p.Month, p.Day
	if p.Granularity < Month {
		month = time.January
	}
	if p.Granularity < Day {
		day = 1
	}
	return time.Date(p.Year, month, day, 0, 0, 0, 0, time.UTC)
}

// Last returns the last calendar date covered by p.
func (p Partial) Last() time.Time {
	switch p.Granularity {
	case Year:
		return time.Date(p.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	case Month:
		return lastDayOfMonth(p.Year, p.Month)
	default:
		return time.Date(p.Year, p.Month, p.Day, 0, 0, 0, 0, time.UTC)
	}
}

// Parse parses s as YYYY, YYYY-MM or YYYY-MM-DD.
// Months and days of 00, days past the end of the month, and years outside
// 1..9999 are rejected.
func Parse(s string) (Partial, error) {
	m := dateRegex.FindStringSubmatch(s)
	if m == nil {
		return Partial{}, &InvalidDateError{Value: s}
	}

	year, err := strconv.Atoi(m[1])
	if err != nil || year < 1 || year > 9999 {
		return Partial{}, &InvalidDateError{Value: s}
	}
	p := Partial{Year: year, Granularity: Year}

	if m[2] != "" {
		month, _ := strconv.Atoi(m[2])
		if month == 0 {
			return Partial{}, &InvalidDateError{Value: s}
		}
		p.Month = time.Month(month)
		p.Granularity = Month
	}

	if m[3] != "" {
		day, _ := strconv.Atoi(m[3])
		if day == 0 || day > lastDayOfMonth(p.Year, p.Month).Day() {
			return Partial{}, &InvalidDateError{Value: s}
		}
		p.Day = day
		p.Granularity = Day
	}

	return p, nil
}

// Resolve turns a start date and an optional end date into an inclusive range.
// The start is the first day covered by start. The end is the last day covered
// by end, or by start when end is empty.
func Resolve(start, end string) (model.DateRange, error) {
	from, err := Parse(start)
	if err != nil {
		return model.DateRange{}, err
	}

	to := from
	if end != "" {
		to, err = Parse(end)
		if err != nil {
			return model.DateRange{}, err
		}
	}

	return model.DateRange{Start: from.First(), End: to.Last()}, nil
}

func lastDayOfMonth(year int, month time.Month) time.Time {
	// Day 0 of the next month normalises to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

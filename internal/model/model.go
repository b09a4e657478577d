// Package model defines the core data structures for taimio-report.
package model

import "time"

// DateLayout is the calendar date format used for API parameters and report output.
const DateLayout = "2006-01-02"

// OtherProject is the project name given to activities whose tags match no mapping entry.
const OtherProject = "Other"

// Activity represents a single tracked unit of work as returned by the API.
// Tags keep the order the API returned them in; resolution depends on it.
type Activity struct {
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Date returns the calendar date of StartedAt in the activity's own offset,
// as midnight UTC so dates compare and sort independently of the offset.
func (a Activity) Date() time.Time {
	y, m, d := a.StartedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HasTag reports whether the activity carries the given tag.
func (a Activity) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DateRange is an inclusive range of calendar dates. Both ends are midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// ProjectResolver maps an ordered tag list to a project name.
type ProjectResolver interface {
	Resolve(tags []string) string
}

// DayRow is one line of the day report.
type DayRow struct {
	Date     time.Time
	Hours    float64  // unrounded
	Projects []string // deduplicated, sorted ascending
}

// ProjectRow is one line of the project report.
type ProjectRow struct {
	Date    time.Time
	Project string
	Hours   float64  // unrounded
	Titles  []string // deduplicated, first-seen order
}

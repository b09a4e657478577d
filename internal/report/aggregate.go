// Package report groups activities into day and project reports and renders them as text.
package report

import (
	"sort"
	"time"

	"github.com/bryan-cox/taimio-report/internal/model"
)

// DurationHours returns the elapsed hours between an activity's start and finish.
// Negative durations are returned as-is.
func DurationHours(a model.Activity) float64 {
	return a.FinishedAt.Sub(a.StartedAt).Seconds() / (60 * 60)
}

// Filter keeps activities carrying tag whose start date falls inside r.
// An empty tag matches every activity.
func Filter(activities []model.Activity, tag string, r model.DateRange) []model.Activity {
	var kept []model.Activity
	for _, activity := range activities {
		if tag != "" && !activity.HasTag(tag) {
			continue
		}
		if !r.Contains(activity.Date()) {
			continue
		}
		kept = append(kept, activity)
	}
	return kept
}

// groupByDate buckets activities by the calendar date of StartedAt and returns
// the dates in ascending order. Activities keep their input order within a date.
func groupByDate(activities []model.Activity) ([]time.Time, map[time.Time][]model.Activity) {
	byDate := make(map[time.Time][]model.Activity)
	for _, activity := range activities {
		date := activity.Date()
		byDate[date] = append(byDate[date], activity)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates, byDate
}

// DayReport builds one row per date with the summed hours and the sorted set
// of projects worked on that day.
func DayReport(activities []model.Activity, resolver model.ProjectResolver) []model.DayRow {
	dates, byDate := groupByDate(activities)

	rows := make([]model.DayRow, 0, len(dates))
	for _, date := range dates {
		seen := make(map[string]bool)
		row := model.DayRow{Date: date}
		for _, activity := range byDate[date] {
			project := resolver.Resolve(activity.Tags)
			if !seen[project] {
				seen[project] = true
				row.Projects = append(row.Projects, project)
			}
			row.Hours += DurationHours(activity)
		}
		sort.Strings(row.Projects)
		rows = append(rows, row)
	}
	return rows
}

// DayTotal sums the unrounded hours of all rows.
func DayTotal(rows []model.DayRow) float64 {
	var total float64
	for _, row := range rows {
		total += row.Hours
	}
	return total
}

// ProjectReport builds one row per (date, project) pair. Dates ascend; projects
// within a date and titles within a project keep first-seen order.
func ProjectReport(activities []model.Activity, resolver model.ProjectResolver) []model.ProjectRow {
	dates, byDate := groupByDate(activities)

	var rows []model.ProjectRow
	for _, date := range dates {
		index := make(map[string]int) // project -> position in rows
		seenTitles := make(map[string]map[string]bool)

		for _, activity := range byDate[date] {
			project := resolver.Resolve(activity.Tags)
			i, exists := index[project]
			if !exists {
				i = len(rows)
				index[project] = i
				seenTitles[project] = make(map[string]bool)
				rows = append(rows, model.ProjectRow{Date: date, Project: project})
			}

			rows[i].Hours += DurationHours(activity)
			if !seenTitles[project][activity.Title] {
				seenTitles[project][activity.Title] = true
				rows[i].Titles = append(rows[i].Titles, activity.Title)
			}
		}
	}
	return rows
}

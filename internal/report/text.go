package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/bryan-cox/taimio-report/internal/model"
)

// FormatHours rounds hours to the nearest half hour and renders it with one
// decimal place and an "h" suffix, e.g. 1.26 -> "1.5h". Exact quarter hours
// round half to even, so 2.25 -> "2.0h" and 2.75 -> "3.0h".
func FormatHours(hours float64) string {
	rounded := math.RoundToEven(hours*2) / 2
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return fmt.Sprintf("%.1fh", rounded)
}

// PrintDayReport writes one line per day followed by the total. The total is
// the rounded sum of the unrounded row hours.
func PrintDayReport(out io.Writer, rows []model.DayRow) {
	for _, row := range rows {
		fmt.Fprintf(out, "%s %s %s\n",
			row.Date.Format(model.DateLayout),
			FormatHours(row.Hours),
			strings.Join(row.Projects, ", "))
	}
	fmt.Fprintf(out, "Total: %s\n", FormatHours(DayTotal(rows)))
}

// PrintProjectReport writes one line per (date, project) row. No total is printed.
func PrintProjectReport(out io.Writer, rows []model.ProjectRow) {
	for _, row := range rows {
		fmt.Fprintf(out, "%s %s %s (%s)\n",
			row.Date.Format(model.DateLayout),
			FormatHours(row.Hours),
			row.Project,
			strings.Join(row.Titles, ", "))
	}
}

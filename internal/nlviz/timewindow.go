package nlviz

import (
	"strings"
	"time"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
)

// TimeFilter narrows a dataset to an inclusive range over one datetime column.
// A nil bound is open.
type TimeFilter struct {
	DateColumn string     `json:"date_col" yaml:"date_col"`
	Start      *time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End        *time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// Apply returns the rows of ds inside the window. A nil filter returns ds.
func (f *TimeFilter) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if f == nil {
		return ds, nil
	}
	return ds.FilterTime(f.DateColumn, f.Start, f.End)
}

// ResolveTimeWindow finds a relative or absolute date range in prompt and
// binds it to the first datetime column. Bounds are computed in now's location.
// It returns nil when there is no datetime column or no recognised phrase.
func ResolveTimeWindow(prompt string, datetimeCols []string, now time.Time) *TimeFilter {
	if len(datetimeCols) == 0 {
		return nil
	}
	p := strings.ToLower(prompt)
	loc := now.Location()
	y, m, d := now.Date()
	window := func(start, end time.Time) *TimeFilter {
		return &TimeFilter{DateColumn: datetimeCols[0], Start: &start, End: &end}
	}
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	switch {
	case strings.Contains(p, "last month"):
		end := monthStart.Add(-time.Second)
		return window(time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc), end)
	case strings.Contains(p, "this month"), strings.Contains(p, "current month"):
		return window(monthStart, now)
	case strings.Contains(p, "last week"):
		sinceMonday := (int(now.Weekday()) + 6) % 7
		start := time.Date(y, m, d-sinceMonday-7, 0, 0, 0, 0, loc)
		end := time.Date(y, m, d-sinceMonday-1, 23, 59, 59, 0, loc)
		return window(start, end)
	case strings.Contains(p, "last year"):
		return window(yearBounds(y-1, loc))
	}
	if yr, ok := ExtractNamedYear(p); ok {
		return window(yearBounds(yr, loc))
	}
	return nil
}

func yearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc), time.Date(year, time.December, 31, 23, 59, 59, 0, loc)
}

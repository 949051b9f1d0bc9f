package nlviz

import (
	"strings"
	"time"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

// request holds everything rules need about one prompt. It is built once by
// newRequest and never modified afterwards.
type request struct {
	prompt string
	lower  string
	ds     *dataset.Dataset
	// sch is the caller's schema plus any datetime column detected for this request.
	sch         schema.Schema
	numeric     []string
	categorical []string
	datetime    []string
	metric      string
	category    string
	topN        int
	grain       chart.Grain
	window      *TimeFilter
}

func (in *Interpreter) newRequest(prompt string, ds *dataset.Dataset, sch schema.Schema, now time.Time) *request {
	r := &request{prompt: prompt, lower: strings.ToLower(prompt), ds: ds}
	eff := sch.Clone()
	if len(eff.Datetime) == 0 && ds != nil {
		for i, c := range eff.Categorical {
			if ratio, err := ds.DateRatio(c); err == nil && ratio >= in.dateThreshold {
				eff.Datetime = []string{c}
				eff.Categorical = append(eff.Categorical[:i:i], eff.Categorical[i+1:]...)
				break
			}
		}
	}
	r.sch = eff
	r.numeric = DeprioritizeIdentifierColumns(eff.Numeric)
	r.categorical = eff.Categorical
	r.datetime = eff.Datetime

	r.metric = pickMetric(r.lower, r.numeric)
	r.category = pickCategory(r.lower, r.categorical, r.numeric)

	r.topN = in.defaultTopN
	if n, ok := ExtractNumber(r.lower); ok && n > 0 {
		r.topN = n
	}
	r.grain = detectGrain(r.lower)
	r.window = ResolveTimeWindow(r.lower, r.datetime, now)
	return r
}

func pickMetric(text string, numeric []string) string {
	if c, ok := MatchBySynonym(text, numeric, metricSynonyms); ok {
		return c
	}
	if len(numeric) > 0 {
		return numeric[0]
	}
	return ""
}

func pickCategory(text string, categorical, numeric []string) string {
	if m := byPhraseRe.FindStringSubmatch(text); m != nil {
		phrase := strings.TrimSpace(m[1])
		if c, ok := FindColumn(phrase, categorical); ok {
			return c
		}
		if c, ok := MatchBySynonym(phrase, categorical, categorySynonyms); ok {
			return c
		}
	}
	if c, ok := MatchBySynonym(text, categorical, categorySynonyms); ok {
		return c
	}
	if len(categorical) > 0 {
		return categorical[0]
	}
	if len(numeric) > 0 {
		return numeric[0]
	}
	return ""
}

func detectGrain(text string) chart.Grain {
	for _, cue := range grainCues {
		if containsAny(text, cue.words) {
			return cue.grain
		}
	}
	return chart.Month
}

func (r *request) hasMetricAndCategory() bool { return r.metric != "" && r.category != "" }

func (r *request) isTimeSeries() bool {
	if containsAny(r.lower, timeWords) {
		return true
	}
	return len(r.datetime) > 0 && containsAny(r.lower, timeHints)
}

// otherNumeric returns the first numeric column other than col, or col itself.
func (r *request) otherNumeric(col string) string {
	for _, c := range r.numeric {
		if c != col {
			return c
		}
	}
	return col
}

// otherCategorical returns the first categorical column other than col.
func (r *request) otherCategorical(col string) string {
	for _, c := range r.categorical {
		if c != col {
			return c
		}
	}
	return ""
}

// versus resolves an "A vs B" phrase to two numeric columns.
func (r *request) versus() (x, y string, ok bool) {
	m := versusRe.FindStringSubmatch(r.prompt)
	if m == nil || len(r.numeric) == 0 {
		return "", "", false
	}
	resolve := func(phrase string) string {
		if c, ok := FindColumn(phrase, r.numeric); ok {
			return c
		}
		if c, ok := MatchBySynonym(phrase, r.numeric, metricSynonyms); ok {
			return c
		}
		return ""
	}
	x = resolve(strings.TrimSpace(m[1]))
	if x == "" {
		x = r.numeric[0]
	}
	y = resolve(strings.TrimSpace(m[2]))
	if y == "" {
		y = x
		if len(r.numeric) > 1 {
			y = r.numeric[1]
		}
	}
	return x, y, true
}

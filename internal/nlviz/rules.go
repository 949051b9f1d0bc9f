package nlviz

import (
	"fmt"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
)

// A rule recognises one kind of request. Rules are tried in order and the
// first match decides the chart; a later rule never sees a request that an
// earlier one matched.
type rule struct {
	name  string
	match func(r *request) bool
	build func(r *request) (chart.Spec, string, error)
}

var rules = []rule{
	{"explicit-pie", explicit(pieWords), buildExplicitPie},
	{"explicit-bar", explicit(barWords), buildExplicitBar},
	{"explicit-scatter", explicit(scatterWords), buildExplicitScatter},
	{"explicit-line", explicit(lineWords), buildExplicitLine},
	{"explicit-heatmap", explicit(heatmapWords), buildExplicitHeatmap},
	{"composition", func(r *request) bool {
		return containsAny(r.lower, shareWords) && r.hasMetricAndCategory()
	}, buildComposition},
	{"trend", func(r *request) bool {
		return r.isTimeSeries() && len(r.datetime) > 0 && r.metric != ""
	}, buildTrend},
	{"ranking", func(r *request) bool {
		return containsAny(r.lower, rankingWords) && r.hasMetricAndCategory()
	}, buildRanking},
	{"versus", func(r *request) bool {
		_, _, ok := r.versus()
		return ok
	}, buildVersus},
	{"relationship", func(r *request) bool {
		return containsAny(r.lower, relationWords) && len(r.numeric) >= 2
	}, buildRelationship},
	{"fallback", func(*request) bool { return true }, buildFallback},
}

func explicit(words []string) func(*request) bool {
	return func(r *request) bool {
		return containsAny(r.lower, words) && r.hasMetricAndCategory()
	}
}

// pieFocus is the column whose cardinality limits a pie chart.
func pieFocus(s chart.Spec) string {
	if p, ok := s.(chart.Pie); ok {
		return p.Category
	}
	return ""
}

func buildExplicitPie(r *request) (chart.Spec, string, error) {
	return chart.Pie{
			Category:    r.category,
			Value:       r.metric,
			Aggregation: chart.Sum,
			TopN:        r.topN,
			Title:       fmt.Sprintf("Top %d %s share of %s", r.topN, r.category, r.metric),
		},
		fmt.Sprintf("Explicit pie chart: top %d '%s' of '%s'.", r.topN, r.category, r.metric), nil
}

func buildExplicitBar(r *request) (chart.Spec, string, error) {
	return chart.Bar{
			X:           r.category,
			Y:           r.metric,
			Aggregation: chart.Sum,
			TopN:        r.topN,
			Title:       fmt.Sprintf("Top %d %s by %s", r.topN, r.category, r.metric),
		},
		fmt.Sprintf("Explicit bar chart: top %d '%s' by '%s'.", r.topN, r.category, r.metric), nil
}

func buildExplicitScatter(r *request) (chart.Spec, string, error) {
	x, y, ok := r.versus()
	if !ok {
		x, y = r.metric, r.otherNumeric(r.metric)
	}
	return chart.Scatter{X: x, Y: y, Title: fmt.Sprintf("%s vs %s", y, x)},
		fmt.Sprintf("Explicit scatter plot: '%s' vs '%s'.", y, x), nil
}

func buildExplicitLine(r *request) (chart.Spec, string, error) {
	var x string
	if len(r.datetime) > 0 {
		x = r.datetime[0]
	}
	return chart.TimeSeries{
			X:           x,
			Y:           r.metric,
			Aggregation: chart.Sum,
			Grain:       r.grain,
			Title:       fmt.Sprintf("%s over time", r.metric),
		},
		fmt.Sprintf("Explicit line chart: '%s' over time with grain %s.", r.metric, r.grain), nil
}

func buildExplicitHeatmap(r *request) (chart.Spec, string, error) {
	y := r.otherCategorical(r.category)
	return chart.Heatmap{
			X:           r.category,
			Y:           y,
			Value:       r.metric,
			Aggregation: chart.Sum,
			Title:       fmt.Sprintf("%s by %s and %s", r.metric, y, r.category),
		},
		fmt.Sprintf("Explicit heatmap: '%s' across '%s' and '%s'.", r.metric, r.category, y), nil
}

func buildComposition(r *request) (chart.Spec, string, error) {
	return chart.Pie{
			Category:    r.category,
			Value:       r.metric,
			Aggregation: chart.Sum,
			Title:       fmt.Sprintf("%s share of %s", r.category, r.metric),
		},
		fmt.Sprintf("Detected composition (pie) for '%s' of '%s'.", r.category, r.metric), nil
}

func buildTrend(r *request) (chart.Spec, string, error) {
	return chart.TimeSeries{
			X:           r.datetime[0],
			Y:           r.metric,
			Aggregation: chart.Sum,
			Grain:       r.grain,
			Title:       fmt.Sprintf("%s over time", r.metric),
		},
		fmt.Sprintf("Detected time series for metric '%s' with grain %s.", r.metric, r.grain), nil
}

func buildRanking(r *request) (chart.Spec, string, error) {
	return chart.Bar{
			X:           r.category,
			Y:           r.metric,
			Aggregation: chart.Sum,
			TopN:        r.topN,
			Title:       fmt.Sprintf("Top %d %s by %s", r.topN, r.category, r.metric),
		},
		fmt.Sprintf("Detected top %d by '%s' for metric '%s'.", r.topN, r.category, r.metric), nil
}

func buildVersus(r *request) (chart.Spec, string, error) {
	x, y, _ := r.versus()
	return chart.Scatter{X: x, Y: y, Title: fmt.Sprintf("%s vs %s", y, x)},
		fmt.Sprintf("Detected scatter of '%s' vs '%s'.", y, x), nil
}

func buildRelationship(r *request) (chart.Spec, string, error) {
	x := r.metric
	if x == "" {
		x = r.numeric[0]
	}
	y := r.otherNumeric(x)
	return chart.Scatter{X: x, Y: y, Title: fmt.Sprintf("%s vs %s", y, x)},
		fmt.Sprintf("Detected scatter relationship between '%s' and '%s'.", y, x), nil
}

func buildFallback(r *request) (chart.Spec, string, error) {
	switch {
	case r.hasMetricAndCategory():
		return chart.Bar{
				X:           r.category,
				Y:           r.metric,
				Aggregation: chart.Sum,
				TopN:        chart.DefaultTopN,
				Title:       fmt.Sprintf("%s by %s", r.metric, r.category),
			},
			fmt.Sprintf("Defaulted to bar chart: '%s' by '%s'.", r.metric, r.category), nil
	case r.category != "" && len(r.numeric) > 0:
		return chart.Pie{
				Category:    r.category,
				Value:       r.numeric[0],
				Aggregation: chart.Sum,
				Title:       fmt.Sprintf("%s share", r.category),
			},
			fmt.Sprintf("Defaulted to pie: '%s' share of '%s'.", r.category, r.numeric[0]), nil
	case len(r.numeric) >= 2:
		x, y := r.numeric[0], r.numeric[1]
		return chart.Scatter{X: x, Y: y, Title: fmt.Sprintf("%s vs %s", y, x)},
			fmt.Sprintf("Defaulted to scatter: '%s' vs '%s'.", y, x), nil
	}
	return nil, "", &UnsuitableChartError{
		Requirement: "columns",
		Message:     "Could not determine a suitable chart from the prompt and dataset schema",
	}
}

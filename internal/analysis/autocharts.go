package analysis

import (
	"fmt"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

const (
	autoBarMinDistinct = 2
	autoBarMaxDistinct = 50
)

// AutoCharts proposes up to three charts for a dataset without a prompt:
// a daily trend, a top-10 ranking and the most correlated numeric pair.
func AutoCharts(ds *dataset.Dataset, sch schema.Schema) []chart.Config {
	out := []chart.Config{}
	if len(sch.Numeric) == 0 {
		return out
	}
	num := sch.Numeric[0]

	if len(sch.Datetime) > 0 {
		out = append(out, chart.Config{Spec: chart.TimeSeries{
			X: sch.Datetime[0], Y: num, Aggregation: chart.Sum, Grain: chart.Day,
			Title: fmt.Sprintf("%s over time", num),
		}})
	}

	for _, name := range sch.Categorical {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		n := c.Distinct()
		if n < autoBarMinDistinct || n > autoBarMaxDistinct {
			continue
		}
		out = append(out, chart.Config{Spec: chart.Bar{
			X: name, Y: num, Aggregation: chart.Sum, TopN: chart.DefaultTopN,
			Title: fmt.Sprintf("Top %d %s by %s", chart.DefaultTopN, name, num),
		}})
		break
	}

	if len(sch.Numeric) >= 2 {
		if pairs := topPairs(correlations(ds, sch.Numeric), 1); len(pairs) == 1 {
			p := pairs[0]
			out = append(out, chart.Config{Spec: chart.Scatter{
				X: p.A, Y: p.B, Title: fmt.Sprintf("%s vs %s", p.B, p.A),
			}})
		}
	}
	return out
}

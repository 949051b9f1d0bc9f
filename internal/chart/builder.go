package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

// BuildFigure builds a figure for an explicit spec, inferring the schema from ds.
func BuildFigure(ds *dataset.Dataset, spec Spec) (*Figure, error) {
	return Build(ds, schema.Infer(ds), spec)
}

// Build aggregates ds according to spec. Every column role must exist in ds
// and belong to the matching schema category; a datetime role also accepts a
// categorical column that parses as dates. Failures are *ConfigError.
func Build(ds *dataset.Dataset, sch schema.Schema, spec Spec) (*Figure, error) {
	if spec == nil {
		return nil, &ConfigError{Reason: "empty spec"}
	}
	if err := checkRoles(ds, sch, spec); err != nil {
		return nil, err
	}
	switch s := spec.(type) {
	case TimeSeries:
		return buildTimeSeries(ds, s)
	case Bar:
		topN := s.TopN
		if topN <= 0 {
			topN = DefaultTopN
		}
		return buildRanked(ds, PresetBar, KindBar, s.X, s.Y, aggOrSum(s.Aggregation), topN, titleOr(s.Title, s.Y+" by "+s.X))
	case Pie:
		return buildRanked(ds, PresetPie, KindPie, s.Category, s.Value, aggOrSum(s.Aggregation), s.TopN, titleOr(s.Title, s.Category+" share of "+s.Value))
	case Scatter:
		return buildScatter(ds, s)
	case Heatmap:
		return buildHeatmap(ds, s)
	}
	return nil, &ConfigError{Reason: fmt.Sprintf("unsupported preset %q", spec.Preset())}
}

func checkRoles(ds *dataset.Dataset, sch schema.Schema, spec Spec) error {
	for _, r := range spec.Roles() {
		if r.Column == "" {
			if r.Optional {
				continue
			}
			return &ConfigError{Preset: spec.Preset(), Reason: fmt.Sprintf("missing %s column", r.Name)}
		}
		if _, ok := ds.Column(r.Column); !ok {
			return &ConfigError{Preset: spec.Preset(), Reason: fmt.Sprintf("%s column %q not in dataset", r.Name, r.Column)}
		}
		if sch.Has(r.Category, r.Column) {
			continue
		}
		if r.Category == schema.Datetime && sch.Has(schema.Categorical, r.Column) {
			if ratio, _ := ds.DateRatio(r.Column); ratio >= schema.DefaultDateThreshold {
				continue
			}
		}
		return &ConfigError{Preset: spec.Preset(), Reason: fmt.Sprintf("%s column %q is not %s", r.Name, r.Column, r.Category)}
	}
	return nil
}

func aggOrSum(a Aggregation) Aggregation {
	if a == "" {
		return Sum
	}
	return a
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}

func valueLabel(col string, agg Aggregation) string {
	return fmt.Sprintf("%s (%s)", col, agg)
}

// buildRanked groups by key, reduces value and, when topN > 0, keeps the topN
// largest groups in descending order. Ties keep key order.
func buildRanked(ds *dataset.Dataset, p Preset, kind Kind, key, value string, agg Aggregation, topN int, title string) (*Figure, error) {
	groups, err := ds.GroupBy([]string{key}, value, agg)
	if err != nil {
		return nil, &ConfigError{Preset: p, Reason: err.Error()}
	}
	if topN > 0 {
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
		if len(groups) > topN {
			groups = groups[:topN]
		}
	}
	fig := &Figure{
		Preset: p,
		Kind:   kind,
		Title:  title,
		XAxis:  Axis{Field: key, Label: key},
		YAxis:  Axis{Field: value, Label: valueLabel(value, agg)},
		Table:  Table{Columns: []string{key, value}, Rows: make([][]any, 0, len(groups))},
	}
	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		fig.Table.Rows = append(fig.Table.Rows, []any{g.Keys[0], g.Value})
		points = append(points, Point{Label: g.Keys[0], Y: g.Value})
	}
	fig.Series = []Series{{Name: value, Points: points}}
	if kind == KindPie {
		fig.Colors = assignColors(len(points))
	} else {
		fig.Colors = assignColors(1)
	}
	return fig, nil
}

func buildTimeSeries(ds *dataset.Dataset, s TimeSeries) (*Figure, error) {
	grain := s.Grain
	if grain == "" {
		grain = Month
	}
	if !grain.Valid() {
		return nil, &ConfigError{Preset: PresetTimeSeries, Reason: fmt.Sprintf("unsupported time grain %q", s.Grain)}
	}
	agg := aggOrSum(s.Aggregation)
	src, _ := ds.Column(s.X)
	buckets := make([]time.Time, ds.Len())
	for i := range buckets {
		t, ok := src.Time(i)
		if !ok {
			continue
		}
		b, err := grain.Truncate(t)
		if err != nil {
			return nil, &ConfigError{Preset: PresetTimeSeries, Reason: err.Error()}
		}
		buckets[i] = b
	}
	bucketed, err := ds.WithColumn(dataset.NewTimes(s.X, buckets...))
	if err != nil {
		return nil, &ConfigError{Preset: PresetTimeSeries, Reason: err.Error()}
	}
	groups, err := bucketed.GroupBy([]string{s.X}, s.Y, agg)
	if err != nil {
		return nil, &ConfigError{Preset: PresetTimeSeries, Reason: err.Error()}
	}
	fig := &Figure{
		Preset: PresetTimeSeries,
		Kind:   KindLine,
		Title:  titleOr(s.Title, s.Y+" over time"),
		XAxis:  Axis{Field: s.X, Label: fmt.Sprintf("%s (%s)", s.X, grain)},
		YAxis:  Axis{Field: s.Y, Label: valueLabel(s.Y, agg)},
		Table:  Table{Columns: []string{s.X, s.Y}, Rows: make([][]any, 0, len(groups))},
		Colors: assignColors(1),
	}
	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		fig.Table.Rows = append(fig.Table.Rows, []any{g.Keys[0], g.Value})
		points = append(points, Point{Label: g.Keys[0], Y: g.Value})
	}
	fig.Series = []Series{{Name: s.Y, Points: points}}
	return fig, nil
}

func buildScatter(ds *dataset.Dataset, s Scatter) (*Figure, error) {
	xc, _ := ds.Column(s.X)
	yc, _ := ds.Column(s.Y)
	var cc *dataset.Column
	cols := []string{s.X, s.Y}
	if s.Color != "" {
		cc, _ = ds.Column(s.Color)
		cols = append(cols, s.Color)
	}
	fig := &Figure{
		Preset: PresetScatter,
		Kind:   KindScatter,
		Title:  titleOr(s.Title, s.Y+" vs "+s.X),
		XAxis:  Axis{Field: s.X, Label: s.X},
		YAxis:  Axis{Field: s.Y, Label: s.Y},
		Table:  Table{Columns: cols, Rows: [][]any{}},
	}
	bySeries := map[string][]Point{}
	var order []string
	for i := 0; i < ds.Len(); i++ {
		if xc.IsNull(i) || yc.IsNull(i) {
			continue
		}
		name := s.Y
		row := []any{xc.Number(i), yc.Number(i)}
		if cc != nil {
			if cc.IsNull(i) {
				continue
			}
			name = cc.Text(i)
			row = append(row, name)
		}
		fig.Table.Rows = append(fig.Table.Rows, row)
		x := xc.Number(i)
		if _, seen := bySeries[name]; !seen {
			order = append(order, name)
		}
		bySeries[name] = append(bySeries[name], Point{X: &x, Y: yc.Number(i)})
	}
	if cc != nil {
		sort.Strings(order)
	}
	fig.Series = make([]Series, 0, len(order))
	for _, name := range order {
		fig.Series = append(fig.Series, Series{Name: name, Points: bySeries[name]})
	}
	fig.Colors = assignColors(len(fig.Series))
	return fig, nil
}

func buildHeatmap(ds *dataset.Dataset, s Heatmap) (*Figure, error) {
	agg := aggOrSum(s.Aggregation)
	groups, err := ds.GroupBy([]string{s.Y, s.X}, s.Value, agg)
	if err != nil {
		return nil, &ConfigError{Preset: PresetHeatmap, Reason: err.Error()}
	}
	ys, xs := map[string]int{}, map[string]int{}
	m := &Matrix{}
	for _, g := range groups {
		if _, ok := ys[g.Keys[0]]; !ok {
			ys[g.Keys[0]] = 0
			m.YLabels = append(m.YLabels, g.Keys[0])
		}
		if _, ok := xs[g.Keys[1]]; !ok {
			xs[g.Keys[1]] = 0
			m.XLabels = append(m.XLabels, g.Keys[1])
		}
	}
	sort.Strings(m.YLabels)
	sort.Strings(m.XLabels)
	for i, l := range m.YLabels {
		ys[l] = i
	}
	for j, l := range m.XLabels {
		xs[l] = j
	}
	m.Values = make([][]float64, len(m.YLabels))
	for i := range m.Values {
		m.Values[i] = make([]float64, len(m.XLabels))
	}
	fig := &Figure{
		Preset: PresetHeatmap,
		Kind:   KindHeatmap,
		Title:  titleOr(s.Title, fmt.Sprintf("%s by %s and %s", s.Value, s.Y, s.X)),
		XAxis:  Axis{Field: s.X, Label: s.X},
		YAxis:  Axis{Field: s.Y, Label: s.Y},
		Table:  Table{Columns: []string{s.Y, s.X, s.Value}, Rows: make([][]any, 0, len(groups))},
		Matrix: m,
	}
	for _, g := range groups {
		m.Values[ys[g.Keys[0]]][xs[g.Keys[1]]] = g.Value
		fig.Table.Rows = append(fig.Table.Rows, []any{g.Keys[0], g.Keys[1], g.Value})
	}
	fig.Series = make([]Series, 0, len(m.YLabels))
	for i, yl := range m.YLabels {
		points := make([]Point, len(m.XLabels))
		for j, xl := range m.XLabels {
			points[j] = Point{Label: xl, Y: m.Values[i][j]}
		}
		fig.Series = append(fig.Series, Series{Name: yl, Points: points})
	}
	fig.Colors = assignColors(len(fig.Series))
	return fig, nil
}

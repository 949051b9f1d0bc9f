// Package chart turns declarative chart specs into aggregated tables and
// renderer-agnostic figure descriptions.
package chart

import (
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

// Preset names a chart archetype.
type Preset string

const (
	PresetTimeSeries Preset = "time_series"
	PresetBar        Preset = "bar"
	PresetPie        Preset = "pie"
	PresetScatter    Preset = "scatter"
	PresetHeatmap    Preset = "heatmap"
)

// Presets lists every preset in canonical order.
var Presets = []Preset{PresetTimeSeries, PresetBar, PresetPie, PresetScatter, PresetHeatmap}

// Label is the human wording used in messages.
func (p Preset) Label() string {
	switch p {
	case PresetTimeSeries:
		return "time series"
	case PresetBar:
		return "bar chart"
	case PresetPie:
		return "pie chart"
	case PresetScatter:
		return "scatter plot"
	case PresetHeatmap:
		return "heatmap"
	}
	return string(p)
}

// Aggregation reduces grouped values.
type Aggregation = dataset.Aggregation

const (
	Sum  = dataset.Sum
	Mean = dataset.Mean
)

// DefaultTopN is the bar chart truncation when none is given.
const DefaultTopN = 10

// Role binds one column of a spec to the schema category it must belong to.
type Role struct {
	Name     string
	Column   string
	Category schema.Category
	Optional bool
}

// Spec is the closed set of chart specs. Only the types in this package implement it.
type Spec interface {
	Preset() Preset
	Roles() []Role
	ChartTitle() string
	sealed()
}

// TimeSeries aggregates y per time bucket of x.
type TimeSeries struct {
	X           string
	Y           string
	Aggregation Aggregation
	Grain       Grain
	Title       string
}

// Bar ranks categories of x by the reduced y.
type Bar struct {
	X           string
	Y           string
	Aggregation Aggregation
	TopN        int
	Title       string
}

// Pie shows each category's part of the reduced value. TopN is optional.
type Pie struct {
	Category    string
	Value       string
	Aggregation Aggregation
	TopN        int
	Title       string
}

// Scatter plots raw x/y pairs, optionally split by a categorical color column.
type Scatter struct {
	X     string
	Y     string
	Color string
	Title string
}

// Heatmap reduces value over the x × y category grid.
type Heatmap struct {
	X           string
	Y           string
	Value       string
	Aggregation Aggregation
	Title       string
}

func (TimeSeries) Preset() Preset { return PresetTimeSeries }
func (Bar) Preset() Preset        { return PresetBar }
func (Pie) Preset() Preset        { return PresetPie }
func (Scatter) Preset() Preset    { return PresetScatter }
func (Heatmap) Preset() Preset    { return PresetHeatmap }

func (s TimeSeries) ChartTitle() string { return s.Title }
func (s Bar) ChartTitle() string        { return s.Title }
func (s Pie) ChartTitle() string        { return s.Title }
func (s Scatter) ChartTitle() string    { return s.Title }
func (s Heatmap) ChartTitle() string    { return s.Title }

func (TimeSeries) sealed() {}
func (Bar) sealed()        {}
func (Pie) sealed()        {}
func (Scatter) sealed()    {}
func (Heatmap) sealed()    {}

func (s TimeSeries) Roles() []Role {
	return []Role{
		{Name: "x", Column: s.X, Category: schema.Datetime},
		{Name: "y", Column: s.Y, Category: schema.Numeric},
	}
}

func (s Bar) Roles() []Role {
	return []Role{
		{Name: "x", Column: s.X, Category: schema.Categorical},
		{Name: "y", Column: s.Y, Category: schema.Numeric},
	}
}

func (s Pie) Roles() []Role {
	return []Role{
		{Name: "category", Column: s.Category, Category: schema.Categorical},
		{Name: "value", Column: s.Value, Category: schema.Numeric},
	}
}

func (s Scatter) Roles() []Role {
	return []Role{
		{Name: "x", Column: s.X, Category: schema.Numeric},
		{Name: "y", Column: s.Y, Category: schema.Numeric},
		{Name: "color", Column: s.Color, Category: schema.Categorical, Optional: true},
	}
}

func (s Heatmap) Roles() []Role {
	return []Role{
		{Name: "x", Column: s.X, Category: schema.Categorical},
		{Name: "y", Column: s.Y, Category: schema.Categorical},
		{Name: "value", Column: s.Value, Category: schema.Numeric},
	}
}

package nlviz

import (
	"fmt"
	"strings"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

// DefaultPieMaxCategories caps the distinct values a pie chart may show.
const DefaultPieMaxCategories = 50

// Cardinality counts distinct values per column. *dataset.Dataset satisfies it.
type Cardinality interface {
	Distinct(col string) (int, error)
}

// Fallback presets to suggest, most natural first.
var alternativesFor = map[chart.Preset][]chart.Preset{
	chart.PresetPie:        {chart.PresetBar, chart.PresetScatter, chart.PresetTimeSeries},
	chart.PresetBar:        {chart.PresetScatter, chart.PresetTimeSeries, chart.PresetPie},
	chart.PresetTimeSeries: {chart.PresetBar, chart.PresetPie, chart.PresetScatter},
	chart.PresetScatter:    {chart.PresetBar, chart.PresetPie, chart.PresetTimeSeries},
	chart.PresetHeatmap:    {chart.PresetBar, chart.PresetScatter, chart.PresetTimeSeries},
}

// feasible reports whether sch has the minimum columns p needs.
func feasible(p chart.Preset, sch schema.Schema) bool {
	nNum, nCat, nDate := len(sch.Numeric), len(sch.Categorical), len(sch.Datetime)
	switch p {
	case chart.PresetPie, chart.PresetBar:
		return nCat >= 1 && nNum >= 1
	case chart.PresetTimeSeries:
		return nDate >= 1 && nNum >= 1
	case chart.PresetScatter:
		return nNum >= 2
	case chart.PresetHeatmap:
		return nCat >= 2 && nNum >= 1
	}
	return false
}

// Validator checks that a dataset can support a preset.
type Validator struct {
	PieMaxCategories int
}

// CheckSuitability validates with the default pie limit.
func CheckSuitability(p chart.Preset, sch schema.Schema, ds Cardinality, focus string) error {
	return Validator{PieMaxCategories: DefaultPieMaxCategories}.Check(p, sch, ds, focus)
}

// Check returns nil when p is representable with sch, or an
// *UnsuitableChartError naming the unmet requirement. focus is the categorical
// column bound to a pie chart; when empty the first categorical column is
// checked. ds may be nil to skip the cardinality check.
func (v Validator) Check(p chart.Preset, sch schema.Schema, ds Cardinality, focus string) error {
	nNum, nCat, nDate := len(sch.Numeric), len(sch.Categorical), len(sch.Datetime)
	reject := func(req, msg string) error {
		alts := alternatives(p, sch)
		return &UnsuitableChartError{Preset: p, Requirement: req, Alternatives: alts, Message: msg + suggestion(alts)}
	}
	switch p {
	case chart.PresetPie:
		if nCat == 0 {
			return reject("categorical", "Pie charts need categorical data (like product names, brands, categories). Your dataset has no categorical columns.")
		}
		if nNum == 0 {
			return reject("numeric", "Pie charts need numeric values to show proportions. Your dataset has no numeric columns.")
		}
		if ds == nil {
			return nil
		}
		col := focus
		if col == "" {
			col = sch.Categorical[0]
		}
		n, err := ds.Distinct(col)
		if err != nil {
			return fmt.Errorf("count distinct %q: %w", col, err)
		}
		limit := v.PieMaxCategories
		if limit <= 0 {
			limit = DefaultPieMaxCategories
		}
		if n > limit {
			return &UnsuitableChartError{
				Preset:       p,
				Requirement:  "fewer categories",
				Alternatives: []chart.Preset{chart.PresetBar},
				Message: fmt.Sprintf("The category '%s' has %d unique values. Pie charts work best with fewer categories (under 20). Consider using a bar chart with 'top N' instead.",
					col, n),
			}
		}
	case chart.PresetBar:
		if nCat == 0 {
			return reject("categorical", "Bar charts need categorical data for the X-axis (like product names, regions, categories). Your dataset has no categorical columns.")
		}
		if nNum == 0 {
			return reject("numeric", "Bar charts need numeric values for the Y-axis. Your dataset has no numeric columns.")
		}
	case chart.PresetTimeSeries:
		if nDate == 0 {
			return reject("datetime", "Time series charts need a datetime column (like order dates or timestamps). Your dataset doesn't have any date columns.")
		}
		if nNum == 0 {
			return reject("numeric", "Time series charts need numeric values. Your dataset has no numeric columns.")
		}
	case chart.PresetScatter:
		if nNum < 2 {
			return reject("numeric", fmt.Sprintf("Scatter plots need at least 2 numeric columns to compare. Your dataset has only %d numeric column(s).", nNum))
		}
	case chart.PresetHeatmap:
		if nCat < 2 {
			return reject("categorical", fmt.Sprintf("Heatmaps need at least 2 categorical columns. Your dataset has %d.", nCat))
		}
		if nNum == 0 {
			return reject("numeric", "Heatmaps need numeric values. Your dataset has no numeric columns.")
		}
	default:
		return &chart.ConfigError{Preset: p, Reason: "unsupported preset"}
	}
	return nil
}

func alternatives(p chart.Preset, sch schema.Schema) []chart.Preset {
	var out []chart.Preset
	for _, alt := range alternativesFor[p] {
		if feasible(alt, sch) {
			out = append(out, alt)
		}
	}
	return out
}

func suggestion(alts []chart.Preset) string {
	switch len(alts) {
	case 0:
		return " Add a column of the missing type to chart this dataset."
	case 1:
		return fmt.Sprintf(" Try a %s instead.", alts[0].Label())
	}
	labels := make([]string, 0, 2)
	for _, a := range alts[:2] {
		labels = append(labels, a.Label())
	}
	return " Try a " + strings.Join(labels, " or ") + " instead."
}

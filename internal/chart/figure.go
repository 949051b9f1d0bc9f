package chart

// Kind is the drawing primitive a renderer should use.
type Kind string

const (
	KindLine    Kind = "line"
	KindBar     Kind = "bar"
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
	KindHeatmap Kind = "heatmap"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Figure is a declarative description of a chart for an external renderer.
type Figure struct {
	Preset Preset   `json:"preset"`
	Kind   Kind     `json:"kind"`
	Title  string   `json:"title"`
	XAxis  Axis     `json:"x_axis"`
	YAxis  Axis     `json:"y_axis"`
	Series []Series `json:"series"`
	Colors []string `json:"colors,omitempty"`
	Table  Table    `json:"table"`
	Matrix *Matrix  `json:"matrix,omitempty"`
}

// Axis binds an axis to a source column.
type Axis struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// Series is one drawable sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Point is a labelled value (bar, pie, line) or an x/y pair (scatter, where X is set).
type Point struct {
	Label string   `json:"label,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     float64  `json:"y"`
}

// Table is the aggregated data behind the figure.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Matrix is a pivoted heatmap grid: Values[i][j] belongs to YLabels[i] and XLabels[j].
type Matrix struct {
	XLabels []string    `json:"x_labels"`
	YLabels []string    `json:"y_labels"`
	Values  [][]float64 `json:"values"`
}

func assignColors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = defaultColors[i%len(defaultColors)]
	}
	return out
}

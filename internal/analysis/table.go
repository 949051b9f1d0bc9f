package analysis

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/clean"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

// Options controls profiling of a dataset.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the most frequent values listed per categorical column.
	TopValues int
	// GroupBy computes per-group summaries for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 5, Correlations: true}
}

// Report is a markdown-friendly profile of a tabular dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Groups   []GroupResult
	Corr     *CorrMatrix
	// TopPairs holds at most three correlation pairs, strongest first.
	TopPairs []PairCorr
	// Cleaning is the cleaning summary, when the data was cleaned first.
	Cleaning string
}

// ColumnSummary captures the schema category and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    schema.Category
	Unit    string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues []CategoryCount
	// Datetime range
	First, Last time.Time
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Column  string
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
// Undefined entries (constant columns) are NaN.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Profile summarises ds using the column roles in sch.
func Profile(ds *dataset.Dataset, sch schema.Schema, opt Options) (*Report, error) {
	rep := &Report{Name: ds.Name, Rows: ds.Len()}
	for _, c := range ds.Columns() {
		kind, ok := sch.KindOf(c.Name)
		if !ok {
			return nil, &dataset.ColumnError{Column: c.Name, Reason: "not in schema"}
		}
		_, unit := splitUnits(c.Name)
		cs := ColumnSummary{
			Name:    c.Name,
			Kind:    kind,
			Unit:    unit,
			NonNull: c.NonNull(),
			Missing: c.Len() - c.NonNull(),
			Unique:  c.Distinct(),
		}
		switch kind {
		case schema.Numeric:
			summarizeNumeric(&cs, c, opt)
		case schema.Categorical:
			cs.TopValues = topValues(c, opt.TopValues)
		case schema.Datetime:
			cs.First, cs.Last = timeRange(c)
			if cs.First.IsZero() {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("Column %q is typed datetime but no value parses as a date.", c.Name))
			}
		}
		if cs.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Column %q is entirely empty.", c.Name))
		}
		rep.Cols = append(rep.Cols, cs)
	}

	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < ds.Len() && i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, ds.Row(i))
	}

	if opt.Correlations && len(sch.Numeric) >= 2 {
		rep.Corr = correlations(ds, sch.Numeric)
		rep.TopPairs = topPairs(rep.Corr, 3)
	}

	for _, key := range opt.GroupBy {
		kc, ok := ds.Column(key)
		if !ok {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Group-by column %q not found.", key))
			continue
		}
		rep.Groups = append(rep.Groups, groupSummaries(ds, kc, sch.Numeric)...)
	}
	return rep, nil
}

func summarizeNumeric(cs *ColumnSummary, c *dataset.Column, opt Options) {
	vals := c.Floats()
	if len(vals) == 0 {
		return
	}
	cs.Min = floats.Min(vals)
	cs.Max = floats.Max(vals)
	cs.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		cs.Std = stat.StdDev(vals, nil)
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	cs.Median = clean.Quantile(sorted, 0.5)

	if !opt.Outliers {
		return
	}
	thr := opt.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}
	cs.OutlierThreshold = thr
	med, mad := medianMAD(vals)
	if mad == 0 {
		return
	}
	for _, v := range vals {
		// 0.6745 rescales MAD to the standard deviation of a normal distribution.
		z := 0.6745 * (v - med) / mad
		if az := math.Abs(z); az > thr {
			cs.OutliersCount++
			if az > cs.OutliersMaxAbsZ {
				cs.OutliersMaxAbsZ = az
			}
		}
	}
}

func topValues(c *dataset.Column, limit int) []CategoryCount {
	if limit <= 0 {
		limit = 5
	}
	counts := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			counts[c.Text(i)]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func timeRange(c *dataset.Column) (first, last time.Time) {
	for i := 0; i < c.Len(); i++ {
		t, ok := c.Time(i)
		if !ok {
			continue
		}
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if last.IsZero() || t.After(last) {
			last = t
		}
	}
	return first, last
}

// correlations computes pairwise Pearson r over rows where both columns are present.
func correlations(ds *dataset.Dataset, cols []string) *CorrMatrix {
	n := len(cols)
	m := &CorrMatrix{Columns: append([]string(nil), cols...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		a, _ := ds.Column(cols[i])
		for j := i + 1; j < n; j++ {
			b, _ := ds.Column(cols[j])
			var xs, ys []float64
			for r := 0; r < ds.Len(); r++ {
				if a.IsNull(r) || b.IsNull(r) {
					continue
				}
				xs = append(xs, a.Number(r))
				ys = append(ys, b.Number(r))
			}
			r := math.NaN()
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
			}
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m
}

// topPairs lists the upper-triangle pairs by |r|, skipping undefined ones.
func topPairs(m *CorrMatrix, limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].R) > math.Abs(pairs[j].R) })
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func groupSummaries(ds *dataset.Dataset, key *dataset.Column, numeric []string) []GroupResult {
	rows := map[string][]int{}
	for i := 0; i < ds.Len(); i++ {
		if key.IsNull(i) {
			continue
		}
		k := key.Text(i)
		rows[k] = append(rows[k], i)
	}
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]GroupResult, 0, len(keys))
	for _, k := range keys {
		g := GroupResult{Column: key.Name, Key: k, Size: len(rows[k]), Metrics: map[string]NumSummary{}}
		for _, name := range numeric {
			if name == key.Name {
				continue
			}
			c, _ := ds.Column(name)
			var vals []float64
			for _, r := range rows[k] {
				if !c.IsNull(r) {
					vals = append(vals, c.Number(r))
				}
			}
			if len(vals) == 0 {
				continue
			}
			g.Metrics[name] = NumSummary{Count: len(vals), Min: floats.Min(vals), Max: floats.Max(vals), Mean: stat.Mean(vals, nil)}
		}
		out = append(out, g)
	}
	return out
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	if r.Cleaning != "" {
		b.WriteString(fmt.Sprintf("Cleaning: %s\n", r.Cleaning))
	}
	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		name := safeName(c.Name)
		if c.Unit != "" && !strings.Contains(name, c.Unit) {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case schema.Numeric:
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" | min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
			}
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case schema.Categorical:
			if len(c.TopValues) > 0 {
				b.WriteString(" | top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case schema.Datetime:
			if !c.First.IsZero() {
				b.WriteString(fmt.Sprintf(" | %s to %s", dataset.FormatTime(c.First), dataset.FormatTime(c.Last)))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s=%s (n=%d)\n", g.Column, g.Key, g.Size))
			// print up to 6 metrics
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	if len(r.TopPairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.TopPairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // e.g., Alpha (%)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // e.g., Mass [kg]
	{regexp.MustCompile(`^(.*?)[_\s-]+(USD|EUR|INR|GBP|kg|%|pcs)$`), 2},
}

func splitUnits(name string) (base, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			b := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if b != "" && u != "" {
				return b, u
			}
		}
	}
	return s, ""
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	median = clean.Quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = clean.Quantile(dev, 0.5)
	return
}

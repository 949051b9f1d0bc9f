package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/clean"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
)

// Sensitivity selects anomaly thresholds.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Thresholds are the cut-offs a value must exceed to count as anomalous.
type Thresholds struct {
	ZScore        float64 `json:"z_score"`
	IQRMultiplier float64 `json:"iqr_multiplier"`
}

var thresholds = map[Sensitivity]Thresholds{
	SensitivityLow:    {ZScore: 3.5, IQRMultiplier: 3.0},
	SensitivityMedium: {ZScore: 3.0, IQRMultiplier: 2.5},
	SensitivityHigh:   {ZScore: 2.5, IQRMultiplier: 2.0},
}

// Severity ranks a finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Finding types.
const (
	StatisticalOutlier = "statistical_outlier"
	SuddenChange       = "sudden_change"
	HighMissingData    = "high_missing_data"
	DuplicateRows      = "duplicate_rows"
)

const (
	minOutlierValues = 10
	changeWindow     = 5
	changeDeviation  = 3.0
	missingPctLimit  = 30.0
	maxListed        = 10
)

// Anomaly is one finding. Fields that do not apply to its Type are zero.
type Anomaly struct {
	Column      string    `json:"column,omitempty"`
	Type        string    `json:"type"`
	Severity    Severity  `json:"severity"`
	Count       int       `json:"count"`
	Rows        []int     `json:"rows,omitempty"`
	Values      []float64 `json:"values,omitempty"`
	NormalRange string    `json:"normal_range,omitempty"`
	Mean        float64   `json:"mean,omitempty"`
	Std         float64   `json:"std,omitempty"`
	Percentage  float64   `json:"percentage,omitempty"`
	TotalRows   int       `json:"total_rows,omitempty"`
	DetectedAt  time.Time `json:"detected_at"`
}

// AnomalyReport is the result of a full scan.
type AnomalyReport struct {
	Total             int              `json:"total_anomalies"`
	SeverityBreakdown map[Severity]int `json:"severity_breakdown"`
	Anomalies         []Anomaly        `json:"anomalies"`
	AnalyzedAt        time.Time        `json:"analysis_timestamp"`
	Sensitivity       Sensitivity      `json:"sensitivity"`
	Rows              int              `json:"rows"`
	Columns           int              `json:"columns"`
}

// Detector scans numeric columns for outliers and the whole table for
// missing data and duplicates.
type Detector struct {
	sensitivity Sensitivity
	th          Thresholds
	now         func() time.Time
}

// NewDetector returns a detector for the given sensitivity. now may be nil.
func NewDetector(s Sensitivity, now func() time.Time) (*Detector, error) {
	th, ok := thresholds[s]
	if !ok {
		return nil, fmt.Errorf("unknown sensitivity %q (use low, medium or high)", s)
	}
	if now == nil {
		now = time.Now
	}
	return &Detector{sensitivity: s, th: th, now: now}, nil
}

// Thresholds returns the cut-offs in use.
func (d *Detector) Thresholds() Thresholds { return d.th }

type indexed struct {
	rows []int
	vals []float64
}

func nonNull(c *dataset.Column) indexed {
	var out indexed
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			out.rows = append(out.rows, i)
			out.vals = append(out.vals, c.Number(i))
		}
	}
	return out
}

// Statistical flags values that are beyond both the z-score and the IQR fence.
func (d *Detector) Statistical(ds *dataset.Dataset) []Anomaly {
	var out []Anomaly
	for _, c := range ds.Columns() {
		if c.Kind != dataset.KindNumber {
			continue
		}
		data := nonNull(c)
		if len(data.vals) < minOutlierValues {
			continue
		}
		mean, popStd := stat.PopMeanStdDev(data.vals, nil)
		lower, upper, spread := clean.Fence(data.vals, d.th.IQRMultiplier)
		if popStd == 0 || !spread {
			continue
		}
		a := Anomaly{Column: c.Name, Type: StatisticalOutlier, Severity: SeverityHigh}
		for i, v := range data.vals {
			z := math.Abs(v-mean) / popStd
			if z > d.th.ZScore && (v < lower || v > upper) {
				a.Count++
				if len(a.Rows) < maxListed {
					a.Rows = append(a.Rows, data.rows[i])
					a.Values = append(a.Values, v)
				}
			}
		}
		if a.Count == 0 {
			continue
		}
		a.NormalRange = fmt.Sprintf("[%.2f, %.2f]", lower, upper)
		a.Mean = mean
		a.Std = stat.StdDev(data.vals, nil)
		a.DetectedAt = d.now()
		out = append(out, a)
	}
	return out
}

// SuddenChanges flags values that deviate from their neighbours, taken as the
// two values on either side in row order, by more than three standard deviations.
func (d *Detector) SuddenChanges(ds *dataset.Dataset) []Anomaly {
	half := changeWindow / 2
	var out []Anomaly
	for _, c := range ds.Columns() {
		if c.Kind != dataset.KindNumber {
			continue
		}
		data := nonNull(c)
		if len(data.vals) < changeWindow*2 {
			continue
		}
		a := Anomaly{Column: c.Name, Type: SuddenChange, Severity: SeverityMedium}
		neighbours := make([]float64, 0, changeWindow-1)
		for i := half; i < len(data.vals)-half; i++ {
			neighbours = neighbours[:0]
			neighbours = append(neighbours, data.vals[i-half:i]...)
			neighbours = append(neighbours, data.vals[i+1:i+half+1]...)
			mean, std := stat.MeanStdDev(neighbours, nil)
			if math.Abs(data.vals[i]-mean)/(std+1e-6) <= changeDeviation {
				continue
			}
			a.Count++
			if len(a.Rows) < maxListed {
				a.Rows = append(a.Rows, data.rows[i])
				a.Values = append(a.Values, data.vals[i])
			}
		}
		if a.Count > 0 {
			a.DetectedAt = d.now()
			out = append(out, a)
		}
	}
	return out
}

// MissingData flags columns with more than 30% missing cells.
func (d *Detector) MissingData(ds *dataset.Dataset) []Anomaly {
	if ds.Len() == 0 {
		return nil
	}
	var out []Anomaly
	for _, c := range ds.Columns() {
		missing := c.Len() - c.NonNull()
		pct := float64(missing) * 100 / float64(ds.Len())
		if pct <= missingPctLimit {
			continue
		}
		sev := SeverityMedium
		if pct >= 50 {
			sev = SeverityHigh
		}
		out = append(out, Anomaly{
			Column: c.Name, Type: HighMissingData, Severity: sev,
			Count: missing, Percentage: pct, TotalRows: ds.Len(), DetectedAt: d.now(),
		})
	}
	return out
}

// Duplicates reports exact duplicate rows beyond their first occurrence.
func (d *Detector) Duplicates(ds *dataset.Dataset) []Anomaly {
	seen := make(map[string]struct{}, ds.Len())
	dups := 0
	for i := 0; i < ds.Len(); i++ {
		key := strings.Join(ds.Row(i), "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	if dups == 0 {
		return nil
	}
	pct := float64(dups) * 100 / float64(ds.Len())
	sev := SeverityLow
	if pct >= 5 {
		sev = SeverityMedium
	}
	return []Anomaly{{Type: DuplicateRows, Severity: sev, Count: dups, Percentage: pct, TotalRows: ds.Len(), DetectedAt: d.now()}}
}

// Run executes every check.
func (d *Detector) Run(ds *dataset.Dataset) *AnomalyReport {
	var all []Anomaly
	all = append(all, d.Statistical(ds)...)
	all = append(all, d.SuddenChanges(ds)...)
	all = append(all, d.MissingData(ds)...)
	all = append(all, d.Duplicates(ds)...)
	if all == nil {
		all = []Anomaly{}
	}
	rep := &AnomalyReport{
		Total:             len(all),
		SeverityBreakdown: map[Severity]int{SeverityHigh: 0, SeverityMedium: 0, SeverityLow: 0},
		Anomalies:         all,
		AnalyzedAt:        d.now(),
		Sensitivity:       d.sensitivity,
		Rows:              ds.Len(),
		Columns:           len(ds.Columns()),
	}
	for _, a := range all {
		rep.SeverityBreakdown[a.Severity]++
	}
	return rep
}

// Markdown renders the report as an [ANOMALIES] section.
func (r *AnomalyReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[ANOMALIES]\n")
	b.WriteString(fmt.Sprintf("Sensitivity: %s; %d finding(s) (high %d, medium %d, low %d)\n",
		r.Sensitivity, r.Total, r.SeverityBreakdown[SeverityHigh], r.SeverityBreakdown[SeverityMedium], r.SeverityBreakdown[SeverityLow]))
	sorted := append([]Anomaly(nil), r.Anomalies...)
	rank := map[Severity]int{SeverityHigh: 0, SeverityMedium: 1, SeverityLow: 2}
	sort.SliceStable(sorted, func(i, j int) bool { return rank[sorted[i].Severity] < rank[sorted[j].Severity] })
	for _, a := range sorted {
		b.WriteString(fmt.Sprintf("- [%s] %s", a.Severity, a.Type))
		if a.Column != "" {
			b.WriteString(fmt.Sprintf(" in %s", safeName(a.Column)))
		}
		switch a.Type {
		case StatisticalOutlier:
			b.WriteString(fmt.Sprintf(": %d value(s) outside %s (mean %.4g, std %.4g)", a.Count, a.NormalRange, a.Mean, a.Std))
		case SuddenChange:
			b.WriteString(fmt.Sprintf(": %d abrupt change(s) at rows %v", a.Count, a.Rows))
		case HighMissingData, DuplicateRows:
			b.WriteString(fmt.Sprintf(": %d of %d rows (%.1f%%)", a.Count, a.TotalRows, a.Percentage))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Package clean prepares an uploaded dataset for charting: it drops duplicate
// rows, fills missing cells, converts date-like text columns and caps numeric
// outliers.
package clean

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
)

// Options selects cleaning steps.
type Options struct {
	// AutoClean enables duplicate removal and missing-value filling.
	AutoClean        bool
	OutlierDetection bool
	// IQRFactor is k in [Q1 - k*IQR, Q3 + k*IQR].
	IQRFactor float64
	// A text column becomes datetime when at least DateRatio of its cells
	// parse and it has at least MinDistinctDates distinct dates.
	DateRatio        float64
	MinDistinctDates int
}

// DefaultOptions returns the standard cleaning pipeline.
func DefaultOptions() Options {
	return Options{AutoClean: true, OutlierDetection: true, IQRFactor: 1.5, DateRatio: 0.7, MinDistinctDates: 10}
}

// OutlierCap records the clipping applied to one numeric column.
type OutlierCap struct {
	Column string  `json:"column"`
	Lower  float64 `json:"lower_bound"`
	Upper  float64 `json:"upper_bound"`
	Below  int     `json:"count_below"`
	Above  int     `json:"count_above"`
}

// Total is the number of capped cells.
func (o OutlierCap) Total() int { return o.Below + o.Above }

// Summary describes what Clean changed.
type Summary struct {
	OriginalRows      int          `json:"original_rows"`
	RowsAfterCleaning int          `json:"rows_after_cleaning"`
	DuplicatesRemoved int          `json:"duplicates_removed"`
	NumericFilled     int          `json:"numeric_missing_filled"`
	CategoricalFilled int          `json:"categorical_missing_filled"`
	DateColumns       []string     `json:"date_columns_converted"`
	Outliers          []OutlierCap `json:"outliers_capped"`
	AutoClean         bool         `json:"auto_clean"`
	OutlierDetection  bool         `json:"outlier_detection"`
}

// String renders the summary as one human-readable sentence.
func (s Summary) String() string {
	dates := "none"
	if len(s.DateColumns) > 0 {
		dates = strings.Join(s.DateColumns, ", ")
	}
	var tail string
	switch {
	case len(s.Outliers) > 0:
		total := 0
		for _, o := range s.Outliers {
			total += o.Total()
		}
		tail = fmt.Sprintf("; capped %d outlier value(s) across %d numeric column(s) using IQR", total, len(s.Outliers))
	case !s.OutlierDetection:
		tail = "; outlier capping disabled"
	}
	return fmt.Sprintf("%d missing values filled (%d numeric with mean, %d categorical with mode); %d duplicates removed; converted %d date column(s): %s%s.",
		s.NumericFilled+s.CategoricalFilled, s.NumericFilled, s.CategoricalFilled,
		s.DuplicatesRemoved, len(s.DateColumns), dates, tail)
}

// Clean returns a cleaned copy of ds. ds itself is not modified.
func Clean(ds *dataset.Dataset, opt Options) (*dataset.Dataset, Summary, error) {
	sum := Summary{
		OriginalRows:     ds.Len(),
		AutoClean:        opt.AutoClean,
		OutlierDetection: opt.OutlierDetection,
		DateColumns:      []string{},
		Outliers:         []OutlierCap{},
	}
	out := ds.Clone()

	if opt.AutoClean {
		out = dropDuplicates(out)
		sum.DuplicatesRemoved = ds.Len() - out.Len()
		for _, c := range out.Columns() {
			n, err := fillMissing(c)
			if err != nil {
				return nil, Summary{}, err
			}
			switch c.Kind {
			case dataset.KindNumber:
				sum.NumericFilled += n
			case dataset.KindText:
				sum.CategoricalFilled += n
			}
		}
	}

	for _, c := range out.Columns() {
		if c.Kind != dataset.KindText || !looksLikeDates(c, opt) {
			continue
		}
		next, err := out.WithColumn(dataset.ConvertToTime(c))
		if err != nil {
			return nil, Summary{}, fmt.Errorf("convert %q to datetime: %w", c.Name, err)
		}
		out = next
		sum.DateColumns = append(sum.DateColumns, c.Name)
	}

	if opt.OutlierDetection {
		k := opt.IQRFactor
		if k <= 0 {
			k = 1.5
		}
		for _, c := range out.Columns() {
			if c.Kind != dataset.KindNumber {
				continue
			}
			capped, ok, err := capOutliers(c, k)
			if err != nil {
				return nil, Summary{}, err
			}
			if ok {
				sum.Outliers = append(sum.Outliers, capped)
			}
		}
	}
	sum.RowsAfterCleaning = out.Len()
	return out, sum, nil
}

func dropDuplicates(ds *dataset.Dataset) *dataset.Dataset {
	seen := make(map[string]struct{}, ds.Len())
	return ds.Filter(func(i int) bool {
		key := strings.Join(ds.Row(i), "\x1f")
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// fillMissing fills nulls in place: numbers with the column mean, text with
// the most frequent value (ties to the smallest). It returns the cells filled.
func fillMissing(c *dataset.Column) (int, error) {
	missing := c.Len() - c.NonNull()
	if missing == 0 {
		return 0, nil
	}
	var fill any
	switch c.Kind {
	case dataset.KindNumber:
		vals := c.Floats()
		if len(vals) == 0 {
			return 0, nil
		}
		fill = stat.Mean(vals, nil)
	case dataset.KindText:
		m, ok := mode(c)
		if !ok {
			return 0, nil
		}
		fill = m
	default:
		return 0, nil
	}
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			continue
		}
		if err := c.Set(i, fill); err != nil {
			return 0, fmt.Errorf("fill %q: %w", c.Name, err)
		}
	}
	return missing, nil
}

func mode(c *dataset.Column) (string, bool) {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			counts[c.Text(i)]++
		}
	}
	best, bestN := "", 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best, bestN > 0
}

func looksLikeDates(c *dataset.Column, opt Options) bool {
	if c.NonNull() == 0 || float64(parsedCount(c))/float64(c.Len()) < opt.DateRatio {
		return false
	}
	distinct := make(map[time.Time]struct{})
	for i := 0; i < c.Len(); i++ {
		if t, ok := c.Time(i); ok {
			distinct[t] = struct{}{}
		}
	}
	return len(distinct) >= opt.MinDistinctDates
}

func parsedCount(c *dataset.Column) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if _, ok := c.Time(i); ok {
			n++
		}
	}
	return n
}

// capOutliers clips c in place to the IQR fence. It reports false when the
// column has no spread or nothing falls outside the fence.
func capOutliers(c *dataset.Column, k float64) (OutlierCap, bool, error) {
	vals := c.Floats()
	if len(vals) == 0 {
		return OutlierCap{}, false, nil
	}
	lower, upper, ok := Fence(vals, k)
	if !ok {
		return OutlierCap{}, false, nil
	}
	oc := OutlierCap{Column: c.Name, Lower: lower, Upper: upper}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Number(i)
		switch {
		case v < lower:
			oc.Below++
			v = lower
		case v > upper:
			oc.Above++
			v = upper
		default:
			continue
		}
		if err := c.Set(i, v); err != nil {
			return OutlierCap{}, false, fmt.Errorf("cap %q: %w", c.Name, err)
		}
	}
	return oc, oc.Total() > 0, nil
}

// Fence returns [Q1 - k*IQR, Q3 + k*IQR] for vals. ok is false when the
// interquartile range is zero.
func Fence(vals []float64, k float64) (lower, upper float64, ok bool) {
	q1, q3 := Quartiles(vals)
	iqr := q3 - q1
	if iqr == 0 {
		return 0, 0, false
	}
	return q1 - k*iqr, q3 + k*iqr, true
}

// Quartiles returns the first and third quartiles of vals.
func Quartiles(vals []float64) (q1, q3 float64) {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return Quantile(sorted, 0.25), Quantile(sorted, 0.75)
}

// Quantile interpolates linearly between the closest ranks of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

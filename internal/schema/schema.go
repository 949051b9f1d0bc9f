// Package schema classifies dataset columns into numeric, categorical and datetime roles.
package schema

import (
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
)

// DefaultDateThreshold is the share of non-null text values that must parse as
// dates before a text column is treated as datetime.
const DefaultDateThreshold = 0.70

// Category is the analytic role of a column.
type Category string

const (
	Numeric     Category = "numeric"
	Categorical Category = "categorical"
	Datetime    Category = "datetime"
)

// Schema lists column names per category, in dataset order. A column appears
// in exactly one list.
type Schema struct {
	Numeric     []string `json:"numeric" yaml:"numeric"`
	Categorical []string `json:"categorical" yaml:"categorical"`
	Datetime    []string `json:"datetime" yaml:"datetime"`
}

// Infer classifies the columns of ds using DefaultDateThreshold.
func Infer(ds *dataset.Dataset) Schema {
	return InferWithThreshold(ds, DefaultDateThreshold)
}

// InferWithThreshold classifies columns by native kind. When no column is
// natively datetime, text columns whose values parse as dates at a rate of at
// least threshold are moved from categorical to datetime.
func InferWithThreshold(ds *dataset.Dataset, threshold float64) Schema {
	s := Schema{Numeric: []string{}, Categorical: []string{}, Datetime: []string{}}
	for _, c := range ds.Columns() {
		switch c.Kind {
		case dataset.KindNumber:
			s.Numeric = append(s.Numeric, c.Name)
		case dataset.KindTime:
			s.Datetime = append(s.Datetime, c.Name)
		default:
			s.Categorical = append(s.Categorical, c.Name)
		}
	}
	if len(s.Datetime) > 0 {
		return s
	}
	kept := s.Categorical[:0:0]
	for _, name := range s.Categorical {
		c, _ := ds.Column(name)
		if c.NonNull() > 0 && c.DateRatio() >= threshold {
			s.Datetime = append(s.Datetime, name)
			continue
		}
		kept = append(kept, name)
	}
	s.Categorical = kept
	return s
}

// KindOf returns the category holding col.
func (s Schema) KindOf(col string) (Category, bool) {
	for _, c := range []Category{Numeric, Categorical, Datetime} {
		if s.Has(c, col) {
			return c, true
		}
	}
	return "", false
}

// Has reports whether col is listed under cat.
func (s Schema) Has(cat Category, col string) bool {
	for _, n := range s.List(cat) {
		if n == col {
			return true
		}
	}
	return false
}

// List returns the columns of one category.
func (s Schema) List(cat Category) []string {
	switch cat {
	case Numeric:
		return s.Numeric
	case Categorical:
		return s.Categorical
	case Datetime:
		return s.Datetime
	}
	return nil
}

// Clone returns a copy that shares no slices with s.
func (s Schema) Clone() Schema {
	return Schema{
		Numeric:     append([]string{}, s.Numeric...),
		Categorical: append([]string{}, s.Categorical...),
		Datetime:    append([]string{}, s.Datetime...),
	}
}

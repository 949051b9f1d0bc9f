package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Aggregation reduces the values of one group to a single number.
type Aggregation string

const (
	Sum  Aggregation = "sum"
	Mean Aggregation = "mean"
)

// Valid reports whether a is a known reduction.
func (a Aggregation) Valid() bool { return a == Sum || a == Mean }

// Group is one row of a grouped aggregation.
type Group struct {
	Keys  []string
	Value float64
	Count int
}

// Select projects the named columns, in the given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := d.mustColumn(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return New(d.Name, cols...)
}

// Filter keeps the rows for which keep returns true.
func (d *Dataset) Filter(keep func(row int) bool) *Dataset {
	rows := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return d.Take(rows)
}

// Take returns the given rows, in order.
func (d *Dataset) Take(rows []int) *Dataset {
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.take(rows)
	}
	return MustNew(d.Name, cols...)
}

// FilterTime keeps rows whose parsed datetime in col lies within [start, end].
// Nil bounds are open. Bounds compare on wall-clock time, ignoring zones.
// Rows whose value does not parse are dropped.
func (d *Dataset) FilterTime(col string, start, end *time.Time) (*Dataset, error) {
	c, err := d.mustColumn(col)
	if err != nil {
		return nil, err
	}
	if c.Kind == KindNumber {
		return nil, &ColumnError{Column: col, Reason: "not a datetime column"}
	}
	var lo, hi time.Time
	if start != nil {
		lo = WallClock(*start)
	}
	if end != nil {
		hi = WallClock(*end)
	}
	return d.Filter(func(i int) bool {
		t, ok := c.Time(i)
		if !ok {
			return false
		}
		t = WallClock(t)
		if start != nil && t.Before(lo) {
			return false
		}
		if end != nil && t.After(hi) {
			return false
		}
		return true
	}), nil
}

// Distinct returns the number of distinct non-null values in col.
func (d *Dataset) Distinct(col string) (int, error) {
	c, err := d.mustColumn(col)
	if err != nil {
		return 0, err
	}
	return c.Distinct(), nil
}

// DateRatio returns the share of non-null values in col that parse as datetimes.
func (d *Dataset) DateRatio(col string) (float64, error) {
	c, err := d.mustColumn(col)
	if err != nil {
		return 0, err
	}
	return c.DateRatio(), nil
}

// WithColumn returns a dataset with c appended, or replacing the column of the same name.
func (d *Dataset) WithColumn(c *Column) (*Dataset, error) {
	cols := d.Columns()
	if i, ok := d.index[c.Name]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(d.Name, cols...)
}

// GroupBy groups rows by the display form of the key columns and reduces value
// with agg. Rows with a null key or value are skipped. Groups come back sorted
// by key, ascending.
func (d *Dataset) GroupBy(keys []string, value string, agg Aggregation) ([]Group, error) {
	if !agg.Valid() {
		return nil, fmt.Errorf("unsupported aggregation %q", agg)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("group by: no key columns")
	}
	keyCols := make([]*Column, len(keys))
	for i, k := range keys {
		c, err := d.mustColumn(k)
		if err != nil {
			return nil, err
		}
		keyCols[i] = c
	}
	vc, err := d.mustColumn(value)
	if err != nil {
		return nil, err
	}
	if vc.Kind != KindNumber {
		return nil, &ColumnError{Column: value, Reason: "not numeric"}
	}

	type acc struct {
		keys []string
		sum  float64
		n    int
	}
	groups := map[string]*acc{}
	for i := 0; i < d.rows; i++ {
		if vc.IsNull(i) {
			continue
		}
		parts := make([]string, len(keyCols))
		skip := false
		for j, kc := range keyCols {
			if kc.IsNull(i) {
				skip = true
				break
			}
			parts[j] = kc.Text(i)
		}
		if skip {
			continue
		}
		id := strings.Join(parts, "\x1f")
		a, ok := groups[id]
		if !ok {
			a = &acc{keys: parts}
			groups[id] = a
		}
		a.sum += vc.nums[i]
		a.n++
	}

	out := make([]Group, 0, len(groups))
	for _, a := range groups {
		v := a.sum
		if agg == Mean {
			v = a.sum / float64(a.n)
		}
		out = append(out, Group{Keys: a.keys, Value: v, Count: a.n})
	}
	sort.Slice(out, func(i, j int) bool { return lessKeys(out[i].Keys, out[j].Keys) })
	return out, nil
}

func lessKeys(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

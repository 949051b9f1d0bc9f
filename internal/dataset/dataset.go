package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the native storage type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "text"
	}
}

// ColumnError reports a reference to a missing column or a column of the wrong kind.
type ColumnError struct {
	Column string
	Reason string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
}

// Column is a single typed, nullable column. Only the slice matching Kind is populated.
type Column struct {
	Name  string
	Kind  Kind
	nums  []float64
	texts []string
	times []time.Time
	null  []bool
}

// NewNumbers builds a numeric column; NaN marks a null cell.
func NewNumbers(name string, vals ...float64) *Column {
	c := &Column{Name: name, Kind: KindNumber, nums: make([]float64, len(vals)), null: make([]bool, len(vals))}
	for i, v := range vals {
		c.nums[i] = v
		c.null[i] = math.IsNaN(v)
	}
	return c
}

// NewTexts builds a text column; the empty string marks a null cell.
func NewTexts(name string, vals ...string) *Column {
	c := &Column{Name: name, Kind: KindText, texts: make([]string, len(vals)), null: make([]bool, len(vals))}
	for i, v := range vals {
		c.texts[i] = v
		c.null[i] = v == ""
	}
	return c
}

// NewTimes builds a datetime column; the zero time marks a null cell.
func NewTimes(name string, vals ...time.Time) *Column {
	c := &Column{Name: name, Kind: KindTime, times: make([]time.Time, len(vals)), null: make([]bool, len(vals))}
	for i, v := range vals {
		c.times[i] = v
		c.null[i] = v.IsZero()
	}
	return c
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.null) }

// IsNull reports whether cell i is empty.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// Number returns cell i of a numeric column, NaN otherwise.
func (c *Column) Number(i int) float64 {
	if c.Kind != KindNumber || c.null[i] {
		return math.NaN()
	}
	return c.nums[i]
}

// Text returns the display form of cell i; null cells yield "".
func (c *Column) Text(i int) string {
	if c.null[i] {
		return ""
	}
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64)
	case KindTime:
		return FormatTime(c.times[i])
	default:
		return c.texts[i]
	}
}

// Time returns cell i as an instant. Text cells are parsed on the fly.
func (c *Column) Time(i int) (time.Time, bool) {
	if c.null[i] {
		return time.Time{}, false
	}
	switch c.Kind {
	case KindTime:
		return c.times[i], true
	case KindText:
		return ParseTime(c.texts[i])
	default:
		return time.Time{}, false
	}
}

// NonNull counts populated cells.
func (c *Column) NonNull() int {
	n := 0
	for _, isNull := range c.null {
		if !isNull {
			n++
		}
	}
	return n
}

// Floats returns the non-null values of a numeric column.
func (c *Column) Floats() []float64 {
	if c.Kind != KindNumber {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Distinct counts distinct non-null values.
func (c *Column) Distinct() int {
	seen := make(map[string]struct{})
	for i := range c.null {
		if c.null[i] {
			continue
		}
		seen[c.Text(i)] = struct{}{}
	}
	return len(seen)
}

// DateRatio is the share of non-null cells that read as datetimes.
func (c *Column) DateRatio() float64 {
	total, parsed := 0, 0
	for i := range c.null {
		if c.null[i] {
			continue
		}
		total++
		if _, ok := c.Time(i); ok {
			parsed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(parsed) / float64(total)
}

// Set overwrites cell i with v, clearing the null flag. v must match Kind.
func (c *Column) Set(i int, v any) error {
	switch x := v.(type) {
	case float64:
		if c.Kind != KindNumber {
			return &ColumnError{Column: c.Name, Reason: "not numeric"}
		}
		c.nums[i] = x
		c.null[i] = math.IsNaN(x)
	case string:
		if c.Kind != KindText {
			return &ColumnError{Column: c.Name, Reason: "not text"}
		}
		c.texts[i] = x
		c.null[i] = x == ""
	case time.Time:
		if c.Kind != KindTime {
			return &ColumnError{Column: c.Name, Reason: "not datetime"}
		}
		c.times[i] = x
		c.null[i] = x.IsZero()
	default:
		return fmt.Errorf("unsupported cell type %T", v)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, null: append([]bool(nil), c.null...)}
	out.nums = append([]float64(nil), c.nums...)
	out.texts = append([]string(nil), c.texts...)
	out.times = append([]time.Time(nil), c.times...)
	return out
}

func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, null: make([]bool, len(rows))}
	switch c.Kind {
	case KindNumber:
		out.nums = make([]float64, len(rows))
	case KindTime:
		out.times = make([]time.Time, len(rows))
	default:
		out.texts = make([]string, len(rows))
	}
	for j, i := range rows {
		out.null[j] = c.null[i]
		switch c.Kind {
		case KindNumber:
			out.nums[j] = c.nums[i]
		case KindTime:
			out.times[j] = c.times[i]
		default:
			out.texts[j] = c.texts[i]
		}
	}
	return out
}

// Dataset is an immutable-by-convention, in-memory table of equally sized columns.
type Dataset struct {
	Name  string
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a dataset. Columns must share a length and have unique names.
func New(name string, cols ...*Column) (*Dataset, error) {
	d := &Dataset{Name: name, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, errors.New("nil column")
		}
		if _, dup := d.index[c.Name]; dup {
			return nil, &ColumnError{Column: c.Name, Reason: "duplicate column name"}
		}
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, &ColumnError{Column: c.Name, Reason: fmt.Sprintf("length %d, want %d", c.Len(), d.rows)}
		}
		d.index[c.Name] = i
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// MustNew is New for fixtures; it panics on error.
func MustNew(name string, cols ...*Column) *Dataset {
	d, err := New(name, cols...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the row count.
func (d *Dataset) Len() int { return d.rows }

// Columns returns the columns in dataset order.
func (d *Dataset) Columns() []*Column { return append([]*Column(nil), d.cols...) }

// ColumnNames returns column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

func (d *Dataset) mustColumn(name string) (*Column, error) {
	c, ok := d.Column(name)
	if !ok {
		return nil, &ColumnError{Column: name, Reason: "not in dataset"}
	}
	return c, nil
}

// Row returns the display form of every cell in row i.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.Text(i)
	}
	return out
}

// Clone deep-copies every column.
func (d *Dataset) Clone() *Dataset {
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.Clone()
	}
	return MustNew(d.Name, cols...)
}

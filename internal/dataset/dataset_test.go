package dataset

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const salesCSV = `Order Date;Product;Sales;Discount
2025-01-03;Pen;1.200,50;5
2025-01-17;Pencil;300;N/A
2025-02-02;Pen;450,5;10
;Eraser;12;0
`

func TestReadCSV_TypesColumns(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(salesCSV), "sales.csv", DefaultLoadOptions())
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())
	assert.Equal(t, []string{"Order Date", "Product", "Sales", "Discount"}, ds.ColumnNames())

	date, _ := ds.Column("Order Date")
	assert.Equal(t, KindText, date.Kind)
	assert.True(t, date.IsNull(3))

	sales, _ := ds.Column("Sales")
	require.Equal(t, KindNumber, sales.Kind)
	assert.InDelta(t, 1200.5, sales.Number(0), 1e-9)
	assert.InDelta(t, 450.5, sales.Number(2), 1e-9)

	disc, _ := ds.Column("Discount")
	assert.Equal(t, KindNumber, disc.Kind)
	assert.True(t, disc.IsNull(1))
	assert.True(t, math.IsNaN(disc.Number(1)))
}

func TestReadCSV_MaxRowsAndDuplicateHeaders(t *testing.T) {
	in := "a,a,\n1,2,x\n3,4,y\n5,6,z\n"
	ds, err := ReadCSV(strings.NewReader(in), "dup.csv", LoadOptions{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"a", "a.1", "column_3"}, ds.ColumnNames())
}

func TestReadCSV_DuplicateHeaderClashesWithSuffixedName(t *testing.T) {
	cases := map[string][]string{
		"a,a.1,a\n1,2,3\n":           {"a", "a.1", "a.2"},
		"a,a,a.1\n1,2,3\n":           {"a", "a.1", "a.1.1"},
		"a,a.1,a,a.2,a\n1,2,3,4,5\n": {"a", "a.1", "a.2", "a.2.1", "a.3"},
	}
	for in, want := range cases {
		ds, err := ReadCSV(strings.NewReader(in), "dup.csv", DefaultLoadOptions())
		require.NoError(t, err, in)
		assert.Equal(t, want, ds.ColumnNames(), in)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"1,234,567", 1234567, true},
		{"12%", 12, true},
		{"3 000", 3000, true},
		{"-4.5e2", -450, true},
		{"NaN", 0, false},
		{"A12", 0, false},
		{"2025-01-03", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in, NumberFormat{})
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, c.in)
		}
	}
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2025-03-15", "2025/03/15", "03/15/2025", "2025-03-15 10:30:00", "Mar 15, 2025", "2025-03-15T10:30:00Z"} {
		got, ok := ParseTime(s)
		require.True(t, ok, s)
		assert.Equal(t, 2025, got.Year(), s)
		assert.Equal(t, time.March, got.Month(), s)
		assert.Equal(t, 15, got.Day(), s)
	}
	_, ok := ParseTime("Widget")
	assert.False(t, ok)
}

func TestGroupBy_SumMeanSorted(t *testing.T) {
	ds := MustNew("t",
		NewTexts("Cat", "B", "A", "B", "C", ""),
		NewNumbers("V", 10, 1, 20, math.NaN(), 99),
	)
	sum, err := ds.GroupBy([]string{"Cat"}, "V", Sum)
	require.NoError(t, err)
	require.Len(t, sum, 2)
	assert.Equal(t, []string{"A"}, sum[0].Keys)
	assert.Equal(t, 1.0, sum[0].Value)
	assert.Equal(t, []string{"B"}, sum[1].Keys)
	assert.Equal(t, 30.0, sum[1].Value)
	assert.Equal(t, 2, sum[1].Count)

	mean, err := ds.GroupBy([]string{"Cat"}, "V", Mean)
	require.NoError(t, err)
	assert.Equal(t, 15.0, mean[1].Value)

	_, err = ds.GroupBy([]string{"Cat"}, "Cat", Sum)
	var ce *ColumnError
	assert.ErrorAs(t, err, &ce)
	_, err = ds.GroupBy([]string{"Nope"}, "V", Sum)
	assert.ErrorAs(t, err, &ce)
	_, err = ds.GroupBy([]string{"Cat"}, "V", Aggregation("median"))
	assert.Error(t, err)
}

func TestFilterTime_InclusiveBounds(t *testing.T) {
	ds := MustNew("t",
		NewTexts("When", "2025-01-31 23:59:59", "2025-02-01", "2025-02-28 23:59:59", "2025-03-01", "garbage"),
		NewNumbers("V", 1, 2, 3, 4, 5),
	)
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)
	out, err := ds.FilterTime("When", &start, &end)
	require.NoError(t, err)
	v, _ := out.Column("V")
	assert.Equal(t, []float64{2, 3}, v.Floats())

	open, err := ds.FilterTime("When", &start, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, open.Len())

	_, err = ds.FilterTime("V", &start, nil)
	assert.Error(t, err)
}

func TestFilterTime_ComparesWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ds := MustNew("t", NewTimes("When", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, loc)
	out, err := ds.FilterTime("When", &start, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestDistinctAndDateRatio(t *testing.T) {
	ds := MustNew("t", NewTexts("D", "2025-01-01", "2025-01-02", "2025-01-02", "n/a?", ""))
	n, err := ds.Distinct("D")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	r, err := ds.DateRatio("D")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, r, 1e-9)
}

func TestSelectAndWithColumn(t *testing.T) {
	ds := MustNew("t", NewTexts("A", "x", "y"), NewNumbers("B", 1, 2))
	sel, err := ds.Select("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, sel.ColumnNames())

	_, err = ds.Select("C")
	assert.Error(t, err)

	next, err := ds.WithColumn(NewNumbers("A", 5, 6))
	require.NoError(t, err)
	a, _ := next.Column("A")
	assert.Equal(t, KindNumber, a.Kind)
	orig, _ := ds.Column("A")
	assert.Equal(t, KindText, orig.Kind)

	_, err = ds.WithColumn(NewNumbers("C", 1))
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	ds := MustNew("t",
		NewTimes("Day", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), time.Time{}),
		NewTexts("Name", "a,b", "c"),
		NewNumbers("N", 1.5, 2),
	)
	p := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(p, ds))
	back, err := LoadCSV(p, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, ds.ColumnNames(), back.ColumnNames())
	assert.Equal(t, []string{"2025-01-02", "a,b", "1.5"}, back.Row(0))
	day, _ := back.Column("Day")
	assert.True(t, day.IsNull(1))
}

func TestLoadXLSX_SheetSelection(t *testing.T) {
	p := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Summary"))
	require.NoError(t, f.SetCellValue("Summary", "A1", "ignored"))
	_, err := f.NewSheet("Orders")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Orders", "A1", &[]interface{}{"Region", "Revenue"}))
	require.NoError(t, f.SetSheetRow("Orders", "A2", &[]interface{}{"North", 120.5}))
	require.NoError(t, f.SetSheetRow("Orders", "A3", &[]interface{}{"South", 80}))
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	ds, err := LoadXLSX(p, LoadOptions{Sheet: "Orders"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Revenue"}, ds.ColumnNames())
	rev, _ := ds.Column("Revenue")
	assert.Equal(t, KindNumber, rev.Kind)
	assert.Equal(t, []float64{120.5, 80}, rev.Floats())

	byIndex, err := LoadXLSX(p, LoadOptions{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, byIndex.Len())

	_, err = LoadXLSX(p, LoadOptions{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	ds := MustNew("t", NewTexts("Brand", "Acme", "Zeta"), NewNumbers("Revenue", 10, 20.25))
	p := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(p, ds, ""))
	back, err := Load(p, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand", "Revenue"}, back.ColumnNames())
	rev, _ := back.Column("Revenue")
	assert.Equal(t, []float64{10, 20.25}, rev.Floats())
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("notes.docx", DefaultLoadOptions())
	assert.Error(t, err)
}

package clean

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
)

func TestCleanDropsDuplicatesAndFills(t *testing.T) {
	ds := dataset.MustNew("orders",
		dataset.NewTexts("Region", "N", "N", "S", "", "S"),
		dataset.NewNumbers("Sales", 10, 10, 20, 30, math.NaN()),
	)
	opt := DefaultOptions()
	opt.OutlierDetection = false

	out, sum, err := Clean(ds, opt)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.OriginalRows)
	assert.Equal(t, 1, sum.DuplicatesRemoved)
	assert.Equal(t, 4, sum.RowsAfterCleaning)
	assert.Equal(t, 1, sum.NumericFilled)
	assert.Equal(t, 1, sum.CategoricalFilled)

	region, _ := out.Column("Region")
	sales, _ := out.Column("Sales")
	assert.Equal(t, "S", region.Text(2))
	assert.Equal(t, 20.0, sales.Number(3))

	// Input untouched.
	orig, _ := ds.Column("Sales")
	assert.True(t, orig.IsNull(4))

	assert.Equal(t,
		"2 missing values filled (1 numeric with mean, 1 categorical with mode); 1 duplicates removed; converted 0 date column(s): none; outlier capping disabled.",
		sum.String())
}

func TestCleanConvertsDateColumns(t *testing.T) {
	dates := make([]string, 12)
	few := make([]string, 12)
	vals := make([]float64, 12)
	for i := range dates {
		dates[i] = fmt.Sprintf("2025-01-%02d", i+1)
		few[i] = "2025-01-01"
		vals[i] = float64(i)
	}
	dates[11] = "unknown"
	ds := dataset.MustNew("d",
		dataset.NewTexts("Day", dates...),
		dataset.NewTexts("Launch", few...),
		dataset.NewNumbers("V", vals...),
	)
	out, sum, err := Clean(ds, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Day"}, sum.DateColumns)

	day, _ := out.Column("Day")
	assert.Equal(t, dataset.KindTime, day.Kind)
	assert.True(t, day.IsNull(11))
	launch, _ := out.Column("Launch")
	assert.Equal(t, dataset.KindText, launch.Kind)
}

func TestCleanCapsOutliers(t *testing.T) {
	ds := dataset.MustNew("d",
		dataset.NewNumbers("V", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 1000),
		dataset.NewNumbers("Flat", 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5),
	)
	out, sum, err := Clean(ds, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, sum.Outliers, 1)

	oc := sum.Outliers[0]
	assert.Equal(t, "V", oc.Column)
	assert.Equal(t, 0, oc.Below)
	assert.Equal(t, 1, oc.Above)
	assert.Less(t, oc.Upper, 1000.0)

	v, _ := out.Column("V")
	assert.Equal(t, oc.Upper, v.Number(10))
	assert.Equal(t, 1.0, v.Number(0))
	assert.Contains(t, sum.String(), "capped 1 outlier value(s) across 1 numeric column(s) using IQR")
}

func TestCleanWithoutAutoClean(t *testing.T) {
	ds := dataset.MustNew("d", dataset.NewNumbers("V", 1, 1, math.NaN()))
	out, sum, err := Clean(ds, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
	assert.Zero(t, sum.DuplicatesRemoved)
	assert.Zero(t, sum.NumericFilled)
}

func TestFence(t *testing.T) {
	_, _, ok := Fence([]float64{3, 3, 3}, 1.5)
	assert.False(t, ok)

	lo, hi, ok := Fence([]float64{4, 1, 3, 2}, 1.5)
	require.True(t, ok)
	assert.Less(t, lo, 1.0)
	assert.Greater(t, hi, 4.0)
}

func TestQuartilesInterpolate(t *testing.T) {
	q1, q3 := Quartiles([]float64{4, 1, 3, 2})
	assert.InDelta(t, 1.75, q1, 1e-9)
	assert.InDelta(t, 3.25, q3, 1e-9)
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}

package analysis

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
)

var scanTime = time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

func detector(t *testing.T, s Sensitivity) *Detector {
	t.Helper()
	d, err := NewDetector(s, func() time.Time { return scanTime })
	require.NoError(t, err)
	return d
}

func TestNewDetectorThresholds(t *testing.T) {
	assert.Equal(t, Thresholds{ZScore: 3.5, IQRMultiplier: 3.0}, detector(t, SensitivityLow).Thresholds())
	assert.Equal(t, Thresholds{ZScore: 2.5, IQRMultiplier: 2.0}, detector(t, SensitivityHigh).Thresholds())

	_, err := NewDetector("extreme", nil)
	assert.Error(t, err)
}

func TestStatisticalOutliers(t *testing.T) {
	vals := make([]float64, 0, 21)
	for v := 10; v < 30; v++ {
		vals = append(vals, float64(v))
	}
	vals = append(vals, 1000)
	ds := dataset.MustNew("s",
		dataset.NewNumbers("Amount", vals...),
		dataset.NewNumbers("Short", 1, 2, 1000),
	)

	got := detector(t, SensitivityMedium).Statistical(ds)
	require.Len(t, got, 1)
	a := got[0]
	assert.Equal(t, "Amount", a.Column)
	assert.Equal(t, StatisticalOutlier, a.Type)
	assert.Equal(t, SeverityHigh, a.Severity)
	assert.Equal(t, 1, a.Count)
	assert.Equal(t, []int{20}, a.Rows)
	assert.Equal(t, []float64{1000}, a.Values)
	assert.Equal(t, scanTime, a.DetectedAt)
}

func TestSuddenChangesUseNeighbours(t *testing.T) {
	vals := make([]float64, 20)
	for i := range vals {
		vals[i] = float64(i)
	}
	vals[10] = 100
	ds := dataset.MustNew("s", dataset.NewNumbers("Load", vals...))

	got := detector(t, SensitivityMedium).SuddenChanges(ds)
	require.Len(t, got, 1)
	assert.Equal(t, []int{10}, got[0].Rows)
	assert.Equal(t, SeverityMedium, got[0].Severity)
}

func TestSuddenChangesReportDatasetRows(t *testing.T) {
	vals := make([]float64, 22)
	for i := range vals {
		vals[i] = float64(i)
	}
	vals[0], vals[1] = math.NaN(), math.NaN()
	vals[12] = 100
	ds := dataset.MustNew("s", dataset.NewNumbers("Load", vals...))

	got := detector(t, SensitivityMedium).SuddenChanges(ds)
	require.Len(t, got, 1)
	assert.Equal(t, []int{12}, got[0].Rows)
}

func TestMissingDataSeverity(t *testing.T) {
	nan := math.NaN()
	ds := dataset.MustNew("m",
		dataset.NewNumbers("Some", 1, 2, 3, 4, 5, 6, nan, nan, nan, nan),
		dataset.NewNumbers("Most", 1, 2, 3, 4, nan, nan, nan, nan, nan, nan),
		dataset.NewNumbers("Few", 1, 2, 3, 4, 5, 6, 7, 8, 9, nan),
	)
	got := detector(t, SensitivityMedium).MissingData(ds)
	require.Len(t, got, 2)
	assert.Equal(t, "Some", got[0].Column)
	assert.Equal(t, SeverityMedium, got[0].Severity)
	assert.InDelta(t, 40.0, got[0].Percentage, 1e-9)
	assert.Equal(t, "Most", got[1].Column)
	assert.Equal(t, SeverityHigh, got[1].Severity)
	assert.Equal(t, 6, got[1].Count)
}

func TestDuplicates(t *testing.T) {
	ds := dataset.MustNew("d",
		dataset.NewTexts("K", "a", "b", "a", "c"),
		dataset.NewNumbers("V", 1, 2, 1, 3),
	)
	got := detector(t, SensitivityMedium).Duplicates(ds)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, SeverityMedium, got[0].Severity)

	assert.Empty(t, detector(t, SensitivityMedium).Duplicates(ordersData()))
}

func TestRunBreakdownAndMarkdown(t *testing.T) {
	nan := math.NaN()
	ds := dataset.MustNew("r",
		dataset.NewTexts("K", "a", "a", "b", "c"),
		dataset.NewNumbers("V", nan, nan, nan, 4),
	)
	rep := detector(t, SensitivityLow).Run(ds)
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1, rep.SeverityBreakdown[SeverityHigh])
	assert.Equal(t, 1, rep.SeverityBreakdown[SeverityMedium])
	assert.Equal(t, 0, rep.SeverityBreakdown[SeverityLow])
	assert.Equal(t, SensitivityLow, rep.Sensitivity)
	assert.Equal(t, scanTime, rep.AnalyzedAt)

	md := rep.Markdown()
	assert.True(t, strings.HasPrefix(md, "[ANOMALIES]\n"))
	assert.Contains(t, md, "- [high] high_missing_data in V: 3 of 4 rows (75.0%)")
	assert.Contains(t, md, "- [medium] duplicate_rows: 1 of 4 rows (25.0%)")
	assert.Less(t, strings.Index(md, "[high]"), strings.Index(md, "[medium]"))
}

func TestRunOnCleanData(t *testing.T) {
	rep := detector(t, SensitivityMedium).Run(ordersData())
	assert.Zero(t, rep.Total)
	assert.NotNil(t, rep.Anomalies)
}

package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/analysis"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/nlviz"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

const salesCSV = `Date,Region,Sales
2025-01-05,North,100
2025-01-20,South,250
2025-02-03,North,80
2025-02-18,South,120
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestWorkspaceRoundTrip(t *testing.T) {
	tdir := t.TempDir()
	csvPath := writeFile(t, tdir, "sales.csv", salesCSV)
	root := filepath.Join(tdir, "ws", "q1")

	ws := NewWorkspace("q1", "first quarter", root)
	ref, err := ws.AddDataset(csvPath, "  monthly sales ", dataset.DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", ref.Name)
	assert.Equal(t, "monthly sales", ref.Description)
	assert.Equal(t, 4, ref.Rows)
	assert.Equal(t, schema.Schema{
		Numeric:     []string{"Sales"},
		Categorical: []string{"Region"},
		Datetime:    []string{"Date"},
	}, ref.Schema)

	ds, err := dataset.Load(csvPath, dataset.DefaultLoadOptions())
	require.NoError(t, err)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	in := nlviz.New(nlviz.WithClock(func() time.Time { return now }))
	plan, err := in.Interpret("sales trend last month", ds, ref.Schema)
	require.NoError(t, err)

	sc, err := ws.SaveChart(ref.ID, "sales trend last month", plan)
	require.NoError(t, err)
	require.NoError(t, ws.Save())
	assert.FileExists(t, filepath.Join(root, "workspace.json"))

	back, err := LoadWorkspace(root)
	require.NoError(t, err)
	assert.Equal(t, "first quarter", back.Description)
	assert.Equal(t, root, back.RootDir())
	require.Len(t, back.Charts, 1)

	saved := back.Charts[sc.ID]
	require.NotNil(t, saved)
	_, isTS := saved.Plan.Config.Spec.(chart.TimeSeries)
	assert.True(t, isTS)
	require.NotNil(t, saved.Plan.TimeFilter)
	assert.Equal(t, "Date", saved.Plan.TimeFilter.DateColumn)

	fig, err := saved.Plan.Build(ds, ref.Schema)
	require.NoError(t, err)
	assert.NotNil(t, fig)
}

func TestSaveChartValidates(t *testing.T) {
	ws := NewWorkspace("w", "", t.TempDir())
	_, err := ws.SaveChart("missing", "p", &nlviz.Plan{})
	assert.Error(t, err)

	ws.Datasets["d1"] = &DatasetRef{ID: "d1", Name: "a.csv"}
	_, err = ws.SaveChart("d1", "p", &nlviz.Plan{})
	assert.Error(t, err)
}

func TestDatasetLookup(t *testing.T) {
	ws := NewWorkspace("w", "", t.TempDir())
	ws.Datasets["abc-123"] = &DatasetRef{ID: "abc-123", Name: "a.csv"}
	ws.Datasets["abd-456"] = &DatasetRef{ID: "abd-456", Name: "b.csv"}

	ref, err := ws.Dataset("b.csv")
	require.NoError(t, err)
	assert.Equal(t, "abd-456", ref.ID)

	ref, err = ws.Dataset("abc")
	require.NoError(t, err)
	assert.Equal(t, "a.csv", ref.Name)

	_, err = ws.Dataset("ab")
	assert.ErrorContains(t, err, "ambiguous")
	_, err = ws.Dataset("zzz")
	assert.ErrorContains(t, err, "not found")
}

func TestSaveAlertsAppends(t *testing.T) {
	root := t.TempDir()
	ws := NewWorkspace("w", "", root)
	ws.Datasets["d1"] = &DatasetRef{ID: "d1", Name: "a.csv"}

	rep := &analysis.AnomalyReport{
		Total:             1,
		Sensitivity:       analysis.SensitivityHigh,
		SeverityBreakdown: map[analysis.Severity]int{analysis.SeverityHigh: 1},
		Anomalies:         []analysis.Anomaly{{Column: "V", Type: analysis.HighMissingData, Severity: analysis.SeverityHigh, Count: 6}},
		AnalyzedAt:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, ws.SaveAlerts("d1", rep))
	require.NoError(t, ws.SaveAlerts("d1", rep))
	assert.Error(t, ws.SaveAlerts("nope", rep))
	require.NoError(t, ws.Save())

	back, err := LoadWorkspace(root)
	require.NoError(t, err)
	alerts := back.Datasets["d1"].Alerts
	require.Len(t, alerts, 2)
	assert.Equal(t, 1, alerts[0].SeverityBreakdown[analysis.SeverityHigh])
	assert.Equal(t, "V", alerts[1].Anomalies[0].Column)
}

func TestLoadWorkspaceMissing(t *testing.T) {
	_, err := LoadWorkspace(t.TempDir())
	assert.ErrorContains(t, err, "workspace not found")
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"beta", "alpha"} {
		require.NoError(t, NewWorkspace(name, "", filepath.Join(dir, name)).Save())
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "stray"), 0o755))

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	names, err = List(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

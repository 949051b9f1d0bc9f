package nlviz

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func newTestInterpreter(t *testing.T, opts ...Option) *Interpreter {
	t.Helper()
	base := []Option{WithClock(func() time.Time { return fixedNow }), WithLogger(zaptest.NewLogger(t))}
	return New(append(base, opts...)...)
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// salesData has a native datetime column, two numerics and two categoricals.
func salesData() *dataset.Dataset {
	return dataset.MustNew("sales",
		dataset.NewTimes("Date",
			day(2025, 1, 10), day(2025, 2, 3), day(2025, 2, 20), day(2025, 3, 1), day(2024, 6, 5)),
		dataset.NewTexts("Region", "North", "South", "North", "East", "South"),
		dataset.NewTexts("Product", "A", "B", "C", "A", "B"),
		dataset.NewNumbers("Sales", 100, 200, 50, 75, 30),
		dataset.NewNumbers("Discount", 5, 10, 2, 0, 1),
	)
}

func interpret(t *testing.T, in *Interpreter, prompt string, ds *dataset.Dataset) (*Plan, error) {
	t.Helper()
	return in.Interpret(prompt, ds, schema.Infer(ds))
}

func TestOffTopicPrompts(t *testing.T) {
	in := newTestInterpreter(t)
	ds := salesData()

	for _, p := range []string{"hello", "what is your name", "how are you today", "Thanks!"} {
		_, err := interpret(t, in, p, ds)
		var up *UnintelligiblePromptError
		require.ErrorAs(t, err, &up, p)
		assert.Contains(t, up.Message, "I can only help with data visualizations", p)
		assert.Len(t, up.Examples, 5)
	}

	for _, p := range []string{"", "   ", "tell me a joke", "random gibberish xyz123"} {
		_, err := interpret(t, in, p, ds)
		var up *UnintelligiblePromptError
		require.ErrorAs(t, err, &up, p)
		assert.Contains(t, up.Message, "Could not understand your request", p)
	}
}

func TestSmallTalkMatchesWholeWords(t *testing.T) {
	in := newTestInterpreter(t)
	// "this" contains "hi" but is not a greeting.
	plan, err := interpret(t, in, "sales this month", salesData())
	require.NoError(t, err)
	assert.Equal(t, chart.PresetTimeSeries, plan.Config.Spec.Preset())
}

func TestRejectionMessageListsExamples(t *testing.T) {
	_, err := InterpretPrompt("hello", salesData(), schema.Infer(salesData()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "\n• \"show me sales last month\"")
	assert.Contains(t, err.Error(), "\n• \"market share by category\"")

	var rej Rejection
	assert.True(t, errors.As(err, &rej))
}

func TestColumnReferenceIsOnTopic(t *testing.T) {
	ds := dataset.MustNew("fleet",
		dataset.NewTexts("Vessel", "a", "b"),
		dataset.NewNumbers("Tonnage", 1, 2),
	)
	plan, err := interpret(t, newTestInterpreter(t), "tonnage", ds)
	require.NoError(t, err)
	assert.Equal(t, chart.Bar{X: "Vessel", Y: "Tonnage", Aggregation: chart.Sum, TopN: 10, Title: "Tonnage by Vessel"}, plan.Config.Spec)
	assert.Equal(t, "Defaulted to bar chart: 'Tonnage' by 'Vessel'.", plan.Explanation)
}

func TestExplicitPieTopN(t *testing.T) {
	ds := dataset.MustNew("brands",
		dataset.NewTexts("Brand", "a", "b", "c", "d", "e", "f"),
		dataset.NewNumbers("Revenue", 1, 2, 3, 4, 5, 6),
	)
	plan, err := interpret(t, newTestInterpreter(t), "top 5 brands in a pie chart", ds)
	require.NoError(t, err)
	assert.Equal(t, chart.Pie{Category: "Brand", Value: "Revenue", Aggregation: chart.Sum, TopN: 5, Title: "Top 5 Brand share of Revenue"}, plan.Config.Spec)
	assert.Equal(t, "Explicit pie chart: top 5 'Brand' of 'Revenue'.", plan.Explanation)
	assert.Nil(t, plan.TimeFilter)
}

func TestTrendOverTime(t *testing.T) {
	plan, err := interpret(t, newTestInterpreter(t), "sales trend over time", salesData())
	require.NoError(t, err)
	assert.Equal(t, chart.TimeSeries{X: "Date", Y: "Sales", Aggregation: chart.Sum, Grain: chart.Month, Title: "Sales over time"}, plan.Config.Spec)
	assert.Equal(t, "Detected time series for metric 'Sales' with grain month.", plan.Explanation)
}

func TestGrainDetection(t *testing.T) {
	cases := map[string]chart.Grain{
		"daily sales trend":       chart.Day,
		"weekly sales trend":      chart.Week,
		"quarterly sales trend":   chart.Quarter,
		"annual sales trend":      chart.Year,
		"sales trend by the hour": chart.Month,
	}
	in := newTestInterpreter(t)
	for prompt, want := range cases {
		plan, err := interpret(t, in, prompt, salesData())
		require.NoError(t, err, prompt)
		ts, ok := plan.Config.Spec.(chart.TimeSeries)
		require.True(t, ok, prompt)
		assert.Equal(t, want, ts.Grain, prompt)
	}
}

func TestLastMonthWindow(t *testing.T) {
	ds := salesData()
	plan, err := interpret(t, newTestInterpreter(t), "show me sales last month", ds)
	require.NoError(t, err)
	require.NotNil(t, plan.TimeFilter)
	assert.Equal(t, "Date", plan.TimeFilter.DateColumn)
	assert.Equal(t, day(2025, 2, 1), *plan.TimeFilter.Start)
	assert.Equal(t, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), *plan.TimeFilter.End)

	fig, err := plan.Build(ds, schema.Infer(ds))
	require.NoError(t, err)
	require.Len(t, fig.Series, 1)
	require.Len(t, fig.Series[0].Points, 1)
	assert.Equal(t, "2025-02-01", fig.Series[0].Points[0].Label)
	assert.Equal(t, 250.0, fig.Series[0].Points[0].Y)
}

func TestYearWindowOnNonTrendRule(t *testing.T) {
	ds := salesData()
	plan, err := interpret(t, newTestInterpreter(t), "top 2 by region in 2024", ds)
	require.NoError(t, err)
	assert.Equal(t, chart.PresetBar, plan.Config.Spec.Preset())
	require.NotNil(t, plan.TimeFilter)
	assert.Equal(t, day(2024, 1, 1), *plan.TimeFilter.Start)

	fig, err := plan.Build(ds, schema.Infer(ds))
	require.NoError(t, err)
	require.Len(t, fig.Series[0].Points, 1)
	assert.Equal(t, "South", fig.Series[0].Points[0].Label)
}

func TestVersusScatter(t *testing.T) {
	ds := dataset.MustNew("pricing",
		dataset.NewNumbers("Discount", 1, 2, 3),
		dataset.NewNumbers("Price", 10, 20, 30),
	)
	plan, err := interpret(t, newTestInterpreter(t), "discount vs price", ds)
	require.NoError(t, err)
	assert.Equal(t, chart.Scatter{X: "Discount", Y: "Price", Title: "Price vs Discount"}, plan.Config.Spec)
	assert.Equal(t, "Detected scatter of 'Price' vs 'Discount'.", plan.Explanation)
}

func TestRelationshipScatter(t *testing.T) {
	plan, err := interpret(t, newTestInterpreter(t), "correlation between discount and sales", dataset.MustNew("d",
		dataset.NewNumbers("Sales", 1, 2),
		dataset.NewNumbers("Discount", 3, 4),
	))
	require.NoError(t, err)
	assert.Equal(t, chart.Scatter{X: "Sales", Y: "Discount", Title: "Discount vs Sales"}, plan.Config.Spec)
}

func TestRankingBar(t *testing.T) {
	plan, err := interpret(t, newTestInterpreter(t), "top 3 products by sales", salesData())
	require.NoError(t, err)
	assert.Equal(t, chart.Bar{X: "Product", Y: "Sales", Aggregation: chart.Sum, TopN: 3, Title: "Top 3 Product by Sales"}, plan.Config.Spec)
	assert.Equal(t, "Detected top 3 by 'Product' for metric 'Sales'.", plan.Explanation)
}

func TestByPhraseChoosesCategory(t *testing.T) {
	plan, err := interpret(t, newTestInterpreter(t), "market share by region", salesData())
	require.NoError(t, err)
	assert.Equal(t, chart.Pie{Category: "Region", Value: "Sales", Aggregation: chart.Sum, Title: "Region share of Sales"}, plan.Config.Spec)
}

func TestExplicitHeatmap(t *testing.T) {
	plan, err := interpret(t, newTestInterpreter(t), "heatmap of sales", salesData())
	require.NoError(t, err)
	assert.Equal(t, chart.Heatmap{X: "Product", Y: "Region", Value: "Sales", Aggregation: chart.Sum, Title: "Sales by Region and Product"}, plan.Config.Spec)

	fig, err := plan.Build(salesData(), schema.Infer(salesData()))
	require.NoError(t, err)
	require.NotNil(t, fig.Matrix)
	assert.Equal(t, []string{"A", "B", "C"}, fig.Matrix.XLabels)
}

func TestPieWithoutCategoricalIsRejected(t *testing.T) {
	ds := dataset.MustNew("daily",
		dataset.NewTimes("Date", day(2025, 1, 1), day(2025, 1, 2)),
		dataset.NewNumbers("Sales", 1, 2),
	)
	_, err := interpret(t, newTestInterpreter(t), "show pie chart", ds)
	var uc *UnsuitableChartError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, chart.PresetPie, uc.Preset)
	assert.Equal(t, "categorical", uc.Requirement)
	assert.Equal(t, []chart.Preset{chart.PresetTimeSeries}, uc.Alternatives)
	assert.Contains(t, uc.Error(), "categorical")
	assert.Contains(t, uc.Error(), "Try a time series instead.")
}

func TestPieWithCategoricalIsAccepted(t *testing.T) {
	ds := dataset.MustNew("daily",
		dataset.NewTimes("Date", day(2025, 1, 1), day(2025, 1, 2)),
		dataset.NewNumbers("Sales", 1, 2),
		dataset.NewTexts("Product", "A", "B"),
	)
	plan, err := interpret(t, newTestInterpreter(t), "show pie chart", ds)
	require.NoError(t, err)
	assert.Equal(t, chart.PresetPie, plan.Config.Spec.Preset())
	pie, ok := plan.Config.Spec.(chart.Pie)
	require.True(t, ok)
	assert.Equal(t, "Product", pie.Category)
	assert.Equal(t, "Sales", pie.Value)
}

func TestRankingIsValidated(t *testing.T) {
	ds := dataset.MustNew("numbers",
		dataset.NewNumbers("Sales", 1, 2),
		dataset.NewNumbers("Discount", 3, 4),
	)
	_, err := interpret(t, newTestInterpreter(t), "top 5 by sales", ds)
	var uc *UnsuitableChartError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, chart.PresetBar, uc.Preset)
	assert.Equal(t, "categorical", uc.Requirement)
	assert.Equal(t, []chart.Preset{chart.PresetScatter}, uc.Alternatives)
}

func TestRejectionDoesNotFallThrough(t *testing.T) {
	// A scatter would fit, but the user asked for a pie.
	ds := dataset.MustNew("numbers",
		dataset.NewNumbers("Sales", 1, 2),
		dataset.NewNumbers("Discount", 3, 4),
	)
	_, err := interpret(t, newTestInterpreter(t), "sales in a pie chart", ds)
	var uc *UnsuitableChartError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, chart.PresetPie, uc.Preset)
}

func TestPieCardinality(t *testing.T) {
	products := make([]string, 60)
	sales := make([]float64, 60)
	for i := range products {
		products[i] = fmt.Sprintf("P%02d", i)
		sales[i] = float64(i)
	}
	ds := dataset.MustNew("wide", dataset.NewTexts("Product", products...), dataset.NewNumbers("Sales", sales...))

	_, err := interpret(t, newTestInterpreter(t), "market share by product", ds)
	var uc *UnsuitableChartError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, "fewer categories", uc.Requirement)
	assert.Equal(t, []chart.Preset{chart.PresetBar}, uc.Alternatives)
	assert.Contains(t, uc.Message, "60 unique values")

	_, err = interpret(t, newTestInterpreter(t, WithPieMaxCategories(100)), "market share by product", ds)
	assert.NoError(t, err)
}

func TestNoChartPossible(t *testing.T) {
	ds := dataset.MustNew("notes", dataset.NewTexts("Notes", "a", "b"))
	_, err := interpret(t, newTestInterpreter(t), "show notes", ds)
	var uc *UnsuitableChartError
	require.ErrorAs(t, err, &uc)
	assert.Empty(t, uc.Preset)
	assert.Equal(t, "Could not determine a suitable chart from the prompt and dataset schema", uc.Error())
}

func TestTextDatesDetectedPerRequest(t *testing.T) {
	ds := dataset.MustNew("orders",
		dataset.NewTexts("OrderDate", "2025-01-05", "2025-01-20", "2025-02-11", "not a date"),
		dataset.NewTexts("Region", "N", "S", "N", "S"),
		dataset.NewNumbers("Sales", 10, 20, 30, 40),
	)
	sch := schema.Schema{Numeric: []string{"Sales"}, Categorical: []string{"OrderDate", "Region"}, Datetime: []string{}}
	before := sch.Clone()

	plan, err := newTestInterpreter(t).Interpret("sales trend", ds, sch)
	require.NoError(t, err)
	assert.Equal(t, before, sch)
	ts, ok := plan.Config.Spec.(chart.TimeSeries)
	require.True(t, ok)
	assert.Equal(t, "OrderDate", ts.X)

	fig, err := plan.Build(ds, sch)
	require.NoError(t, err)
	require.Len(t, fig.Series[0].Points, 2)
	assert.Equal(t, 30.0, fig.Series[0].Points[0].Y)
}

func TestDeterministicAndSerializable(t *testing.T) {
	in := newTestInterpreter(t)
	a, err := interpret(t, in, "show me sales last month", salesData())
	require.NoError(t, err)
	b, err := interpret(t, in, "show me sales last month", salesData())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"preset":"time_series"`)
	assert.Contains(t, string(raw), `"date_col":"Date"`)

	var back Plan
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, a.Config.Spec, back.Config.Spec)
	assert.Equal(t, a.Explanation, back.Explanation)
}

func TestIdentifierColumnsAreNotMetrics(t *testing.T) {
	ds := dataset.MustNew("orders",
		dataset.NewNumbers("CustomerID", 1, 2, 3),
		dataset.NewTexts("Segment", "x", "y", "x"),
		dataset.NewNumbers("Quantity", 4, 5, 6),
	)
	plan, err := interpret(t, newTestInterpreter(t), "show totals", ds)
	require.NoError(t, err)
	bar, ok := plan.Config.Spec.(chart.Bar)
	require.True(t, ok)
	assert.Equal(t, "Quantity", bar.Y)
}

func TestDefaultTopNOption(t *testing.T) {
	plan, err := interpret(t, newTestInterpreter(t, WithDefaultTopN(4)), "best products", salesData())
	require.NoError(t, err)
	assert.Equal(t, 4, plan.Config.Spec.(chart.Bar).TopN)
}

func TestPlanBuildRejectsEmptyPlan(t *testing.T) {
	var p *Plan
	_, err := p.Build(salesData(), schema.Infer(salesData()))
	var ce *chart.ConfigError
	assert.ErrorAs(t, err, &ce)
}

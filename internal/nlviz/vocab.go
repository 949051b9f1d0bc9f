package nlviz

import "github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"

// Synonym lists are ordered: earlier entries win.
var (
	metricSynonyms = []string{
		"sale", "sales", "selling price", "sellingprice", "price", "amount", "revenue", "turnover", "gmv",
	}
	categorySynonyms = []string{
		"category", "segment", "product", "item", "sku", "brand", "type", "region", "country", "state", "city", "area",
	}
)

// Example prompts offered when a prompt is rejected as off-topic.
var examplePrompts = []string{
	"show me sales last month",
	"top 10 products by revenue",
	"monthly trend",
	"discount vs price",
	"market share by category",
}

// Small-talk phrases, matched on word boundaries.
var smallTalk = []string{
	"how are you", "who are you", "what is your name", "hello", "hi", "hey", "thanks", "thank you",
}

// Analytics vocabulary, matched as substrings of the lower-cased prompt.
var analyticsKeywords = []string{
	"show", "display", "chart", "graph", "plot", "visualize", "trend", "compare", "analysis", "analyze",
	"top", "bottom", "highest", "lowest", "most", "least", "sum", "total", "average", "mean", "count",
	"sales", "revenue", "price", "discount", "product", "category", "date", "month", "week", "year", "day",
	"share", "proportion", "distribution", "breakdown", "composition", "market", "performance",
	"relationship", "correlation", "scatter", "bar", "pie", "line", "time series", "over time",
	"last", "this", "current", "vs", "versus", "by", "per", "each", "report", "summary", "overview",
}

var (
	pieWords      = []string{"pie chart", "in a pie", "as a pie", "in pie", "donut chart", "donut"}
	barWords      = []string{"bar chart", "in a bar", "as a bar", "bar graph", "column chart"}
	scatterWords  = []string{"scatter plot", "scatter chart", "in a scatter", "as scatter"}
	lineWords     = []string{"line chart", "line graph", "trend line"}
	heatmapWords  = []string{"heatmap", "heat map"}
	shareWords    = []string{"share", "proportion", "composition", "market share"}
	rankingWords  = []string{"top ", "highest", "most", "best"}
	relationWords = []string{"relationship", "correlation", "scatter"}
	timeWords     = []string{
		"over time", "trend", "timeseries", "time series", "by month", "by week", "by day",
		"last month", "this month", "last week", "last year",
	}
	// With a datetime column present, these alone imply a time series.
	timeHints = []string{"last", "this", "month", "week", "year"}
)

// Grain cues, checked in order.
var grainCues = []struct {
	words []string
	grain chart.Grain
}{
	{[]string{"daily", "day", "per day"}, chart.Day},
	{[]string{"weekly", "week"}, chart.Week},
	{[]string{"quarter", "quarterly", "qtr"}, chart.Quarter},
	{[]string{"yearly", "annual", "per year"}, chart.Year},
}

package nlviz

import (
	"strings"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
)

// Rejection is a user-facing refusal to produce a chart. Error returns text
// meant to be shown to the user verbatim.
type Rejection interface {
	error
	rejection()
}

// UnintelligiblePromptError is returned when a prompt is not an analytics request.
type UnintelligiblePromptError struct {
	Message  string
	Examples []string
}

func (e *UnintelligiblePromptError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, ex := range e.Examples {
		b.WriteString("\n• \"")
		b.WriteString(ex)
		b.WriteString("\"")
	}
	return b.String()
}

func (*UnintelligiblePromptError) rejection() {}

// UnsuitableChartError is returned when the dataset cannot support the chart a
// prompt asks for. Preset is empty when no preset fits at all.
type UnsuitableChartError struct {
	Preset       chart.Preset
	Requirement  string
	Alternatives []chart.Preset
	Message      string
}

func (e *UnsuitableChartError) Error() string { return e.Message }

func (*UnsuitableChartError) rejection() {}

func offTopic() *UnintelligiblePromptError {
	return &UnintelligiblePromptError{
		Message:  "I can only help with data visualizations. Please ask for a chart or analysis, for example:",
		Examples: append([]string(nil), examplePrompts...),
	}
}

func notUnderstood() *UnintelligiblePromptError {
	return &UnintelligiblePromptError{
		Message:  "Could not understand your request. Please ask for a chart or analysis, for example:",
		Examples: append([]string(nil), examplePrompts...),
	}
}

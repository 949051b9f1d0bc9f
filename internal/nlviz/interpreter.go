// Package nlviz turns a free-text analytics question into a chart plan for a
// tabular dataset: a preset with column bindings, an optional time filter and
// a one-line explanation.
package nlviz

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/logging"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

// Plan is the interpretation of one prompt.
type Plan struct {
	Config      chart.Config `json:"config" yaml:"config"`
	TimeFilter  *TimeFilter  `json:"time_filter" yaml:"time_filter,omitempty"`
	Explanation string       `json:"explanation" yaml:"explanation"`
}

// Build applies the plan's time filter to ds and renders the chart.
func (p *Plan) Build(ds *dataset.Dataset, sch schema.Schema) (*chart.Figure, error) {
	if p == nil || p.Config.Spec == nil {
		return nil, &chart.ConfigError{Reason: "empty plan"}
	}
	filtered, err := p.TimeFilter.Apply(ds)
	if err != nil {
		return nil, fmt.Errorf("apply time filter: %w", err)
	}
	return chart.Build(filtered, sch, p.Config.Spec)
}

// Interpreter maps prompts to plans. The zero value is not usable; call New.
type Interpreter struct {
	now           func() time.Time
	log           *zap.Logger
	validator     Validator
	dateThreshold float64
	defaultTopN   int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithClock sets the reference instant used for relative time phrases.
func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) {
		if now != nil {
			in.now = now
		}
	}
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.log = l
		}
	}
}

// WithPieMaxCategories caps distinct categories for pie charts.
func WithPieMaxCategories(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.validator.PieMaxCategories = n
		}
	}
}

// WithDateThreshold sets the parse ratio above which a text column counts as dates.
func WithDateThreshold(t float64) Option {
	return func(in *Interpreter) {
		if t > 0 && t <= 1 {
			in.dateThreshold = t
		}
	}
}

// WithDefaultTopN sets the top-N used when a prompt names no number.
func WithDefaultTopN(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.defaultTopN = n
		}
	}
}

// New returns an Interpreter with defaults overridden by opts.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		now:           time.Now,
		log:           logging.Logger(),
		validator:     Validator{PieMaxCategories: DefaultPieMaxCategories},
		dateThreshold: schema.DefaultDateThreshold,
		defaultTopN:   chart.DefaultTopN,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// InterpretPrompt interprets prompt with default options.
func InterpretPrompt(prompt string, ds *dataset.Dataset, sch schema.Schema) (*Plan, error) {
	return New().Interpret(prompt, ds, sch)
}

// Interpret classifies prompt against sch and returns a validated plan.
// Rejections are *UnintelligiblePromptError or *UnsuitableChartError.
func (in *Interpreter) Interpret(prompt string, ds *dataset.Dataset, sch schema.Schema) (*Plan, error) {
	if err := checkTopic(prompt, sch); err != nil {
		in.log.Info("prompt rejected", zap.String("prompt", prompt), zap.String("reason", "off-topic"))
		return nil, err
	}
	r := in.newRequest(prompt, ds, sch, in.now())
	in.log.Debug("prompt bindings",
		zap.String("metric", r.metric),
		zap.String("category", r.category),
		zap.Strings("datetime", r.datetime),
		zap.Int("top_n", r.topN),
		zap.String("grain", string(r.grain)))

	for _, rl := range rules {
		if !rl.match(r) {
			continue
		}
		spec, explanation, err := rl.build(r)
		if err == nil {
			err = in.validator.Check(spec.Preset(), r.sch, cardinality(ds), pieFocus(spec))
		}
		if err != nil {
			var rej Rejection
			if errors.As(err, &rej) {
				in.log.Info("prompt rejected", zap.String("rule", rl.name), zap.Error(err))
			}
			return nil, err
		}
		plan := &Plan{Config: chart.Config{Spec: spec}, Explanation: explanation}
		if r.window != nil && len(r.datetime) > 0 {
			plan.TimeFilter = r.window
		}
		in.log.Debug("prompt interpreted",
			zap.String("rule", rl.name),
			zap.String("preset", string(spec.Preset())),
			zap.Bool("time_filter", plan.TimeFilter != nil))
		return plan, nil
	}
	// The fallback rule always matches.
	return nil, &chart.ConfigError{Reason: "no rule matched"}
}

// cardinality avoids handing the validator a typed nil.
func cardinality(ds *dataset.Dataset) Cardinality {
	if ds == nil {
		return nil
	}
	return ds
}

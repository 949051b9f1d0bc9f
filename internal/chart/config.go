package chart

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a chart spec that cannot be built: an unknown preset,
// a missing role, or a column that does not fit its role.
type ConfigError struct {
	Preset Preset
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Preset == "" {
		return "invalid chart config: " + e.Reason
	}
	return fmt.Sprintf("invalid %s config: %s", e.Preset, e.Reason)
}

// Config carries a Spec across JSON and YAML boundaries, tagged by preset.
type Config struct {
	Spec Spec
}

// wireConfig is the flat, tagged document form of every Spec.
type wireConfig struct {
	Preset      Preset      `json:"preset" yaml:"preset"`
	X           string      `json:"x,omitempty" yaml:"x,omitempty"`
	Y           string      `json:"y,omitempty" yaml:"y,omitempty"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty"`
	Value       string      `json:"value,omitempty" yaml:"value,omitempty"`
	Color       string      `json:"color,omitempty" yaml:"color,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	TimeGrain   Grain       `json:"time_grain,omitempty" yaml:"time_grain,omitempty"`
	TopN        int         `json:"top_n,omitempty" yaml:"top_n,omitempty"`
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
}

func toWire(s Spec) (wireConfig, error) {
	switch v := s.(type) {
	case TimeSeries:
		return wireConfig{Preset: PresetTimeSeries, X: v.X, Y: v.Y, Aggregation: v.Aggregation, TimeGrain: v.Grain, Title: v.Title}, nil
	case Bar:
		return wireConfig{Preset: PresetBar, X: v.X, Y: v.Y, Aggregation: v.Aggregation, TopN: v.TopN, Title: v.Title}, nil
	case Pie:
		return wireConfig{Preset: PresetPie, Category: v.Category, Value: v.Value, Aggregation: v.Aggregation, TopN: v.TopN, Title: v.Title}, nil
	case Scatter:
		return wireConfig{Preset: PresetScatter, X: v.X, Y: v.Y, Color: v.Color, Title: v.Title}, nil
	case Heatmap:
		return wireConfig{Preset: PresetHeatmap, X: v.X, Y: v.Y, Value: v.Value, Aggregation: v.Aggregation, Title: v.Title}, nil
	case nil:
		return wireConfig{}, &ConfigError{Reason: "empty spec"}
	}
	return wireConfig{}, &ConfigError{Reason: fmt.Sprintf("unsupported spec type %T", s)}
}

func (w wireConfig) spec() (Spec, error) {
	agg := w.Aggregation
	if agg == "" {
		agg = Sum
	}
	if !agg.Valid() {
		return nil, &ConfigError{Preset: w.Preset, Reason: fmt.Sprintf("unsupported aggregation %q", w.Aggregation)}
	}
	if w.TopN < 0 {
		return nil, &ConfigError{Preset: w.Preset, Reason: "top_n must be positive"}
	}
	switch w.Preset {
	case PresetTimeSeries:
		g := w.TimeGrain
		if g == "" {
			g = Month
		}
		if !g.Valid() {
			return nil, &ConfigError{Preset: w.Preset, Reason: fmt.Sprintf("unsupported time grain %q", w.TimeGrain)}
		}
		return TimeSeries{X: w.X, Y: w.Y, Aggregation: agg, Grain: g, Title: w.Title}, nil
	case PresetBar:
		return Bar{X: w.X, Y: w.Y, Aggregation: agg, TopN: w.TopN, Title: w.Title}, nil
	case PresetPie:
		return Pie{Category: w.Category, Value: w.Value, Aggregation: agg, TopN: w.TopN, Title: w.Title}, nil
	case PresetScatter:
		return Scatter{X: w.X, Y: w.Y, Color: w.Color, Title: w.Title}, nil
	case PresetHeatmap:
		return Heatmap{X: w.X, Y: w.Y, Value: w.Value, Aggregation: agg, Title: w.Title}, nil
	case "":
		return nil, &ConfigError{Reason: "missing preset"}
	}
	return nil, &ConfigError{Reason: fmt.Sprintf("unsupported preset %q", w.Preset)}
}

// MarshalJSON writes the tagged document form.
func (c Config) MarshalJSON() ([]byte, error) {
	w, err := toWire(c.Spec)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the tagged document form.
func (c *Config) UnmarshalJSON(b []byte) error {
	var w wireConfig
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("decode chart config: %w", err)
	}
	s, err := w.spec()
	if err != nil {
		return err
	}
	c.Spec = s
	return nil
}

// MarshalYAML writes the tagged document form.
func (c Config) MarshalYAML() (interface{}, error) {
	return toWire(c.Spec)
}

// ParseConfig decodes a YAML or JSON chart config document.
func ParseConfig(data []byte) (Config, error) {
	var w wireConfig
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Config{}, fmt.Errorf("decode chart config: %w", err)
	}
	s, err := w.spec()
	if err != nil {
		return Config{}, err
	}
	return Config{Spec: s}, nil
}

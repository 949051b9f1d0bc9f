package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`

	// Interpretation
	DateThreshold    float64 `mapstructure:"date_threshold" yaml:"date_threshold"`
	PieMaxCategories int     `mapstructure:"pie_max_categories" yaml:"pie_max_categories"`
	DefaultTopN      int     `mapstructure:"default_top_n" yaml:"default_top_n"`
	Timezone         string  `mapstructure:"timezone" yaml:"timezone"`

	// Cleaning and anomaly scan
	AutoClean          bool    `mapstructure:"auto_clean" yaml:"auto_clean"`
	OutlierDetection   bool    `mapstructure:"outlier_detection" yaml:"outlier_detection"`
	OutlierIQRFactor   float64 `mapstructure:"outlier_iqr_factor" yaml:"outlier_iqr_factor"`
	AnomalySensitivity string  `mapstructure:"anomaly_sensitivity" yaml:"anomaly_sensitivity"`

	// Loading
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Dir returns ~/.nlviz.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nlviz"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.nlviz/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("NLVIZ")
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("workspaces_dir", "")
	v.SetDefault("date_threshold", 0.7)
	v.SetDefault("pie_max_categories", 50)
	v.SetDefault("default_top_n", 10)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("auto_clean", true)
	v.SetDefault("outlier_detection", true)
	v.SetDefault("outlier_iqr_factor", 1.5)
	v.SetDefault("anomaly_sensitivity", "medium")
	v.SetDefault("max_rows", 0)
	v.SetDefault("delimiter", "auto")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.WorkspacesDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.WorkspacesDir = filepath.Join(dir, "workspaces")
	}
	return &c, nil
}

// Location resolves Timezone. Empty means UTC.
func (c *Global) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DelimiterRune resolves Delimiter. "auto" and "" return 0, meaning sniff.
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter maps a delimiter name or single character to a rune.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q (use auto, tab, or a single character)", s)
	}
	return r[0], nil
}

// ValidSensitivity reports whether s is low, medium or high.
func ValidSensitivity(s string) bool {
	switch s {
	case "low", "medium", "high":
		return true
	}
	return false
}

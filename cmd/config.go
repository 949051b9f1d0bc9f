package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/lokeshwaranbm/No-code-data-analytics/internal/config"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set nlviz configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "workspaces_dir: %s\n", cfg.WorkspacesDir)
		fmt.Fprintf(out, "date_threshold: %.2f\n", cfg.DateThreshold)
		fmt.Fprintf(out, "pie_max_categories: %d\n", cfg.PieMaxCategories)
		fmt.Fprintf(out, "default_top_n: %d\n", cfg.DefaultTopN)
		fmt.Fprintf(out, "timezone: %s\n", cfg.Timezone)
		fmt.Fprintf(out, "auto_clean: %t\n", cfg.AutoClean)
		fmt.Fprintf(out, "outlier_detection: %t\n", cfg.OutlierDetection)
		fmt.Fprintf(out, "outlier_iqr_factor: %.2f\n", cfg.OutlierIQRFactor)
		fmt.Fprintf(out, "anomaly_sensitivity: %s\n", cfg.AnomalySensitivity)
		if cfg.MaxRows > 0 {
			fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		}
		fmt.Fprintf(out, "delimiter: %s\n", cfg.Delimiter)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = val
		case "log_format":
			if val != "console" && val != "json" {
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
			cfg.LogFormat = val
		case "workspaces_dir":
			cfg.WorkspacesDir = val
		case "date_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid date_threshold: %v (want 0 < t <= 1)", val)
			}
			cfg.DateThreshold = f
		case "pie_max_categories":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for pie_max_categories: %v", val)
			}
			cfg.PieMaxCategories = i
		case "default_top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for default_top_n: %v", val)
			}
			cfg.DefaultTopN = i
		case "timezone":
			if _, err := time.LoadLocation(val); err != nil {
				return fmt.Errorf("invalid timezone: %w", err)
			}
			cfg.Timezone = val
		case "auto_clean", "outlier_detection":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			if key == "auto_clean" {
				cfg.AutoClean = b
			} else {
				cfg.OutlierDetection = b
			}
		case "outlier_iqr_factor":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for outlier_iqr_factor: %v", val)
			}
			cfg.OutlierIQRFactor = f
		case "anomaly_sensitivity":
			if !cfgpkg.ValidSensitivity(val) {
				return fmt.Errorf("invalid anomaly_sensitivity: %s (use low, medium or high)", val)
			}
			cfg.AnomalySensitivity = val
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/lokeshwaranbm/No-code-data-analytics/internal/config"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/logging"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/nlviz"
)

var (
	cfgFile string
	debug   bool

	// Dataset loading flags (override config if set)
	flagDelimiter  string
	flagMaxRows    int
	flagSheetName  string
	flagSheetIndex int
	flagDecimal    string
	flagThousands  string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "nlviz",
	Short: "nlviz: turn plain-English questions about a dataset into chart specs",
	Long: `nlviz reads CSV/TSV/XLSX files, infers which columns are numeric, categorical or dates,
and turns prompts like "top 5 products by revenue last quarter" into a chart spec and a
renderable figure. It can also clean and profile datasets and scan them for anomalies.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.nlviz/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: auto | ',' | ';' | 'tab' | 'pipe' (overrides config)")
	pf.IntVar(&flagMaxRows, "max-rows", 0, "maximum rows to read (0 = unlimited, overrides config)")
	pf.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to read")
	pf.IntVar(&flagSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	pf.StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	pf.StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	level, format := cfg.LogLevel, cfg.LogFormat
	if debug {
		level = "debug"
	}
	l, err := logging.New(level, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; logging disabled\n", err)
		return
	}
	logging.SetLogger(l)
	logging.Debug("config loaded", zap.String("workspaces_dir", cfg.WorkspacesDir), zap.String("timezone", cfg.Timezone))
}

// formatError renders rejections as guidance and everything else as an error line.
func formatError(err error) string {
	var unsuitable *nlviz.UnsuitableChartError
	if errors.As(err, &unsuitable) && len(unsuitable.Alternatives) > 0 {
		alts := make([]string, len(unsuitable.Alternatives))
		for i, a := range unsuitable.Alternatives {
			alts[i] = a.Label()
		}
		return fmt.Sprintf("⚠ %s\n  Try instead: %s", unsuitable.Message, strings.Join(alts, ", "))
	}
	var rej nlviz.Rejection
	if errors.As(err, &rej) {
		return "⚠ " + rej.Error()
	}
	return "✗ Error: " + err.Error()
}

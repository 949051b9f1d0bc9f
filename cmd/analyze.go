package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/analysis"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/clean"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/workspace"
)

var (
	anaOutputPath  string
	anaCleanedOut  string
	anaWorkspace   string
	anaSampleRows  int
	anaTopValues   int
	anaGroupBy     []string
	anaCorr        bool
	anaOutliers    bool
	anaOutlierThr  float64
	anaClean       bool
	anaAnomalies   bool
	anaSensitivity string
	anaAutoCharts  bool
	anaQuiet       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Profile CSV/TSV/XLSX files: summary stats, cleaning, anomalies and suggested charts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if anaCleanedOut != "" && len(files) > 1 {
			return fmt.Errorf("--cleaned-out needs exactly one input file, got %d", len(files))
		}
		if anaCleanedOut != "" {
			anaClean = true
		}

		opt := analysis.DefaultOptions()
		if anaSampleRows >= 0 {
			opt.SampleRows = anaSampleRows
		}
		if anaTopValues > 0 {
			opt.TopValues = anaTopValues
		}
		opt.GroupBy = anaGroupBy
		opt.Correlations = anaCorr
		opt.Outliers = anaOutliers
		if anaOutlierThr > 0 {
			opt.OutlierThreshold = anaOutlierThr
		}

		var det *analysis.Detector
		if anaAnomalies {
			sens := settings().AnomalySensitivity
			if cmd.Flags().Changed("sensitivity") {
				sens = anaSensitivity
			}
			if det, err = analysis.NewDetector(analysis.Sensitivity(sens), nil); err != nil {
				return err
			}
		}

		var ws *workspace.Workspace
		if anaWorkspace != "" {
			if ws, err = loadWorkspaceByName(anaWorkspace); err != nil {
				return err
			}
		}

		var out strings.Builder
		total := len(files)
		for i, path := range files {
			if total > 1 && !anaQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			md, rep, err := analyzeFile(cmd, path, opt, det)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			if ws != nil && rep != nil {
				if ref := findDatasetByPath(ws, path); ref != nil {
					if err := ws.SaveAlerts(ref.ID, rep); err != nil {
						return err
					}
				} else if !anaQuiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s is not registered in workspace '%s'; alerts not saved\n", filepath.Base(path), ws.Name)
				}
			}
			if i > 0 {
				out.WriteString("\n")
			}
			out.WriteString(md)
		}
		if ws != nil && det != nil {
			if err := ws.Save(); err != nil {
				return err
			}
		}
		return emit(cmd, anaOutputPath, []byte(out.String()), "analysis")
	},
}

// analyzeFile profiles one file and returns its markdown and, when a
// detector is given, the anomaly report.
func analyzeFile(cmd *cobra.Command, path string, opt analysis.Options, det *analysis.Detector) (string, *analysis.AnomalyReport, error) {
	ds, sch, err := loadDataset(cmd, path)
	if err != nil {
		return "", nil, err
	}
	ds.Name = filepath.Base(path)

	var cleaning string
	if anaClean {
		cleaned, sum, err := clean.Clean(ds, cleanOptions())
		if err != nil {
			return "", nil, err
		}
		ds, sch, cleaning = cleaned, schemaFor(cleaned), sum.String()
		if anaCleanedOut != "" {
			if err := writeDataset(anaCleanedOut, ds); err != nil {
				return "", nil, err
			}
			if !anaQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote cleaned data to %s\n", anaCleanedOut)
			}
		}
	}

	rep, err := analysis.Profile(ds, sch, opt)
	if err != nil {
		return "", nil, err
	}
	rep.Cleaning = cleaning

	var b strings.Builder
	b.WriteString(rep.Markdown())

	var anomalies *analysis.AnomalyReport
	if det != nil {
		anomalies = det.Run(ds)
		b.WriteString("\n")
		b.WriteString(anomalies.Markdown())
	}

	if anaAutoCharts {
		charts := analysis.AutoCharts(ds, sch)
		b.WriteString("\n[SUGGESTED CHARTS]\n")
		if len(charts) == 0 {
			b.WriteString("(none)\n")
		} else {
			y, err := yaml.Marshal(charts)
			if err != nil {
				return "", nil, fmt.Errorf("marshal charts: %w", err)
			}
			b.Write(y)
		}
	}
	return b.String(), anomalies, nil
}

// expandInputs expands globs, keeps literal paths that exist, and dedupes.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func writeDataset(path string, ds *dataset.Dataset) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return dataset.WriteXLSX(path, ds, "Cleaned")
	case ".csv", ".tsv", ".txt", "":
		return dataset.WriteCSV(path, ds)
	}
	return fmt.Errorf("unsupported output format %q (use .csv or .xlsx)", filepath.Ext(path))
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis (Markdown)")
	analyzeCmd.Flags().StringVar(&anaCleanedOut, "cleaned-out", "", "write the cleaned dataset to this .csv/.xlsx path (implies --clean)")
	analyzeCmd.Flags().StringVarP(&anaWorkspace, "workspace", "w", "", "workspace whose registered datasets receive anomaly alerts")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include")
	analyzeCmd.Flags().IntVar(&anaTopValues, "top-values", 5, "most frequent values listed per categorical column")
	analyzeCmd.Flags().StringSliceVar(&anaGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	analyzeCmd.Flags().BoolVar(&anaOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	analyzeCmd.Flags().BoolVar(&anaClean, "clean", false, "clean the data before profiling (dedupe, fill, date conversion, outlier capping)")
	analyzeCmd.Flags().BoolVar(&anaAnomalies, "anomalies", false, "scan for anomalies")
	analyzeCmd.Flags().StringVar(&anaSensitivity, "sensitivity", "medium", "anomaly sensitivity: low | medium | high (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaAutoCharts, "auto-charts", false, "suggest default charts")
	analyzeCmd.Flags().BoolVar(&anaQuiet, "quiet", false, "suppress progress and non-essential output")
}

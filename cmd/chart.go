package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/utils"
)

var (
	chartSpecPath string
	chartOutput   string
)

var chartCmd = &cobra.Command{
	Use:   "chart <file> --spec spec.yaml",
	Short: "Build a figure from an explicit chart spec (YAML or JSON)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartSpecPath == "" {
			return fmt.Errorf("--spec is required")
		}
		raw, err := os.ReadFile(chartSpecPath)
		if err != nil {
			return fmt.Errorf("read spec: %w", err)
		}
		conf, err := chart.ParseConfig(raw)
		if err != nil {
			return err
		}
		ds, sch, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		fig, err := chart.Build(ds, sch, conf.Spec)
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(figureDoc{Figure: fig})
		if err != nil {
			return err
		}
		return emit(cmd, chartOutput, b, "figure")
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chartSpecPath, "spec", "", "path to a chart spec document")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "write the figure to a file instead of stdout")
}

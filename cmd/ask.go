package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/chart"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/clean"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/logging"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/utils"
)

var (
	askPlanOnly  bool
	askFormat    string
	askNow       string
	askOutput    string
	askWorkspace string
	askSave      bool
	askClean     bool
)

type figureDoc struct {
	Explanation string        `json:"explanation,omitempty"`
	Figure      *chart.Figure `json:"figure"`
}

var askCmd = &cobra.Command{
	Use:   "ask <file> <prompt...>",
	Short: "Interpret a plain-English prompt into a chart for a dataset",
	Example: `  nlviz ask sales.csv "top 5 products by revenue"
  nlviz ask sales.csv show revenue trend last quarter --plan
  nlviz ask sales.csv "sales by region" -w q1 --save`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		prompt := strings.Join(args[1:], " ")
		if askSave && askWorkspace == "" {
			return fmt.Errorf("--save requires --workspace")
		}
		if askFormat != "json" && askFormat != "yaml" {
			return fmt.Errorf("unsupported --format: %s (use json or yaml)", askFormat)
		}

		ds, sch, err := loadDataset(cmd, path)
		if err != nil {
			return err
		}
		if askClean {
			cleaned, sum, err := clean.Clean(ds, cleanOptions())
			if err != nil {
				return err
			}
			logging.Info("dataset cleaned", zap.String("summary", sum.String()))
			ds = cleaned
			sch = schemaFor(ds)
		}

		in, err := newInterpreter(askNow)
		if err != nil {
			return err
		}
		plan, err := in.Interpret(prompt, ds, sch)
		if err != nil {
			return err
		}

		if askSave {
			ws, err := loadWorkspaceByName(askWorkspace)
			if err != nil {
				return err
			}
			ref := findDatasetByPath(ws, path)
			if ref == nil {
				opt, err := loadOptions(cmd)
				if err != nil {
					return err
				}
				if ref, err = ws.AddDataset(path, "", opt); err != nil {
					return err
				}
			}
			sc, err := ws.SaveChart(ref.ID, prompt, plan)
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Chart saved to workspace '%s' as %s\n", ws.Name, sc.ID)
		}

		if askPlanOnly {
			var b []byte
			if askFormat == "yaml" {
				b, err = yaml.Marshal(plan)
			} else {
				b, err = utils.PrettyJSON(plan)
			}
			if err != nil {
				return err
			}
			return emit(cmd, askOutput, b, "plan")
		}

		fig, err := plan.Build(ds, sch)
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(figureDoc{Explanation: plan.Explanation, Figure: fig})
		if err != nil {
			return err
		}
		return emit(cmd, askOutput, b, "figure")
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askPlanOnly, "plan", false, "print the interpreted plan instead of the figure")
	askCmd.Flags().StringVar(&askFormat, "format", "json", "plan output format: json | yaml")
	askCmd.Flags().StringVar(&askNow, "now", "", "reference instant for relative dates (RFC3339)")
	askCmd.Flags().StringVarP(&askOutput, "output", "o", "", "write output to a file instead of stdout")
	askCmd.Flags().StringVarP(&askWorkspace, "workspace", "w", "", "workspace name for --save")
	askCmd.Flags().BoolVar(&askSave, "save", false, "store the chart in the workspace")
	askCmd.Flags().BoolVar(&askClean, "clean", false, "clean the dataset before interpreting")
}

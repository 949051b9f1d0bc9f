package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/workspace"
)

var (
	listWorkspaces bool
	listDatasets   bool
	listCharts     bool
	listWsName     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces, or the datasets or charts of a workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 0
		for _, b := range []bool{listWorkspaces, listDatasets, listCharts} {
			if b {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("specify exactly one of --workspaces, --datasets or --charts")
		}
		out := cmd.OutOrStdout()
		if listWorkspaces {
			root, err := defaultWorkspacesDir()
			if err != nil {
				return err
			}
			names, err := workspace.List(root)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "(no workspaces)")
			}
			for _, name := range names {
				fmt.Fprintf(out, "- %s\n", name)
			}
			return nil
		}

		if listWsName == "" {
			return fmt.Errorf("--workspace is required when using --datasets or --charts")
		}
		ws, err := loadWorkspaceByName(listWsName)
		if err != nil {
			return err
		}
		if listDatasets {
			refs := ws.SortedDatasets()
			if len(refs) == 0 {
				fmt.Fprintln(out, "(no datasets)")
			}
			for _, d := range refs {
				fmt.Fprintf(out, "- %s: %s (%d rows; numeric %s; categorical %s; datetime %s)",
					d.ID, d.Name, d.Rows, joinOrDash(d.Schema.Numeric), joinOrDash(d.Schema.Categorical), joinOrDash(d.Schema.Datetime))
				if len(d.Alerts) > 0 {
					last := d.Alerts[len(d.Alerts)-1]
					fmt.Fprintf(out, " [%d anomaly scan(s), last: %d finding(s)]", len(d.Alerts), last.Total)
				}
				fmt.Fprintln(out)
			}
			return nil
		}
		charts := ws.SortedCharts()
		if len(charts) == 0 {
			fmt.Fprintln(out, "(no charts)")
		}
		for _, c := range charts {
			preset := "?"
			if c.Plan.Config.Spec != nil {
				preset = string(c.Plan.Config.Spec.Preset())
			}
			fmt.Fprintf(out, "- %s: [%s] %q\n", c.ID, preset, c.Prompt)
		}
		return nil
	},
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspaces, "workspaces", false, "list workspaces")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a workspace")
	listCmd.Flags().BoolVar(&listCharts, "charts", false, "list saved charts in a workspace")
	listCmd.Flags().StringVarP(&listWsName, "workspace", "w", "", "workspace name for --datasets or --charts")
}

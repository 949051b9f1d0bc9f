package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addWorkspace   string
	addDatasetDesc string
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a dataset in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if addWorkspace == "" {
			return fmt.Errorf("--workspace is required")
		}
		ws, err := loadWorkspaceByName(addWorkspace)
		if err != nil {
			return err
		}
		if ref := findDatasetByPath(ws, file); ref != nil {
			return fmt.Errorf("dataset %s is already registered as %s", ref.Name, ref.ID)
		}
		opt, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		ref, err := ws.AddDataset(file, addDatasetDesc, opt)
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset added: %s (%d rows, id %s)\n", ref.Name, ref.Rows, ref.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addWorkspace, "workspace", "w", "", "workspace name")
	addCmd.Flags().StringVar(&addDatasetDesc, "desc", "", "dataset description")
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
)

type schemaDoc struct {
	File    string        `yaml:"file"`
	Rows    int           `yaml:"rows"`
	Columns int           `yaml:"columns"`
	Schema  schema.Schema `yaml:"schema"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Print the inferred column roles of a dataset as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, sch, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(schemaDoc{
			File:    filepath.Base(args[0]),
			Rows:    ds.Len(),
			Columns: len(ds.Columns()),
			Schema:  sch,
		})
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return emit(cmd, "", b, "schema")
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

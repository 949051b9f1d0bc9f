package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/clean"
	cfgpkg "github.com/lokeshwaranbm/No-code-data-analytics/internal/config"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/logging"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/nlviz"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/utils"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/workspace"
)

// settings returns the loaded config, or defaults when none could be loaded.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		LogLevel: "info", LogFormat: "console", DateThreshold: schema.DefaultDateThreshold,
		PieMaxCategories: nlviz.DefaultPieMaxCategories, DefaultTopN: 10, Timezone: "UTC",
		AutoClean: true, OutlierDetection: true, OutlierIQRFactor: 1.5, AnomalySensitivity: "medium",
	}
}

// loadOptions merges the loading flags over the config.
func loadOptions(cmd *cobra.Command) (dataset.LoadOptions, error) {
	c := settings()
	opt := dataset.DefaultLoadOptions()
	opt.MaxRows = c.MaxRows
	if cmd.Flags().Changed("max-rows") {
		opt.MaxRows = flagMaxRows
	}
	delim := c.Delimiter
	if cmd.Flags().Changed("delimiter") {
		delim = flagDelimiter
	}
	r, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return opt, fmt.Errorf("unsupported --delimiter: %w", err)
	}
	opt.Delimiter = r
	switch strings.ToLower(strings.TrimSpace(flagDecimal)) {
	case ",", "comma":
		opt.Numbers.Decimal = ','
	case ".", "dot":
		opt.Numbers.Decimal = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", flagDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(flagThousands)) {
	case ",":
		opt.Numbers.Thousands = ','
	case ".":
		opt.Numbers.Thousands = '.'
	case "space", " ":
		opt.Numbers.Thousands = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", flagThousands)
	}
	opt.Sheet = flagSheetName
	opt.SheetIndex = flagSheetIndex
	return opt, nil
}

// loadDataset reads path and infers its schema with the configured date threshold.
func loadDataset(cmd *cobra.Command, path string) (*dataset.Dataset, schema.Schema, error) {
	opt, err := loadOptions(cmd)
	if err != nil {
		return nil, schema.Schema{}, err
	}
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, schema.Schema{}, err
	}
	sch := schemaFor(ds)
	logging.Debug("dataset loaded",
		zap.String("path", path), zap.Int("rows", ds.Len()),
		zap.Strings("numeric", sch.Numeric), zap.Strings("categorical", sch.Categorical), zap.Strings("datetime", sch.Datetime))
	return ds, sch, nil
}

func schemaFor(ds *dataset.Dataset) schema.Schema {
	return schema.InferWithThreshold(ds, settings().DateThreshold)
}

// cleanOptions maps the cleaning settings onto clean.Options.
func cleanOptions() clean.Options {
	c := settings()
	opt := clean.DefaultOptions()
	opt.AutoClean = c.AutoClean
	opt.OutlierDetection = c.OutlierDetection
	if c.OutlierIQRFactor > 0 {
		opt.IQRFactor = c.OutlierIQRFactor
	}
	if c.DateThreshold > 0 {
		opt.DateRatio = c.DateThreshold
	}
	return opt
}

// newInterpreter builds an interpreter from the config. nowFlag, when set, is
// an RFC3339 instant used as the reference time.
func newInterpreter(nowFlag string) (*nlviz.Interpreter, error) {
	c := settings()
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	clock := func() time.Time { return time.Now().In(loc) }
	if nowFlag != "" {
		t, err := time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --now (want RFC3339, e.g. 2025-03-15T10:00:00Z): %w", err)
		}
		clock = func() time.Time { return t.In(loc) }
	}
	opts := []nlviz.Option{
		nlviz.WithClock(clock),
		nlviz.WithLogger(logging.Logger()),
	}
	if c.PieMaxCategories > 0 {
		opts = append(opts, nlviz.WithPieMaxCategories(c.PieMaxCategories))
	}
	if c.DateThreshold > 0 && c.DateThreshold <= 1 {
		opts = append(opts, nlviz.WithDateThreshold(c.DateThreshold))
	}
	if c.DefaultTopN > 0 {
		opts = append(opts, nlviz.WithDefaultTopN(c.DefaultTopN))
	}
	return nlviz.New(opts...), nil
}

func defaultWorkspacesDir() (string, error) {
	dir := settings().WorkspacesDir
	if dir == "" {
		base, err := cfgpkg.Dir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "workspaces")
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	dir = filepath.Clean(dir)
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveWorkspaceDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("workspace name is required")
	}
	root, err := defaultWorkspacesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func loadWorkspaceByName(name string) (*workspace.Workspace, error) {
	dir, err := resolveWorkspaceDirByName(name)
	if err != nil {
		return nil, err
	}
	return workspace.LoadWorkspace(dir)
}

// findDatasetByPath returns the registered dataset for path, if any.
func findDatasetByPath(ws *workspace.Workspace, path string) *workspace.DatasetRef {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	for _, ref := range ws.SortedDatasets() {
		if ref.Path == abs {
			return ref
		}
	}
	return nil
}

// emit writes data to path when set, otherwise to the command's stdout.
func emit(cmd *cobra.Command, path string, data []byte, what string) error {
	if path == "" {
		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			_, err := fmt.Fprintln(out)
			return err
		}
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, path)
	return nil
}

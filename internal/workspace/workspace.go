// Package workspace persists registered datasets, saved charts and anomaly
// alerts in a workspace.json directory.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lokeshwaranbm/No-code-data-analytics/internal/analysis"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/dataset"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/nlviz"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/schema"
	"github.com/lokeshwaranbm/No-code-data-analytics/internal/utils"
)

// Workspace is a named collection of datasets and the charts built from them.
type Workspace struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Datasets    map[string]*DatasetRef `json:"datasets"`
	Charts      map[string]*SavedChart `json:"charts"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	rootDir string
}

// DatasetRef points at a registered file and the schema inferred when it was added.
type DatasetRef struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Rows        int           `json:"rows"`
	Schema      schema.Schema `json:"schema"`
	Alerts      []Alert       `json:"alerts,omitempty"`
	AddedAt     time.Time     `json:"added_at"`
}

// SavedChart is an interpreted prompt kept for later rebuilding.
type SavedChart struct {
	ID        string     `json:"id"`
	DatasetID string     `json:"dataset_id"`
	Prompt    string     `json:"prompt"`
	Plan      nlviz.Plan `json:"plan"`
	CreatedAt time.Time  `json:"created_at"`
}

// Alert is one entry of a dataset's alert log.
type Alert struct {
	At                time.Time                 `json:"at"`
	Sensitivity       analysis.Sensitivity      `json:"sensitivity"`
	Total             int                       `json:"total_anomalies"`
	SeverityBreakdown map[analysis.Severity]int `json:"severity_breakdown"`
	Anomalies         []analysis.Anomaly        `json:"anomalies"`
}

// NewWorkspace constructs an in-memory workspace. Call Save() to persist.
func NewWorkspace(name, description, rootDir string) *Workspace {
	now := time.Now()
	return &Workspace{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*DatasetRef),
		Charts:      make(map[string]*SavedChart),
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadWorkspace loads a workspace.json from the provided directory.
func LoadWorkspace(dir string) (*Workspace, error) {
	path := filepath.Join(dir, utils.WorkspaceFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if w.Datasets == nil {
		w.Datasets = make(map[string]*DatasetRef)
	}
	if w.Charts == nil {
		w.Charts = make(map[string]*SavedChart)
	}
	w.rootDir = dir
	return &w, nil
}

// RootDir returns the on-disk workspace directory.
func (w *Workspace) RootDir() string { return w.rootDir }

// Save writes workspace.json atomically.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, utils.WorkspaceFile), data)
}

// AddDataset loads the file at path and records it with its inferred schema.
func (w *Workspace) AddDataset(path, description string, opt dataset.LoadOptions) (*DatasetRef, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	ds, err := dataset.Load(abs, opt)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	ref := &DatasetRef{
		ID:          uuid.NewString(),
		Path:        abs,
		Name:        filepath.Base(abs),
		Description: strings.TrimSpace(description),
		Rows:        ds.Len(),
		Schema:      schema.Infer(ds),
		AddedAt:     time.Now(),
	}
	w.Datasets[ref.ID] = ref
	w.UpdatedAt = time.Now()
	return ref, nil
}

// Dataset finds a registered dataset by id, id prefix or file name.
func (w *Workspace) Dataset(key string) (*DatasetRef, error) {
	if ref, ok := w.Datasets[key]; ok {
		return ref, nil
	}
	var found []*DatasetRef
	for _, ref := range w.SortedDatasets() {
		if ref.Name == key || strings.HasPrefix(ref.ID, key) {
			found = append(found, ref)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("dataset %q not found in workspace %s", key, w.Name)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("dataset %q is ambiguous in workspace %s (%d matches)", key, w.Name, len(found))
	}
}

// SaveChart stores an interpreted plan against a registered dataset.
func (w *Workspace) SaveChart(datasetID, prompt string, plan *nlviz.Plan) (*SavedChart, error) {
	if _, ok := w.Datasets[datasetID]; !ok {
		return nil, fmt.Errorf("dataset %q not found in workspace %s", datasetID, w.Name)
	}
	if plan == nil || plan.Config.Spec == nil {
		return nil, errors.New("cannot save an empty chart plan")
	}
	sc := &SavedChart{
		ID:        uuid.NewString(),
		DatasetID: datasetID,
		Prompt:    prompt,
		Plan:      *plan,
		CreatedAt: time.Now(),
	}
	w.Charts[sc.ID] = sc
	w.UpdatedAt = time.Now()
	return sc, nil
}

// SaveAlerts appends an anomaly report to the dataset's alert log.
func (w *Workspace) SaveAlerts(datasetID string, rep *analysis.AnomalyReport) error {
	ref, ok := w.Datasets[datasetID]
	if !ok {
		return fmt.Errorf("dataset %q not found in workspace %s", datasetID, w.Name)
	}
	if rep == nil {
		return errors.New("nil anomaly report")
	}
	ref.Alerts = append(ref.Alerts, Alert{
		At:                rep.AnalyzedAt,
		Sensitivity:       rep.Sensitivity,
		Total:             rep.Total,
		SeverityBreakdown: rep.SeverityBreakdown,
		Anomalies:         rep.Anomalies,
	})
	w.UpdatedAt = time.Now()
	return nil
}

// SortedDatasets returns datasets ordered by time added, then name.
func (w *Workspace) SortedDatasets() []*DatasetRef {
	out := make([]*DatasetRef, 0, len(w.Datasets))
	for _, d := range w.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SortedCharts returns charts ordered by creation time.
func (w *Workspace) SortedCharts() []*SavedChart {
	out := make([]*SavedChart, 0, len(w.Charts))
	for _, c := range w.Charts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// List returns the names of workspaces under dir.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspaces dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), utils.WorkspaceFile)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

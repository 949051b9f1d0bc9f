package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LoadOptions controls how files become datasets.
type LoadOptions struct {
	// Delimiter for CSV. If 0, sniffed from the header line among ',', ';', '\t', '|'.
	Delimiter rune
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// Number parsing locale; zero values auto-detect per cell.
	Numbers NumberFormat
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used when Sheet is empty.
	Sheet      string
	SheetIndex int
}

// DefaultLoadOptions returns options suitable for most exports.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{}
}

// Load reads a CSV/TSV or XLSX file based on its extension.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return LoadCSV(path, opt)
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, opt)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", filepath.Ext(path))
	}
}

// FromRecords types raw string cells into columns. A column is numeric when
// every non-null cell parses as a number; otherwise it is text.
func FromRecords(name string, header []string, rows [][]string, opt LoadOptions) (*Dataset, error) {
	names := uniqueNames(header)
	cols := make([]*Column, len(names))
	for j, n := range names {
		cells := make([]string, len(rows))
		for i, r := range rows {
			if j < len(r) {
				cells[i] = strings.TrimSpace(r[j])
			}
		}
		cols[j] = typeColumn(n, cells, opt.Numbers)
	}
	return New(name, cols...)
}

func typeColumn(name string, cells []string, nf NumberFormat) *Column {
	nums := make([]float64, len(cells))
	null := make([]bool, len(cells))
	numeric := true
	for i, s := range cells {
		if isNullToken(s) {
			null[i] = true
			continue
		}
		f, ok := ParseNumber(s, nf)
		if !ok {
			numeric = false
			break
		}
		nums[i] = f
	}
	if numeric {
		return &Column{Name: name, Kind: KindNumber, nums: nums, null: null}
	}
	texts := make([]string, len(cells))
	for i, s := range cells {
		if isNullToken(s) {
			null[i] = true
			continue
		}
		null[i] = false
		texts[i] = s
	}
	return &Column{Name: name, Kind: KindText, texts: texts, null: null}
}

// uniqueNames fills blank headers and suffixes duplicates with ".1", ".2", ...
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		n := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if n == "" {
			n = "column_" + strconv.Itoa(i+1)
		}
		if _, dup := seen[n]; dup {
			base := n
			for k := seen[base]; ; k++ {
				cand := base + "." + strconv.Itoa(k+1)
				if _, taken := seen[cand]; !taken {
					seen[base] = k + 1
					n = cand
					break
				}
			}
		}
		seen[n] = 0
		out[i] = n
	}
	return out
}

// ConvertToTime returns a copy of a text column with cells parsed as datetimes.
// Unparseable cells become null.
func ConvertToTime(c *Column) *Column {
	if c.Kind == KindTime {
		return c.Clone()
	}
	vals := make([]time.Time, c.Len())
	for i := range vals {
		if t, ok := c.Time(i); ok {
			vals[i] = t
		}
	}
	return NewTimes(c.Name, vals...)
}

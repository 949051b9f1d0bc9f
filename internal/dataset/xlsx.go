package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads one worksheet. The first non-empty row is the header.
func LoadXLSX(path string, opt LoadOptions) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	sheet := sheets[0]
	switch {
	case opt.Sheet != "":
		found := false
		for _, s := range sheets {
			if s == opt.Sheet {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sheet %q not found (have %v)", opt.Sheet, sheets)
		}
		sheet = opt.Sheet
	case opt.SheetIndex > 0:
		if opt.SheetIndex > len(sheets) {
			return nil, fmt.Errorf("sheet index %d out of range (1..%d)", opt.SheetIndex, len(sheets))
		}
		sheet = sheets[opt.SheetIndex-1]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	for len(rows) > 0 && blankRecord(rows[0]) {
		rows = rows[1:]
	}
	name := filepath.Base(path)
	if len(rows) == 0 {
		return New(name)
	}
	header := rows[0]
	body := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if opt.MaxRows > 0 && len(body) >= opt.MaxRows {
			break
		}
		if blankRecord(r) {
			continue
		}
		body = append(body, r)
	}
	// GetRows trims trailing empty cells, so widen the header to the longest row.
	for _, r := range body {
		for len(header) < len(r) {
			header = append(header, "")
		}
	}
	return FromRecords(name, header, body, opt)
}

// WriteXLSX saves d to a single-sheet workbook. Numbers stay numeric; dates are written as ISO text.
func WriteXLSX(path string, d *Dataset, sheet string) error {
	if sheet == "" {
		sheet = "Data"
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, 0, len(d.cols))
	for _, n := range d.ColumnNames() {
		header = append(header, n)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < d.Len(); i++ {
		row := make([]interface{}, len(d.cols))
		for j, c := range d.cols {
			row[j] = cellValue(c, i)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func cellValue(c *Column, i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	switch c.Kind {
	case KindNumber:
		return c.nums[i]
	case KindTime:
		return FormatTime(c.times[i])
	default:
		return c.texts[i]
	}
}

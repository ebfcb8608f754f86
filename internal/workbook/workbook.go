// Package workbook reads product rows from and writes metadata grids to a
// local .xlsx workbook, for runs without spreadsheet access.
package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadRecords reads all rows of a worksheet in the workbook at path. The
// first row is the header; every following row becomes a map keyed by
// header name, mirroring the spreadsheet source shape.
func ReadRecords(path, worksheet string) ([]string, []map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(worksheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read worksheet %q: %w", worksheet, err)
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	headers := rows[0]

	records := make([]map[string]string, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				record[h] = cells[i]
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}

	return headers, records, nil
}

// Push replaces the named worksheet of the workbook at path with grid,
// creating the file or the worksheet as needed. Prior content of the
// worksheet is destroyed. An empty grid is an error.
func Push(path, worksheet string, grid [][]string) error {
	if len(grid) == 0 {
		return fmt.Errorf("no data rows to push")
	}

	f, err := excelize.OpenFile(path)
	created := false
	if err != nil {
		f = excelize.NewFile()
		created = true
	}
	defer f.Close()

	// Full-replace semantics: park any existing tab under a temporary name
	// so the target can be recreated empty, then drop the old one. Renaming
	// first keeps the workbook from ever being left without a sheet.
	const parked = "__replaced__"
	existing, _ := f.GetSheetIndex(worksheet)
	if existing >= 0 {
		if err := f.SetSheetName(worksheet, parked); err != nil {
			return fmt.Errorf("replace worksheet %q: %w", worksheet, err)
		}
	}
	if _, err := f.NewSheet(worksheet); err != nil {
		return fmt.Errorf("create worksheet %q: %w", worksheet, err)
	}
	if existing >= 0 {
		if err := f.DeleteSheet(parked); err != nil {
			return fmt.Errorf("replace worksheet %q: %w", worksheet, err)
		}
	}
	if created && worksheet != "Sheet1" {
		// Drop the default sheet of a fresh workbook.
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default worksheet: %w", err)
		}
	}

	for i, row := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(worksheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	return nil
}

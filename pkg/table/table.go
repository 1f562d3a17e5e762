package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/mkadlec/wise-statements/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// Table is the normalized tabular result every statement reduces to.
// Values are kept as strings - typing (amounts, dates) happens where
// the table is built.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FromCSV parses a comma separated statement with a header row.
func FromCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	return &Table{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// ColumnIndex returns the position of a named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}

	return -1
}

// CoalesceColumn normalizes null-ish values of a named column to the
// empty string. Missing columns are ignored.
func (t *Table) CoalesceColumn(name string) {
	index := t.ColumnIndex(name)
	if index == -1 {
		return
	}

	for _, row := range t.Rows {
		if index >= len(row) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[index]), "null") {
			row[index] = ""
		}
	}
}

// ReformatDateColumn rewrites a named column from the internal
// DD-MM-YYYY form to the DD.MM.YYYY display form. Values that do not
// parse are left untouched.
func (t *Table) ReformatDateColumn(name string) {
	index := t.ColumnIndex(name)
	if index == -1 {
		return
	}

	for _, row := range t.Rows {
		if index >= len(row) {
			continue
		}
		row[index] = utils.DisplayDate(row[index])
	}
}

// ToCSV renders the table back to CSV with the header row first.
func (t *Table) ToCSV() ([]byte, error) {
	var buffer bytes.Buffer

	writer := csv.NewWriter(&buffer)
	if err := writer.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("could not write CSV header: %w", err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("could not write CSV rows: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("could not flush CSV: %w", err)
	}

	return buffer.Bytes(), nil
}

// ToExcel renders the table as a single sheet Excel workbook.
func (t *Table) ToExcel() ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close() //nolint: errcheck

	sheet := file.GetSheetName(0)

	for i, column := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("could not address header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, column); err != nil {
			return nil, fmt.Errorf("could not write header cell: %w", err)
		}
	}

	for r, row := range t.Rows {
		for i, value := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("could not address cell: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("could not write cell: %w", err)
			}
		}
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("could not write workbook: %w", err)
	}

	return buffer.Bytes(), nil
}

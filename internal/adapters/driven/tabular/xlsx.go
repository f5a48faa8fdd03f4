package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// Ensure the XLSX codec implements the table ports.
var (
	_ driven.TableReader = (*XLSXReader)(nil)
	_ driven.TableWriter = (*XLSXWriter)(nil)
)

// XLSXReader loads the first sheet of an XLSX workbook into a Table.
type XLSXReader struct{}

// Read loads the XLSX file at path.
func (r *XLSXReader) Read(path string) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, path, err)
	}
	return tableFromRows(rows), nil
}

// XLSXWriter persists Tables as single-sheet XLSX workbooks.
type XLSXWriter struct{}

// Write stores the table at path.
func (w *XLSXWriter) Write(path string, table *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rowsFromTable(table) {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

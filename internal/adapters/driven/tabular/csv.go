package tabular

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// Ensure the CSV codec implements the table ports.
var (
	_ driven.TableReader = (*CSVReader)(nil)
	_ driven.TableWriter = (*CSVWriter)(nil)
)

// CSVReader loads CSV files into Tables.
type CSVReader struct{}

// Read loads the CSV file at path. Rows may be ragged; short rows
// simply leave trailing columns absent.
func (r *CSVReader) Read(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return tableFromRows(rows), nil
}

// CSVWriter persists Tables as CSV files.
type CSVWriter struct{}

// Write stores the table at path, headers first.
func (w *CSVWriter) Write(path string, table *domain.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rowsFromTable(table)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	writer.Flush()
	return writer.Error()
}

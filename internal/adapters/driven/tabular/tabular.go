// Package tabular reads and writes lead tables as CSV or XLSX files,
// and provides the table-backed annotation sink real runs write
// through. The file extension selects the codec.
package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// ReaderFor selects a table reader by file extension.
func ReaderFor(path string) (driven.TableReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &CSVReader{}, nil
	case ".xlsx":
		return &XLSXReader{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
}

// WriterFor selects a table writer by file extension.
func WriterFor(path string) (driven.TableWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &CSVWriter{}, nil
	case ".xlsx":
		return &XLSXWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
}

// Load reads the table at path with the codec its extension names.
func Load(path string) (*domain.Table, error) {
	reader, err := ReaderFor(path)
	if err != nil {
		return nil, err
	}
	return reader.Read(path)
}

// Save writes the table to path with the codec its extension names.
func Save(path string, table *domain.Table) error {
	writer, err := WriterFor(path)
	if err != nil {
		return err
	}
	return writer.Write(path, table)
}

// tableFromRows builds a Table from raw rows: the first row is the
// header, data rows get spreadsheet row numbers starting at 2. Short
// rows leave trailing columns absent; extra cells are dropped.
func tableFromRows(rows [][]string) *domain.Table {
	table := &domain.Table{}
	if len(rows) == 0 {
		return table
	}

	table.Headers = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		table.Headers[i] = strings.TrimSpace(h)
	}

	for i, row := range rows[1:] {
		values := make(map[string]string, len(table.Headers))
		for j, header := range table.Headers {
			if header == "" || j >= len(row) {
				continue
			}
			values[header] = row[j]
		}
		table.Records = append(table.Records, domain.Record{Row: i + 2, Values: values})
	}
	return table
}

// rowsFromTable flattens a Table back into raw rows, headers first.
func rowsFromTable(table *domain.Table) [][]string {
	rows := make([][]string, 0, len(table.Records)+1)
	rows = append(rows, table.Headers)
	for _, rec := range table.Records {
		row := make([]string, len(table.Headers))
		for j, header := range table.Headers {
			row[j] = rec.Values[header]
		}
		rows = append(rows, row)
	}
	return rows
}

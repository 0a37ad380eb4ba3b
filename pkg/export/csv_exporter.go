package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is the tabular form of a governance export: audit trail entries,
// access log rows, or interaction events flattened to strings. Headers fix
// the column order; rows are keyed by header name so dataset builders only
// have to name the columns they fill.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// AddRow appends one record keyed by header name. Keys without a matching
// header are dropped at render time; missing keys render as empty cells.
func (d *Dataset) AddRow(row map[string]string) {
	d.Rows = append(d.Rows, row)
}

// utf8BOM lets spreadsheet tools detect the encoding; audit exports carry
// user agents and error messages that are not plain ASCII.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter renders a governance dataset into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

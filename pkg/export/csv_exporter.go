package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

const utf8BOM = "\uFEFF"

// CSVExporter writes a Dataset as RFC 4180 CSV with column keys as header.
type CSVExporter struct {
	bom bool
}

// CSVOption tunes a CSVExporter.
type CSVOption func(*CSVExporter)

// WithBOM prefixes output with a UTF-8 byte order mark so spreadsheet
// applications detect the encoding of non-ASCII memos.
func WithBOM() CSVOption {
	return func(e *CSVExporter) { e.bom = true }
}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter(opts ...CSVOption) *CSVExporter {
	e := &CSVExporter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (e *CSVExporter) Extension() string { return "csv" }

// Render encodes the header line followed by every row.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	buf := &bytes.Buffer{}
	if e.bom {
		buf.WriteString(utf8BOM)
	}
	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Keys())
	records = append(records, data.Rows...)
	if err := csv.NewWriter(buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

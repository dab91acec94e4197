package export

import "fmt"

// Column describes one field of a Dataset. Key names the field in CSV output,
// Label is the human heading used in PDF output. Numeric cells are right aligned.
type Column struct {
	Key     string
	Label   string
	Numeric bool
}

// Dataset is an ordered table. Every row holds one cell per column.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

// Keys returns the column keys in order.
func (d Dataset) Keys() []string {
	keys := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		keys[i] = col.Key
	}
	return keys
}

func (d Dataset) validate() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset has no columns")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(d.Columns))
		}
	}
	return nil
}

func (c Column) heading() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

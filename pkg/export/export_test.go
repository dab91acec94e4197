package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Results",
		Columns: []Column{{Key: "subject", Label: "Subject"}, {Key: "score", Label: "Score", Numeric: true}},
		Rows: [][]string{
			{"Math", "80"},
			{"Science, lab", ""},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "subject,score\nMath,80\n\"Science, lab\",\n", string(out))
}

func TestCSVExporterWithBOM(t *testing.T) {
	out, err := NewCSVExporter(WithBOM()).Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF, 's'}))
}

func TestExportersRejectRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"Japanese"})

	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3 has 1 cells, want 2")

	_, err = NewPDFExporter().Render(data)
	require.Error(t, err)
}

func TestExportersRequireColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

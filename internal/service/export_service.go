package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/score-tracker-api/internal/models"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
	"github.com/noah-isme/score-tracker-api/pkg/export"
)

// ExportFormat names a downloadable rendering of the results table.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var resultColumns = []export.Column{
	{Key: "test_date", Label: "Date"},
	{Key: "lesson_type", Label: "Lesson"},
	{Key: "test_number", Label: "No.", Numeric: true},
	{Key: "subject", Label: "Subject"},
	{Key: "score", Label: "Score", Numeric: true},
	{Key: "average_score", Label: "Average", Numeric: true},
	{Key: "max_score", Label: "Max", Numeric: true},
	{Key: "std_dev", Label: "Std dev", Numeric: true},
	{Key: "score_rate", Label: "Score %", Numeric: true},
	{Key: "avg_rate", Label: "Avg %", Numeric: true},
	{Key: "relative_score", Label: "Relative", Numeric: true},
	{Key: "deviation", Label: "Deviation", Numeric: true},
	{Key: "memo", Label: "Memo"},
}

type renderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders enriched results as files.
type ExportService struct {
	results   enrichedResultLoader
	renderers map[ExportFormat]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(results enrichedResultLoader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		results: results,
		renderers: map[ExportFormat]renderer{
			ExportFormatCSV: export.NewCSVExporter(export.WithBOM()),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export renders every result, optionally restricted to lesson types.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, lessonTypes ...models.LessonType) (*ExportFile, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unsupported export format %q", format))
	}

	rows, err := s.results.LoadEnriched(ctx, lessonTypes...)
	if err != nil {
		return nil, err
	}

	payload, err := r.Render(buildResultDataset(rows))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Debug("results exported", zap.String("format", string(format)), zap.Int("rows", len(rows)))

	return &ExportFile{
		Filename:    fmt.Sprintf("test_results_%s.%s", s.now().UTC().Format("20060102_150405"), r.Extension()),
		ContentType: r.ContentType(),
		Payload:     payload,
	}, nil
}

func buildResultDataset(rows []models.EnrichedResult) export.Dataset {
	data := export.Dataset{Title: "Test Results", Columns: resultColumns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		memo := ""
		if r.Memo != nil {
			memo = *r.Memo
		}
		data.Rows = append(data.Rows, []string{
			r.TestDate.Format(models.DateLayout),
			string(r.LessonType),
			strconv.Itoa(r.TestNumber),
			string(r.Subject),
			formatFloat(&r.Score),
			formatFloat(&r.AverageScore),
			formatFloat(&r.MaxScore),
			formatFloat(r.StdDev),
			formatFloat(r.ScoreRate),
			formatFloat(r.AvgRate),
			formatFloat(r.RelativeScore),
			formatFloat(r.Deviation),
			memo,
		})
	}
	return data
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

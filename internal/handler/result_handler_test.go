package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/internal/service"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

type fakeResultSrv struct {
	rows            []models.EnrichedResult
	err             error
	lastLessonTypes []models.LessonType
	lastLimit       int
	lastSubmit      service.SubmitScoreRequest
	outcomes        []service.SubjectOutcome
	deleted         int64
}

func (f *fakeResultSrv) LoadEnriched(_ context.Context, lessonTypes ...models.LessonType) ([]models.EnrichedResult, error) {
	f.lastLessonTypes = lessonTypes
	return f.rows, f.err
}

func (f *fakeResultSrv) Recent(_ context.Context, limit int) ([]models.EnrichedResult, error) {
	f.lastLimit = limit
	return f.rows, f.err
}

func (f *fakeResultSrv) Submit(_ context.Context, req service.SubmitScoreRequest) ([]service.SubjectOutcome, error) {
	f.lastSubmit = req
	return f.outcomes, f.err
}

func (f *fakeResultSrv) Delete(_ context.Context, id int64) error {
	f.deleted = id
	return f.err
}

type fakeExportSrv struct {
	format service.ExportFormat
}

func (f *fakeExportSrv) Export(_ context.Context, format service.ExportFormat, _ ...models.LessonType) (*service.ExportFile, error) {
	f.format = format
	return &service.ExportFile{Filename: "test_results.csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("a,b\n")}, nil
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestResultHandlerListParsesLessonTypes(t *testing.T) {
	rel := 60.0
	srv := &fakeResultSrv{rows: []models.EnrichedResult{{TestResult: models.TestResult{ID: 1, Subject: models.SubjectMath}, RelativeScore: &rel}}}
	h := NewResultHandler(srv, &fakeExportSrv{})

	c, rec := newTestContext(http.MethodGet, "/results?lesson_type=Regular,Summer&lesson_type=Winter", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.LessonType{models.LessonRegular, models.LessonSummer, models.LessonWinter}, srv.lastLessonTypes)
	env := decode(t, rec)
	assert.Equal(t, float64(1), env.Meta["count"])
	assert.Contains(t, string(env.Data), `"relative_score":60`)
}

func TestResultHandlerListStoreUnavailable(t *testing.T) {
	h := NewResultHandler(&fakeResultSrv{err: appErrors.Clone(appErrors.ErrStoreUnavailable, "down")}, &fakeExportSrv{})

	c, rec := newTestContext(http.MethodGet, "/results", nil)
	h.List(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STORE_UNAVAILABLE", env.Error.Code)
}

func TestResultHandlerRecent(t *testing.T) {
	srv := &fakeResultSrv{}
	h := NewResultHandler(srv, &fakeExportSrv{})

	c, rec := newTestContext(http.MethodGet, "/results/recent?limit=5", nil)
	h.Recent(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, srv.lastLimit)

	c, rec = newTestContext(http.MethodGet, "/results/recent?limit=abc", nil)
	h.Recent(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultHandlerSubmit(t *testing.T) {
	id := int64(3)
	srv := &fakeResultSrv{outcomes: []service.SubjectOutcome{
		{Subject: models.SubjectMath, Outcome: models.OutcomeSaved, ResultID: &id},
		{Subject: models.SubjectScience, Outcome: models.OutcomeFailed, Reason: "record store unavailable"},
	}}
	h := NewResultHandler(srv, &fakeExportSrv{})

	body := []byte(`{"lesson_type":"Regular","test_number":3,"scores":[{"subject":"Math","score":80,"average_score":70,"max_score":100}]}`)
	c, rec := newTestContext(http.MethodPost, "/results/submit", body)
	h.Submit(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LessonRegular, srv.lastSubmit.LessonType)
	require.Len(t, srv.lastSubmit.Scores, 1)
	assert.Equal(t, 80.0, *srv.lastSubmit.Scores[0].Score)

	env := decode(t, rec)
	summary, ok := env.Meta["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), summary["saved"])
	assert.Equal(t, float64(1), summary["failed"])
}

func TestResultHandlerSubmitInvalidBody(t *testing.T) {
	srv := &fakeResultSrv{}
	h := NewResultHandler(srv, &fakeExportSrv{})

	c, rec := newTestContext(http.MethodPost, "/results/submit", []byte(`{"lesson_type":`))
	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, srv.lastSubmit.LessonType)
}

func TestResultHandlerDelete(t *testing.T) {
	srv := &fakeResultSrv{}
	h := NewResultHandler(srv, &fakeExportSrv{})

	c, rec := newTestContext(http.MethodDelete, "/results/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(9), srv.deleted)

	srv.err = appErrors.Clone(appErrors.ErrNotFound, "test result not found")
	c, rec = newTestContext(http.MethodDelete, "/results/10", nil)
	c.Params = gin.Params{{Key: "id", Value: "10"}}
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newTestContext(http.MethodDelete, "/results/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	h.Delete(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultHandlerExport(t *testing.T) {
	exports := &fakeExportSrv{}
	h := NewResultHandler(&fakeResultSrv{}, exports)

	c, rec := newTestContext(http.MethodGet, "/results/export", nil)
	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatCSV, exports.format)
	assert.Equal(t, `attachment; filename="test_results.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", rec.Body.String())
}

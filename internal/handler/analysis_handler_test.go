package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/score-tracker-api/internal/models"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

type fakeAnalysisSrv struct {
	lastThreshold float64
	lastSubject   models.Subject
	lastFilter    models.TrendFilter
	err           error
}

func (f *fakeAnalysisSrv) DefaultThreshold() float64 { return 48 }

func (f *fakeAnalysisSrv) ThresholdBounds() (float64, float64) { return 30, 55 }

func (f *fakeAnalysisSrv) Subjects(context.Context) ([]models.SubjectAggregate, error) {
	return []models.SubjectAggregate{{Subject: models.SubjectMath, Count: 2}}, f.err
}

func (f *fakeAnalysisSrv) WeakTopics(_ context.Context, threshold float64) ([]models.WeakTopic, error) {
	f.lastThreshold = threshold
	if f.err != nil {
		return nil, f.err
	}
	return []models.WeakTopic{}, nil
}

func (f *fakeAnalysisSrv) Trend(_ context.Context, filter models.TrendFilter) ([]models.TrendSeries, error) {
	f.lastFilter = filter
	return []models.TrendSeries{}, f.err
}

func (f *fakeAnalysisSrv) SubjectSlots(_ context.Context, subject models.Subject, threshold float64) ([]models.SlotScore, error) {
	f.lastSubject = subject
	f.lastThreshold = threshold
	return []models.SlotScore{}, f.err
}

func TestAnalysisHandlerWeakTopicsDefaultThreshold(t *testing.T) {
	srv := &fakeAnalysisSrv{}
	h := NewAnalysisHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/analysis/weak-topics", nil)
	h.WeakTopics(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 48.0, srv.lastThreshold)
	env := decode(t, rec)
	assert.Equal(t, 48.0, env.Meta["threshold"])
	assert.Equal(t, "[]", string(env.Data))
}

func TestAnalysisHandlerWeakTopicsRejected(t *testing.T) {
	srv := &fakeAnalysisSrv{err: appErrors.Clone(appErrors.ErrInvalidInput, "threshold must be between 30 and 55")}
	h := NewAnalysisHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/analysis/weak-topics?threshold=70", nil)
	h.WeakTopics(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 70.0, srv.lastThreshold)

	for _, raw := range []string{"low", "NaN", "47.5", "Inf"} {
		srv.lastThreshold = 0
		c, rec = newTestContext(http.MethodGet, "/analysis/weak-topics?threshold="+raw, nil)
		h.WeakTopics(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
		assert.Zero(t, srv.lastThreshold, "service must not be called for %q", raw)
	}
}

func TestAnalysisHandlerTrend(t *testing.T) {
	srv := &fakeAnalysisSrv{}
	h := NewAnalysisHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/analysis/trend?metric=score_rate&subject=Math&lesson_type=Summer", nil)
	h.Trend(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MetricScoreRate, srv.lastFilter.Metric)
	assert.Equal(t, models.SubjectMath, srv.lastFilter.Subject)
	assert.Equal(t, []models.LessonType{models.LessonSummer}, srv.lastFilter.LessonTypes)
}

func TestAnalysisHandlerSubjectSlots(t *testing.T) {
	srv := &fakeAnalysisSrv{}
	h := NewAnalysisHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/analysis/subjects/Social%20Studies/slots?threshold=45", nil)
	c.Params = gin.Params{{Key: "subject", Value: "Social Studies"}}
	h.SubjectSlots(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SubjectSocialStudies, srv.lastSubject)
	assert.Equal(t, 45.0, srv.lastThreshold)
}

func TestAnalysisHandlerSubjects(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalysisSrv{})

	c, rec := newTestContext(http.MethodGet, "/analysis/subjects", nil)
	h.Subjects(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"count":2`)
}

func TestMetaHandlerEnums(t *testing.T) {
	h := NewMetaHandler(&fakeAnalysisSrv{})

	c, rec := newTestContext(http.MethodGet, "/meta/enums", nil)
	h.Enums(c)

	require.Equal(t, http.StatusOK, rec.Code)
	data := string(decode(t, rec).Data)
	assert.Contains(t, data, `"subjects":["Japanese","Math","Science","Social Studies"]`)
	assert.Contains(t, data, `"lesson_types":["Regular","Spring","Summer","Winter"]`)
	assert.Contains(t, data, `"threshold":{"min":30,"max":55,"default":48}`)
}

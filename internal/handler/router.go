package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Results    *ResultHandler
	Curriculum *CurriculumHandler
	Analysis   *AnalysisHandler
	Meta       *MetaHandler
	Ops        *MetricsHandler
}

// RegisterRoutes mounts ops endpoints at the root and the API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", h.Ops.Health)
	r.GET("/ready", h.Ops.Ready)
	r.GET("/metrics", h.Ops.Prometheus)

	api := r.Group(prefix)
	api.GET("/meta/enums", h.Meta.Enums)

	results := api.Group("/results")
	results.GET("", h.Results.List)
	results.GET("/recent", h.Results.Recent)
	results.GET("/export", h.Results.Export)
	results.POST("/submit", h.Results.Submit)
	results.DELETE("/:id", h.Results.Delete)

	curriculum := api.Group("/curriculum")
	curriculum.GET("/units", h.Curriculum.Units)
	curriculum.GET("/test-numbers", h.Curriculum.TestNumbers)

	analysis := api.Group("/analysis")
	analysis.GET("/subjects", h.Analysis.Subjects)
	analysis.GET("/subjects/:subject/slots", h.Analysis.SubjectSlots)
	analysis.GET("/weak-topics", h.Analysis.WeakTopics)
	analysis.GET("/trend", h.Analysis.Trend)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/services"
	"github.com/SAP-F-2025/exam-grading-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerManager struct {
	gradingHandler *GradingHandler
	identity       gin.HandlerFunc
	health         Pinger
}

func NewHandlerManager(
	gradingService services.GradingService,
	identity gin.HandlerFunc,
	health Pinger,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		gradingHandler: NewGradingHandler(gradingService, logger),
		identity:       identity,
		health:         health,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(hm.identity)
	{
		exams := v1.Group("/exams")
		{
			exams.GET("", hm.gradingHandler.ListExams)
			exams.POST("/:exam_id/submissions", hm.gradingHandler.StartSubmission)
			exams.GET("/:exam_id/grades/export", hm.gradingHandler.ExportGrades)
		}

		submissions := v1.Group("/submissions")
		{
			submissions.GET("/:id", hm.gradingHandler.GetSubmission)
			submissions.GET("/:id/summary", hm.gradingHandler.GetSummary)
			submissions.PUT("/:id/answers", hm.gradingHandler.ChangeAnswer)
			submissions.POST("/:id/submit", hm.gradingHandler.Submit)

			// Question group routes
			submissions.GET("/:id/groups/:group_id", hm.gradingHandler.GetGroupView)
			submissions.POST("/:id/groups/:group_id/drops", hm.gradingHandler.ApplyDrop)
			submissions.PUT("/:id/groups/:group_id/overrides", hm.gradingHandler.SetOverride)
			submissions.POST("/:id/groups/:group_id/grade", hm.gradingHandler.SaveSectionGrade)
		}
	}
}

// HealthCheck reports service health including the database connection
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":  "healthy",
		"service": "exam-grading-service",
	}

	if hm.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := hm.health.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = err.Error()
		}
	}
	c.JSON(status, body)
}

package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/exam-grading-service/internal/services"
	"github.com/SAP-F-2025/exam-grading-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
}

func NewGradingHandler(gradingService services.GradingService, logger utils.Logger) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
	}
}

// ListExams lists the exams available for grading
// @Router /exams [get]
func (h *GradingHandler) ListExams(c *gin.Context) {
	h.RespondWithSuccess(c, http.StatusOK, "Exams retrieved successfully", h.gradingService.ListExams(c.Request.Context()))
}

// GetSubmission returns a submission with its decoded answers
// @Router /submissions/{id} [get]
func (h *GradingHandler) GetSubmission(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.gradingService.GetSubmission(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Submission retrieved successfully", resp)
}

// GetSummary returns per-section tallies and the band score
// @Router /submissions/{id}/summary [get]
func (h *GradingHandler) GetSummary(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	summary, err := h.gradingService.GetSummary(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Summary retrieved successfully", summary)
}

// GetGroupView renders one question group of a submission
// @Router /submissions/{id}/groups/{group_id} [get]
func (h *GradingHandler) GetGroupView(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	groupID := ParseStringIDParam(c, "group_id")
	if groupID == "" {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	view, err := h.gradingService.GetGroupView(c.Request.Context(), user, id, groupID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Group retrieved successfully", view)
}

// ChangeAnswer records a typed answer
// @Router /submissions/{id}/answers [put]
func (h *GradingHandler) ChangeAnswer(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.ChangeAnswerRequest
	if !h.bind(c, &req) {
		return
	}

	view, err := h.gradingService.ChangeAnswer(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Answer saved", view)
}

// ApplyDrop reconciles a drag-and-drop gesture
// @Router /submissions/{id}/groups/{group_id}/drops [post]
func (h *GradingHandler) ApplyDrop(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	groupID := ParseStringIDParam(c, "group_id")
	if groupID == "" {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.DropRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.gradingService.ApplyDrop(c.Request.Context(), user, id, groupID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	message := "Drop applied"
	if !resp.Changed {
		message = "Drop ignored"
	}
	h.RespondWithSuccess(c, http.StatusOK, message, resp)
}

// StartSubmission opens or resumes the caller's attempt at an exam
// @Router /exams/{exam_id}/submissions [post]
func (h *GradingHandler) StartSubmission(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	examID := c.Param("exam_id")

	resp, err := h.gradingService.StartSubmission(c.Request.Context(), user, examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if resp.Resumed {
		h.RespondWithSuccess(c, http.StatusOK, "Submission resumed", resp)
		return
	}
	h.LogRequest(c, "Submission started", "exam_id", examID, "submission_id", resp.ID)
	h.RespondWithSuccess(c, http.StatusCreated, "Submission started", resp)
}

// Submit closes the caller's submission
// @Router /submissions/{id}/submit [post]
func (h *GradingHandler) Submit(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.gradingService.Submit(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Submission submitted", "submission_id", id)
	h.RespondWithSuccess(c, http.StatusOK, "Submission submitted", resp)
}

// SetOverride stores an instructor override for one question
// @Router /submissions/{id}/groups/{group_id}/overrides [put]
func (h *GradingHandler) SetOverride(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	groupID := ParseStringIDParam(c, "group_id")
	if groupID == "" {
		return
	}
	grader, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.OverrideRequest
	if !h.bind(c, &req) {
		return
	}

	view, err := h.gradingService.SetOverride(c.Request.Context(), grader, id, groupID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Override saved", view)
}

// SaveSectionGrade finalizes the grading of one section. The body is
// optional.
// @Router /submissions/{id}/groups/{group_id}/grade [post]
func (h *GradingHandler) SaveSectionGrade(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}
	groupID := ParseStringIDParam(c, "group_id")
	if groupID == "" {
		return
	}
	grader, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.SaveSectionGradeRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}

	h.LogRequest(c, "Saving section grade", "submission_id", id, "group_id", groupID)
	grade, err := h.gradingService.SaveSectionGrade(c.Request.Context(), grader, id, groupID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Section grade saved", grade)
}

// ExportGrades downloads the grades of an exam as an xlsx workbook
// @Router /exams/{exam_id}/grades/export [get]
func (h *GradingHandler) ExportGrades(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}
	grader, ok := h.currentUser(c)
	if !ok {
		return
	}

	data, err := h.gradingService.ExportGrades(c.Request.Context(), grader, examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-grades.xlsx"`, examID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *GradingHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	return true
}

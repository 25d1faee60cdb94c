package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/services"
	"github.com/SAP-F-2025/exam-grading-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(svc services.GradingService, health Pinger) *gin.Engine {
	logger := utils.NewDefaultLogger()
	identity := IdentityMiddleware(IdentityConfig{AllowHeaderIdentity: true}, nil, logger)

	router := gin.New()
	router.Use(utils.ContextLogger(logger))
	NewHandlerManager(svc, identity, health, logger).SetupRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path string, body interface{}, userID, role string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
		req.Header.Set(UserRoleHeader, role)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func isUser(id string) interface{} {
	return mock.MatchedBy(func(u *models.User) bool { return u != nil && u.ID == id })
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(new(MockGradingService), stubPinger{})
	w := doRequest(router, http.MethodGet, "/health", nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))

	router = setupRouter(new(MockGradingService), stubPinger{err: errors.New("connection refused")})
	w = doRequest(router, http.MethodGet, "/health", nil, "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestRoutesRequireIdentity(t *testing.T) {
	svc := new(MockGradingService)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/submissions/1", nil, "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetSubmission", mock.Anything, mock.Anything, mock.Anything)
}

func TestListExams(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("ListExams", mock.Anything).Return([]services.ExamInfo{{ID: "listening-practice-1", QuestionCount: 11}})
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/exams", nil, "student-1", "student")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "listening-practice-1")
	svc.AssertExpectations(t)
}

func TestStartSubmission(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("StartSubmission", mock.Anything, isUser("student-1"), "listening-practice-1").
		Return(&services.SubmissionResponse{ID: 3, Status: models.SubmissionInProgress}, nil)
	svc.On("StartSubmission", mock.Anything, isUser("student-2"), "listening-practice-1").
		Return(&services.SubmissionResponse{ID: 4, Status: models.SubmissionInProgress, Resumed: true}, nil)
	svc.On("StartSubmission", mock.Anything, mock.Anything, "missing").Return(nil, services.ErrExamNotFound)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/exams/listening-practice-1/submissions", nil, "student-1", "student")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":3`)

	w = doRequest(router, http.MethodPost, "/api/v1/exams/listening-practice-1/submissions", nil, "student-2", "student")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resumed":true`)

	w = doRequest(router, http.MethodPost, "/api/v1/exams/missing/submissions", nil, "student-1", "student")
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestGetSubmission(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockGradingService)
		svc.On("GetSubmission", mock.Anything, isUser("student-1"), uint(7)).Return(&services.SubmissionResponse{
			ID:        7,
			StudentID: "student-1",
			Status:    models.SubmissionInProgress,
			Answers:   map[string]grading.AnswerValue{"q1": grading.TextAnswer("library")},
		}, nil)
		router := setupRouter(svc, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/submissions/7", nil, "student-1", "student")

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data services.SubmissionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, uint(7), resp.Data.ID)
		assert.Equal(t, "library", resp.Data.Answers["q1"].Text)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockGradingService)
		router := setupRouter(svc, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/submissions/abc", nil, "student-1", "student")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doRequest(router, http.MethodGet, "/api/v1/submissions/0", nil, "student-1", "student")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockGradingService)
		svc.On("GetSubmission", mock.Anything, mock.Anything, uint(9)).Return(nil, services.ErrSubmissionNotFound)
		router := setupRouter(svc, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/submissions/9", nil, "student-1", "student")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := new(MockGradingService)
		svc.On("GetSubmission", mock.Anything, mock.Anything, uint(3)).
			Return(nil, services.NewPermissionError("student-2", 3, "submission", "view", "not the owner"))
		router := setupRouter(svc, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/submissions/3", nil, "student-2", "student")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "not the owner")
	})
}

func TestChangeAnswer(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("ChangeAnswer", mock.Anything, isUser("student-1"), uint(1), mock.MatchedBy(func(req *services.ChangeAnswerRequest) bool {
		return req.QuestionID == "q2" && req.Answer.Text == "Tuesday"
	})).Return(&grading.GroupView{GroupID: "part1-notes", Counts: grading.Counts{Correct: 1, Total: 2}}, nil)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodPut, "/api/v1/submissions/1/answers", map[string]interface{}{
		"question_id": "q2",
		"answer":      "Tuesday",
	}, "student-1", "student")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "part1-notes")
	svc.AssertExpectations(t)
}

func TestChangeAnswer_BadPayload(t *testing.T) {
	svc := new(MockGradingService)
	router := setupRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/submissions/1/answers", bytes.NewBufferString("{"))
	req.Header.Set(UserIDHeader, "student-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ChangeAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeAnswer_Locked(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("ChangeAnswer", mock.Anything, mock.Anything, uint(1), mock.Anything).Return(nil, services.ErrSubmissionLocked)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodPut, "/api/v1/submissions/1/answers", map[string]interface{}{
		"question_id": "q1",
		"answer":      "x",
	}, "student-1", "student")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApplyDrop(t *testing.T) {
	for _, changed := range []bool{true, false} {
		t.Run(fmt.Sprintf("changed=%v", changed), func(t *testing.T) {
			svc := new(MockGradingService)
			svc.On("ApplyDrop", mock.Anything, mock.Anything, uint(4), "part2-map", mock.MatchedBy(func(req *services.DropRequest) bool {
				return req.Content == "C" && req.SourceID == grading.PoolZoneID && req.OverID == "q3"
			})).Return(&services.DropResponse{Changed: changed}, nil)
			router := setupRouter(svc, nil)

			w := doRequest(router, http.MethodPost, "/api/v1/submissions/4/groups/part2-map/drops", map[string]string{
				"content":   "C",
				"source_id": grading.PoolZoneID,
				"over_id":   "q3",
			}, "student-1", "student")

			require.Equal(t, http.StatusOK, w.Code)
			var resp struct {
				Message string                `json:"message"`
				Data    services.DropResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, changed, resp.Data.Changed)
			if changed {
				assert.Equal(t, "Drop applied", resp.Message)
			} else {
				assert.Equal(t, "Drop ignored", resp.Message)
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("Submit", mock.Anything, mock.Anything, uint(2)).Return(&services.SubmissionResponse{ID: 2, Status: models.SubmissionSubmitted}, nil)
	svc.On("Submit", mock.Anything, mock.Anything, uint(5)).Return(nil, services.ErrAlreadySubmitted)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/submissions/2/submit", nil, "student-1", "student")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.SubmissionSubmitted))

	w = doRequest(router, http.MethodPost, "/api/v1/submissions/5/submit", nil, "student-1", "student")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSetOverride(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("SetOverride", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "examiner-1" && u.Role == models.RoleInstructor
	}), uint(1), "part1-notes", &services.OverrideRequest{QuestionNumber: 2, Status: "correct"}).
		Return(&grading.GroupView{GroupID: "part1-notes"}, nil)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodPut, "/api/v1/submissions/1/groups/part1-notes/overrides", map[string]interface{}{
		"question_number": 2,
		"status":          "correct",
	}, "examiner-1", "instructor")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSetOverride_NotAllowed(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("SetOverride", mock.Anything, mock.Anything, uint(1), "part1-notes", mock.Anything).
		Return(nil, services.ErrGradingNotAllowed)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodPut, "/api/v1/submissions/1/groups/part1-notes/overrides", map[string]interface{}{
		"question_number": 2,
		"status":          "correct",
	}, "student-1", "student")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSaveSectionGrade(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		svc := new(MockGradingService)
		svc.On("SaveSectionGrade", mock.Anything, mock.Anything, uint(1), "part1-notes", &services.SaveSectionGradeRequest{}).
			Return(&models.SectionGrade{SubmissionID: 1, GroupID: "part1-notes", Correct: 2, Total: 2}, nil)
		router := setupRouter(svc, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/submissions/1/groups/part1-notes/grade", nil, "examiner-1", "instructor")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "part1-notes")
		svc.AssertExpectations(t)
	})

	t.Run("with overrides", func(t *testing.T) {
		svc := new(MockGradingService)
		svc.On("SaveSectionGrade", mock.Anything, mock.Anything, uint(1), "part1-notes", mock.MatchedBy(func(req *services.SaveSectionGradeRequest) bool {
			return req.Overrides[2] == "incorrect"
		})).Return(&models.SectionGrade{SubmissionID: 1, GroupID: "part1-notes"}, nil)
		router := setupRouter(svc, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/submissions/1/groups/part1-notes/grade", map[string]interface{}{
			"overrides": map[string]string{"2": "incorrect"},
		}, "examiner-1", "instructor")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		svc := new(MockGradingService)
		svc.On("SaveSectionGrade", mock.Anything, mock.Anything, uint(1), "part1-notes", mock.Anything).
			Return(nil, services.ValidationErrors{{Field: "overrides[2]", Message: "must be auto, correct or incorrect"}})
		router := setupRouter(svc, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/submissions/1/groups/part1-notes/grade", map[string]interface{}{
			"overrides": map[string]string{"2": "maybe"},
		}, "examiner-1", "instructor")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "overrides[2]")
	})
}

func TestGetSummary(t *testing.T) {
	band := 6.5
	svc := new(MockGradingService)
	svc.On("GetSummary", mock.Anything, mock.Anything, uint(1)).Return(&services.SubmissionSummary{
		SubmissionID: 1,
		Skill:        models.SkillListening,
		Counts:       grading.Counts{Correct: 27, Total: 40},
		Band:         &band,
	}, nil)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/submissions/1/summary", nil, "student-1", "student")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"band":6.5`)
}

func TestGetGroupView_ServerError(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("GetGroupView", mock.Anything, mock.Anything, uint(1), "part1-notes").Return(nil, errors.New("boom"))
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/submissions/1/groups/part1-notes", nil, "student-1", "student")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestExportGrades(t *testing.T) {
	svc := new(MockGradingService)
	svc.On("ExportGrades", mock.Anything, isUser("examiner-1"), "listening-practice-1").Return([]byte("PK\x03\x04"), nil)
	router := setupRouter(svc, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/exams/listening-practice-1/grades/export", nil, "examiner-1", "instructor")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "listening-practice-1-grades.xlsx")
	assert.Equal(t, "PK\x03\x04", w.Body.String())
}

package services

import (
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
)

// ===== REQUESTS =====

type ChangeAnswerRequest struct {
	QuestionID string              `json:"question_id" validate:"required,question_key"`
	Answer     grading.AnswerValue `json:"answer"`
}

type DropRequest struct {
	Content  string `json:"content" validate:"required"`
	SourceID string `json:"source_id"`
	OverID   string `json:"over_id"`
}

type OverrideRequest struct {
	QuestionNumber int    `json:"question_number" validate:"required,gt=0"`
	Status         string `json:"status" validate:"override_status"`
}

// SaveSectionGradeRequest optionally replaces the stored overrides of the
// section. A nil map keeps what was set through SetOverride.
type SaveSectionGradeRequest struct {
	Overrides map[int]string `json:"overrides" validate:"omitempty,dive,override_status"`
}

// ===== RESPONSES =====

type ExamInfo struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Skill         models.Skill `json:"skill"`
	QuestionCount int          `json:"question_count"`
	Groups        []GroupInfo  `json:"groups"`
}

type GroupInfo struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Layout          grading.Layout `json:"layout"`
	QuestionNumbers []int          `json:"question_numbers"`
}

type SubmissionResponse struct {
	ID          uint                           `json:"id"`
	StudentID   string                         `json:"student_id"`
	Status      models.SubmissionStatus        `json:"status"`
	Answers     map[string]grading.AnswerValue `json:"answers"`
	SubmittedAt *time.Time                     `json:"submitted_at,omitempty"`
	Exam        ExamInfo                       `json:"exam"`
	Resumed     bool                           `json:"resumed,omitempty"`
}

type DropResponse struct {
	Changed bool              `json:"changed"`
	View    grading.GroupView `json:"view"`
}

type SectionSummary struct {
	GroupID  string         `json:"group_id"`
	Title    string         `json:"title"`
	Counts   grading.Counts `json:"counts"`
	Saved    bool           `json:"saved"`
	GradedBy string         `json:"graded_by,omitempty"`
	GradedAt *time.Time     `json:"graded_at,omitempty"`
}

type SubmissionSummary struct {
	SubmissionID uint                    `json:"submission_id"`
	ExamID       string                  `json:"exam_id"`
	Skill        models.Skill            `json:"skill"`
	Status       models.SubmissionStatus `json:"status"`
	Sections     []SectionSummary        `json:"sections"`
	Counts       grading.Counts          `json:"counts"`
	Band         *float64                `json:"band,omitempty"`
}

func newExamInfo(e *models.Exam) ExamInfo {
	info := ExamInfo{
		ID:            e.ID,
		Title:         e.Title,
		Skill:         e.Skill,
		QuestionCount: e.QuestionCount(),
		Groups:        make([]GroupInfo, 0, len(e.Groups)),
	}
	for _, g := range e.Groups {
		numbers := make([]int, 0, len(g.Questions))
		for _, q := range g.Questions {
			numbers = append(numbers, q.Number)
		}
		info.Groups = append(info.Groups, GroupInfo{ID: g.ID, Title: g.Title, Layout: g.Layout, QuestionNumbers: numbers})
	}
	return info
}

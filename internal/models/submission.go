package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
)

// Submission is one student's answers to one exam.
type Submission struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	ExamID    string           `json:"exam_id" gorm:"not null;size:100;index;uniqueIndex:idx_submission_in_progress,where:status = 'in_progress' AND deleted_at IS NULL"`
	StudentID string           `json:"student_id" gorm:"not null;size:255;index;uniqueIndex:idx_submission_in_progress"`
	Status    SubmissionStatus `json:"status" gorm:"default:in_progress;index"`

	// Answers maps question keys (q1, q2, ...) to a string or list of strings
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	SubmittedAt *time.Time     `json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Sections []SectionGrade `json:"sections,omitempty" gorm:"foreignKey:SubmissionID"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Editable reports whether the student may still change answers.
func (s *Submission) Editable() bool {
	return s.Status == "" || s.Status == SubmissionInProgress
}

// DecodeAnswers unpacks the stored answer map. An empty column yields an
// empty map.
func (s *Submission) DecodeAnswers() (map[string]grading.AnswerValue, error) {
	answers := make(map[string]grading.AnswerValue)
	if len(s.Answers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, fmt.Errorf("decode answers of submission %d: %w", s.ID, err)
	}
	return answers, nil
}

func (s *Submission) EncodeAnswers(answers map[string]grading.AnswerValue) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers of submission %d: %w", s.ID, err)
	}
	s.Answers = datatypes.JSON(raw)
	return nil
}

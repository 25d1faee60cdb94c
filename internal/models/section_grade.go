package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"gorm.io/datatypes"
)

// SectionGrade is the saved grading of one question group of a submission.
type SectionGrade struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SubmissionID uint   `json:"submission_id" gorm:"not null;uniqueIndex:idx_submission_group"`
	GroupID      string `json:"group_id" gorm:"not null;size:100;uniqueIndex:idx_submission_group"`

	// Overrides maps question numbers to correct/incorrect; auto is never stored
	Overrides datatypes.JSON `json:"overrides" gorm:"type:jsonb"`

	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`

	// Score is the percentage of correct answers in the section
	Score float64 `json:"score"`

	GradedBy string    `json:"graded_by" gorm:"size:255"`
	GradedAt time.Time `json:"graded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SectionGrade) TableName() string {
	return "section_grades"
}

func (g *SectionGrade) DecodeOverrides() (map[int]grading.OverrideStatus, error) {
	overrides := make(map[int]grading.OverrideStatus)
	if len(g.Overrides) == 0 {
		return overrides, nil
	}
	if err := json.Unmarshal(g.Overrides, &overrides); err != nil {
		return nil, fmt.Errorf("decode overrides of section %s: %w", g.GroupID, err)
	}
	return overrides, nil
}

func (g *SectionGrade) EncodeOverrides(overrides map[int]grading.OverrideStatus) error {
	raw, err := json.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("encode overrides of section %s: %w", g.GroupID, err)
	}
	g.Overrides = datatypes.JSON(raw)
	return nil
}

// ApplyCounts copies the tallies of a graded group.
func (g *SectionGrade) ApplyCounts(c grading.Counts) {
	g.Correct = c.Correct
	g.Incorrect = c.Incorrect
	g.Unanswered = c.Unanswered
	g.Total = c.Total
	g.Score = 0
	if c.Total > 0 {
		g.Score = math.Round(float64(c.Correct)*10000/float64(c.Total)) / 100
	}
}

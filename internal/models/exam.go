package models

import "github.com/SAP-F-2025/exam-grading-service/internal/grading"

type Skill string

const (
	SkillListening Skill = "listening"
	SkillReading   Skill = "reading"
	SkillWriting   Skill = "writing"
	SkillSpeaking  Skill = "speaking"
)

// Exam is a static exam definition; exams are loaded from fixtures, not
// stored in the database.
type Exam struct {
	ID     string                  `json:"id" yaml:"id" validate:"required"`
	Title  string                  `json:"title" yaml:"title" validate:"required"`
	Skill  Skill                   `json:"skill" yaml:"skill" validate:"required,oneof=listening reading writing speaking"`
	Groups []grading.QuestionGroup `json:"groups" yaml:"groups" validate:"required,min=1,dive"`
}

// Group finds a question group by id.
func (e *Exam) Group(id string) (*grading.QuestionGroup, bool) {
	for i := range e.Groups {
		if e.Groups[i].ID == id {
			return &e.Groups[i], true
		}
	}
	return nil, false
}

// QuestionCount is the number of gradable questions across all groups.
func (e *Exam) QuestionCount() int {
	n := 0
	for _, g := range e.Groups {
		n += len(g.Questions)
	}
	return n
}

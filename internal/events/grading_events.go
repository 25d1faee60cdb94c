package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of grading events published
type EventType string

const (
	EventOverrideChanged   EventType = "grading.override_changed"
	EventSectionGradeSaved EventType = "grading.section_saved"
	EventGradesExported    EventType = "grading.exported"
)

const (
	eventSource  = "exam-grading-service"
	eventVersion = "1.0"
)

// GradingEvent is the envelope for every published event
type GradingEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SectionGradeSavedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	ExamID       string    `json:"exam_id"`
	GroupID      string    `json:"group_id"`
	StudentID    string    `json:"student_id"`
	GraderID     string    `json:"grader_id"`
	Correct      int       `json:"correct"`
	Incorrect    int       `json:"incorrect"`
	Unanswered   int       `json:"unanswered"`
	Total        int       `json:"total"`
	GradedAt     time.Time `json:"graded_at"`
}

type OverrideChangedEvent struct {
	SubmissionID   uint   `json:"submission_id"`
	GroupID        string `json:"group_id"`
	QuestionNumber int    `json:"question_number"`
	Status         string `json:"status"`
	GraderID       string `json:"grader_id"`
}

type GradesExportedEvent struct {
	ExamID      string `json:"exam_id"`
	Submissions int    `json:"submissions"`
	RequestedBy string `json:"requested_by"`
}

func newEvent(t EventType, data interface{}) *GradingEvent {
	return &GradingEvent{
		ID:        GenerateEventID(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewSectionGradeSavedEvent(data SectionGradeSavedEvent) *GradingEvent {
	return newEvent(EventSectionGradeSaved, data)
}

func NewOverrideChangedEvent(data OverrideChangedEvent) *GradingEvent {
	return newEvent(EventOverrideChanged, data)
}

func NewGradesExportedEvent(data GradesExportedEvent) *GradingEvent {
	return newEvent(EventGradesExported, data)
}

// GenerateEventID returns a random UUID for event deduplication downstream
func GenerateEventID() string {
	return uuid.NewString()
}

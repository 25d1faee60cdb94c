package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type SubmissionFilters struct {
	Status    *models.SubmissionStatus `json:"status"`
	StudentID string                   `json:"student_id"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "submitted_at", "created_at", "id"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORIES =====
// Every method takes an optional transaction; nil means the default
// connection.

type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	UpdateAnswers(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.SubmissionStatus) error
	MarkSubmitted(ctx context.Context, tx *gorm.DB, id uint, at time.Time) error
	ListByExam(ctx context.Context, tx *gorm.DB, examID string, filters SubmissionFilters) ([]*models.Submission, int64, error)
}

type SectionGradeRepository interface {
	Get(ctx context.Context, tx *gorm.DB, submissionID uint, groupID string) (*models.SectionGrade, error)
	Upsert(ctx context.Context, tx *gorm.DB, grade *models.SectionGrade) error
	ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uint) ([]*models.SectionGrade, error)
	ListByExam(ctx context.Context, tx *gorm.DB, examID string) ([]*models.SectionGrade, error)
}

// UserRepository mirrors identities issued by the identity provider; this
// service does not own user data.
type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error)
	Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error
}

// Repository aggregates the repositories and owns the transaction boundary.
type Repository interface {
	Submissions() SubmissionRepository
	SectionGrades() SectionGradeRepository
	Users() UserRepository

	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
}

// IsNotFoundError reports whether err is a missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

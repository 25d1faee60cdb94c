package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/cache"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionPostgreSQL struct {
	db    *gorm.DB
	cache cache.CacheService
	ttl   time.Duration
}

func NewSubmissionPostgreSQL(db *gorm.DB, c cache.CacheService, ttl time.Duration) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db, cache: c, ttl: ttl}
}

func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return pickDB(s.db, tx)
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	return s.getDB(tx).WithContext(ctx).Create(submission).Error
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	db := s.getDB(tx).WithContext(ctx)
	// answers are rewritten whole, so writers serialize on the row
	if tx != nil {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	load := func() (interface{}, error) {
		var dbSubmission models.Submission
		if err := db.First(&dbSubmission, id).Error; err != nil {
			return nil, fmt.Errorf("failed to get submission %d: %w", id, err)
		}
		return &dbSubmission, nil
	}

	// reads inside a transaction must see uncommitted writes
	if tx != nil {
		v, err := load()
		if err != nil {
			return nil, err
		}
		return v.(*models.Submission), nil
	}

	var submission models.Submission
	if err := s.cache.CacheOrExecute(ctx, cache.SubmissionKey(id), &submission, s.ttl, load); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) UpdateAnswers(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	result := s.getDB(tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", submission.ID).
		Updates(map[string]interface{}{
			"answers":    submission.Answers,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update submission %d: %w", submission.ID, gorm.ErrRecordNotFound)
	}
	return invalidate(ctx, tx, s.cache, cache.SubmissionKey(submission.ID))
}

func (s *SubmissionPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.SubmissionStatus) error {
	if err := s.getDB(tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return err
	}
	return invalidate(ctx, tx, s.cache, cache.SubmissionKey(id))
}

// MarkSubmitted closes an in-progress submission. Submissions in any other
// state are left untouched and reported as not found.
func (s *SubmissionPostgreSQL) MarkSubmitted(ctx context.Context, tx *gorm.DB, id uint, at time.Time) error {
	result := s.getDB(tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.SubmissionInProgress).
		Updates(map[string]interface{}{
			"status":       models.SubmissionSubmitted,
			"submitted_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no in-progress submission %d: %w", id, gorm.ErrRecordNotFound)
	}
	return invalidate(ctx, tx, s.cache, cache.SubmissionKey(id))
}

func (s *SubmissionPostgreSQL) ListByExam(ctx context.Context, tx *gorm.DB, examID string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	db := s.getDB(tx)
	var submissions []*models.Submission
	var total int64

	query := db.WithContext(ctx).Model(&models.Submission{}).Where("exam_id = ?", examID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != "" {
		query = query.Where("student_id = ?", filters.StudentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(submissionOrder(filters))
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

func submissionOrder(filters repositories.SubmissionFilters) string {
	column := "id"
	switch filters.SortBy {
	case "submitted_at", "created_at":
		column = filters.SortBy
	}
	direction := "ASC"
	if filters.SortOrder == "desc" {
		direction = "DESC"
	}
	return column + " " + direction
}

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

type SectionGradePostgreSQL struct {
	db    *gorm.DB
	cache cache.CacheService
	ttl   time.Duration
}

func NewSectionGradePostgreSQL(db *gorm.DB, c cache.CacheService, ttl time.Duration) repositories.SectionGradeRepository {
	return &SectionGradePostgreSQL{db: db, cache: c, ttl: ttl}
}

func (s *SectionGradePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return pickDB(s.db, tx)
}

func (s *SectionGradePostgreSQL) Get(ctx context.Context, tx *gorm.DB, submissionID uint, groupID string) (*models.SectionGrade, error) {
	db := s.getDB(tx)
	load := func() (interface{}, error) {
		var dbGrade models.SectionGrade
		if err := db.WithContext(ctx).
			Where("submission_id = ? AND group_id = ?", submissionID, groupID).
			First(&dbGrade).Error; err != nil {
			return nil, fmt.Errorf("failed to get section grade %d/%s: %w", submissionID, groupID, err)
		}
		return &dbGrade, nil
	}

	if tx != nil {
		v, err := load()
		if err != nil {
			return nil, err
		}
		return v.(*models.SectionGrade), nil
	}

	var grade models.SectionGrade
	if err := s.cache.CacheOrExecute(ctx, cache.SectionGradeKey(submissionID, groupID), &grade, s.ttl, load); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Upsert inserts the grade or replaces the one saved for the same
// submission and group.
func (s *SectionGradePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, grade *models.SectionGrade) error {
	err := s.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "submission_id"}, {Name: "group_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overrides", "correct", "incorrect", "unanswered", "total", "score",
				"graded_by", "graded_at", "updated_at",
			}),
		}).
		Create(grade).Error
	if err != nil {
		return err
	}
	return invalidate(ctx, tx, s.cache, cache.SectionGradeKey(grade.SubmissionID, grade.GroupID))
}

func (s *SectionGradePostgreSQL) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uint) ([]*models.SectionGrade, error) {
	var grades []*models.SectionGrade
	if err := s.getDB(tx).WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("group_id ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

func (s *SectionGradePostgreSQL) ListByExam(ctx context.Context, tx *gorm.DB, examID string) ([]*models.SectionGrade, error) {
	var grades []*models.SectionGrade
	if err := s.getDB(tx).WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = section_grades.submission_id").
		Where("submissions.exam_id = ? AND submissions.deleted_at IS NULL", examID).
		Order("section_grades.submission_id ASC, section_grades.group_id ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

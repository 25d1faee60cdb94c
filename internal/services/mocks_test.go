package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	args := m.Called(ctx, tx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateAnswers(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	args := m.Called(ctx, tx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.SubmissionStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockSubmissionRepository) MarkSubmitted(ctx context.Context, tx *gorm.DB, id uint, at time.Time) error {
	args := m.Called(ctx, tx, id, at)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListByExam(ctx context.Context, tx *gorm.DB, examID string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	args := m.Called(ctx, tx, examID, filters)
	return args.Get(0).([]*models.Submission), args.Get(1).(int64), args.Error(2)
}

// MockSectionGradeRepository is a mock implementation of SectionGradeRepository
type MockSectionGradeRepository struct {
	mock.Mock
}

func (m *MockSectionGradeRepository) Get(ctx context.Context, tx *gorm.DB, submissionID uint, groupID string) (*models.SectionGrade, error) {
	args := m.Called(ctx, tx, submissionID, groupID)
	return args.Get(0).(*models.SectionGrade), args.Error(1)
}

func (m *MockSectionGradeRepository) Upsert(ctx context.Context, tx *gorm.DB, grade *models.SectionGrade) error {
	args := m.Called(ctx, tx, grade)
	return args.Error(0)
}

func (m *MockSectionGradeRepository) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uint) ([]*models.SectionGrade, error) {
	args := m.Called(ctx, tx, submissionID)
	return args.Get(0).([]*models.SectionGrade), args.Error(1)
}

func (m *MockSectionGradeRepository) ListByExam(ctx context.Context, tx *gorm.DB, examID string) ([]*models.SectionGrade, error) {
	args := m.Called(ctx, tx, examID)
	return args.Get(0).([]*models.SectionGrade), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.User, error) {
	args := m.Called(ctx, tx, ids)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

// MockRepository is a mock implementation of the main Repository interface.
// Transactions run the callback with a nil handle.
type MockRepository struct {
	submissions   *MockSubmissionRepository
	sectionGrades *MockSectionGradeRepository
	users         *MockUserRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		submissions:   &MockSubmissionRepository{},
		sectionGrades: &MockSectionGradeRepository{},
		users:         &MockUserRepository{},
	}
}

func (m *MockRepository) Submissions() repositories.SubmissionRepository     { return m.submissions }
func (m *MockRepository) SectionGrades() repositories.SectionGradeRepository { return m.sectionGrades }
func (m *MockRepository) Users() repositories.UserRepository                 { return m.users }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }

package handlers

import (
	"context"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/services"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockGradingService struct {
	mock.Mock
}

func (m *MockGradingService) ListExams(ctx context.Context) []services.ExamInfo {
	args := m.Called(ctx)
	return args.Get(0).([]services.ExamInfo)
}

func (m *MockGradingService) StartSubmission(ctx context.Context, user *models.User, examID string) (*services.SubmissionResponse, error) {
	args := m.Called(ctx, user, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmissionResponse), args.Error(1)
}

func (m *MockGradingService) GetSubmission(ctx context.Context, user *models.User, id uint) (*services.SubmissionResponse, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmissionResponse), args.Error(1)
}

func (m *MockGradingService) GetGroupView(ctx context.Context, user *models.User, submissionID uint, groupID string) (*grading.GroupView, error) {
	args := m.Called(ctx, user, submissionID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.GroupView), args.Error(1)
}

func (m *MockGradingService) ChangeAnswer(ctx context.Context, user *models.User, submissionID uint, req *services.ChangeAnswerRequest) (*grading.GroupView, error) {
	args := m.Called(ctx, user, submissionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.GroupView), args.Error(1)
}

func (m *MockGradingService) ApplyDrop(ctx context.Context, user *models.User, submissionID uint, groupID string, req *services.DropRequest) (*services.DropResponse, error) {
	args := m.Called(ctx, user, submissionID, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DropResponse), args.Error(1)
}

func (m *MockGradingService) Submit(ctx context.Context, user *models.User, submissionID uint) (*services.SubmissionResponse, error) {
	args := m.Called(ctx, user, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmissionResponse), args.Error(1)
}

func (m *MockGradingService) SetOverride(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *services.OverrideRequest) (*grading.GroupView, error) {
	args := m.Called(ctx, grader, submissionID, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.GroupView), args.Error(1)
}

func (m *MockGradingService) SaveSectionGrade(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *services.SaveSectionGradeRequest) (*models.SectionGrade, error) {
	args := m.Called(ctx, grader, submissionID, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SectionGrade), args.Error(1)
}

func (m *MockGradingService) GetSummary(ctx context.Context, user *models.User, submissionID uint) (*services.SubmissionSummary, error) {
	args := m.Called(ctx, user, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmissionSummary), args.Error(1)
}

func (m *MockGradingService) ExportGrades(ctx context.Context, grader *models.User, examID string) ([]byte, error) {
	args := m.Called(ctx, grader, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockUserMirror struct {
	mock.Mock
}

func (m *MockUserMirror) Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

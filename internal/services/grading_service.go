package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/events"
	"github.com/SAP-F-2025/exam-grading-service/internal/fixtures"
	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/repositories"
	"github.com/SAP-F-2025/exam-grading-service/internal/validator"
	"gorm.io/gorm"
)

// GradingService runs the placement and grading engine against persisted
// submissions. Every call rebuilds a grading.Session from stored state, so
// no engine state is shared between requests.
type GradingService interface {
	ListExams(ctx context.Context) []ExamInfo
	StartSubmission(ctx context.Context, user *models.User, examID string) (*SubmissionResponse, error)
	GetSubmission(ctx context.Context, user *models.User, id uint) (*SubmissionResponse, error)
	GetGroupView(ctx context.Context, user *models.User, submissionID uint, groupID string) (*grading.GroupView, error)
	ChangeAnswer(ctx context.Context, user *models.User, submissionID uint, req *ChangeAnswerRequest) (*grading.GroupView, error)
	ApplyDrop(ctx context.Context, user *models.User, submissionID uint, groupID string, req *DropRequest) (*DropResponse, error)
	Submit(ctx context.Context, user *models.User, submissionID uint) (*SubmissionResponse, error)
	SetOverride(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *OverrideRequest) (*grading.GroupView, error)
	SaveSectionGrade(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *SaveSectionGradeRequest) (*models.SectionGrade, error)
	GetSummary(ctx context.Context, user *models.User, submissionID uint) (*SubmissionSummary, error)
	ExportGrades(ctx context.Context, grader *models.User, examID string) ([]byte, error)
}

type gradingService struct {
	repo      repositories.Repository
	catalog   *fixtures.Catalog
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	ops       *ServiceLogger
	now       func() time.Time
}

func NewGradingService(repo repositories.Repository, catalog *fixtures.Catalog, publisher events.EventPublisher, validator *validator.Validator, logger *slog.Logger) GradingService {
	return &gradingService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		ops:       NewServiceLogger(logger, LogConfig{Service: "grading", Component: "grading_service"}),
		now:       time.Now,
	}
}

func (s *gradingService) ListExams(ctx context.Context) []ExamInfo {
	exams := s.catalog.Exams()
	out := make([]ExamInfo, 0, len(exams))
	for _, e := range exams {
		out = append(out, newExamInfo(e))
	}
	return out
}

func (s *gradingService) GetSubmission(ctx context.Context, user *models.User, id uint) (*SubmissionResponse, error) {
	submission, exam, err := s.loadSubmission(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !canView(user, submission) {
		return nil, NewPermissionError(userID(user), id, "submission", "view", "not the owner")
	}

	return newSubmissionResponse(submission, exam)
}

// StartSubmission opens the caller's attempt at an exam. A student holds at
// most one in-progress submission per exam; starting again resumes it.
func (s *gradingService) StartSubmission(ctx context.Context, user *models.User, examID string) (*SubmissionResponse, error) {
	op := s.ops.WithOperation(ctx, "start_submission", userID(user))
	resp, err := s.startSubmission(ctx, user, examID)
	var id uint
	if resp != nil {
		id = resp.ID
	}
	op.LogResult(id, "submission", err)
	return resp, err
}

func (s *gradingService) startSubmission(ctx context.Context, user *models.User, examID string) (*SubmissionResponse, error) {
	if user == nil || user.ID == "" {
		return nil, ErrUnauthorized
	}
	exam, err := s.catalog.Exam(examID)
	if err != nil {
		return nil, err
	}

	var (
		submission *models.Submission
		resumed    bool
	)
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.inProgress(ctx, tx, examID, user.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			submission, resumed = existing, true
			return nil
		}
		submission = &models.Submission{
			ExamID:    examID,
			StudentID: user.ID,
			Status:    models.SubmissionInProgress,
		}
		if err := submission.EncodeAnswers(map[string]grading.AnswerValue{}); err != nil {
			return err
		}
		return s.repo.Submissions().Create(ctx, tx, submission)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent start created it first
		submission, err = s.inProgress(ctx, nil, examID, user.ID)
		if err == nil && submission == nil {
			err = ErrConflict
		}
		resumed = true
	}
	if err != nil {
		return nil, err
	}

	resp, err := newSubmissionResponse(submission, exam)
	if err != nil {
		return nil, err
	}
	resp.Resumed = resumed
	return resp, nil
}

func (s *gradingService) inProgress(ctx context.Context, tx *gorm.DB, examID, studentID string) (*models.Submission, error) {
	status := models.SubmissionInProgress
	found, _, err := s.repo.Submissions().ListByExam(ctx, tx, examID, repositories.SubmissionFilters{
		Status:    &status,
		StudentID: studentID,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up in-progress submission: %w", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func newSubmissionResponse(submission *models.Submission, exam *models.Exam) (*SubmissionResponse, error) {
	answers, err := submission.DecodeAnswers()
	if err != nil {
		return nil, err
	}
	return &SubmissionResponse{
		ID:          submission.ID,
		StudentID:   submission.StudentID,
		Status:      submission.Status,
		Answers:     answers,
		SubmittedAt: submission.SubmittedAt,
		Exam:        newExamInfo(exam),
	}, nil
}

func (s *gradingService) GetGroupView(ctx context.Context, user *models.User, submissionID uint, groupID string) (*grading.GroupView, error) {
	submission, exam, err := s.loadSubmission(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	if !canView(user, submission) {
		return nil, NewPermissionError(userID(user), submissionID, "submission", "view", "not the owner")
	}
	group, err := findGroup(exam, groupID)
	if err != nil {
		return nil, err
	}

	session, _, err := s.openSession(ctx, nil, submission, group)
	if err != nil {
		return nil, err
	}
	view, err := session.View(renderOptions(user))
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ChangeAnswer records a typed answer. The question key alone identifies
// the group since question numbers are unique within an exam.
func (s *gradingService) ChangeAnswer(ctx context.Context, user *models.User, submissionID uint, req *ChangeAnswerRequest) (*grading.GroupView, error) {
	op := s.ops.WithOperation(ctx, "change_answer", userID(user))
	view, err := s.changeAnswer(ctx, user, submissionID, req)
	op.LogResult(submissionID, "submission", err)
	return view, err
}

func (s *gradingService) changeAnswer(ctx context.Context, user *models.User, submissionID uint, req *ChangeAnswerRequest) (*grading.GroupView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var view grading.GroupView
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		submission, exam, err := s.loadSubmission(ctx, tx, submissionID)
		if err != nil {
			return err
		}
		if err := checkEditable(user, submission); err != nil {
			return err
		}

		group, question, err := findQuestion(exam, req.QuestionID)
		if err != nil {
			return err
		}
		answer, err := coerceAnswer(question, req.Answer)
		if err != nil {
			return err
		}

		session, answers, err := s.openSession(ctx, tx, submission, group)
		if err != nil {
			return err
		}
		session.OnAnswerChange(req.QuestionID, answer)

		if err := s.saveAnswers(ctx, tx, submission, answers, session); err != nil {
			return err
		}
		view, err = session.View(renderOptions(user))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ApplyDrop reconciles one drag-and-drop gesture. Drops the engine ignores
// are reported with Changed false and nothing is written.
func (s *gradingService) ApplyDrop(ctx context.Context, user *models.User, submissionID uint, groupID string, req *DropRequest) (*DropResponse, error) {
	op := s.ops.WithOperation(ctx, "apply_drop", userID(user))
	resp, err := s.applyDrop(ctx, user, submissionID, groupID, req)
	op.LogResult(submissionID, "submission", err)
	return resp, err
}

func (s *gradingService) applyDrop(ctx context.Context, user *models.User, submissionID uint, groupID string, req *DropRequest) (*DropResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	resp := &DropResponse{}
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		submission, exam, err := s.loadSubmission(ctx, tx, submissionID)
		if err != nil {
			return err
		}
		if err := checkEditable(user, submission); err != nil {
			return err
		}
		group, err := findGroup(exam, groupID)
		if err != nil {
			return err
		}

		session, answers, err := s.openSession(ctx, tx, submission, group)
		if err != nil {
			return err
		}

		gesture := session.Gesture()
		gesture.Start(grading.DragPayload{Content: req.Content, SourceID: req.SourceID})
		before := session.Answers()
		if gesture.End(req.OverID) == grading.GestureDropped {
			resp.Changed = !sameAnswers(before, session.Answers())
		}

		if resp.Changed {
			if err := s.saveAnswers(ctx, tx, submission, answers, session); err != nil {
				return err
			}
		}
		resp.View, err = session.View(renderOptions(user))
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Submit closes the student's submission for grading.
func (s *gradingService) Submit(ctx context.Context, user *models.User, submissionID uint) (*SubmissionResponse, error) {
	op := s.ops.WithOperation(ctx, "submit", userID(user))

	submission, _, err := s.loadSubmission(ctx, nil, submissionID)
	if err == nil {
		switch {
		case user == nil || user.ID != submission.StudentID:
			err = NewPermissionError(userID(user), submissionID, "submission", "submit", "not the owner")
		case !submission.Editable():
			err = ErrAlreadySubmitted
		default:
			err = s.repo.Submissions().MarkSubmitted(ctx, nil, submissionID, s.now())
			if repositories.IsNotFoundError(err) {
				err = ErrAlreadySubmitted
			}
		}
	}
	op.LogResult(submissionID, "submission", err)
	if err != nil {
		return nil, err
	}
	return s.GetSubmission(ctx, user, submissionID)
}

// SetOverride stores an instructor decision for one question. The section
// keeps its grader and grading time; only SaveSectionGrade sets those.
func (s *gradingService) SetOverride(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *OverrideRequest) (*grading.GroupView, error) {
	op := s.ops.WithOperation(ctx, "set_override", userID(grader))
	view, err := s.setOverride(ctx, grader, submissionID, groupID, req)
	op.LogResult(submissionID, "section_grade", err)
	return view, err
}

func (s *gradingService) setOverride(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *OverrideRequest) (*grading.GroupView, error) {
	if !grader.CanGrade() {
		return nil, ErrGradingNotAllowed
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	status, err := grading.ParseOverrideStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOverride, err)
	}

	var (
		view     grading.GroupView
		previous grading.OverrideStatus
	)
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		submission, exam, err := s.loadSubmission(ctx, tx, submissionID)
		if err != nil {
			return err
		}
		group, err := findGroup(exam, groupID)
		if err != nil {
			return err
		}

		session, _, err := s.openSession(ctx, tx, submission, group)
		if err != nil {
			return err
		}
		previous = session.Overrides()[req.QuestionNumber]
		if !session.OnManualGradeChange(req.QuestionNumber, status) {
			return fmt.Errorf("%w: %d in group %s", ErrQuestionNotFound, req.QuestionNumber, groupID)
		}

		grade, err := s.sectionGrade(ctx, tx, submissionID, groupID)
		if err != nil {
			return err
		}
		if err := grade.EncodeOverrides(session.Overrides()); err != nil {
			return err
		}
		grade.ApplyCounts(session.Counts())
		if err := s.repo.SectionGrades().Upsert(ctx, tx, grade); err != nil {
			return fmt.Errorf("failed to save override: %w", err)
		}

		view, err = session.View(renderOptions(grader))
		return err
	})
	if err != nil {
		return nil, err
	}

	if previous == "" {
		previous = grading.OverrideAuto
	}
	s.ops.LogAudit(ctx, "override_changed", grader.ID, submissionID, groupID, previous, status)
	s.publish(ctx, events.NewOverrideChangedEvent(events.OverrideChangedEvent{
		SubmissionID:   submissionID,
		GroupID:        groupID,
		QuestionNumber: req.QuestionNumber,
		Status:         string(status),
		GraderID:       grader.ID,
	}))
	return &view, nil
}

// SaveSectionGrade finalizes one section: overrides are merged with the
// auto-grades, the tallies are stored with the grader and the submission is
// marked graded once every section has been saved.
func (s *gradingService) SaveSectionGrade(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *SaveSectionGradeRequest) (*models.SectionGrade, error) {
	op := s.ops.WithOperation(ctx, "save_section_grade", userID(grader))
	grade, err := s.saveSectionGrade(ctx, grader, submissionID, groupID, req)
	op.LogResult(submissionID, "section_grade", err)
	return grade, err
}

func (s *gradingService) saveSectionGrade(ctx context.Context, grader *models.User, submissionID uint, groupID string, req *SaveSectionGradeRequest) (*models.SectionGrade, error) {
	if !grader.CanGrade() {
		return nil, ErrGradingNotAllowed
	}
	if req == nil {
		req = &SaveSectionGradeRequest{}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var (
		grade      *models.SectionGrade
		submission *models.Submission
	)
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var (
			exam *models.Exam
			err  error
		)
		submission, exam, err = s.loadSubmission(ctx, tx, submissionID)
		if err != nil {
			return err
		}
		if submission.Editable() {
			return ErrNotSubmitted
		}
		group, err := findGroup(exam, groupID)
		if err != nil {
			return err
		}

		session, _, err := s.openSession(ctx, tx, submission, group)
		if err != nil {
			return err
		}
		if req.Overrides != nil {
			if err := replaceOverrides(session, req.Overrides); err != nil {
				return err
			}
		}

		grade, err = s.sectionGrade(ctx, tx, submissionID, groupID)
		if err != nil {
			return err
		}
		if err := grade.EncodeOverrides(session.Overrides()); err != nil {
			return err
		}
		grade.ApplyCounts(session.Counts())
		grade.GradedBy = grader.ID
		grade.GradedAt = s.now()
		if err := s.repo.SectionGrades().Upsert(ctx, tx, grade); err != nil {
			return fmt.Errorf("failed to save section grade: %w", err)
		}

		return s.refreshStatus(ctx, tx, submission, exam)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSectionGradeSavedEvent(events.SectionGradeSavedEvent{
		SubmissionID: submissionID,
		ExamID:       submission.ExamID,
		GroupID:      groupID,
		StudentID:    submission.StudentID,
		GraderID:     grader.ID,
		Correct:      grade.Correct,
		Incorrect:    grade.Incorrect,
		Unanswered:   grade.Unanswered,
		Total:        grade.Total,
		GradedAt:     grade.GradedAt,
	}))
	return grade, nil
}

// GetSummary tallies every section. Sections nobody has saved yet are
// auto-graded with any draft overrides applied.
func (s *gradingService) GetSummary(ctx context.Context, user *models.User, submissionID uint) (*SubmissionSummary, error) {
	submission, exam, err := s.loadSubmission(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	if !canView(user, submission) {
		return nil, NewPermissionError(userID(user), submissionID, "submission", "view", "not the owner")
	}

	sections, counts, err := s.tally(ctx, submission, exam)
	if err != nil {
		return nil, err
	}
	summary := &SubmissionSummary{
		SubmissionID: submission.ID,
		ExamID:       exam.ID,
		Skill:        exam.Skill,
		Status:       submission.Status,
		Sections:     sections,
		Counts:       counts,
	}
	if band, ok := models.BandScore(exam.Skill, counts.Correct, counts.Total); ok {
		summary.Band = &band
	}
	return summary, nil
}

// ===== HELPERS =====

func (s *gradingService) loadSubmission(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, *models.Exam, error) {
	submission, err := s.repo.Submissions().GetByID(ctx, tx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, fmt.Errorf("%w: %d", ErrSubmissionNotFound, id)
		}
		return nil, nil, err
	}
	exam, err := s.catalog.Exam(submission.ExamID)
	if err != nil {
		return nil, nil, err
	}
	return submission, exam, nil
}

// openSession builds the engine for one group from the stored answers and
// overrides. The full decoded answer map is returned for write-back.
func (s *gradingService) openSession(ctx context.Context, tx *gorm.DB, submission *models.Submission, group *grading.QuestionGroup) (*grading.Session, map[string]grading.AnswerValue, error) {
	answers, err := submission.DecodeAnswers()
	if err != nil {
		return nil, nil, err
	}
	overrides, err := s.storedOverrides(ctx, tx, submission.ID, group.ID)
	if err != nil {
		return nil, nil, err
	}
	return grading.NewSession(group, answers, overrides), answers, nil
}

func (s *gradingService) storedOverrides(ctx context.Context, tx *gorm.DB, submissionID uint, groupID string) (map[int]grading.OverrideStatus, error) {
	grade, err := s.repo.SectionGrades().Get(ctx, tx, submissionID, groupID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return grade.DecodeOverrides()
}

// sectionGrade loads the stored row or starts a new one.
func (s *gradingService) sectionGrade(ctx context.Context, tx *gorm.DB, submissionID uint, groupID string) (*models.SectionGrade, error) {
	grade, err := s.repo.SectionGrades().Get(ctx, tx, submissionID, groupID)
	if err == nil {
		return grade, nil
	}
	if repositories.IsNotFoundError(err) {
		return &models.SectionGrade{SubmissionID: submissionID, GroupID: groupID}, nil
	}
	return nil, err
}

func (s *gradingService) saveAnswers(ctx context.Context, tx *gorm.DB, submission *models.Submission, answers map[string]grading.AnswerValue, session *grading.Session) error {
	for key, v := range session.Answers() {
		answers[key] = v
	}
	if err := submission.EncodeAnswers(answers); err != nil {
		return err
	}
	if err := s.repo.Submissions().UpdateAnswers(ctx, tx, submission); err != nil {
		return fmt.Errorf("failed to save answers: %w", err)
	}
	return nil
}

func (s *gradingService) refreshStatus(ctx context.Context, tx *gorm.DB, submission *models.Submission, exam *models.Exam) error {
	grades, err := s.repo.SectionGrades().ListBySubmission(ctx, tx, submission.ID)
	if err != nil {
		return err
	}
	saved := make(map[string]bool, len(grades))
	for _, g := range grades {
		if g.GradedBy != "" {
			saved[g.GroupID] = true
		}
	}
	for _, g := range exam.Groups {
		if !saved[g.ID] {
			return nil
		}
	}
	if submission.Status == models.SubmissionGraded {
		return nil
	}
	submission.Status = models.SubmissionGraded
	return s.repo.Submissions().UpdateStatus(ctx, tx, submission.ID, models.SubmissionGraded)
}

func (s *gradingService) tally(ctx context.Context, submission *models.Submission, exam *models.Exam) ([]SectionSummary, grading.Counts, error) {
	answers, err := submission.DecodeAnswers()
	if err != nil {
		return nil, grading.Counts{}, err
	}
	grades, err := s.repo.SectionGrades().ListBySubmission(ctx, nil, submission.ID)
	if err != nil {
		return nil, grading.Counts{}, err
	}
	byGroup := make(map[string]*models.SectionGrade, len(grades))
	for _, g := range grades {
		byGroup[g.GroupID] = g
	}
	return tallyExam(exam, answers, byGroup)
}

func tallyExam(exam *models.Exam, answers map[string]grading.AnswerValue, grades map[string]*models.SectionGrade) ([]SectionSummary, grading.Counts, error) {
	var total grading.Counts
	sections := make([]SectionSummary, 0, len(exam.Groups))
	for i := range exam.Groups {
		group := &exam.Groups[i]
		summary := SectionSummary{GroupID: group.ID, Title: group.Title}

		var overrides map[int]grading.OverrideStatus
		if g, ok := grades[group.ID]; ok {
			var err error
			if overrides, err = g.DecodeOverrides(); err != nil {
				return nil, grading.Counts{}, err
			}
			if g.GradedBy != "" {
				summary.Saved = true
				summary.GradedBy = g.GradedBy
				gradedAt := g.GradedAt
				summary.GradedAt = &gradedAt
			}
		}

		summary.Counts = grading.NewSession(group, answers, overrides).Counts()
		total.Correct += summary.Counts.Correct
		total.Incorrect += summary.Counts.Incorrect
		total.Unanswered += summary.Counts.Unanswered
		total.Total += summary.Counts.Total
		sections = append(sections, summary)
	}
	return sections, total, nil
}

func (s *gradingService) publish(ctx context.Context, event *events.GradingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish grading event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}

func findGroup(exam *models.Exam, groupID string) (*grading.QuestionGroup, error) {
	g, ok := exam.Group(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return g, nil
}

func findQuestion(exam *models.Exam, key string) (*grading.QuestionGroup, grading.Question, error) {
	for i := range exam.Groups {
		if q, ok := exam.Groups[i].QuestionByKey(key); ok {
			return &exam.Groups[i], q, nil
		}
	}
	return nil, grading.Question{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, key)
}

// coerceAnswer fits a client value to the question's shape: a single string
// sent for a multi-answer question becomes a one-element list.
func coerceAnswer(q grading.Question, v grading.AnswerValue) (grading.AnswerValue, error) {
	if !q.IsMulti() {
		if v.Multi {
			return grading.AnswerValue{}, ValidationErrors{*NewValidationError("answer", "must be a single value", q.Key())}
		}
		return v, nil
	}
	if !v.Multi {
		if strings.TrimSpace(v.Text) == "" {
			return grading.ListAnswer(), nil
		}
		return grading.ListAnswer(v.Text), nil
	}
	if len(v.List) > q.RequiredCount {
		return grading.AnswerValue{}, ValidationErrors{*NewValidationError("answer", fmt.Sprintf("must have at most %d choices", q.RequiredCount), q.Key())}
	}
	return v, nil
}

func replaceOverrides(session *grading.Session, raw map[int]string) error {
	for number := range session.Overrides() {
		session.OnManualGradeChange(number, grading.OverrideAuto)
	}
	for number, value := range raw {
		status, err := grading.ParseOverrideStatus(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOverride, err)
		}
		if !session.OnManualGradeChange(number, status) {
			return fmt.Errorf("%w: %d", ErrQuestionNotFound, number)
		}
	}
	return nil
}

func sameAnswers(a, b map[string]grading.AnswerValue) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if other, ok := b[k]; !ok || !v.Equal(other) {
			return false
		}
	}
	return true
}

func canView(user *models.User, submission *models.Submission) bool {
	return user != nil && (user.ID == submission.StudentID || user.CanGrade())
}

// checkEditable lets the owner or a grader change answers, and only while
// the submission is in progress.
func checkEditable(user *models.User, submission *models.Submission) error {
	if user == nil || (user.ID != submission.StudentID && !user.CanGrade()) {
		return NewPermissionError(userID(user), submission.ID, "submission", "edit", "not the owner")
	}
	if !submission.Editable() {
		return ErrSubmissionLocked
	}
	return nil
}

func renderOptions(user *models.User) grading.RenderOptions {
	return grading.RenderOptions{IncludeCorrectAnswers: user.CanGrade()}
}

func userID(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}

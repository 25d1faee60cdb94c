package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/exam-grading-service/internal/events"
	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	gradesSheet  = "Grades"
	answersSheet = "Answers"
)

// ExportGrades writes an xlsx workbook with one row per submission on the
// Grades sheet and one row per answered question on the Answers sheet.
func (s *gradingService) ExportGrades(ctx context.Context, grader *models.User, examID string) ([]byte, error) {
	op := s.ops.WithOperation(ctx, "export_grades", userID(grader))
	data, count, err := s.exportGrades(ctx, grader, examID)
	op.LogResult(0, "exam", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewGradesExportedEvent(events.GradesExportedEvent{
		ExamID:      examID,
		Submissions: count,
		RequestedBy: grader.ID,
	}))
	return data, nil
}

func (s *gradingService) exportGrades(ctx context.Context, grader *models.User, examID string) ([]byte, int, error) {
	if !grader.CanGrade() {
		return nil, 0, ErrGradingNotAllowed
	}
	exam, err := s.catalog.Exam(examID)
	if err != nil {
		return nil, 0, err
	}

	submissions, _, err := s.repo.Submissions().ListByExam(ctx, nil, examID, repositories.SubmissionFilters{SortBy: "id"})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	grades, err := s.repo.SectionGrades().ListByExam(ctx, nil, examID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list section grades: %w", err)
	}
	gradesBySubmission := make(map[uint]map[string]*models.SectionGrade)
	for _, g := range grades {
		if gradesBySubmission[g.SubmissionID] == nil {
			gradesBySubmission[g.SubmissionID] = make(map[string]*models.SectionGrade)
		}
		gradesBySubmission[g.SubmissionID][g.GroupID] = g
	}

	names, err := s.studentNames(ctx, submissions)
	if err != nil {
		return nil, 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradesSheet); err != nil {
		return nil, 0, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if _, err := f.NewSheet(answersSheet); err != nil {
		return nil, 0, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []interface{}{"Submission ID", "Student ID", "Student Name", "Status"}
	for _, g := range exam.Groups {
		headers = append(headers, fmt.Sprintf("%s (%d)", groupLabel(g), len(g.Questions)))
	}
	headers = append(headers, "Correct", "Incorrect", "Unanswered", "Total", "Band")
	if err := writeRow(f, gradesSheet, 1, headers); err != nil {
		return nil, 0, err
	}
	if err := writeRow(f, answersSheet, 1, []interface{}{
		"Submission ID", "Student ID", "Group", "Question", "Answer", "Auto", "Override", "Final",
	}); err != nil {
		return nil, 0, err
	}

	answerRow := 2
	for i, sub := range submissions {
		answers, err := sub.DecodeAnswers()
		if err != nil {
			return nil, 0, err
		}
		sections, counts, err := tallyExam(exam, answers, gradesBySubmission[sub.ID])
		if err != nil {
			return nil, 0, err
		}

		row := []interface{}{sub.ID, sub.StudentID, names[sub.StudentID], string(sub.Status)}
		for _, section := range sections {
			row = append(row, section.Counts.Correct)
		}
		row = append(row, counts.Correct, counts.Incorrect, counts.Unanswered, counts.Total)
		if band, ok := models.BandScore(exam.Skill, counts.Correct, counts.Total); ok {
			row = append(row, band)
		} else {
			row = append(row, "")
		}
		if err := writeRow(f, gradesSheet, i+2, row); err != nil {
			return nil, 0, err
		}

		for gi := range exam.Groups {
			group := &exam.Groups[gi]
			var overrides map[int]grading.OverrideStatus
			if g, ok := gradesBySubmission[sub.ID][group.ID]; ok {
				if overrides, err = g.DecodeOverrides(); err != nil {
					return nil, 0, err
				}
			}
			view, err := grading.Render(group, answers, overrides, grading.RenderOptions{})
			if err != nil {
				return nil, 0, err
			}
			for _, item := range view.Items {
				if err := writeRow(f, answersSheet, answerRow, []interface{}{
					sub.ID, sub.StudentID, group.ID, item.Number,
					strings.Join(item.Answer.Values(), ", "),
					string(item.AutoStatus), string(item.Override), string(item.FinalStatus),
				}); err != nil {
					return nil, 0, err
				}
				answerRow++
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), len(submissions), nil
}

func (s *gradingService) studentNames(ctx context.Context, submissions []*models.Submission) (map[string]string, error) {
	ids := make([]string, 0, len(submissions))
	seen := make(map[string]bool)
	for _, sub := range submissions {
		if !seen[sub.StudentID] {
			seen[sub.StudentID] = true
			ids = append(ids, sub.StudentID)
		}
	}
	users, err := s.repo.Users().GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names, nil
}

func groupLabel(g grading.QuestionGroup) string {
	if g.Title != "" {
		return g.Title
	}
	return g.ID
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

package validator

import (
	"testing"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMatchingGroup() grading.QuestionGroup {
	return grading.QuestionGroup{
		ID:      "reading-p1",
		Title:   "Match the headings",
		Layout:  grading.LayoutMatching,
		Options: []string{"i", "ii", "iii"},
		Questions: []grading.Question{
			{ID: "h1", Number: 1, CorrectAnswers: []string{"ii"}},
			{ID: "h2", Number: 2, CorrectAnswers: []string{"iii"}},
		},
	}
}

func TestValidateGroup(t *testing.T) {
	v := New()

	g := validMatchingGroup()
	assert.NoError(t, v.ValidateGroup(&g))

	g.Layout = "essay"
	err := v.ValidateGroup(&g)
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "group_layout", errs[0].Rule)
	assert.Equal(t, "layout", errs[0].Field)
}

func TestValidateGroup_CrossFieldRules(t *testing.T) {
	v := New()

	g := validMatchingGroup()
	g.Options = nil
	err := v.ValidateGroup(&g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options")

	g = validMatchingGroup()
	g.Questions[1].ID = "h1"
	assert.Error(t, v.ValidateGroup(&g))

	sel := grading.QuestionGroup{
		ID:        "choose",
		Layout:    grading.LayoutMultipleChoiceMulti,
		Options:   []string{"A", "B"},
		Questions: []grading.Question{{ID: "s", Number: 5, CorrectAnswers: []string{"A", "B"}}},
	}
	err = v.ValidateGroup(&sel)
	require.Error(t, err)
	assert.Equal(t, "questions[0].required_count", err.(ValidationErrors)[0].Field)

	sel.Questions[0].RequiredCount = 3
	assert.Error(t, v.ValidateGroup(&sel))

	sel.Questions[0].RequiredCount = 2
	assert.NoError(t, v.ValidateGroup(&sel))
}

func TestValidateExam(t *testing.T) {
	v := New()

	exam := &models.Exam{
		ID:     "reading-1",
		Title:  "Academic Reading 1",
		Skill:  models.SkillReading,
		Groups: []grading.QuestionGroup{validMatchingGroup()},
	}
	assert.NoError(t, v.ValidateExam(exam))

	second := validMatchingGroup()
	second.ID = "reading-p2"
	exam.Groups = append(exam.Groups, second)
	err := v.ValidateExam(exam)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 field errors")

	exam.Skill = "maths"
	assert.Error(t, v.ValidateExam(exam))
}

func TestCustomTags(t *testing.T) {
	v := New()

	type body struct {
		Key    string `json:"key" validate:"question_key"`
		Status string `json:"status" validate:"override_status"`
	}

	assert.NoError(t, v.Validate(body{Key: "q4", Status: "Correct"}))
	assert.NoError(t, v.Validate(body{Key: "q4", Status: ""}))

	err := v.Validate(body{Key: "pool", Status: "maybe"})
	require.Error(t, err)
	errs := err.(ValidationErrors)
	require.Len(t, errs, 2)
	assert.Equal(t, "key", errs[0].Field)
	assert.Equal(t, "override_status", errs[1].Rule)
}

package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with the rules that span several
// fields of a question group.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{structValidator: structValidator}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs struct validation and converts the result to
// ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateGroup checks a question group beyond its tags: identifiers must be
// unique, drag layouts need an option bank and multi-answer questions need a
// required count.
func (v *Validator) ValidateGroup(g *grading.QuestionGroup) error {
	if err := v.Validate(g); err != nil {
		return err
	}

	var errs ValidationErrors
	if err := g.CheckIdentifiers(); err != nil {
		errs.Add("questions", err.Error(), g.ID)
	}
	if usesOptionBank(g.Layout) && len(g.Options) == 0 {
		errs.Add("options", "is required for "+string(g.Layout), g.ID)
	}
	for i, q := range g.Questions {
		if g.Layout == grading.LayoutMultipleChoiceMulti && q.RequiredCount < 1 {
			errs.Add(fmt.Sprintf("questions[%d].required_count", i), "must be at least 1", q.RequiredCount)
		}
		if q.RequiredCount > 0 && len(g.Options) > 0 && q.RequiredCount > len(g.Options) {
			errs.Add(fmt.Sprintf("questions[%d].required_count", i), "exceeds the number of options", q.RequiredCount)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateExam validates an exam and each of its groups. Question numbers
// must be unique across the whole exam since answers are keyed by number.
func (v *Validator) ValidateExam(e *models.Exam) error {
	if err := v.Validate(e); err != nil {
		return err
	}

	var errs ValidationErrors
	seenGroups := make(map[string]bool)
	seenNumbers := make(map[int]string)
	for i := range e.Groups {
		g := &e.Groups[i]
		if seenGroups[g.ID] {
			errs.Add(fmt.Sprintf("groups[%d].id", i), "is duplicated", g.ID)
		}
		seenGroups[g.ID] = true

		if err := v.ValidateGroup(g); err != nil {
			if groupErrs, ok := err.(ValidationErrors); ok {
				for _, ge := range groupErrs {
					ge.Field = fmt.Sprintf("groups[%d].%s", i, ge.Field)
					errs = append(errs, ge)
				}
				continue
			}
			return err
		}
		for _, q := range g.Questions {
			if other, dup := seenNumbers[q.Number]; dup && other != g.ID {
				errs.Add(fmt.Sprintf("groups[%d]", i), fmt.Sprintf("question %d is also in group %s", q.Number, other), q.Number)
			}
			seenNumbers[q.Number] = g.ID
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func usesOptionBank(l grading.Layout) bool {
	switch l {
	case grading.LayoutMatching, grading.LayoutMultipleChoiceMulti:
		return true
	}
	return false
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("group_layout", validateGroupLayout)
	validate.RegisterValidation("override_status", validateOverrideStatus)
	validate.RegisterValidation("question_key", validateQuestionKey)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateGroupLayout(fl validator.FieldLevel) bool {
	return grading.KnownLayout(grading.Layout(fl.Field().String()))
}

func validateOverrideStatus(fl validator.FieldLevel) bool {
	_, err := grading.ParseOverrideStatus(fl.Field().String())
	return err == nil
}

func validateQuestionKey(fl validator.FieldLevel) bool {
	_, ok := grading.ParseQuestionKey(fl.Field().String())
	return ok
}

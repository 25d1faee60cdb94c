package fixtures

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/SAP-F-2025/exam-grading-service/internal/grading"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/validator"
	"gopkg.in/yaml.v3"
)

var ErrExamNotFound = errors.New("exam not found")

type document struct {
	Exams []models.Exam `yaml:"exams"`
}

// Catalog holds the static exam definitions. It is read-only after loading
// and safe for concurrent use.
type Catalog struct {
	exams map[string]*models.Exam
	order []string
}

// LoadFile reads and validates a YAML exam catalog.
func LoadFile(path string, v *validator.Validator) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	catalog, err := Load(f, v)
	if err != nil {
		return nil, fmt.Errorf("load fixtures %s: %w", path, err)
	}
	return catalog, nil
}

func Load(r io.Reader, v *validator.Validator) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	c := &Catalog{exams: make(map[string]*models.Exam, len(doc.Exams))}
	for i := range doc.Exams {
		exam := &doc.Exams[i]
		if err := v.ValidateExam(exam); err != nil {
			return nil, fmt.Errorf("exam %q: %w", exam.ID, err)
		}
		if _, dup := c.exams[exam.ID]; dup {
			return nil, fmt.Errorf("exam %q is defined twice", exam.ID)
		}
		c.exams[exam.ID] = exam
		c.order = append(c.order, exam.ID)
	}
	return c, nil
}

// NewCatalog builds a catalog from exams that are already validated.
func NewCatalog(exams ...models.Exam) *Catalog {
	c := &Catalog{exams: make(map[string]*models.Exam, len(exams))}
	for i := range exams {
		c.exams[exams[i].ID] = &exams[i]
		c.order = append(c.order, exams[i].ID)
	}
	return c
}

func (c *Catalog) Exam(id string) (*models.Exam, error) {
	exam, ok := c.exams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExamNotFound, id)
	}
	return exam, nil
}

// Exams lists the exams in file order.
func (c *Catalog) Exams() []*models.Exam {
	out := make([]*models.Exam, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.exams[id])
	}
	return out
}

// Group returns a copy of a question group so callers cannot mutate the
// catalog.
func (c *Catalog) Group(examID, groupID string) (*grading.QuestionGroup, bool) {
	exam, ok := c.exams[examID]
	if !ok {
		return nil, false
	}
	g, ok := exam.Group(groupID)
	if !ok {
		return nil, false
	}
	cp := *g
	return &cp, true
}

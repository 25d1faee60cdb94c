package grading

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the graded state of a single question, either computed by the
// evaluator or forced by an instructor override.
type Status string

const (
	StatusCorrect    Status = "correct"
	StatusIncorrect  Status = "incorrect"
	StatusUnanswered Status = "unanswered"
)

// OverrideStatus is the instructor-chosen grade for a question.
type OverrideStatus string

const (
	OverrideCorrect   OverrideStatus = "correct"
	OverrideIncorrect OverrideStatus = "incorrect"
	OverrideAuto      OverrideStatus = "auto"
)

// ParseOverrideStatus validates a raw override value coming from a client.
func ParseOverrideStatus(s string) (OverrideStatus, error) {
	switch OverrideStatus(strings.ToLower(strings.TrimSpace(s))) {
	case OverrideCorrect:
		return OverrideCorrect, nil
	case OverrideIncorrect:
		return OverrideIncorrect, nil
	case OverrideAuto, "":
		return OverrideAuto, nil
	}
	return "", fmt.Errorf("unknown override status %q", s)
}

// Layout names the rendering shape of a question group.
type Layout string

const (
	LayoutNoteCompletion      Layout = "note_completion"
	LayoutSentenceCompletion  Layout = "sentence_completion"
	LayoutTableCompletion     Layout = "table_completion"
	LayoutFlowChartCompletion Layout = "flow_chart_completion"
	LayoutDiagramLabeling     Layout = "diagram_labeling"
	LayoutMatching            Layout = "matching"
	LayoutMultipleChoiceMulti Layout = "multiple_choice_multi"
)

// PoolZoneID is the drop target id of the shared options pool.
const PoolZoneID = "pool"

// QuestionKey derives the synthetic answer id for a question number.
func QuestionKey(number int) string {
	return "q" + strconv.Itoa(number)
}

// ParseQuestionKey is the inverse of QuestionKey.
func ParseQuestionKey(key string) (int, bool) {
	if !strings.HasPrefix(key, "q") {
		return 0, false
	}
	n, err := strconv.Atoi(key[1:])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Question is one gradable blank, cell, label or step.
type Question struct {
	ID             string   `json:"id" yaml:"id" validate:"required"`
	Number         int      `json:"number" yaml:"number" validate:"required,min=1"`
	CorrectAnswers []string `json:"correct_answers" yaml:"correct_answers"`
	WordLimit      int      `json:"word_limit,omitempty" yaml:"word_limit" validate:"min=0"`
	// RequiredCount > 0 marks a multi-answer question.
	RequiredCount int `json:"required_count,omitempty" yaml:"required_count" validate:"min=0"`
}

// Key returns the answer store key of the question.
func (q Question) Key() string {
	return QuestionKey(q.Number)
}

// IsMulti reports whether the question collects a list of answers.
func (q Question) IsMulti() bool {
	return q.RequiredCount > 0
}

// QuestionGroup is an ordered set of questions sharing one layout.
type QuestionGroup struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Title       string       `json:"title" yaml:"title"`
	Instruction string       `json:"instruction,omitempty" yaml:"instruction"`
	Layout      Layout       `json:"layout" yaml:"layout" validate:"required,group_layout"`
	Questions   []Question   `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
	Options     []string     `json:"options,omitempty" yaml:"options"`
	AllowReuse  bool         `json:"allow_reuse,omitempty" yaml:"allow_reuse"`
	Content     GroupContent `json:"content" yaml:"content"`
}

// GroupContent carries the layout specific markup. Gaps are written as
// [[question-id]] inside text.
type GroupContent struct {
	Text    string        `json:"text,omitempty" yaml:"text"`
	Table   *TableContent `json:"table,omitempty" yaml:"table"`
	Steps   []string      `json:"steps,omitempty" yaml:"steps"`
	Diagram *DiagramSpec  `json:"diagram,omitempty" yaml:"diagram"`
	Prompts []PromptSpec  `json:"prompts,omitempty" yaml:"prompts"`
}

type TableContent struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

type DiagramSpec struct {
	ImageURL string      `json:"image_url" yaml:"image_url"`
	Labels   []LabelSpec `json:"labels" yaml:"labels"`
}

type LabelSpec struct {
	QuestionID string  `json:"question_id" yaml:"question_id"`
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
}

type PromptSpec struct {
	QuestionID string `json:"question_id" yaml:"question_id"`
	Text       string `json:"text" yaml:"text"`
}

// Question looks up a question by its group-local id.
func (g *QuestionGroup) Question(id string) (Question, bool) {
	for _, q := range g.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionByKey looks up a question by its answer store key.
func (g *QuestionGroup) QuestionByKey(key string) (Question, bool) {
	n, ok := ParseQuestionKey(key)
	if !ok {
		return Question{}, false
	}
	return g.QuestionByNumber(n)
}

func (g *QuestionGroup) QuestionByNumber(number int) (Question, bool) {
	for _, q := range g.Questions {
		if q.Number == number {
			return q, true
		}
	}
	return Question{}, false
}

// CheckIdentifiers enforces unique ids and numbers inside the group.
func (g *QuestionGroup) CheckIdentifiers() error {
	ids := make(map[string]struct{}, len(g.Questions))
	numbers := make(map[int]struct{}, len(g.Questions))
	for _, q := range g.Questions {
		if _, dup := ids[q.ID]; dup {
			return fmt.Errorf("group %s: duplicate question id %q", g.ID, q.ID)
		}
		if _, dup := numbers[q.Number]; dup {
			return fmt.Errorf("group %s: duplicate question number %d", g.ID, q.Number)
		}
		ids[q.ID] = struct{}{}
		numbers[q.Number] = struct{}{}
	}
	return nil
}

// AnswerValue is a student's answer: one string, or an ordered list of
// strings for multi-answer questions.
type AnswerValue struct {
	Text  string
	List  []string
	Multi bool
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{Text: s}
}

func ListAnswer(items ...string) AnswerValue {
	list := make([]string, len(items))
	copy(list, items)
	return AnswerValue{List: list, Multi: true}
}

// IsEmpty reports whether the value counts as unanswered.
func (v AnswerValue) IsEmpty() bool {
	if !v.Multi {
		return strings.TrimSpace(v.Text) == ""
	}
	for _, item := range v.List {
		if strings.TrimSpace(item) != "" {
			return false
		}
	}
	return true
}

// Holds reports whether the value currently contains content.
func (v AnswerValue) Holds(content string) bool {
	if !v.Multi {
		return v.Text == content
	}
	for _, item := range v.List {
		if item == content {
			return true
		}
	}
	return false
}

func (v AnswerValue) Equal(other AnswerValue) bool {
	if v.Multi != other.Multi {
		return false
	}
	if !v.Multi {
		return v.Text == other.Text
	}
	if len(v.List) != len(other.List) {
		return false
	}
	for i := range v.List {
		if v.List[i] != other.List[i] {
			return false
		}
	}
	return true
}

// Values returns the non-empty strings held by the value.
func (v AnswerValue) Values() []string {
	if !v.Multi {
		if v.Text == "" {
			return nil
		}
		return []string{v.Text}
	}
	out := make([]string, 0, len(v.List))
	for _, item := range v.List {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Multi {
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Text)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = AnswerValue{}
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		*v = ListAnswer(list...)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("answer text: %w", err)
	}
	*v = TextAnswer(text)
	return nil
}

package grading

import (
	"fmt"
	"regexp"
	"strings"
)

// ItemView is the graded state of one question as shown to the grader.
type ItemView struct {
	QuestionID    string         `json:"question_id"`
	Key           string         `json:"key"`
	Number        int            `json:"number"`
	Answer        AnswerValue    `json:"answer"`
	AutoStatus    Status         `json:"auto_status"`
	Override      OverrideStatus `json:"override"`
	FinalStatus   Status         `json:"final_status"`
	OverWordLimit bool           `json:"over_word_limit,omitempty"`
	// Correct answers are only included for grader views.
	CorrectAnswers []string `json:"correct_answers,omitempty"`
}

// Counts tallies final statuses across a group.
type Counts struct {
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`
}

func (c *Counts) Add(st Status) {
	c.Total++
	switch st {
	case StatusCorrect:
		c.Correct++
	case StatusIncorrect:
		c.Incorrect++
	default:
		c.Unanswered++
	}
}

// GroupView is the rendered state of one question group.
type GroupView struct {
	GroupID     string     `json:"group_id"`
	Title       string     `json:"title,omitempty"`
	Instruction string     `json:"instruction,omitempty"`
	Layout      Layout     `json:"layout"`
	Items       []ItemView `json:"items"`
	Pool        []string   `json:"pool"`
	Counts      Counts     `json:"counts"`
	Body        any        `json:"body"`
}

// Segment is a run of literal text or a gap bound to a question.
type Segment struct {
	Text string    `json:"text,omitempty"`
	Item *ItemView `json:"item,omitempty"`
}

type NoteBody struct {
	Segments []Segment `json:"segments"`
}

// TableCell holds the segments of one cell; a cell may carry several gaps.
type TableCell struct {
	Segments []Segment `json:"segments"`
}

type TableBody struct {
	Headers []string      `json:"headers"`
	Rows    [][]TableCell `json:"rows"`
}

type FlowStep struct {
	Index    int       `json:"index"`
	Segments []Segment `json:"segments"`
}

type FlowChartBody struct {
	Steps []FlowStep `json:"steps"`
}

type PositionedLabel struct {
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Item ItemView `json:"item"`
}

type DiagramBody struct {
	ImageURL string            `json:"image_url"`
	Labels   []PositionedLabel `json:"labels"`
}

type MatchPair struct {
	Prompt string   `json:"prompt"`
	Item   ItemView `json:"item"`
}

type MatchingBody struct {
	Pairs []MatchPair `json:"pairs"`
}

type Selection struct {
	Selected []string `json:"selected"`
	Required int      `json:"required"`
	Item     ItemView `json:"item"`
}

type SelectionBody struct {
	Prompt     string      `json:"prompt,omitempty"`
	Choices    []string    `json:"choices"`
	Selections []Selection `json:"selections"`
}

// LayoutRenderer arranges already-graded items into a layout specific body.
type LayoutRenderer func(g *QuestionGroup, items map[string]*ItemView) any

var layoutRenderers = map[Layout]LayoutRenderer{
	LayoutNoteCompletion:      renderText,
	LayoutSentenceCompletion:  renderText,
	LayoutTableCompletion:     renderTable,
	LayoutFlowChartCompletion: renderFlowChart,
	LayoutDiagramLabeling:     renderDiagram,
	LayoutMatching:            renderMatching,
	LayoutMultipleChoiceMulti: renderSelection,
}

// KnownLayout reports whether a renderer exists for the layout.
func KnownLayout(l Layout) bool {
	_, ok := layoutRenderers[l]
	return ok
}

// RenderOptions tunes what a view exposes.
type RenderOptions struct {
	IncludeCorrectAnswers bool
}

// Render grades every question of the group against the answers and
// overrides, then lays the results out according to the group's layout.
func Render(g *QuestionGroup, answers map[string]AnswerValue, overrides map[int]OverrideStatus, opts RenderOptions) (GroupView, error) {
	renderer, ok := layoutRenderers[g.Layout]
	if !ok {
		return GroupView{}, fmt.Errorf("unsupported layout %q", g.Layout)
	}

	view := GroupView{
		GroupID:     g.ID,
		Title:       g.Title,
		Instruction: g.Instruction,
		Layout:      g.Layout,
		Items:       make([]ItemView, 0, len(g.Questions)),
	}

	var used []string
	for _, q := range g.Questions {
		answer, ok := answers[q.Key()]
		if !ok && q.IsMulti() {
			answer = ListAnswer()
		}
		used = append(used, answer.Values()...)

		item := gradeItem(q, answer, overrides[q.Number])
		if opts.IncludeCorrectAnswers {
			item.CorrectAnswers = q.CorrectAnswers
		}
		view.Items = append(view.Items, item)
		view.Counts.Add(item.FinalStatus)
	}

	if g.AllowReuse {
		view.Pool = append([]string{}, g.Options...)
	} else {
		view.Pool = AvailableOptions(g.Options, used)
	}

	byID := make(map[string]*ItemView, len(view.Items))
	for i := range view.Items {
		byID[view.Items[i].QuestionID] = &view.Items[i]
	}
	view.Body = renderer(g, byID)
	return view, nil
}

func gradeItem(q Question, answer AnswerValue, override OverrideStatus) ItemView {
	if override == "" {
		override = OverrideAuto
	}
	auto := EvaluateAnswer(answer, q)
	return ItemView{
		QuestionID:    q.ID,
		Key:           q.Key(),
		Number:        q.Number,
		Answer:        answer,
		AutoStatus:    auto,
		Override:      override,
		FinalStatus:   MergeStatus(auto, override),
		OverWordLimit: OverWordLimit(answer, q),
	}
}

var gapMarker = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// splitGaps turns text with [[id]] markers into segments. Markers naming an
// unknown question are kept as literal text.
func splitGaps(text string, items map[string]*ItemView) []Segment {
	var segments []Segment
	last := 0
	for _, m := range gapMarker.FindAllStringSubmatchIndex(text, -1) {
		id := strings.TrimSpace(text[m[2]:m[3]])
		item, ok := items[id]
		if !ok {
			continue
		}
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{Item: item})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

func renderText(g *QuestionGroup, items map[string]*ItemView) any {
	return NoteBody{Segments: splitGaps(g.Content.Text, items)}
}

func renderTable(g *QuestionGroup, items map[string]*ItemView) any {
	body := TableBody{}
	if g.Content.Table == nil {
		return body
	}
	body.Headers = g.Content.Table.Headers
	for _, row := range g.Content.Table.Rows {
		cells := make([]TableCell, 0, len(row))
		for _, cell := range row {
			cells = append(cells, TableCell{Segments: splitGaps(cell, items)})
		}
		body.Rows = append(body.Rows, cells)
	}
	return body
}

func renderFlowChart(g *QuestionGroup, items map[string]*ItemView) any {
	body := FlowChartBody{Steps: make([]FlowStep, 0, len(g.Content.Steps))}
	for i, step := range g.Content.Steps {
		body.Steps = append(body.Steps, FlowStep{Index: i + 1, Segments: splitGaps(step, items)})
	}
	return body
}

func renderDiagram(g *QuestionGroup, items map[string]*ItemView) any {
	body := DiagramBody{}
	if g.Content.Diagram == nil {
		return body
	}
	body.ImageURL = g.Content.Diagram.ImageURL
	for _, l := range g.Content.Diagram.Labels {
		item, ok := items[l.QuestionID]
		if !ok {
			continue
		}
		body.Labels = append(body.Labels, PositionedLabel{X: l.X, Y: l.Y, Item: *item})
	}
	return body
}

func renderMatching(g *QuestionGroup, items map[string]*ItemView) any {
	prompts := make(map[string]string, len(g.Content.Prompts))
	for _, p := range g.Content.Prompts {
		prompts[p.QuestionID] = p.Text
	}
	body := MatchingBody{Pairs: make([]MatchPair, 0, len(g.Questions))}
	for _, q := range g.Questions {
		item := items[q.ID]
		body.Pairs = append(body.Pairs, MatchPair{Prompt: prompts[q.ID], Item: *item})
	}
	return body
}

func renderSelection(g *QuestionGroup, items map[string]*ItemView) any {
	body := SelectionBody{Prompt: g.Content.Text, Choices: g.Options}
	for _, q := range g.Questions {
		item := items[q.ID]
		body.Selections = append(body.Selections, Selection{
			Selected: item.Answer.Values(),
			Required: q.RequiredCount,
			Item:     *item,
		})
	}
	return body
}

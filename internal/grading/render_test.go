package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_NoteCompletion(t *testing.T) {
	view, err := Render(noteGroup(), map[string]AnswerValue{
		"q1": TextAnswer(" Library "),
	}, map[int]OverrideStatus{2: OverrideCorrect}, RenderOptions{IncludeCorrectAnswers: true})
	require.NoError(t, err)

	assert.Equal(t, LayoutNoteCompletion, view.Layout)
	require.Len(t, view.Items, 2)
	assert.Equal(t, StatusCorrect, view.Items[0].FinalStatus)
	assert.Equal(t, []string{"library"}, view.Items[0].CorrectAnswers)
	assert.Equal(t, StatusUnanswered, view.Items[1].AutoStatus)
	assert.Equal(t, OverrideCorrect, view.Items[1].Override)
	assert.Equal(t, StatusCorrect, view.Items[1].FinalStatus)
	assert.Equal(t, Counts{Correct: 2, Total: 2}, view.Counts)

	body, ok := view.Body.(NoteBody)
	require.True(t, ok)
	require.Len(t, body.Segments, 5)
	assert.Equal(t, "Meet at the ", body.Segments[0].Text)
	require.NotNil(t, body.Segments[1].Item)
	assert.Equal(t, "gap-1", body.Segments[1].Item.QuestionID)
	assert.Equal(t, " on ", body.Segments[2].Text)
	assert.Equal(t, "gap-2", body.Segments[3].Item.QuestionID)
	assert.Equal(t, " morning.", body.Segments[4].Text)
}

func TestRender_HidesCorrectAnswersByDefault(t *testing.T) {
	view, err := Render(noteGroup(), nil, nil, RenderOptions{})
	require.NoError(t, err)
	for _, item := range view.Items {
		assert.Nil(t, item.CorrectAnswers)
		assert.Equal(t, OverrideAuto, item.Override)
	}
}

func TestRender_UnknownMarkerStaysLiteral(t *testing.T) {
	g := noteGroup()
	g.Content.Text = "See [[nope]] and [[gap-2]]"
	view, err := Render(g, nil, nil, RenderOptions{})
	require.NoError(t, err)

	body := view.Body.(NoteBody)
	require.Len(t, body.Segments, 2)
	assert.Equal(t, "See [[nope]] and ", body.Segments[0].Text)
	assert.Equal(t, "gap-2", body.Segments[1].Item.QuestionID)
}

func TestRender_Table(t *testing.T) {
	g := &QuestionGroup{
		ID:     "table",
		Layout: LayoutTableCompletion,
		Questions: []Question{
			{ID: "c1", Number: 5, CorrectAnswers: []string{"12"}},
			{ID: "c2", Number: 6, CorrectAnswers: []string{"pool"}},
		},
		Content: GroupContent{Table: &TableContent{
			Headers: []string{"Facility", "Price"},
			Rows: [][]string{
				{"Gym", "£[[c1]] per month"},
				{"[[c2]]", "free"},
			},
		}},
	}

	view, err := Render(g, map[string]AnswerValue{"q5": TextAnswer("12"), "q6": TextAnswer("sauna")}, nil, RenderOptions{})
	require.NoError(t, err)

	body := view.Body.(TableBody)
	assert.Equal(t, []string{"Facility", "Price"}, body.Headers)
	require.Len(t, body.Rows, 2)
	assert.Equal(t, []Segment{{Text: "Gym"}}, body.Rows[0][0].Segments)
	price := body.Rows[0][1].Segments
	require.Len(t, price, 3)
	assert.Equal(t, "£", price[0].Text)
	assert.Equal(t, StatusCorrect, price[1].Item.FinalStatus)
	assert.Equal(t, " per month", price[2].Text)
	assert.Equal(t, StatusIncorrect, body.Rows[1][0].Segments[0].Item.FinalStatus)
	assert.Equal(t, []Segment{{Text: "free"}}, body.Rows[1][1].Segments)
	assert.Equal(t, Counts{Correct: 1, Incorrect: 1, Total: 2}, view.Counts)
}

func TestRender_TableCellWithTwoGaps(t *testing.T) {
	g := &QuestionGroup{
		ID:     "timetable",
		Layout: LayoutTableCompletion,
		Questions: []Question{
			{ID: "a", Number: 1, CorrectAnswers: []string{"9"}},
			{ID: "b", Number: 2, CorrectAnswers: []string{"5"}},
		},
		Content: GroupContent{Table: &TableContent{
			Headers: []string{"Opening hours"},
			Rows:    [][]string{{"from [[a]] to [[b]]"}},
		}},
	}

	view, err := Render(g, map[string]AnswerValue{"q2": TextAnswer("5")}, nil, RenderOptions{})
	require.NoError(t, err)

	body := view.Body.(TableBody)
	require.Len(t, body.Rows, 1)
	cell := body.Rows[0][0].Segments
	require.Len(t, cell, 4)
	assert.Equal(t, "from ", cell[0].Text)
	require.NotNil(t, cell[1].Item)
	assert.Equal(t, "a", cell[1].Item.QuestionID)
	assert.Equal(t, StatusUnanswered, cell[1].Item.FinalStatus)
	assert.Equal(t, " to ", cell[2].Text)
	require.NotNil(t, cell[3].Item)
	assert.Equal(t, "b", cell[3].Item.QuestionID)
	assert.Equal(t, StatusCorrect, cell[3].Item.FinalStatus)
}

func TestRender_FlowChartAndDiagram(t *testing.T) {
	flow := &QuestionGroup{
		ID:        "flow",
		Layout:    LayoutFlowChartCompletion,
		Options:   []string{"heat", "filter", "cool"},
		Questions: []Question{{ID: "s1", Number: 7, CorrectAnswers: []string{"filter"}}},
		Content:   GroupContent{Steps: []string{"Collect water", "[[s1]] the water"}},
	}
	view, err := Render(flow, map[string]AnswerValue{"q7": TextAnswer("filter")}, nil, RenderOptions{})
	require.NoError(t, err)
	fb := view.Body.(FlowChartBody)
	require.Len(t, fb.Steps, 2)
	assert.Equal(t, 2, fb.Steps[1].Index)
	assert.Equal(t, StatusCorrect, fb.Steps[1].Segments[0].Item.FinalStatus)
	assert.Equal(t, []string{"heat", "cool"}, view.Pool)

	diagram := &QuestionGroup{
		ID:        "diagram",
		Layout:    LayoutDiagramLabeling,
		Questions: []Question{{ID: "l1", Number: 8, CorrectAnswers: []string{"valve"}}},
		Content: GroupContent{Diagram: &DiagramSpec{
			ImageURL: "/img/pump.png",
			Labels:   []LabelSpec{{QuestionID: "l1", X: 0.25, Y: 0.5}, {QuestionID: "ghost", X: 1, Y: 1}},
		}},
	}
	view, err = Render(diagram, nil, nil, RenderOptions{})
	require.NoError(t, err)
	db := view.Body.(DiagramBody)
	assert.Equal(t, "/img/pump.png", db.ImageURL)
	require.Len(t, db.Labels, 1)
	assert.Equal(t, 0.25, db.Labels[0].X)
	assert.Equal(t, StatusUnanswered, db.Labels[0].Item.FinalStatus)
}

func TestRender_MatchingAndSelection(t *testing.T) {
	g := matchingGroup()
	g.Content.Prompts = []PromptSpec{{QuestionID: "m1", Text: "The author believes"}}
	view, err := Render(g, map[string]AnswerValue{"q1": TextAnswer("A"), "q2": TextAnswer("C")}, nil, RenderOptions{})
	require.NoError(t, err)
	mb := view.Body.(MatchingBody)
	require.Len(t, mb.Pairs, 3)
	assert.Equal(t, "The author believes", mb.Pairs[0].Prompt)
	assert.Equal(t, StatusCorrect, mb.Pairs[0].Item.FinalStatus)
	assert.Equal(t, StatusIncorrect, mb.Pairs[1].Item.FinalStatus)
	assert.Equal(t, []string{"B", "D"}, view.Pool)

	view, err = Render(selectionGroup(), map[string]AnswerValue{"q21": ListAnswer("D", "B")}, nil, RenderOptions{})
	require.NoError(t, err)
	sb := view.Body.(SelectionBody)
	require.Len(t, sb.Selections, 1)
	assert.Equal(t, []string{"D", "B"}, sb.Selections[0].Selected)
	assert.Equal(t, 2, sb.Selections[0].Required)
	assert.Equal(t, StatusCorrect, sb.Selections[0].Item.FinalStatus)
	assert.Equal(t, []string{"A", "C", "E"}, view.Pool)
}

func TestRender_UnsupportedLayout(t *testing.T) {
	g := noteGroup()
	g.Layout = Layout("essay")
	_, err := Render(g, nil, nil, RenderOptions{})
	assert.Error(t, err)
	assert.False(t, KnownLayout(g.Layout))
	assert.True(t, KnownLayout(LayoutMatching))
}

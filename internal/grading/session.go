package grading

// Session owns the answer and override state of one question group and
// exposes the callback contract used by a hosting page. A session is not
// safe for concurrent use; each request or page owns its own.
type Session struct {
	group      *QuestionGroup
	answers    *AnswerStore
	overrides  *OverrideStore
	reconciler *Reconciler
	gesture    *Gesture
}

type SessionOption func(*Session)

// WithAnswerListener forwards every answer mutation, e.g. for persistence.
func WithAnswerListener(l AnswerListener) SessionOption {
	return func(s *Session) { s.answers.OnChange(l) }
}

// WithOverrideListener forwards every override mutation.
func WithOverrideListener(l OverrideListener) SessionOption {
	return func(s *Session) { s.overrides.OnChange(l) }
}

// NewSession mounts a group: every question gets an empty entry before the
// stored answers are applied.
func NewSession(group *QuestionGroup, answers map[string]AnswerValue, overrides map[int]OverrideStatus, opts ...SessionOption) *Session {
	store := NewAnswerStore(nil)
	for _, q := range group.Questions {
		if v, ok := answers[q.Key()]; ok {
			store.entries[q.Key()] = v
			continue
		}
		store.Ensure(q)
	}

	rec := NewReconciler(group, store)
	s := &Session{
		group:      group,
		answers:    store,
		overrides:  NewOverrideStore(overrides),
		reconciler: rec,
		gesture:    NewGesture(rec),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Group() *QuestionGroup {
	return s.group
}

// OnAnswerChange records a typed answer. Keys outside the group are ignored.
func (s *Session) OnAnswerChange(questionID string, answer AnswerValue) bool {
	if _, ok := s.group.QuestionByKey(questionID); !ok {
		return false
	}
	s.answers.Set(questionID, answer)
	return true
}

// OnManualGradeChange records an instructor override for a question.
func (s *Session) OnManualGradeChange(questionNumber int, status OverrideStatus) bool {
	if _, ok := s.group.QuestionByNumber(questionNumber); !ok {
		return false
	}
	return s.overrides.Set(questionNumber, status)
}

// Drop applies a complete drag in one step.
func (s *Session) Drop(p DragPayload, overID string) bool {
	return s.reconciler.Drop(p, overID)
}

// Gesture exposes the drag state machine for step-wise interaction.
func (s *Session) Gesture() *Gesture {
	return s.gesture
}

func (s *Session) Pool() []string {
	return s.reconciler.Pool()
}

// Evaluate returns the auto-grade of a question.
func (s *Session) Evaluate(questionNumber int) Status {
	q, ok := s.group.QuestionByNumber(questionNumber)
	if !ok {
		return StatusUnanswered
	}
	v, _ := s.answers.Get(q.Key())
	return EvaluateAnswer(v, q)
}

// FinalStatus merges the override, if any, with the auto-grade.
func (s *Session) FinalStatus(questionNumber int) Status {
	return MergeStatus(s.Evaluate(questionNumber), s.overrides.Get(questionNumber))
}

func (s *Session) Counts() Counts {
	var c Counts
	for _, q := range s.group.Questions {
		c.Add(s.FinalStatus(q.Number))
	}
	return c
}

func (s *Session) Answers() map[string]AnswerValue {
	return s.answers.Snapshot()
}

func (s *Session) Overrides() map[int]OverrideStatus {
	return s.overrides.Snapshot()
}

// View renders the current state through the group's layout.
func (s *Session) View(opts RenderOptions) (GroupView, error) {
	return Render(s.group, s.answers.Snapshot(), s.overrides.Snapshot(), opts)
}

package grading

// AnswerListener is invoked after every answer mutation.
type AnswerListener func(questionID string, answer AnswerValue)

// AnswerStore maps question keys to the student's current answers. It does
// no validation; moving a value between questions is the caller's job.
type AnswerStore struct {
	entries  map[string]AnswerValue
	listener AnswerListener
}

func NewAnswerStore(initial map[string]AnswerValue) *AnswerStore {
	entries := make(map[string]AnswerValue, len(initial))
	for k, v := range initial {
		entries[k] = v
	}
	return &AnswerStore{entries: entries}
}

// OnChange registers the listener notified on every Set/Clear.
func (s *AnswerStore) OnChange(listener AnswerListener) {
	s.listener = listener
}

func (s *AnswerStore) Get(questionID string) (AnswerValue, bool) {
	v, ok := s.entries[questionID]
	return v, ok
}

// Text returns the single-string answer, or "" when absent.
func (s *AnswerStore) Text(questionID string) string {
	return s.entries[questionID].Text
}

func (s *AnswerStore) Set(questionID string, value AnswerValue) {
	s.entries[questionID] = value
	if s.listener != nil {
		s.listener(questionID, value)
	}
}

// Clear resets the entry to an empty value of the same shape.
func (s *AnswerStore) Clear(questionID string) {
	prev := s.entries[questionID]
	if prev.Multi {
		s.Set(questionID, ListAnswer())
		return
	}
	s.Set(questionID, TextAnswer(""))
}

// Ensure creates an empty entry for a question that has none yet.
func (s *AnswerStore) Ensure(q Question) {
	if _, ok := s.entries[q.Key()]; ok {
		return
	}
	if q.IsMulti() {
		s.entries[q.Key()] = ListAnswer()
		return
	}
	s.entries[q.Key()] = TextAnswer("")
}

// Snapshot returns a copy safe to hand to readers.
func (s *AnswerStore) Snapshot() map[string]AnswerValue {
	out := make(map[string]AnswerValue, len(s.entries))
	for k, v := range s.entries {
		if v.Multi {
			v = ListAnswer(v.List...)
		}
		out[k] = v
	}
	return out
}

// Used lists every non-empty value currently placed, in no particular order.
func (s *AnswerStore) Used() []string {
	var used []string
	for _, v := range s.entries {
		used = append(used, v.Values()...)
	}
	return used
}

package grading

// OverrideListener is invoked after every override mutation.
type OverrideListener func(questionNumber int, status OverrideStatus)

// OverrideStore holds instructor overrides keyed by question number. A
// missing key means auto.
type OverrideStore struct {
	entries  map[int]OverrideStatus
	listener OverrideListener
}

func NewOverrideStore(initial map[int]OverrideStatus) *OverrideStore {
	entries := make(map[int]OverrideStatus, len(initial))
	for n, st := range initial {
		if st == OverrideCorrect || st == OverrideIncorrect {
			entries[n] = st
		}
	}
	return &OverrideStore{entries: entries}
}

func (s *OverrideStore) OnChange(listener OverrideListener) {
	s.listener = listener
}

func (s *OverrideStore) Get(questionNumber int) OverrideStatus {
	if st, ok := s.entries[questionNumber]; ok {
		return st
	}
	return OverrideAuto
}

// Set records an override; auto removes it. Unknown values are ignored and
// reported as false.
func (s *OverrideStore) Set(questionNumber int, status OverrideStatus) bool {
	switch status {
	case OverrideCorrect, OverrideIncorrect:
		s.entries[questionNumber] = status
	case OverrideAuto:
		delete(s.entries, questionNumber)
	default:
		return false
	}
	if s.listener != nil {
		s.listener(questionNumber, status)
	}
	return true
}

func (s *OverrideStore) Snapshot() map[int]OverrideStatus {
	out := make(map[int]OverrideStatus, len(s.entries))
	for n, st := range s.entries {
		out[n] = st
	}
	return out
}

// MergeStatus applies the instructor-always-wins rule.
func MergeStatus(auto Status, override OverrideStatus) Status {
	switch override {
	case OverrideCorrect:
		return StatusCorrect
	case OverrideIncorrect:
		return StatusIncorrect
	}
	return auto
}

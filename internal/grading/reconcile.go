package grading

// DragPayload describes the content moved by one drag gesture. SourceID is
// PoolZoneID for an unplaced option or the question key of the slot the
// content was dragged out of.
type DragPayload struct {
	Content  string `json:"content"`
	SourceID string `json:"source_id"`
}

// AvailableOptions derives the pool: declared options minus every value in
// use, keeping the declared order. Each used value consumes one option.
func AvailableOptions(allOptions, used []string) []string {
	remaining := make(map[string]int, len(used))
	for _, u := range used {
		remaining[u]++
	}
	out := make([]string, 0, len(allOptions))
	for _, opt := range allOptions {
		if remaining[opt] > 0 {
			remaining[opt]--
			continue
		}
		out = append(out, opt)
	}
	return out
}

// Reconciler applies drops to the answer store of one question group.
type Reconciler struct {
	group *QuestionGroup
	store *AnswerStore
}

func NewReconciler(group *QuestionGroup, store *AnswerStore) *Reconciler {
	return &Reconciler{group: group, store: store}
}

// Pool returns the options not currently placed in any slot.
func (r *Reconciler) Pool() []string {
	if r.group.AllowReuse {
		out := make([]string, len(r.group.Options))
		copy(out, r.group.Options)
		return out
	}
	return AvailableOptions(r.group.Options, r.store.Used())
}

// IsTarget reports whether overID names a drop zone of this group.
func (r *Reconciler) IsTarget(overID string) bool {
	if overID == PoolZoneID {
		return true
	}
	_, ok := r.group.QuestionByKey(overID)
	return ok
}

// Drop reconciles a finished drag onto overID and reports whether any entry
// changed. Unknown targets, unknown content and self drops are ignored.
func (r *Reconciler) Drop(p DragPayload, overID string) bool {
	if overID == "" || p.Content == "" {
		return false
	}
	if overID == PoolZoneID {
		return r.returnToPool(p)
	}

	target, ok := r.group.QuestionByKey(overID)
	if !ok {
		return false
	}
	if target.IsMulti() {
		return r.dropIntoSelection(p, target)
	}
	if p.SourceID == overID {
		return false
	}

	if source, fromSlot := r.group.QuestionByKey(p.SourceID); fromSlot {
		return r.swap(p, source, target)
	}
	if !r.fromPool(p.Content) {
		return false
	}
	r.store.Set(target.Key(), TextAnswer(p.Content))
	return true
}

func (r *Reconciler) fromPool(content string) bool {
	for _, opt := range r.Pool() {
		if opt == content {
			return true
		}
	}
	return false
}

// swap exchanges exactly two slots. A source slot that no longer holds the
// dragged content means a stale gesture, which is ignored.
func (r *Reconciler) swap(p DragPayload, source, target Question) bool {
	if source.IsMulti() {
		current, _ := r.store.Get(source.Key())
		if !current.Holds(p.Content) {
			return false
		}
		// the slot's previous occupant goes back to the pool
		r.store.Set(target.Key(), TextAnswer(p.Content))
		r.store.Set(source.Key(), withoutOne(current, p.Content))
		return true
	}
	if r.store.Text(source.Key()) != p.Content {
		return false
	}
	prev := r.store.Text(target.Key())
	r.store.Set(target.Key(), TextAnswer(p.Content))
	r.store.Set(source.Key(), TextAnswer(prev))
	return true
}

// returnToPool clears the single entry holding the content: the source slot
// when known, else the first holder in question order. An option dragged
// out of the pool and dropped back on it changes nothing.
func (r *Reconciler) returnToPool(p DragPayload) bool {
	if source, ok := r.group.QuestionByKey(p.SourceID); ok {
		return r.clearOne(source, p.Content)
	}
	if p.SourceID == PoolZoneID || r.isOption(p.SourceID) {
		return false
	}
	for _, q := range r.group.Questions {
		if r.clearOne(q, p.Content) {
			return true
		}
	}
	return false
}

func (r *Reconciler) isOption(id string) bool {
	for _, opt := range r.group.Options {
		if opt == id {
			return true
		}
	}
	return false
}

func (r *Reconciler) clearOne(q Question, content string) bool {
	current, ok := r.store.Get(q.Key())
	if !ok || !current.Holds(content) {
		return false
	}
	if current.Multi {
		r.store.Set(q.Key(), withoutOne(current, content))
		return true
	}
	r.store.Clear(q.Key())
	return true
}

// dropIntoSelection appends to a multi-answer zone while it has room.
func (r *Reconciler) dropIntoSelection(p DragPayload, target Question) bool {
	if p.SourceID == target.Key() {
		return false
	}
	current, _ := r.store.Get(target.Key())
	if !current.Multi {
		current = ListAnswer(current.Values()...)
	}
	if current.Holds(p.Content) || len(current.Values()) >= target.RequiredCount {
		return false
	}

	if source, fromSlot := r.group.QuestionByKey(p.SourceID); fromSlot {
		if !r.clearOne(source, p.Content) {
			return false
		}
	} else if !r.fromPool(p.Content) {
		return false
	}
	r.store.Set(target.Key(), ListAnswer(append(current.Values(), p.Content)...))
	return true
}

func withoutOne(v AnswerValue, content string) AnswerValue {
	out := make([]string, 0, len(v.List))
	removed := false
	for _, item := range v.List {
		if !removed && item == content {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return ListAnswer(out...)
}

package grading

// GestureState is the lifecycle of one drag interaction.
type GestureState string

const (
	GestureIdle      GestureState = "idle"
	GestureDragging  GestureState = "dragging"
	GestureDropped   GestureState = "dropped"
	GestureCancelled GestureState = "cancelled"
)

// Gesture tracks a single drag from pick-up to drop or cancellation.
type Gesture struct {
	state   GestureState
	payload DragPayload
	rec     *Reconciler
}

func NewGesture(rec *Reconciler) *Gesture {
	return &Gesture{state: GestureIdle, rec: rec}
}

func (g *Gesture) State() GestureState {
	return g.state
}

// Active returns the payload being dragged, if any.
func (g *Gesture) Active() (DragPayload, bool) {
	return g.payload, g.state == GestureDragging
}

// Start picks up content. A new pick-up replaces any unfinished gesture.
func (g *Gesture) Start(p DragPayload) {
	g.payload = p
	g.state = GestureDragging
}

// End finishes the gesture over overID. Ending with no valid target cancels
// the drag and leaves the answers untouched.
func (g *Gesture) End(overID string) GestureState {
	if g.state != GestureDragging {
		return g.state
	}
	if overID == "" || !g.rec.IsTarget(overID) {
		g.state = GestureCancelled
	} else {
		g.rec.Drop(g.payload, overID)
		g.state = GestureDropped
	}
	g.payload = DragPayload{}
	return g.state
}

// Cancel aborts an in-flight drag.
func (g *Gesture) Cancel() {
	if g.state == GestureDragging {
		g.state = GestureCancelled
		g.payload = DragPayload{}
	}
}

// Reset returns to idle so the next gesture can begin.
func (g *Gesture) Reset() {
	g.state = GestureIdle
	g.payload = DragPayload{}
}

// internal/scenario/tracker.go
package scenario

import (
	"fmt"

	"github.com/xkilldash9x/folio/api/schemas"
)

var transitions = map[schemas.State][]schemas.State{
	schemas.StateStart:     {schemas.StateNavigated},
	schemas.StateNavigated: {schemas.StateWaiting, schemas.StateCompleted},
	schemas.StateWaiting:   {schemas.StateFound},
	schemas.StateFound:     {schemas.StateActed},
	schemas.StateActed:     {schemas.StateWaiting, schemas.StateCompleted},
}

// Tracker records the states a scenario passes through. Any non-terminal state
// may move to Failed. A Tracker belongs to one case and is not safe for
// concurrent use.
type Tracker struct {
	path   []schemas.State
	reason error
}

// NewTracker returns a tracker in the Start state.
func NewTracker() *Tracker {
	return &Tracker{path: []schemas.State{schemas.StateStart}}
}

// Current returns the latest state.
func (t *Tracker) Current() schemas.State {
	return t.path[len(t.path)-1]
}

// Path returns a copy of every state visited, in order.
func (t *Tracker) Path() []schemas.State {
	out := make([]schemas.State, len(t.path))
	copy(out, t.path)
	return out
}

// Reason returns the error recorded by Fail, if any.
func (t *Tracker) Reason() error { return t.reason }

// To moves to next, rejecting transitions the lifecycle does not allow.
func (t *Tracker) To(next schemas.State) error {
	cur := t.Current()
	if next == schemas.StateFailed {
		return fmt.Errorf("use Fail to enter %s", next)
	}
	for _, allowed := range transitions[cur] {
		if allowed == next {
			t.path = append(t.path, next)
			return nil
		}
	}
	return fmt.Errorf("invalid scenario transition %s -> %s", cur, next)
}

// Fail moves to Failed with reason. It is a no-op once a terminal state is reached.
func (t *Tracker) Fail(reason error) {
	if t.Current().Terminal() {
		return
	}
	t.reason = reason
	t.path = append(t.path, schemas.StateFailed)
}

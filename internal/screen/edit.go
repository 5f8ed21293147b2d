package screen

import (
	"sync"

	"github.com/mesh-intelligence/taskdesk/internal/observable"
	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// editState is Creating when target is nil and Editing(*target) otherwise.
type editState struct {
	target *types.Record
}

// EditSession tracks whether the form creates a new record or edits an
// existing one.
type EditSession struct {
	schema resource.Schema
	value  *observable.Value[editState]

	mu     sync.Mutex
	closed bool
}

// NewEditSession returns a session in the Creating state.
func NewEditSession(schema resource.Schema) *EditSession {
	return &EditSession{schema: schema, value: observable.New(editState{})}
}

// SelectForEdit switches to editing r, replacing any current target.
// Unsaved form input for the previous target is discarded by the caller.
func (e *EditSession) SelectForEdit(r types.Record) {
	c := r.Clone()
	e.apply(func(editState) (editState, bool) { return editState{target: &c}, true })
}

// Reset returns to Creating. It is a no-op when already Creating.
func (e *EditSession) Reset() {
	e.apply(func(cur editState) (editState, bool) { return editState{}, cur.target != nil })
}

// resetFrom returns to Creating only while id is still the target, so a
// selection made during a submit survives it.
func (e *EditSession) resetFrom(id string) {
	e.apply(func(cur editState) (editState, bool) {
		if cur.target == nil || cur.target.ID != id {
			return cur, false
		}
		return editState{}, true
	})
}

// Target returns the record being edited, or false when Creating.
func (e *EditSession) Target() (types.Record, bool) {
	st := e.value.Get()
	if st.target == nil {
		return types.Record{}, false
	}
	return st.target.Clone(), true
}

// Editing reports whether a record is selected for edit.
func (e *EditSession) Editing() bool {
	return e.value.Get().target != nil
}

// FormDefaults returns the initial form input for the current state: the
// target's values when Editing, every field blank when Creating.
func (e *EditSession) FormDefaults() resource.Fields {
	if r, ok := e.Target(); ok {
		return e.schema.Defaults(r)
	}
	return resource.Empty(e.schema)
}

// Subscribe calls fn after every transition with the new target, or false
// when Creating.
func (e *EditSession) Subscribe(fn func(types.Record, bool)) (cancel func()) {
	return e.value.Subscribe(func(st editState) {
		if st.target == nil {
			fn(types.Record{}, false)
			return
		}
		fn(st.target.Clone(), true)
	})
}

// Close makes later transitions no-ops.
func (e *EditSession) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

func (e *EditSession) apply(fn func(editState) (editState, bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.value.Update(fn)
}

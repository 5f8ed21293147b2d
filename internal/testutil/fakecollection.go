// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Call records one invocation of a FakeCollection method.
type Call struct {
	Op      string // "list", "create", "update", "delete"
	ID      string
	Sort    string
	Payload types.Payload
}

// FakeCollection is an in-memory implementation of types.Collection for
// testing. Records are kept newest first; IDs are sequential ("r1", "r2", …).
type FakeCollection struct {
	mu      sync.Mutex
	name    string
	records []types.Record
	calls   []Call
	seq     int
	clock   time.Time

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// BeforeList, when set, runs at the start of List outside the lock.
	// Tests use it to block a reload in flight.
	BeforeList func(ctx context.Context)
}

// NewFakeCollection creates an empty FakeCollection named name.
func NewFakeCollection(name string) *FakeCollection {
	return &FakeCollection{
		name:  name,
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Seed inserts a record with the given fields directly, bypassing call
// recording, and returns it.
func (f *FakeCollection) Seed(fields map[string]any) types.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(types.Payload(fields))
}

// Calls returns a copy of the recorded calls.
func (f *FakeCollection) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsOf returns the recorded calls with the given op.
func (f *FakeCollection) CallsOf(op string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Records returns a copy of the stored records, newest first.
func (f *FakeCollection) Records() []types.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Record, len(f.records))
	for i, r := range f.records {
		out[i] = r.Clone()
	}
	return out
}

// List implements types.Collection.
func (f *FakeCollection) List(ctx context.Context, sort string) ([]types.Record, error) {
	if f.BeforeList != nil {
		f.BeforeList(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "list", Sort: sort})
	if f.ListErr != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrFetch, f.ListErr)
	}
	out := make([]types.Record, len(f.records))
	for i, r := range f.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Create implements types.Collection.
func (f *FakeCollection) Create(ctx context.Context, payload types.Payload) (types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "create", Payload: copyPayload(payload)})
	if f.CreateErr != nil {
		return types.Record{}, f.CreateErr
	}
	return f.insertLocked(payload), nil
}

// Update implements types.Collection.
func (f *FakeCollection) Update(ctx context.Context, id string, payload types.Payload) (types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "update", ID: id, Payload: copyPayload(payload)})
	if f.UpdateErr != nil {
		return types.Record{}, f.UpdateErr
	}
	for i, r := range f.records {
		if r.ID != id {
			continue
		}
		for k, v := range payload {
			r.Fields[k] = v
		}
		f.clock = f.clock.Add(time.Second)
		r.Updated = f.clock
		f.records[i] = r
		return r.Clone(), nil
	}
	return types.Record{}, fmt.Errorf("%w: %w: %s", types.ErrTransport, types.ErrNotFound, id)
}

// Delete implements types.Collection.
func (f *FakeCollection) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i:i], f.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %w: %s", types.ErrTransport, types.ErrNotFound, id)
}

// RemoveBehindTheScenes deletes a record without recording a call,
// simulating a concurrent remote editor.
func (f *FakeCollection) RemoveBehindTheScenes(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i:i], f.records[i+1:]...)
			return
		}
	}
}

func (f *FakeCollection) insertLocked(payload types.Payload) types.Record {
	f.seq++
	f.clock = f.clock.Add(time.Second)
	rec := types.Record{
		ID:         "r" + strconv.Itoa(f.seq),
		Collection: f.name,
		Created:    f.clock,
		Updated:    f.clock,
		Fields:     map[string]any(copyPayload(payload)),
	}
	f.records = append([]types.Record{rec}, f.records...)
	return rec.Clone()
}

func copyPayload(p types.Payload) types.Payload {
	out := make(types.Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

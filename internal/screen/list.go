package screen

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/taskdesk/internal/observable"
	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// ListStore holds the records of one collection as last fetched. The held
// slice is only ever replaced whole, so readers never see a partial list.
type ListStore struct {
	coll   types.Collection
	schema resource.Schema
	value  *observable.Value[[]types.Record]

	mu     sync.Mutex
	closed bool
}

// NewListStore returns an empty store for coll.
func NewListStore(coll types.Collection, schema resource.Schema) *ListStore {
	return &ListStore{coll: coll, schema: schema, value: observable.New[[]types.Record](nil)}
}

// Records returns a copy of the held list.
func (s *ListStore) Records() []types.Record {
	return cloneRecords(s.value.Get())
}

// Len returns the number of held records.
func (s *ListStore) Len() int {
	return len(s.value.Get())
}

// Find returns the held record with the given id.
func (s *ListStore) Find(id string) (types.Record, bool) {
	for _, r := range s.value.Get() {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return types.Record{}, false
}

// Subscribe calls fn with a copy of the list after every change.
func (s *ListStore) Subscribe(fn func([]types.Record)) (cancel func()) {
	return s.value.Subscribe(func(recs []types.Record) { fn(cloneRecords(recs)) })
}

// Reload fetches the collection and replaces the held list. On failure the
// held list is kept and the error wraps types.ErrFetch.
func (s *ListStore) Reload(ctx context.Context) error {
	recs, err := s.coll.List(ctx, s.schema.Sort())
	if err != nil {
		if s.isClosed() {
			return ErrClosed
		}
		glog.Warningf("reload %s: %v", s.schema.Collection(), err)
		return classify(types.ErrFetch, err)
	}
	if _, open := s.apply(func([]types.Record) ([]types.Record, bool) { return recs, true }); !open {
		return ErrClosed
	}
	glog.V(1).Infof("reload %s: %d records", s.schema.Collection(), len(recs))
	return nil
}

// RemoveLocally drops the record with the given id from the held list
// without contacting the store. It reports whether a record was removed.
func (s *ListStore) RemoveLocally(id string) bool {
	removed, _ := s.apply(func(cur []types.Record) ([]types.Record, bool) {
		for i, r := range cur {
			if r.ID == id {
				next := make([]types.Record, 0, len(cur)-1)
				next = append(next, cur[:i]...)
				return append(next, cur[i+1:]...), true
			}
		}
		return cur, false
	})
	return removed
}

// Delete removes the record from the store and then applies the schema's
// delete policy. A store failure leaves the held list untouched and wraps
// types.ErrTransport.
func (s *ListStore) Delete(ctx context.Context, id string) error {
	if err := s.coll.Delete(ctx, id); err != nil {
		glog.Warningf("delete %s/%s: %v", s.schema.Collection(), id, err)
		return classify(types.ErrTransport, err)
	}
	glog.V(1).Infof("delete %s/%s: applying %s policy", s.schema.Collection(), id, s.schema.DeletePolicy())

	switch s.schema.DeletePolicy() {
	case resource.DeleteLocal:
		if s.isClosed() {
			return ErrClosed
		}
		s.RemoveLocally(id)
		return nil
	default:
		return s.Reload(ctx)
	}
}

// Clear empties the held list.
func (s *ListStore) Clear() {
	s.apply(func(cur []types.Record) ([]types.Record, bool) { return nil, len(cur) > 0 })
}

// Close discards the results of calls still in flight and of later calls.
func (s *ListStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *ListStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// apply runs fn against the held list unless the store is closed. It
// reports whether fn changed the list and whether the store was open.
func (s *ListStore) apply(fn func([]types.Record) ([]types.Record, bool)) (changed, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, false
	}
	return s.value.Update(fn), true
}

func cloneRecords(recs []types.Record) []types.Record {
	out := make([]types.Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}

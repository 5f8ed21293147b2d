package screen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func sampleTask(id string) types.Record {
	return types.Record{
		ID:         id,
		Collection: types.CollectionTasks,
		Fields: map[string]any{
			types.FieldTitle:       "T",
			types.FieldDescription: "D",
			types.FieldDueDate:     "2024-01-01T10:00:00Z",
			types.FieldPriority:    2,
			types.FieldAuthor:      "u1",
		},
	}
}

func TestEditSession_Transitions(t *testing.T) {
	e := NewEditSession(resource.NewTasks(time.UTC))
	assert.False(t, e.Editing())

	e.SelectForEdit(sampleTask("a"))
	target, ok := e.Target()
	require.True(t, ok)
	assert.Equal(t, "a", target.ID)

	// Selecting another record replaces the target.
	e.SelectForEdit(sampleTask("b"))
	target, _ = e.Target()
	assert.Equal(t, "b", target.ID)

	e.Reset()
	assert.False(t, e.Editing())
	_, ok = e.Target()
	assert.False(t, ok)
}

func TestEditSession_ResetFromCreatingDoesNotNotify(t *testing.T) {
	e := NewEditSession(resource.NewContacts())
	calls := 0
	e.Subscribe(func(types.Record, bool) { calls++ })

	e.Reset()
	assert.Equal(t, 0, calls)
}

func TestEditSession_ResetFromOnlyMatchingTarget(t *testing.T) {
	e := NewEditSession(resource.NewContacts())
	e.SelectForEdit(types.Record{ID: "b", Fields: map[string]any{}})

	e.resetFrom("a")
	assert.True(t, e.Editing())

	e.resetFrom("b")
	assert.False(t, e.Editing())
}

func TestEditSession_TargetIsACopy(t *testing.T) {
	e := NewEditSession(resource.NewTasks(time.UTC))
	r := sampleTask("a")
	e.SelectForEdit(r)
	r.Fields[types.FieldTitle] = "changed"

	target, _ := e.Target()
	assert.Equal(t, "T", target.String(types.FieldTitle))
}

func TestEditSession_FormDefaults(t *testing.T) {
	e := NewEditSession(resource.NewTasks(time.UTC))

	assert.Equal(t, resource.Fields{
		types.FieldTitle:       "",
		types.FieldDescription: "",
		types.FieldDueDate:     "",
		types.FieldPriority:    "",
	}, e.FormDefaults())

	e.SelectForEdit(sampleTask("a"))
	assert.Equal(t, resource.Fields{
		types.FieldTitle:       "T",
		types.FieldDescription: "D",
		types.FieldDueDate:     "2024-01-01T10:00",
		types.FieldPriority:    "2",
	}, e.FormDefaults())
}

func TestEditSession_SubscribeAndClose(t *testing.T) {
	e := NewEditSession(resource.NewContacts())

	var got []bool
	e.Subscribe(func(_ types.Record, editing bool) { got = append(got, editing) })

	e.SelectForEdit(types.Record{ID: "a", Fields: map[string]any{}})
	e.Reset()
	e.Close()
	e.SelectForEdit(types.Record{ID: "b", Fields: map[string]any{}})

	assert.Equal(t, []bool{true, false}, got)
	assert.False(t, e.Editing())
}

package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordAccessors(t *testing.T) {
	due := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		fields map[string]any
		check  func(t *testing.T, r Record)
	}{
		{
			name:   "string field",
			fields: map[string]any{FieldTitle: "T"},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, "T", r.String(FieldTitle))
			},
		},
		{
			name:   "missing string field is empty",
			fields: map[string]any{},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, "", r.String(FieldTitle))
			},
		},
		{
			name:   "priority decoded from JSON as float64",
			fields: map[string]any{FieldPriority: float64(2)},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, 2, r.Int(FieldPriority))
			},
		},
		{
			name:   "priority as json.Number",
			fields: map[string]any{FieldPriority: json.Number("7")},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, 7, r.Int(FieldPriority))
			},
		},
		{
			name:   "priority as numeric string",
			fields: map[string]any{FieldPriority: "3"},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, 3, r.Int(FieldPriority))
			},
		},
		{
			name:   "non-numeric priority is zero",
			fields: map[string]any{FieldPriority: "high"},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, 0, r.Int(FieldPriority))
			},
		},
		{
			name:   "due date stored as RFC 3339 string",
			fields: map[string]any{FieldDueDate: "2024-01-01T10:00:00Z"},
			check: func(t *testing.T, r Record) {
				assert.True(t, due.Equal(r.Time(FieldDueDate)))
			},
		},
		{
			name:   "due date as time.Time",
			fields: map[string]any{FieldDueDate: due},
			check: func(t *testing.T, r Record) {
				assert.True(t, due.Equal(r.Time(FieldDueDate)))
			},
		},
		{
			name:   "unparseable due date is zero",
			fields: map[string]any{FieldDueDate: "tomorrow"},
			check: func(t *testing.T, r Record) {
				assert.True(t, r.Time(FieldDueDate).IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Record{ID: "r1", Fields: tt.fields})
		})
	}
}

func TestRecordClone(t *testing.T) {
	r := Record{ID: "r1", Fields: map[string]any{FieldTitle: "before"}}
	c := r.Clone()
	c.Fields[FieldTitle] = "after"

	assert.Equal(t, "before", r.String(FieldTitle))
	assert.Equal(t, "after", c.String(FieldTitle))
	assert.Equal(t, r.ID, c.ID)
}

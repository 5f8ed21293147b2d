package resource

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Tasks is the schema of the tasks collection.
type Tasks struct {
	loc *time.Location
}

// NewTasks returns the tasks schema rendering timestamps in loc
// (time.Local when nil).
func NewTasks(loc *time.Location) *Tasks {
	if loc == nil {
		loc = time.Local
	}
	return &Tasks{loc: loc}
}

var taskFields = []string{
	types.FieldTitle,
	types.FieldDescription,
	types.FieldDueDate,
	types.FieldPriority,
}

// Collection returns "tasks".
func (t *Tasks) Collection() string { return types.CollectionTasks }

// Sort lists tasks newest first.
func (t *Tasks) Sort() string { return types.SortCreatedDesc }

// DeletePolicy reloads the list from the store after a delete.
func (t *Tasks) DeletePolicy() DeletePolicy { return DeleteReload }

// FieldNames returns the form fields in display order. The slice is a copy.
func (t *Tasks) FieldNames() []string { return append([]string(nil), taskFields...) }

// Headers returns the table column titles matching Columns.
func (t *Tasks) Headers() []string { return []string{"TITLE", "DESCRIPTION", "DUE", "PRIORITY"} }

// Location is the zone form timestamps are read and rendered in.
func (t *Tasks) Location() *time.Location { return t.loc }

// Extract requires a title, a description key, a due date in
// DateTimeLayout, and an integer priority of at least 1.
func (t *Tasks) Extract(f Fields) (types.Payload, error) {
	title, err := requireText(f, types.FieldTitle)
	if err != nil {
		return nil, err
	}

	description, ok := f[types.FieldDescription]
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing", types.ErrValidation, types.FieldDescription)
	}

	dueRaw, err := requireText(f, types.FieldDueDate)
	if err != nil {
		return nil, err
	}
	due, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(dueRaw), t.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a date-time (want %s)",
			types.ErrValidation, types.FieldDueDate, dueRaw, DateTimeLayout)
	}

	prioRaw, err := requireText(f, types.FieldPriority)
	if err != nil {
		return nil, err
	}
	priority, err := strconv.Atoi(strings.TrimSpace(prioRaw))
	if err != nil || priority < 1 {
		return nil, fmt.Errorf("%w: %s must be an integer of at least 1, got %q",
			types.ErrValidation, types.FieldPriority, prioRaw)
	}

	return types.Payload{
		types.FieldTitle:       title,
		types.FieldDescription: description,
		types.FieldDueDate:     due,
		types.FieldPriority:    priority,
	}, nil
}

// Defaults renders r for the task form. The due date is shown in the
// schema's location, truncated to the minute.
func (t *Tasks) Defaults(r types.Record) Fields {
	f := Fields{
		types.FieldTitle:       r.String(types.FieldTitle),
		types.FieldDescription: r.String(types.FieldDescription),
		types.FieldDueDate:     "",
		types.FieldPriority:    "",
	}
	if due := r.Time(types.FieldDueDate); !due.IsZero() {
		f[types.FieldDueDate] = due.In(t.loc).Format(DateTimeLayout)
	}
	if p := r.Int(types.FieldPriority); p > 0 {
		f[types.FieldPriority] = strconv.Itoa(p)
	}
	return f
}

// Columns renders r for a task list row; the due column shows the date only.
func (t *Tasks) Columns(r types.Record) []string {
	due := ""
	if d := r.Time(types.FieldDueDate); !d.IsZero() {
		due = d.In(t.loc).Format("2006-01-02")
	}
	prio := ""
	if p := r.Int(types.FieldPriority); p > 0 {
		prio = strconv.Itoa(p)
	}
	return []string{r.String(types.FieldTitle), r.String(types.FieldDescription), due, prio}
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/internal/screen"
	"github.com/mesh-intelligence/taskdesk/internal/testutil"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func setup(t *testing.T) (Model, *testutil.FakeCollection, *screen.Screen) {
	t.Helper()
	fc := testutil.NewFakeCollection(types.CollectionTasks)
	s := screen.New(fc, resource.NewTasks(time.UTC), testutil.NewFakeSession("u1"),
		screen.WithNoticeDelay(time.Minute))
	t.Cleanup(s.Close)
	m := New(s)
	t.Cleanup(m.Close)
	return m, fc, s
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// send feeds msgs to m in order and returns the model and the last command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// complete runs the store round-trip cmd and feeds its result back.
func complete(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	op, ok := msg.(opMsg)
	require.True(t, ok, "want opMsg, got %T", msg)
	m, _ = send(t, m, op)
	return m
}

func typeText(s string) []tea.Msg {
	var out []tea.Msg
	for _, r := range s {
		out = append(out, runes(string(r)))
	}
	return out
}

func TestModel_ListsRecordsAfterOpen(t *testing.T) {
	m, fc, s := setup(t)
	fc.Seed(map[string]any{types.FieldTitle: "first"})
	fc.Seed(map[string]any{types.FieldTitle: "second"})

	require.NoError(t, s.Open(t.Context()))
	m, _ = send(t, m, changedMsg{})

	view := m.View()
	assert.Contains(t, view, "TASKS")
	assert.Contains(t, view, "second")
	assert.Contains(t, view, "first")
	assert.Len(t, m.records, 2)
}

func TestModel_CreateThroughForm(t *testing.T) {
	m, fc, s := setup(t)
	require.NoError(t, s.Open(t.Context()))

	m, _ = send(t, m, runes("n"))
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "New task")

	var msgs []tea.Msg
	msgs = append(msgs, typeText("Buy milk")...)
	msgs = append(msgs, tab)
	msgs = append(msgs, typeText("2 liters")...)
	msgs = append(msgs, tab)
	msgs = append(msgs, typeText("2024-01-01T10:00")...)
	msgs = append(msgs, tab)
	msgs = append(msgs, typeText("2")...)
	msgs = append(msgs, enter)
	m, cmd := send(t, m, msgs...)
	m = complete(t, m, cmd)

	creates := fc.CallsOf("create")
	require.Len(t, creates, 1)
	assert.Equal(t, "Buy milk", creates[0].Payload[types.FieldTitle])
	assert.Equal(t, "u1", creates[0].Payload[types.FieldAuthor])

	assert.Equal(t, modeList, m.mode)
	assert.Len(t, m.records, 1)
	assert.Equal(t, screen.NoticeSuccess, m.notice)
	assert.Contains(t, m.View(), screen.SuccessMessage)
	assert.Empty(t, m.inputs[0].Value(), "form cleared")
}

func TestModel_FailedSubmitKeepsForm(t *testing.T) {
	m, fc, s := setup(t)
	require.NoError(t, s.Open(t.Context()))

	m, _ = send(t, m, runes("n"))
	m, cmd := send(t, m, append(typeText("only a title"), enter)...)
	m = complete(t, m, cmd)

	assert.Empty(t, fc.CallsOf("create"))
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "only a title", m.inputs[0].Value())
	assert.Contains(t, m.View(), screen.ErrorMessage)
}

func TestModel_EditFillsDefaults(t *testing.T) {
	m, fc, s := setup(t)
	fc.Seed(map[string]any{
		types.FieldTitle:       "T",
		types.FieldDescription: "D",
		types.FieldDueDate:     "2024-01-01T10:00:00Z",
		types.FieldPriority:    3,
		types.FieldAuthor:      "u9",
	})
	require.NoError(t, s.Open(t.Context()))
	m, _ = send(t, m, changedMsg{})

	m, _ = send(t, m, runes("e"))
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "r1", m.target)
	assert.Equal(t, []string{"T", "D", "2024-01-01T10:00", "3"},
		[]string{m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value(), m.inputs[3].Value()})
	assert.Contains(t, m.View(), "Editing r1")

	m, cmd := send(t, m, append(typeText("!"), enter)...)
	m = complete(t, m, cmd)

	updates := fc.CallsOf("update")
	require.Len(t, updates, 1)
	assert.Equal(t, "r1", updates[0].ID)
	assert.Equal(t, "T!", updates[0].Payload[types.FieldTitle])
	assert.False(t, s.Edit.Editing())
	assert.Equal(t, modeList, m.mode)
}

func TestModel_EscCancelsEdit(t *testing.T) {
	m, fc, s := setup(t)
	fc.Seed(map[string]any{types.FieldTitle: "T"})
	require.NoError(t, s.Open(t.Context()))
	m, _ = send(t, m, changedMsg{})

	m, _ = send(t, m, runes("e"))
	require.True(t, s.Edit.Editing())

	m, _ = send(t, m, esc)
	assert.Equal(t, modeList, m.mode)
	assert.False(t, s.Edit.Editing())
}

func TestModel_DeleteAsksFirst(t *testing.T) {
	m, fc, s := setup(t)
	fc.Seed(map[string]any{types.FieldTitle: "a"})
	fc.Seed(map[string]any{types.FieldTitle: "b"})
	require.NoError(t, s.Open(t.Context()))
	m, _ = send(t, m, changedMsg{})

	m, _ = send(t, m, runes("j"), runes("d"))
	require.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), `Delete "a"?`)

	m, _ = send(t, m, runes("n"))
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, fc.CallsOf("delete"))

	m, cmd := send(t, m, runes("d"), runes("y"))
	m = complete(t, m, cmd)

	del := fc.CallsOf("delete")
	require.Len(t, del, 1)
	assert.Equal(t, "r1", del[0].ID)
	assert.Len(t, m.records, 1)
	assert.Equal(t, 0, m.cursor)
}

func TestModel_ReloadFailureShowsBanner(t *testing.T) {
	m, fc, s := setup(t)
	require.NoError(t, s.Open(t.Context()))
	fc.ListErr = errors.New("offline")

	m, cmd := send(t, m, runes("r"))
	m = complete(t, m, cmd)

	assert.Equal(t, screen.NoticeError, m.notice)
	assert.Contains(t, m.View(), screen.ErrorMessage)
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := setup(t)
	_, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ListenDeliversChanges(t *testing.T) {
	m, fc, s := setup(t)
	fc.Seed(map[string]any{types.FieldTitle: "a"})

	cmd := m.listen()
	require.NoError(t, s.Open(t.Context()))
	assert.Equal(t, changedMsg{}, cmd())
}

// Package forms holds the modal controllers: one per create/edit/
// delete/upload flow. Each owns its lifecycle (Closed → Loading →
// Ready → Submitting) and a local draft; nothing is applied in-memory
// before the server confirms, so there is never anything to roll back.
package forms

import (
	tea "github.com/charmbracelet/bubbletea"

	"obra/internal/ui/keys"
	"obra/internal/ui/styles"
)

// Form is a modal controller owned by a view. The view forwards
// messages while the modal is open and closes it on SavedMsg or
// CanceledMsg.
type Form interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Form, tea.Cmd)
	View(width, height int) string
}

// phase is the lifecycle position of a form.
type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseSubmitting
	// phaseLoadFailed is terminal: the edit target could not be
	// fetched and the modal shows the error instead of closing
	// silently.
	phaseLoadFailed
)

// SavedMsg reports a successful mutation. The parent re-fetches its
// collection first, then closes the modal: refresh before close.
type SavedMsg struct {
	Notice string
}

// CanceledMsg reports that the user dismissed the modal. Nothing was
// mutated, so there is nothing to discard beyond the draft.
type CanceledMsg struct{}

// Level classifies a notice.
type Level int

const (
	Info Level = iota
	Success
	Warn
	Error
)

// NoticeMsg is a transient, non-blocking notification. The shell
// renders it; no error ever crashes a view.
type NoticeMsg struct {
	Level Level
	Text  string
}

// Notify builds a command emitting a notice.
func Notify(level Level, text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Level: level, Text: text}
	}
}

func saved(notice string) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{Notice: notice}
	}
}

func canceled() tea.Msg {
	return CanceledMsg{}
}

// shared look and bindings for all forms
var (
	formStyles = styles.NewStyles()
	formKeys   = keys.DefaultKeyMap()
)

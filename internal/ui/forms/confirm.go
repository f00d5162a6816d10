package forms

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obra/internal/ui/styles"
)

// ConfirmDelete is the confirmation modal shown before any destructive
// call. The delete itself is supplied by the parent view, so the same
// modal serves projects, tasks, clients and documents.
type ConfirmDelete struct {
	target string
	notice string
	errMsg string
	do     func() error

	phase phase
	// yesFocused starts false so a bare enter cancels.
	yesFocused bool
}

// NewConfirmDelete builds the modal. target is the display name shown
// in the prompt, notice the toast on success, errMsg the toast on
// failure; do performs the actual delete.
func NewConfirmDelete(target, notice, errMsg string, do func() error) *ConfirmDelete {
	return &ConfirmDelete{
		target: target,
		notice: notice,
		errMsg: errMsg,
		do:     do,
		phase:  phaseReady,
	}
}

type confirmDoneMsg struct {
	err error
}

func (f *ConfirmDelete) Init() tea.Cmd { return nil }

func (f *ConfirmDelete) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case confirmDoneMsg:
		if msg.err != nil {
			f.phase = phaseReady
			return f, Notify(Error, f.errMsg)
		}
		return f, saved(f.notice)

	case tea.KeyMsg:
		if f.phase == phaseSubmitting {
			return f, nil
		}
		switch {
		case key.Matches(msg, formKeys.Back), msg.String() == "n", msg.String() == "N":
			return f, canceled
		case msg.String() == "y", msg.String() == "Y":
			return f.confirm()
		case key.Matches(msg, formKeys.Left), key.Matches(msg, formKeys.Right),
			key.Matches(msg, formKeys.Tab):
			f.yesFocused = !f.yesFocused
			return f, nil
		case key.Matches(msg, formKeys.Enter):
			if f.yesFocused {
				return f.confirm()
			}
			return f, canceled
		}
	}
	return f, nil
}

func (f *ConfirmDelete) confirm() (Form, tea.Cmd) {
	f.phase = phaseSubmitting
	do := f.do
	return f, func() tea.Msg {
		return confirmDoneMsg{err: do()}
	}
}

func (f *ConfirmDelete) View(width, height int) string {
	s := formStyles

	yes := s.Button.Render(" Sim ")
	no := s.ButtonFocused.Render(" Não ")
	if f.yesFocused {
		yes = s.ButtonFocused.Render(" Sim ")
		no = s.Button.Render(" Não ")
	}
	if f.phase == phaseSubmitting {
		yes = s.Button.Render(" Excluindo... ")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Confirmar Exclusão"),
		"",
		"Tem certeza que deseja excluir "+s.ErrorText.Render(f.target)+"?",
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, yes, "  ", no),
		"",
		s.TitleMuted.Render("y/n • ←→: alternar • Esc: cancelar"),
	)

	boxed := s.Overlay.Render(content)
	contentWidth := styles.ContentWidth(width)
	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		boxed,
	)
	return styles.CenterView(centered, width, height)
}

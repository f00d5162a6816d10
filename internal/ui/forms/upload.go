package forms

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obra/internal/ui/styles"
)

const (
	ufPath = iota
	ufSend
	ufFieldCount
)

// UploadForm is the document upload modal. The user types (or pastes)
// a local file path; the file is read and handed to the parent's send
// function. Submitting with an empty path is a no-op apart from the
// notice.
type UploadForm struct {
	send func(filename string, r io.Reader) error

	phase    phase
	path     textinput.Model
	focusIdx int
}

// NewUpload builds the modal. send performs the actual upload and is
// supplied by the parent view.
func NewUpload(send func(filename string, r io.Reader) error) *UploadForm {
	path := textinput.New()
	path.Placeholder = "/caminho/para/o/arquivo"
	path.CharLimit = 255
	path.Focus()

	return &UploadForm{
		send:  send,
		phase: phaseReady,
		path:  path,
	}
}

type uploadDoneMsg struct {
	err error
}

func (f *UploadForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f *UploadForm) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadDoneMsg:
		if msg.err != nil {
			f.phase = phaseReady
			return f, Notify(Error, "Erro ao enviar o documento.")
		}
		return f, saved("Documento enviado com sucesso!")

	case tea.KeyMsg:
		if f.phase == phaseSubmitting {
			if key.Matches(msg, formKeys.Back) {
				return f, canceled
			}
			return f, nil
		}

		switch {
		case key.Matches(msg, formKeys.Back):
			return f, canceled

		case key.Matches(msg, formKeys.Tab), msg.String() == "shift+tab":
			f.focusIdx = (f.focusIdx + 1) % ufFieldCount
			if f.focusIdx == ufPath {
				f.path.Focus()
			} else {
				f.path.Blur()
			}
			return f, nil

		case key.Matches(msg, formKeys.Enter), msg.String() == "ctrl+s":
			return f.submit()
		}

		if f.focusIdx == ufPath {
			var cmd tea.Cmd
			f.path, cmd = f.path.Update(msg)
			return f, cmd
		}
	}
	return f, nil
}

func (f *UploadForm) submit() (Form, tea.Cmd) {
	path := strings.TrimSpace(f.path.Value())
	if path == "" {
		return f, Notify(Info, "Selecione ou arraste um arquivo antes de enviar.")
	}

	f.phase = phaseSubmitting
	send := f.send
	return f, func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		return uploadDoneMsg{err: send(filepath.Base(path), bytes.NewReader(data))}
	}
}

func (f *UploadForm) View(width, height int) string {
	s := formStyles
	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-8, 20, 60)

	inputStyle := s.Input
	if f.focusIdx == ufPath {
		inputStyle = s.InputFocused
	}
	btnStyle := s.Button
	if f.focusIdx == ufSend {
		btnStyle = s.ButtonFocused
	}
	btnLabel := " Enviar "
	if f.phase == phaseSubmitting {
		btnLabel = " Enviando... "
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Enviar Documento"),
		"",
		"Arquivo:",
		inputStyle.Width(inputWidth).Render(f.path.View()),
		"",
		btnStyle.Render(btnLabel),
		"",
		s.TitleMuted.Render("Enter: enviar • Esc: cancelar"),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

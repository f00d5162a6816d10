package forms

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obra/internal/api"
	"obra/internal/format"
	"obra/internal/models"
	"obra/internal/ui/styles"
)

const (
	cfCPFCNPJ = iota
	cfNome
	cfTelefone
	cfEmail
	cfEndereco
	cfSenha
	cfSave
	cfFieldCount
)

// ClientForm is the add/edit modal for contracting clients. The tax id
// is the natural key: it is masked as the user types, stored as bare
// digits, and immutable once the client exists.
type ClientForm struct {
	api     *api.Client
	editing bool
	// taxID is the immutable lookup key in edit mode.
	taxID string

	phase phase

	cpfcnpj  textinput.Model
	nome     textinput.Model
	telefone textinput.Model
	email    textinput.Model
	endereco textinput.Model
	senha    textinput.Model

	focusIdx int
}

// NewAddClient creates the add variant with an empty draft.
func NewAddClient(client *api.Client) *ClientForm {
	cpf := textinput.New()
	cpf.Placeholder = "CPF ou CNPJ"
	cpf.CharLimit = 18

	nome := textinput.New()
	nome.Placeholder = "Nome"
	nome.CharLimit = 100

	tel := textinput.New()
	tel.Placeholder = "(00) 00000-0000"
	tel.CharLimit = 15

	email := textinput.New()
	email.Placeholder = "email@exemplo.com"
	email.CharLimit = 100

	endereco := textinput.New()
	endereco.Placeholder = "Endereço"
	endereco.CharLimit = 200

	senha := textinput.New()
	senha.Placeholder = "Senha"
	senha.CharLimit = 100
	senha.EchoMode = textinput.EchoPassword

	f := &ClientForm{
		api:      client,
		phase:    phaseReady,
		cpfcnpj:  cpf,
		nome:     nome,
		telefone: tel,
		email:    email,
		endereco: endereco,
		senha:    senha,
	}
	f.cpfcnpj.Focus()
	return f
}

// NewEditClient creates the edit variant seeded from the listed
// record. The client list already carries every editable field, so
// there is no loading phase; only the password starts blank (blank
// keeps the current one).
func NewEditClient(client *api.Client, c models.Cliente) *ClientForm {
	f := NewAddClient(client)
	f.editing = true
	f.taxID = format.Digits(c.CPFCNPJ)
	f.cpfcnpj.SetValue(format.CPFCNPJ(c.CPFCNPJ))
	f.nome.SetValue(c.Nome)
	f.telefone.SetValue(format.Telefone(c.Telefone))
	f.email.SetValue(c.Email)
	f.endereco.SetValue(c.Endereco)
	// The tax id cannot change; start on the first editable field.
	f.focusIdx = cfNome
	f.updateFocus()
	return f
}

type clientSubmitDoneMsg struct {
	err error
}

func (f *ClientForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f *ClientForm) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case clientSubmitDoneMsg:
		if msg.err != nil {
			f.phase = phaseReady
			if f.editing {
				return f, Notify(Error, "Erro ao atualizar contratante.")
			}
			return f, Notify(Error, "Erro ao adicionar contratante.")
		}
		if f.editing {
			return f, saved("Contratante atualizado com sucesso!")
		}
		return f, saved("Contratante adicionado com sucesso!")

	case tea.KeyMsg:
		return f.updateKey(msg)
	}
	return f, nil
}

func (f *ClientForm) updateKey(msg tea.KeyMsg) (Form, tea.Cmd) {
	if f.phase == phaseSubmitting {
		if key.Matches(msg, formKeys.Back) {
			return f, canceled
		}
		return f, nil
	}

	switch {
	case key.Matches(msg, formKeys.Back):
		return f, canceled

	case msg.String() == "ctrl+s":
		return f.submit()

	case key.Matches(msg, formKeys.Tab):
		f.focusIdx = f.nextFocus(1)
		f.updateFocus()
		return f, nil

	case msg.String() == "shift+tab":
		f.focusIdx = f.nextFocus(-1)
		f.updateFocus()
		return f, nil

	case key.Matches(msg, formKeys.Enter):
		if f.focusIdx == cfSave {
			return f.submit()
		}
		f.focusIdx = f.nextFocus(1)
		f.updateFocus()
		return f, nil
	}

	var cmd tea.Cmd
	switch f.focusIdx {
	case cfCPFCNPJ:
		f.cpfcnpj, cmd = f.cpfcnpj.Update(msg)
		f.cpfcnpj.SetValue(format.CPFCNPJ(f.cpfcnpj.Value()))
		f.cpfcnpj.CursorEnd()
	case cfNome:
		f.nome, cmd = f.nome.Update(msg)
	case cfTelefone:
		f.telefone, cmd = f.telefone.Update(msg)
		f.telefone.SetValue(format.Telefone(f.telefone.Value()))
		f.telefone.CursorEnd()
	case cfEmail:
		f.email, cmd = f.email.Update(msg)
	case cfEndereco:
		f.endereco, cmd = f.endereco.Update(msg)
	case cfSenha:
		f.senha, cmd = f.senha.Update(msg)
	}
	return f, cmd
}

// nextFocus skips the tax id field in edit mode.
func (f *ClientForm) nextFocus(dir int) int {
	idx := f.focusIdx
	for {
		idx = (idx + dir + cfFieldCount) % cfFieldCount
		if f.editing && idx == cfCPFCNPJ {
			continue
		}
		return idx
	}
}

func (f *ClientForm) updateFocus() {
	f.cpfcnpj.Blur()
	f.nome.Blur()
	f.telefone.Blur()
	f.email.Blur()
	f.endereco.Blur()
	f.senha.Blur()

	switch f.focusIdx {
	case cfCPFCNPJ:
		f.cpfcnpj.Focus()
	case cfNome:
		f.nome.Focus()
	case cfTelefone:
		f.telefone.Focus()
	case cfEmail:
		f.email.Focus()
	case cfEndereco:
		f.endereco.Focus()
	case cfSenha:
		f.senha.Focus()
	}
}

func (f *ClientForm) submit() (Form, tea.Cmd) {
	// Masks are display-only; the payload carries bare digits.
	cpf := format.Digits(f.cpfcnpj.Value())
	tel := format.Digits(f.telefone.Value())

	if cpf == "" ||
		strings.TrimSpace(f.nome.Value()) == "" ||
		tel == "" ||
		strings.TrimSpace(f.email.Value()) == "" {
		return f, Notify(Warn, "Preencha todos os campos obrigatórios.")
	}
	if !f.editing && f.senha.Value() == "" {
		return f, Notify(Warn, "Preencha todos os campos obrigatórios.")
	}

	payload := models.Cliente{
		CPFCNPJ:  cpf,
		Nome:     strings.TrimSpace(f.nome.Value()),
		Telefone: tel,
		Email:    strings.TrimSpace(f.email.Value()),
		Endereco: strings.TrimSpace(f.endereco.Value()),
		Senha:    f.senha.Value(),
	}
	if f.editing {
		payload.CPFCNPJ = f.taxID
	}

	f.phase = phaseSubmitting
	return f, func() tea.Msg {
		var err error
		if f.editing {
			err = f.api.UpdateCliente(f.taxID, payload)
		} else {
			err = f.api.CreateCliente(payload)
		}
		return clientSubmitDoneMsg{err: err}
	}
}

func (f *ClientForm) View(width, height int) string {
	s := formStyles
	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-8, 20, 50)

	title := "Novo Contratante"
	if f.editing {
		title = "Editar Contratante"
	}

	style := func(idx int) lipgloss.Style {
		if f.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	cpfLabel := "CPF/CNPJ:"
	if f.editing {
		cpfLabel = "CPF/CNPJ (não editável):"
	}
	senhaLabel := "Senha:"
	if f.editing {
		senhaLabel = "Senha (em branco mantém a atual):"
	}

	btnStyle := s.Button
	if f.focusIdx == cfSave {
		btnStyle = s.ButtonFocused
	}
	btnLabel := " Salvar "
	if f.phase == phaseSubmitting {
		btnLabel = " Salvando... "
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		cpfLabel,
		style(cfCPFCNPJ).Width(inputWidth).Render(f.cpfcnpj.View()),
		"Nome:",
		style(cfNome).Width(inputWidth).Render(f.nome.View()),
		"Telefone:",
		style(cfTelefone).Width(inputWidth).Render(f.telefone.View()),
		"Email:",
		style(cfEmail).Width(inputWidth).Render(f.email.View()),
		"Endereço:",
		style(cfEndereco).Width(inputWidth).Render(f.endereco.View()),
		senhaLabel,
		style(cfSenha).Width(inputWidth).Render(f.senha.View()),
		"",
		btnStyle.Render(btnLabel),
		"",
		s.TitleMuted.Render("Tab: próximo • Ctrl+S: salvar • Esc: cancelar"),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

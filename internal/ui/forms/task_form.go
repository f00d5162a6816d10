package forms

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obra/internal/api"
	"obra/internal/format"
	"obra/internal/models"
	"obra/internal/ui/styles"
)

const (
	tfNome = iota
	tfDescricao
	tfDataInicio
	tfDataFim
	tfStatus
	tfSave
	tfFieldCount
)

// TaskForm is the add/edit modal for tasks. A task is always created
// under its owning project; editing addresses the task by its own id
// and never moves it between projects.
type TaskForm struct {
	api       *api.Client
	editing   bool
	projectID int64
	taskID    int64

	phase   phase
	loadErr string

	nome       textinput.Model
	descricao  textarea.Model
	dataInicio textinput.Model
	dataFim    textinput.Model
	statusIdx  int

	focusIdx int
}

// NewAddTask creates the add variant under one project.
func NewAddTask(client *api.Client, projectID int64) *TaskForm {
	nome := textinput.New()
	nome.Placeholder = "Nome"
	nome.CharLimit = 100

	descricao := textarea.New()
	descricao.Placeholder = "Descrição"
	descricao.CharLimit = 500
	descricao.SetWidth(50)
	descricao.SetHeight(3)
	descricao.ShowLineNumbers = false

	inicio := textinput.New()
	inicio.Placeholder = "AAAA-MM-DD"
	inicio.CharLimit = 10

	fim := textinput.New()
	fim.Placeholder = "AAAA-MM-DD"
	fim.CharLimit = 10

	f := &TaskForm{
		api:        client,
		projectID:  projectID,
		phase:      phaseReady,
		nome:       nome,
		descricao:  descricao,
		dataInicio: inicio,
		dataFim:    fim,
		statusIdx:  0,
	}
	f.nome.Focus()
	return f
}

// NewEditTask creates the edit variant for one task id.
func NewEditTask(client *api.Client, taskID int64) *TaskForm {
	f := NewAddTask(client, 0)
	f.editing = true
	f.taskID = taskID
	f.phase = phaseLoading
	return f
}

type taskLoadedMsg struct {
	tarefa *models.Tarefa
	err    error
}

type taskSubmitDoneMsg struct {
	err error
}

func (f *TaskForm) Init() tea.Cmd {
	if f.editing {
		return tea.Batch(f.loadTarefa, textinput.Blink)
	}
	return textinput.Blink
}

func (f *TaskForm) loadTarefa() tea.Msg {
	t, err := f.api.GetTarefa(f.taskID)
	return taskLoadedMsg{tarefa: t, err: err}
}

func (f *TaskForm) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case taskLoadedMsg:
		if msg.err != nil {
			f.phase = phaseLoadFailed
			f.loadErr = "Não foi possível carregar a tarefa."
			return f, nil
		}
		t := msg.tarefa
		f.nome.SetValue(t.Nome)
		f.descricao.SetValue(t.Descricao)
		f.dataInicio.SetValue(format.DataInput(t.DataInicio))
		f.dataFim.SetValue(format.DataInput(t.DataFimPrev))
		for i, opt := range models.TarefaStatusOptions() {
			if opt == t.Status {
				f.statusIdx = i
			}
		}
		f.phase = phaseReady
		return f, nil

	case taskSubmitDoneMsg:
		if msg.err != nil {
			f.phase = phaseReady
			if f.editing {
				return f, Notify(Error, "Erro ao salvar a tarefa.")
			}
			return f, Notify(Error, "Erro ao adicionar a tarefa.")
		}
		if f.editing {
			return f, saved("Tarefa atualizada com sucesso!")
		}
		return f, saved("Tarefa adicionada com sucesso!")

	case tea.KeyMsg:
		return f.updateKey(msg)
	}
	return f, nil
}

func (f *TaskForm) updateKey(msg tea.KeyMsg) (Form, tea.Cmd) {
	if f.phase == phaseLoadFailed {
		if key.Matches(msg, formKeys.Back) || key.Matches(msg, formKeys.Enter) {
			return f, canceled
		}
		return f, nil
	}
	if f.phase == phaseLoading || f.phase == phaseSubmitting {
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
		f.focusIdx = (f.focusIdx + 1) % tfFieldCount
		f.updateFocus()
		return f, nil

	case msg.String() == "shift+tab":
		f.focusIdx = (f.focusIdx + tfFieldCount - 1) % tfFieldCount
		f.updateFocus()
		return f, nil

	case key.Matches(msg, formKeys.Enter):
		// The description textarea keeps enter for newlines.
		if f.focusIdx == tfDescricao {
			break
		}
		if f.focusIdx == tfSave {
			return f.submit()
		}
		f.focusIdx++
		f.updateFocus()
		return f, nil

	case key.Matches(msg, formKeys.Left), key.Matches(msg, formKeys.Right):
		if f.focusIdx == tfStatus {
			dir := 1
			if key.Matches(msg, formKeys.Left) {
				dir = -1
			}
			n := len(models.TarefaStatusOptions())
			f.statusIdx = (f.statusIdx + dir + n) % n
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focusIdx {
	case tfNome:
		f.nome, cmd = f.nome.Update(msg)
	case tfDescricao:
		f.descricao, cmd = f.descricao.Update(msg)
	case tfDataInicio:
		f.dataInicio, cmd = f.dataInicio.Update(msg)
	case tfDataFim:
		f.dataFim, cmd = f.dataFim.Update(msg)
	}
	return f, cmd
}

func (f *TaskForm) updateFocus() {
	f.nome.Blur()
	f.descricao.Blur()
	f.dataInicio.Blur()
	f.dataFim.Blur()

	switch f.focusIdx {
	case tfNome:
		f.nome.Focus()
	case tfDescricao:
		f.descricao.Focus()
	case tfDataInicio:
		f.dataInicio.Focus()
	case tfDataFim:
		f.dataFim.Focus()
	}
}

func (f *TaskForm) submit() (Form, tea.Cmd) {
	inicio := format.DataInput(strings.TrimSpace(f.dataInicio.Value()))
	fim := format.DataInput(strings.TrimSpace(f.dataFim.Value()))

	if strings.TrimSpace(f.nome.Value()) == "" ||
		strings.TrimSpace(f.descricao.Value()) == "" ||
		inicio == "" || fim == "" {
		return f, Notify(Warn, "Preencha todos os campos obrigatórios.")
	}

	payload := models.NovaTarefa{
		Nome:        strings.TrimSpace(f.nome.Value()),
		Descricao:   strings.TrimSpace(f.descricao.Value()),
		DataInicio:  inicio,
		DataFimPrev: fim,
		Status:      models.TarefaStatusOptions()[f.statusIdx],
	}

	f.phase = phaseSubmitting
	return f, func() tea.Msg {
		var err error
		if f.editing {
			err = f.api.UpdateTarefa(f.taskID, payload)
		} else {
			err = f.api.CreateTarefa(f.projectID, payload)
		}
		return taskSubmitDoneMsg{err: err}
	}
}

func (f *TaskForm) View(width, height int) string {
	s := formStyles
	contentWidth := styles.ContentWidth(width)

	title := "Adicionar Nova Tarefa"
	if f.editing {
		title = "Editar Tarefa"
	}

	var body string
	switch f.phase {
	case phaseLoading:
		body = s.TitleMuted.Render("Carregando...")
	case phaseLoadFailed:
		body = s.ErrorText.Render(f.loadErr) + "\n\n" +
			s.TitleMuted.Render("Esc: fechar")
	default:
		body = f.renderFields(contentWidth)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		body,
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

func (f *TaskForm) renderFields(contentWidth int) string {
	s := formStyles
	inputWidth := clamp(contentWidth-8, 20, 50)
	f.descricao.SetWidth(inputWidth)

	style := func(idx int) lipgloss.Style {
		if f.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	btnStyle := s.Button
	if f.focusIdx == tfSave {
		btnStyle = s.ButtonFocused
	}
	btnLabel := " Salvar "
	if f.phase == phaseSubmitting {
		btnLabel = " Salvando... "
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"Nome:",
		style(tfNome).Width(inputWidth).Render(f.nome.View()),
		"Descrição:",
		style(tfDescricao).Render(f.descricao.View()),
		"Data de Início:",
		style(tfDataInicio).Width(14).Render(f.dataInicio.View()),
		"Data de Fim Prevista:",
		style(tfDataFim).Width(14).Render(f.dataFim.View()),
		"Status:",
		style(tfStatus).Width(inputWidth).Render("◀ "+models.TarefaStatusOptions()[f.statusIdx]+" ▶"),
		"",
		btnStyle.Render(btnLabel),
		"",
		s.TitleMuted.Render("Tab: próximo • ←→: selecionar • Ctrl+S: salvar • Esc: cancelar"),
	)
}

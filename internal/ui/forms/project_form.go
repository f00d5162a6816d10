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

// Focus order inside the project form.
const (
	pfNome = iota
	pfDescricao
	pfDataInicio
	pfDataFim
	pfStatus
	pfContratante
	pfOrcamento
	pfEquipe
	pfSave
	pfFieldCount
)

// ProjectForm is the add/edit modal for projects. Edit mode opens in
// the loading phase and fetches the target plus both reference lists
// in parallel; each response fills only its own slice of state.
type ProjectForm struct {
	api       *api.Client
	editing   bool
	projectID int64

	phase   phase
	loadErr string

	nome       textinput.Model
	descricao  textinput.Model
	dataInicio textinput.Model
	dataFim    textinput.Model
	orcamento  textinput.Model

	// orcamentoValor is the normalized draft value; the input text is
	// re-derived from it on every keystroke.
	orcamentoValor float64

	statusIdx  int
	clientes   []models.Cliente
	equipes    []models.Equipe
	clienteIdx int
	equipeIdx  int

	// Selections read from the fetched project, reconciled once the
	// reference lists arrive (responses may land in any order).
	pendingCliente string
	pendingEquipe  int64

	focusIdx int
}

func newProjectInputs() (nome, descricao, inicio, fim, orcamento textinput.Model) {
	nome = textinput.New()
	nome.Placeholder = "Nome do projeto"
	nome.CharLimit = 100

	descricao = textinput.New()
	descricao.Placeholder = "Descrição"
	descricao.CharLimit = 200

	inicio = textinput.New()
	inicio.Placeholder = "AAAA-MM-DD"
	inicio.CharLimit = 10

	fim = textinput.New()
	fim.Placeholder = "AAAA-MM-DD"
	fim.CharLimit = 10

	orcamento = textinput.New()
	orcamento.Placeholder = "R$ 0,00"
	orcamento.CharLimit = 22
	return
}

// NewAddProject creates the add variant: empty draft, no loading
// phase, reference lists fetched in the background.
func NewAddProject(client *api.Client) *ProjectForm {
	nome, descricao, inicio, fim, orcamento := newProjectInputs()
	f := &ProjectForm{
		api:        client,
		phase:      phaseReady,
		nome:       nome,
		descricao:  descricao,
		dataInicio: inicio,
		dataFim:    fim,
		orcamento:  orcamento,
		statusIdx:  0,
		clienteIdx: -1,
		equipeIdx:  -1,
	}
	f.nome.Focus()
	return f
}

// NewEditProject creates the edit variant for one project id.
func NewEditProject(client *api.Client, projectID int64) *ProjectForm {
	f := NewAddProject(client)
	f.editing = true
	f.projectID = projectID
	f.phase = phaseLoading
	return f
}

type projectLoadedMsg struct {
	projeto *models.ProjetoDetalhado
	err     error
}

type clientesLoadedMsg struct {
	clientes []models.Cliente
	err      error
}

type equipesLoadedMsg struct {
	equipes []models.Equipe
	err     error
}

type projectSubmitDoneMsg struct {
	err error
}

func (f *ProjectForm) Init() tea.Cmd {
	cmds := []tea.Cmd{f.loadClientes, f.loadEquipes, textinput.Blink}
	if f.editing {
		cmds = append(cmds, f.loadProjeto)
	}
	return tea.Batch(cmds...)
}

func (f *ProjectForm) loadProjeto() tea.Msg {
	p, err := f.api.GetProjeto(f.projectID)
	return projectLoadedMsg{projeto: p, err: err}
}

func (f *ProjectForm) loadClientes() tea.Msg {
	cs, err := f.api.ListClientes()
	return clientesLoadedMsg{clientes: cs, err: err}
}

func (f *ProjectForm) loadEquipes() tea.Msg {
	es, err := f.api.ListEquipes()
	return equipesLoadedMsg{equipes: es, err: err}
}

func (f *ProjectForm) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case projectLoadedMsg:
		if msg.err != nil {
			// Terminal: keep the modal open showing the error rather
			// than closing silently.
			f.phase = phaseLoadFailed
			f.loadErr = "Não foi possível carregar os dados do projeto."
			return f, nil
		}
		p := msg.projeto
		f.nome.SetValue(p.Nome)
		f.descricao.SetValue(p.Descricao)
		f.dataInicio.SetValue(format.DataInput(p.DataInicio))
		f.dataFim.SetValue(format.DataInput(p.DataFimPrev))
		f.orcamentoValor = p.OrcamentoPrev
		f.orcamento.SetValue(format.MoedaInput(p.OrcamentoPrev))
		for i, opt := range models.ProjetoStatusOptions() {
			if opt == p.Status {
				f.statusIdx = i
			}
		}
		f.pendingCliente = p.Contratante.ID
		f.pendingEquipe = p.EquipeResp.ID
		f.syncSelections()
		f.phase = phaseReady
		return f, nil

	case clientesLoadedMsg:
		if msg.err != nil {
			return f, Notify(Error, "Erro ao buscar contratantes.")
		}
		f.clientes = msg.clientes
		f.syncSelections()
		return f, nil

	case equipesLoadedMsg:
		if msg.err != nil {
			return f, Notify(Error, "Erro ao buscar equipes.")
		}
		f.equipes = msg.equipes
		f.syncSelections()
		return f, nil

	case projectSubmitDoneMsg:
		if msg.err != nil {
			// Stay open, draft intact.
			f.phase = phaseReady
			if f.editing {
				return f, Notify(Error, "Erro ao atualizar o projeto.")
			}
			return f, Notify(Error, "Erro ao adicionar o projeto.")
		}
		if f.editing {
			return f, saved("Projeto atualizado com sucesso!")
		}
		return f, saved("Projeto adicionado com sucesso!")

	case tea.KeyMsg:
		return f.updateKey(msg)
	}
	return f, nil
}

func (f *ProjectForm) syncSelections() {
	if f.pendingCliente != "" {
		for i, c := range f.clientes {
			if c.CPFCNPJ == f.pendingCliente {
				f.clienteIdx = i
			}
		}
	}
	if f.pendingEquipe != 0 {
		for i, e := range f.equipes {
			if e.ID == f.pendingEquipe {
				f.equipeIdx = i
			}
		}
	}
}

func (f *ProjectForm) updateKey(msg tea.KeyMsg) (Form, tea.Cmd) {
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
		f.focusIdx = (f.focusIdx + 1) % pfFieldCount
		f.updateFocus()
		return f, nil

	case msg.String() == "shift+tab":
		f.focusIdx = (f.focusIdx + pfFieldCount - 1) % pfFieldCount
		f.updateFocus()
		return f, nil

	case key.Matches(msg, formKeys.Enter):
		if f.focusIdx == pfSave {
			return f.submit()
		}
		f.focusIdx++
		f.updateFocus()
		return f, nil

	case key.Matches(msg, formKeys.Left), key.Matches(msg, formKeys.Right):
		dir := 1
		if key.Matches(msg, formKeys.Left) {
			dir = -1
		}
		switch f.focusIdx {
		case pfStatus:
			n := len(models.ProjetoStatusOptions())
			f.statusIdx = (f.statusIdx + dir + n) % n
			return f, nil
		case pfContratante:
			if n := len(f.clientes); n > 0 {
				f.clienteIdx = (f.clienteIdx + dir + n) % n
			}
			return f, nil
		case pfEquipe:
			if n := len(f.equipes); n > 0 {
				f.equipeIdx = (f.equipeIdx + dir + n) % n
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focusIdx {
	case pfNome:
		f.nome, cmd = f.nome.Update(msg)
	case pfDescricao:
		f.descricao, cmd = f.descricao.Update(msg)
	case pfDataInicio:
		f.dataInicio, cmd = f.dataInicio.Update(msg)
	case pfDataFim:
		f.dataFim, cmd = f.dataFim.Update(msg)
	case pfOrcamento:
		f.orcamento, cmd = f.orcamento.Update(msg)
		// The field stores the normalized value; the display string is
		// re-derived from it after every keystroke.
		if v, ok := format.ParseMoeda(f.orcamento.Value()); ok {
			f.orcamentoValor = v
			f.orcamento.SetValue(format.MoedaInput(v))
		} else {
			f.orcamentoValor = 0
			f.orcamento.SetValue("")
		}
		f.orcamento.CursorEnd()
	}
	return f, cmd
}

func (f *ProjectForm) updateFocus() {
	f.nome.Blur()
	f.descricao.Blur()
	f.dataInicio.Blur()
	f.dataFim.Blur()
	f.orcamento.Blur()

	switch f.focusIdx {
	case pfNome:
		f.nome.Focus()
	case pfDescricao:
		f.descricao.Focus()
	case pfDataInicio:
		f.dataInicio.Focus()
	case pfDataFim:
		f.dataFim.Focus()
	case pfOrcamento:
		f.orcamento.Focus()
	}
}

func (f *ProjectForm) submit() (Form, tea.Cmd) {
	inicio := format.DataInput(strings.TrimSpace(f.dataInicio.Value()))
	fim := format.DataInput(strings.TrimSpace(f.dataFim.Value()))

	if strings.TrimSpace(f.nome.Value()) == "" ||
		strings.TrimSpace(f.descricao.Value()) == "" ||
		inicio == "" || fim == "" ||
		f.clienteIdx < 0 || f.equipeIdx < 0 ||
		f.orcamentoValor <= 0 {
		return f, Notify(Warn, "Preencha todos os campos obrigatórios.")
	}

	payload := models.NovoProjeto{
		Nome:          strings.TrimSpace(f.nome.Value()),
		Descricao:     strings.TrimSpace(f.descricao.Value()),
		DataInicio:    inicio,
		DataFimPrev:   fim,
		Status:        models.ProjetoStatusOptions()[f.statusIdx],
		OrcamentoPrev: f.orcamentoValor,
		Contratante:   f.clientes[f.clienteIdx].CPFCNPJ,
		EquipeResp:    f.equipes[f.equipeIdx].ID,
	}

	f.phase = phaseSubmitting
	return f, func() tea.Msg {
		var err error
		if f.editing {
			err = f.api.UpdateProjeto(f.projectID, payload)
		} else {
			err = f.api.CreateProjeto(payload)
		}
		return projectSubmitDoneMsg{err: err}
	}
}

func (f *ProjectForm) View(width, height int) string {
	s := formStyles
	contentWidth := styles.ContentWidth(width)

	title := "Adicionar Novo Projeto"
	if f.editing {
		title = "Editar Projeto"
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

func (f *ProjectForm) renderFields(contentWidth int) string {
	s := formStyles
	inputWidth := clamp(contentWidth-8, 20, 50)

	style := func(idx int) lipgloss.Style {
		if f.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	clienteLabel := "—"
	if f.clienteIdx >= 0 && f.clienteIdx < len(f.clientes) {
		clienteLabel = f.clientes[f.clienteIdx].Nome
	}
	equipeLabel := "—"
	if f.equipeIdx >= 0 && f.equipeIdx < len(f.equipes) {
		equipeLabel = f.equipes[f.equipeIdx].Nome
	}

	btnStyle := s.Button
	if f.focusIdx == pfSave {
		btnStyle = s.ButtonFocused
	}
	btnLabel := " Salvar "
	if f.phase == phaseSubmitting {
		btnLabel = " Salvando... "
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"Nome:",
		style(pfNome).Width(inputWidth).Render(f.nome.View()),
		"Descrição:",
		style(pfDescricao).Width(inputWidth).Render(f.descricao.View()),
		"Data de Início:",
		style(pfDataInicio).Width(14).Render(f.dataInicio.View()),
		"Data de Fim Previsto:",
		style(pfDataFim).Width(14).Render(f.dataFim.View()),
		"Status:",
		style(pfStatus).Width(inputWidth).Render("◀ "+models.ProjetoStatusOptions()[f.statusIdx]+" ▶"),
		"Contratante:",
		style(pfContratante).Width(inputWidth).Render("◀ "+clienteLabel+" ▶"),
		"Orçamento Previsto:",
		style(pfOrcamento).Width(inputWidth).Render(f.orcamento.View()),
		"Equipe Responsável:",
		style(pfEquipe).Width(inputWidth).Render("◀ "+equipeLabel+" ▶"),
		"",
		btnStyle.Render(btnLabel),
		"",
		s.TitleMuted.Render("Tab: próximo • ←→: selecionar • Ctrl+S: salvar • Esc: cancelar"),
	)
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

package views

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obra/internal/api"
	"obra/internal/format"
	"obra/internal/models"
	"obra/internal/ui/forms"
	"obra/internal/ui/keys"
	"obra/internal/ui/styles"
)

// Sections inside the detail screen.
const (
	secTarefas = iota
	secDocumentos
)

// Which collection an open modal mutates, so a save re-fetches only
// that collection.
const (
	scopeTarefas    = "tarefas"
	scopeDocumentos = "documentos"
)

// ProjectDetailView shows one project's aggregate plus its tasks and
// documents. The three reads are independent: a failed project fetch
// blocks only the header, a failed document fetch degrades to an
// empty list, and tasks report their own error inline.
type ProjectDetailView struct {
	api       *api.Client
	projectID int64
	nome      string

	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	projeto     *models.ProjetoDetalhado
	projetoErr  string
	tarefas     []models.Tarefa
	tarefasErr  string
	tarefasOK   bool
	documentos  []models.Documento
	documentsOK bool

	section     int
	taskIdx     int
	docIdx      int
	viewingTask *models.Tarefa

	modal      forms.Form
	modalScope string
}

func NewProjectDetailView(client *api.Client, projectID int64, nome string) *ProjectDetailView {
	return &ProjectDetailView{
		api:       client,
		projectID: projectID,
		nome:      nome,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
	}
}

func (v *ProjectDetailView) Init() tea.Cmd {
	return tea.Batch(v.loadProjeto, v.loadTarefas, v.loadDocumentos)
}

type projetoLoadedMsg struct {
	projeto *models.ProjetoDetalhado
	err     error
}

type tarefasLoadedMsg struct {
	tarefas []models.Tarefa
	err     error
}

type documentosLoadedMsg struct {
	documentos []models.Documento
	err        error
}

type documentoBaixadoMsg struct {
	filename string
	err      error
}

func (v *ProjectDetailView) loadProjeto() tea.Msg {
	p, err := v.api.GetProjeto(v.projectID)
	return projetoLoadedMsg{projeto: p, err: err}
}

func (v *ProjectDetailView) loadTarefas() tea.Msg {
	ts, err := v.api.ListTarefas(v.projectID)
	return tarefasLoadedMsg{tarefas: ts, err: err}
}

func (v *ProjectDetailView) loadDocumentos() tea.Msg {
	ds, err := v.api.ListDocumentos(v.projectID)
	return documentosLoadedMsg{documentos: ds, err: err}
}

func (v *ProjectDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case projetoLoadedMsg:
		if msg.err != nil {
			v.projetoErr = "Não foi possível carregar os dados do projeto."
			return v, nil
		}
		v.projetoErr = ""
		v.projeto = msg.projeto
		return v, nil

	case tarefasLoadedMsg:
		v.tarefasOK = true
		if msg.err != nil {
			v.tarefasErr = "Erro ao buscar as tarefas."
			return v, nil
		}
		v.tarefasErr = ""
		v.tarefas = msg.tarefas
		if v.taskIdx >= len(v.tarefas) {
			v.taskIdx = max(len(v.tarefas)-1, 0)
		}
		return v, nil

	case documentosLoadedMsg:
		// Documents degrade silently: a failed fetch leaves the section
		// empty rather than blocking the screen.
		v.documentsOK = true
		if msg.err != nil {
			v.documentos = nil
			return v, nil
		}
		v.documentos = msg.documentos
		if v.docIdx >= len(v.documentos) {
			v.docIdx = max(len(v.documentos)-1, 0)
		}
		return v, nil

	case documentoBaixadoMsg:
		if msg.err != nil {
			return v, forms.Notify(forms.Error, "Erro ao baixar o documento.")
		}
		return v, forms.Notify(forms.Success, "Documento baixado: "+msg.filename)

	case forms.SavedMsg:
		scope := v.modalScope
		v.modal = nil
		v.modalScope = ""
		refetch := v.loadTarefas
		if scope == scopeDocumentos {
			refetch = v.loadDocumentos
		}
		return v, tea.Batch(refetch, forms.Notify(forms.Success, msg.Notice))

	case forms.CanceledMsg:
		v.modal = nil
		v.modalScope = ""
		return v, nil
	}

	if v.modal != nil {
		var cmd tea.Cmd
		v.modal, cmd = v.modal.Update(msg)
		return v, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return v.updateKey(msg)
	}
	return v, nil
}

func (v *ProjectDetailView) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The task overlay is read-only; any close key drops back to the list.
	if v.viewingTask != nil {
		if key.Matches(msg, v.keys.Back) || key.Matches(msg, v.keys.Enter) ||
			msg.String() == "q" {
			v.viewingTask = nil
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, v.keys.Tab):
		v.section = (v.section + 1) % 2
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.section == secTarefas && v.taskIdx > 0 {
			v.taskIdx--
		} else if v.section == secDocumentos && v.docIdx > 0 {
			v.docIdx--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.section == secTarefas && v.taskIdx < len(v.tarefas)-1 {
			v.taskIdx++
		} else if v.section == secDocumentos && v.docIdx < len(v.documentos)-1 {
			v.docIdx++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.section == secTarefas {
			if t, ok := v.selectedTarefa(); ok {
				copied := t
				v.viewingTask = &copied
			}
			return v, nil
		}
		if d, ok := v.selectedDocumento(); ok {
			return v, v.downloadDocumento(d.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		if v.section == secTarefas {
			v.modal = forms.NewAddTask(v.api, v.projectID)
			v.modalScope = scopeTarefas
			return v, v.modal.Init()
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if v.section == secTarefas {
			if t, ok := v.selectedTarefa(); ok {
				v.modal = forms.NewEditTask(v.api, t.ID)
				v.modalScope = scopeTarefas
				return v, v.modal.Init()
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if v.section == secTarefas {
			if t, ok := v.selectedTarefa(); ok {
				id := t.ID
				v.modal = forms.NewConfirmDelete(
					t.Nome,
					"Tarefa excluída com sucesso!",
					"Erro ao excluir a tarefa.",
					func() error { return v.api.DeleteTarefa(id) },
				)
				v.modalScope = scopeTarefas
				return v, v.modal.Init()
			}
			return v, nil
		}
		if d, ok := v.selectedDocumento(); ok {
			id := d.ID
			v.modal = forms.NewConfirmDelete(
				d.NomeArquivo,
				"Documento excluído com sucesso!",
				"Erro ao excluir o documento.",
				func() error { return v.api.DeleteDocumento(v.projectID, id) },
			)
			v.modalScope = scopeDocumentos
			return v, v.modal.Init()
		}
		return v, nil

	case key.Matches(msg, v.keys.Upload):
		v.modal = forms.NewUpload(func(filename string, r io.Reader) error {
			return v.api.UploadDocumento(v.projectID, filename, r)
		})
		v.modalScope = scopeDocumentos
		return v, v.modal.Init()

	case msg.String() == "r":
		if v.projetoErr != "" || v.tarefasErr != "" {
			return v, tea.Batch(v.loadProjeto, v.loadTarefas, v.loadDocumentos)
		}
	}
	return v, nil
}

func (v *ProjectDetailView) selectedTarefa() (models.Tarefa, bool) {
	if v.taskIdx >= 0 && v.taskIdx < len(v.tarefas) {
		return v.tarefas[v.taskIdx], true
	}
	return models.Tarefa{}, false
}

func (v *ProjectDetailView) selectedDocumento() (models.Documento, bool) {
	if v.docIdx >= 0 && v.docIdx < len(v.documentos) {
		return v.documentos[v.docIdx], true
	}
	return models.Documento{}, false
}

func (v *ProjectDetailView) downloadDocumento(docID int64) tea.Cmd {
	return func() tea.Msg {
		data, filename, err := v.api.DownloadDocumento(v.projectID, docID)
		if err != nil {
			return documentoBaixadoMsg{err: err}
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return documentoBaixadoMsg{err: err}
		}
		return documentoBaixadoMsg{filename: filename}
	}
}

func (v *ProjectDetailView) View() string {
	if v.modal != nil {
		return v.modal.View(v.width, v.height)
	}
	if v.viewingTask != nil {
		return v.renderTaskOverlay()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		"",
		v.renderTarefas(),
		"",
		v.renderDocumentos(),
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectDetailView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if v.projetoErr != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render(v.nome),
			s.ErrorText.Render(v.projetoErr),
			s.TitleMuted.Render("Pressione 'r' para tentar novamente"),
		)
	}
	if v.projeto == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render(v.nome),
			s.TitleMuted.Render("Carregando..."),
		)
	}

	p := v.projeto
	badge := s.Badge.Background(styles.StatusColor(p.Status)).Render(p.Status)

	info := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(p.Nome)+" "+badge,
		s.TitleMuted.Render(p.Descricao),
		"",
		"Início: "+format.Data(p.DataInicio)+"   Fim previsto: "+format.Data(p.DataFimPrev),
		"Orçamento previsto: "+format.Moeda(p.OrcamentoPrev),
		"Contratante: "+p.Contratante.Nome+" • "+format.Telefone(p.Contratante.Telefone),
		"Equipe: "+p.EquipeResp.Nome+" • Supervisor: "+p.EquipeResp.SupervisorNome,
	)
	return s.Card.Width(contentWidth - 2).Render(info)
}

func (v *ProjectDetailView) renderTarefas() string {
	s := v.styles

	title := "Tarefas"
	if v.section == secTarefas {
		title = s.Title.Render(title)
	} else {
		title = s.TitleMuted.Render(title)
	}

	if !v.tarefasOK {
		return title + "\n" + s.TitleMuted.Render("  Carregando...")
	}
	if v.tarefasErr != "" {
		return title + "\n" + s.ErrorText.Render("  "+v.tarefasErr)
	}
	if len(v.tarefas) == 0 {
		return title + "\n" + s.TitleMuted.Render("  Nenhuma tarefa cadastrada")
	}

	lines := []string{title}
	for i, t := range v.tarefas {
		badge := s.Badge.Background(styles.StatusColor(t.Status)).Render(t.Status)
		line := t.Nome + " " + badge + "  " +
			format.Data(t.DataInicio) + " → " + format.Data(t.DataFimPrev)
		if v.section == secTarefas && i == v.taskIdx {
			lines = append(lines, s.ListSelected.Render(line))
		} else {
			lines = append(lines, s.ListItem.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *ProjectDetailView) renderDocumentos() string {
	s := v.styles

	title := "Documentos"
	if v.section == secDocumentos {
		title = s.Title.Render(title)
	} else {
		title = s.TitleMuted.Render(title)
	}

	if !v.documentsOK {
		return title + "\n" + s.TitleMuted.Render("  Carregando...")
	}
	if len(v.documentos) == 0 {
		return title + "\n" + s.TitleMuted.Render("  Nenhum documento enviado")
	}

	lines := []string{title}
	for i, d := range v.documentos {
		line := d.NomeArquivo
		if d.TipoArquivo != "" {
			line += "  " + s.TitleMuted.Render("("+d.TipoArquivo+")")
		}
		if v.section == secDocumentos && i == v.docIdx {
			lines = append(lines, s.ListSelected.Render(line))
		} else {
			lines = append(lines, s.ListItem.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *ProjectDetailView) renderTaskOverlay() string {
	s := v.styles
	t := v.viewingTask
	contentWidth := styles.ContentWidth(v.width)

	badge := s.Badge.Background(styles.StatusColor(t.Status)).Render(t.Status)
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(t.Nome)+" "+badge,
		"",
		t.Descricao,
		"",
		"Início: "+format.Data(t.DataInicio),
		"Fim previsto: "+format.Data(t.DataFimPrev),
		"",
		s.TitleMuted.Render("Esc: fechar"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Overlay.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectDetailView) renderHelp() string {
	if v.section == secDocumentos {
		return v.styles.Help.Render(
			fmt.Sprintf("%s baixar • %s enviar • %s excluir • %s seção • %s voltar",
				v.styles.HelpKey.Render("↵"),
				v.styles.HelpKey.Render("u"),
				v.styles.HelpKey.Render("d"),
				v.styles.HelpKey.Render("tab"),
				v.styles.HelpKey.Render("esc"),
			),
		)
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s visualizar • %s nova • %s editar • %s excluir • %s seção • %s voltar",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("tab"),
			v.styles.HelpKey.Render("esc"),
		),
	)
}

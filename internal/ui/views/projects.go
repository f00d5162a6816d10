package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obra/internal/api"
	"obra/internal/format"
	"obra/internal/models"
	"obra/internal/ui/forms"
	"obra/internal/ui/keys"
	"obra/internal/ui/styles"
)

// BackMsg asks the shell to return to the previous screen.
type BackMsg struct{}

// OpenProjectMsg asks the shell to open one project's detail screen.
type OpenProjectMsg struct {
	ID   int64
	Nome string
}

// OpenClientsMsg asks the shell to open the client management screen.
type OpenClientsMsg struct{}

type projectItem struct {
	project models.Projeto
}

func (i projectItem) Title() string       { return i.project.Nome }
func (i projectItem) Description() string { return i.project.Descricao }
func (i projectItem) FilterValue() string { return i.project.Nome }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 4 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(projectItem)
	if !ok {
		return
	}
	p := it.project

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var lineStyle, dimStyle lipgloss.Style
	if selected {
		lineStyle = d.styles.ListSelected.Width(width)
		dimStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		lineStyle = d.styles.ListItem.Width(width)
		dimStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	badge := d.styles.Badge.Background(styles.StatusColor(p.Status)).Render(p.Status)
	title := lineStyle.Render(p.Nome + " " + badge)
	desc := dimStyle.Render(p.Descricao)
	dates := dimStyle.Render(format.Data(p.DataInicio) + " → " + format.Data(p.DataFimPrev) +
		"  •  " + format.Moeda(p.OrcamentoPrev))
	who := dimStyle.Render(p.ClienteNome + "  •  " + p.EquipeNome)

	fmt.Fprintf(w, "%s\n%s\n%s\n%s", title, desc, dates, who)
}

// ProjectListView is the home screen: every project, newest ordering
// left to the server. Add, edit and delete run through modals; the
// list is re-fetched after every confirmed mutation.
type ProjectListView struct {
	api      *api.Client
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	loadErr  string

	modal forms.Form
}

func NewProjectListView(client *api.Client) *ProjectListView {
	s := styles.NewStyles()

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projetos"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		api:      client,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjetos
}

type projetosLoadedMsg struct {
	projects []models.Projeto
	err      error
}

func (v *ProjectListView) loadProjetos() tea.Msg {
	ps, err := v.api.ListProjetos()
	return projetosLoadedMsg{projects: ps, err: err}
}

func (v *ProjectListView) selected() (models.Projeto, bool) {
	if item, ok := v.list.SelectedItem().(projectItem); ok {
		return item.project, true
	}
	return models.Projeto{}, false
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case projetosLoadedMsg:
		if msg.err != nil {
			v.loaded = true
			v.loadErr = "Erro ao buscar projetos."
			return v, nil
		}
		v.loadErr = ""
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		v.list.SetItems(items)
		v.loaded = true
		return v, nil

	case forms.SavedMsg:
		// Refresh first, then surface the modal's notice.
		v.modal = nil
		return v, tea.Batch(v.loadProjetos, forms.Notify(forms.Success, msg.Notice))

	case forms.CanceledMsg:
		v.modal = nil
		return v, nil
	}

	if v.modal != nil {
		var cmd tea.Cmd
		v.modal, cmd = v.modal.Update(msg)
		return v, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, v.keys.Quit):
			if v.list.FilterState() == list.Filtering {
				break
			}
			return v, tea.Quit

		case key.Matches(msg, v.keys.Enter):
			if v.list.FilterState() == list.Filtering {
				break
			}
			if p, ok := v.selected(); ok {
				return v, func() tea.Msg {
					return OpenProjectMsg{ID: p.ID, Nome: p.Nome}
				}
			}

		case key.Matches(msg, v.keys.New):
			if v.list.FilterState() == list.Filtering {
				break
			}
			v.modal = forms.NewAddProject(v.api)
			return v, v.modal.Init()

		case key.Matches(msg, v.keys.Edit):
			if v.list.FilterState() == list.Filtering {
				break
			}
			if p, ok := v.selected(); ok {
				v.modal = forms.NewEditProject(v.api, p.ID)
				return v, v.modal.Init()
			}

		case key.Matches(msg, v.keys.Delete):
			if v.list.FilterState() == list.Filtering {
				break
			}
			if p, ok := v.selected(); ok {
				id := p.ID
				v.modal = forms.NewConfirmDelete(
					p.Nome,
					"Projeto excluído com sucesso!",
					"Erro ao excluir o projeto.",
					func() error { return v.api.DeleteProjeto(id) },
				)
				return v, v.modal.Init()
			}

		case msg.String() == "c":
			if v.list.FilterState() == list.Filtering {
				break
			}
			return v, func() tea.Msg { return OpenClientsMsg{} }

		case msg.String() == "r":
			if v.loadErr != "" {
				return v, v.loadProjetos
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) View() string {
	if v.modal != nil {
		return v.modal.View(v.width, v.height)
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Carregando...")
	}

	if v.loadErr != "" {
		return v.renderLoadError()
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderLoadError() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.ErrorText.Render(v.loadErr),
		"",
		s.TitleMuted.Render("Pressione 'r' para tentar novamente"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Nenhum projeto"),
		"",
		s.TitleMuted.Render("Pressione 'n' para criar o primeiro projeto"),
		"",
		s.ButtonPrimary.Render(" Novo Projeto "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s abrir • %s novo • %s editar • %s excluir • %s contratantes • %s sair",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

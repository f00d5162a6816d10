package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"obra/internal/api"
	"obra/internal/format"
	"obra/internal/models"
	"obra/internal/ui/forms"
	"obra/internal/ui/keys"
	"obra/internal/ui/styles"
)

// ClientListView manages the contracting clients. Search filters the
// fetched list locally over name, email and phone; the server is only
// hit on load and after mutations.
type ClientListView struct {
	api    *api.Client
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	clientes []models.Cliente
	filtered []int
	cursor   int
	loaded   bool
	loadErr  string

	search    textinput.Model
	searching bool

	modal forms.Form
}

func NewClientListView(client *api.Client) *ClientListView {
	search := textinput.New()
	search.Placeholder = "Buscar por nome, email ou telefone..."
	search.CharLimit = 100

	return &ClientListView{
		api:    client,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		search: search,
	}
}

func (v *ClientListView) Init() tea.Cmd {
	return v.loadClientes
}

type clientListLoadedMsg struct {
	clientes []models.Cliente
	err      error
}

func (v *ClientListView) loadClientes() tea.Msg {
	cs, err := v.api.ListClientes()
	return clientListLoadedMsg{clientes: cs, err: err}
}

// applyFilter rebuilds the visible index list from the search text.
// The phone match runs on bare digits so "(11) 9" and "119" find the
// same records.
func (v *ClientListView) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(v.search.Value()))
	v.filtered = v.filtered[:0]
	for i, c := range v.clientes {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Nome), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(format.Digits(c.Telefone), format.Digits(q)) && format.Digits(q) != "" {
			v.filtered = append(v.filtered, i)
		}
	}
	if v.cursor >= len(v.filtered) {
		v.cursor = max(len(v.filtered)-1, 0)
	}
}

func (v *ClientListView) selected() (models.Cliente, bool) {
	if v.cursor >= 0 && v.cursor < len(v.filtered) {
		return v.clientes[v.filtered[v.cursor]], true
	}
	return models.Cliente{}, false
}

func (v *ClientListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case clientListLoadedMsg:
		v.loaded = true
		if msg.err != nil {
			v.loadErr = "Erro ao buscar contratantes."
			return v, nil
		}
		v.loadErr = ""
		v.clientes = msg.clientes
		v.applyFilter()
		return v, nil

	case forms.SavedMsg:
		v.modal = nil
		return v, tea.Batch(v.loadClientes, forms.Notify(forms.Success, msg.Notice))

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
		if v.searching {
			return v.updateSearching(msg)
		}
		return v.updateKey(msg)
	}
	return v, nil
}

func (v *ClientListView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searching = false
		v.search.Blur()
		v.search.Reset()
		v.applyFilter()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.search.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.applyFilter()
	return v, cmd
}

func (v *ClientListView) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.search.Value() != "" {
			v.search.Reset()
			v.applyFilter()
			return v, nil
		}
		return v, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		return v, tea.Batch(v.search.Focus(), textinput.Blink)

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.filtered)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.modal = forms.NewAddClient(v.api)
		return v, v.modal.Init()

	case key.Matches(msg, v.keys.Edit):
		if c, ok := v.selected(); ok {
			v.modal = forms.NewEditClient(v.api, c)
			return v, v.modal.Init()
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if c, ok := v.selected(); ok {
			taxID := format.Digits(c.CPFCNPJ)
			v.modal = forms.NewConfirmDelete(
				c.Nome,
				"Contratante excluído com sucesso!",
				"Erro ao excluir contratante.",
				func() error { return v.api.DeleteCliente(taxID) },
			)
			return v, v.modal.Init()
		}
		return v, nil

	case msg.String() == "r":
		if v.loadErr != "" {
			return v, v.loadClientes
		}
	}
	return v, nil
}

func (v *ClientListView) View() string {
	if v.modal != nil {
		return v.modal.View(v.width, v.height)
	}

	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Carregando...")
	}

	if v.loadErr != "" {
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

	header := s.Title.Render("Contratantes")
	if v.searching || v.search.Value() != "" {
		header += "\n" + s.InputFocused.Width(clamp(styles.ContentWidth(v.width)-8, 20, 50)).Render(v.search.View())
	}

	var body string
	if len(v.filtered) == 0 {
		if v.search.Value() != "" {
			body = s.TitleMuted.Render("Nenhum contratante encontrado")
		} else {
			body = s.TitleMuted.Render("Pressione 'n' para cadastrar o primeiro contratante")
		}
	} else {
		lines := make([]string, 0, len(v.filtered))
		for pos, idx := range v.filtered {
			c := v.clientes[idx]
			line := fmt.Sprintf("%s  %s  %s  %s",
				c.Nome,
				format.CPFCNPJ(c.CPFCNPJ),
				format.Telefone(c.Telefone),
				c.Email,
			)
			if pos == v.cursor {
				lines = append(lines, s.ListSelected.Render(line))
			} else {
				lines = append(lines, s.ListItem.Render(line))
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
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

func (v *ClientListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s buscar • %s novo • %s editar • %s excluir • %s voltar",
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("esc"),
		),
	)
}

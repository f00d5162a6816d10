// Package ui wires the screens together: a project list, one project
// detail and a client manager, each owning its own modals. The shell
// routes messages to the active screen and renders transient notices.
package ui

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"obra/internal/api"
	"obra/internal/state"
	"obra/internal/ui/forms"
	"obra/internal/ui/styles"
	"obra/internal/ui/views"
)

const (
	viewProjects = iota
	viewDetail
	viewClients
)

const noticeTTL = 4 * time.Second

// App is the root model.
type App struct {
	api   *api.Client
	store *state.Store
	log   zerolog.Logger

	styles *styles.Styles
	width  int
	height int

	view     int
	projects *views.ProjectListView
	detail   *views.ProjectDetailView
	clients  *views.ClientListView

	notice      string
	noticeLevel forms.Level
	// noticeGen invalidates pending expiry ticks when a newer notice
	// replaces an older one.
	noticeGen int
}

// NewApp builds the root model. store may be nil when the local state
// database could not be opened; the last-project restore is skipped.
func NewApp(client *api.Client, store *state.Store, log zerolog.Logger) *App {
	return &App{
		api:      client,
		store:    store,
		log:      log,
		styles:   styles.NewStyles(),
		view:     viewProjects,
		projects: views.NewProjectListView(client),
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.projects.Init()}
	if id := a.lastProjectID(); id > 0 {
		cmds = append(cmds, func() tea.Msg {
			return views.OpenProjectMsg{ID: id}
		})
	}
	return tea.Batch(cmds...)
}

func (a *App) lastProjectID() int64 {
	if a.store == nil {
		return 0
	}
	raw, err := a.store.Get(state.KeyLastProject)
	if err != nil || raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (a *App) rememberProject(id int64) {
	if a.store == nil {
		return
	}
	var value string
	if id > 0 {
		value = strconv.FormatInt(id, 10)
	}
	if err := a.store.Set(state.KeyLastProject, value); err != nil {
		a.log.Warn().Err(err).Msg("persist last project")
	}
}

type noticeExpiredMsg struct {
	gen int
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.projects.Update(msg)
		if a.detail != nil {
			a.detail.Update(msg)
		}
		if a.clients != nil {
			a.clients.Update(msg)
		}
		return a, nil

	case forms.NoticeMsg:
		a.notice = msg.Text
		a.noticeLevel = msg.Level
		a.noticeGen++
		gen := a.noticeGen
		return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg {
			return noticeExpiredMsg{gen: gen}
		})

	case noticeExpiredMsg:
		if msg.gen == a.noticeGen {
			a.notice = ""
		}
		return a, nil

	case views.OpenProjectMsg:
		a.detail = views.NewProjectDetailView(a.api, msg.ID, msg.Nome)
		a.view = viewDetail
		a.rememberProject(msg.ID)
		a.detail.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.detail.Init()

	case views.OpenClientsMsg:
		a.clients = views.NewClientListView(a.api)
		a.view = viewClients
		a.clients.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.clients.Init()

	case views.BackMsg:
		if a.view == viewDetail {
			a.detail = nil
			a.rememberProject(0)
		} else {
			a.clients = nil
		}
		a.view = viewProjects
		// The list may be stale after mutations on the child screen.
		return a, a.projects.Init()
	}

	var cmd tea.Cmd
	switch a.view {
	case viewDetail:
		if a.detail != nil {
			_, cmd = a.detail.Update(msg)
		}
	case viewClients:
		if a.clients != nil {
			_, cmd = a.clients.Update(msg)
		}
	default:
		_, cmd = a.projects.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	var content string
	switch a.view {
	case viewDetail:
		if a.detail != nil {
			content = a.detail.View()
		}
	case viewClients:
		if a.clients != nil {
			content = a.clients.View()
		}
	default:
		content = a.projects.View()
	}

	if a.notice != "" {
		content += "\n" + a.noticeBar()
	}
	return content
}

func (a *App) noticeBar() string {
	s := a.styles
	switch a.noticeLevel {
	case forms.Success:
		return s.NoticeSuccess.Render(a.notice)
	case forms.Warn:
		return s.NoticeWarn.Render(a.notice)
	case forms.Error:
		return s.NoticeError.Render(a.notice)
	default:
		return s.NoticeInfo.Render(a.notice)
	}
}

package views

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"obra/internal/api"
	"obra/internal/models"
	"obra/internal/ui/forms"
)

func newPathCounter(t *testing.T) (*api.Client, func(path string) int) {
	t.Helper()
	var mu sync.Mutex
	counts := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		counts[r.Method+" "+r.URL.Path]++
		mu.Unlock()
		w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, zerolog.Nop())
	return client, func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return counts[path]
	}
}

// drain runs a command tree synchronously and returns every message it
// produces, expanding batches.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestDetailSavedTaskRefetchesOnlyTasks(t *testing.T) {
	client, count := newPathCounter(t)

	v := NewProjectDetailView(client, 7, "Reforma")
	v.modal = forms.NewAddTask(client, 7)
	v.modalScope = scopeTarefas

	_, cmd := v.Update(forms.SavedMsg{Notice: "Tarefa adicionada com sucesso!"})
	if v.modal != nil {
		t.Error("modal should be closed after save")
	}

	msgs := drain(t, cmd)
	var sawTasks, sawNotice bool
	for _, m := range msgs {
		switch m := m.(type) {
		case tarefasLoadedMsg:
			sawTasks = true
		case forms.NoticeMsg:
			sawNotice = true
			if m.Level != forms.Success {
				t.Errorf("notice level = %d", m.Level)
			}
		}
	}
	if !sawTasks || !sawNotice {
		t.Fatalf("expected task refetch and notice, got %#v", msgs)
	}

	if n := count("GET /projetos/7/tarefas"); n != 1 {
		t.Errorf("task refetches = %d, want 1", n)
	}
	if n := count("GET /projetos/7/documentos"); n != 0 {
		t.Errorf("document refetches = %d, want 0", n)
	}
}

func TestDetailSavedDocumentRefetchesOnlyDocuments(t *testing.T) {
	client, count := newPathCounter(t)

	v := NewProjectDetailView(client, 7, "Reforma")
	v.modalScope = scopeDocumentos

	_, cmd := v.Update(forms.SavedMsg{Notice: "Documento enviado com sucesso!"})
	drain(t, cmd)

	if n := count("GET /projetos/7/documentos"); n != 1 {
		t.Errorf("document refetches = %d, want 1", n)
	}
	if n := count("GET /projetos/7/tarefas"); n != 0 {
		t.Errorf("task refetches = %d, want 0", n)
	}
}

func TestDetailDocumentFetchFailureDegradesToEmpty(t *testing.T) {
	v := NewProjectDetailView(nil, 7, "Reforma")
	v.documentos = []models.Documento{{ID: 1, NomeArquivo: "planta.pdf"}}

	v.Update(documentosLoadedMsg{err: http.ErrHandlerTimeout})
	if len(v.documentos) != 0 {
		t.Errorf("documentos = %v, want empty", v.documentos)
	}
	if !v.documentsOK {
		t.Error("section should render as loaded")
	}
}

func TestProjectListSavedRefetches(t *testing.T) {
	client, count := newPathCounter(t)

	v := NewProjectListView(client)
	v.modal = forms.NewAddProject(client)

	_, cmd := v.Update(forms.SavedMsg{Notice: "Projeto adicionado com sucesso!"})
	if v.modal != nil {
		t.Error("modal should be closed after save")
	}
	drain(t, cmd)

	if n := count("GET /projetos"); n != 1 {
		t.Errorf("list refetches = %d, want 1", n)
	}
}

func TestProjectListCancelDoesNotRefetch(t *testing.T) {
	client, count := newPathCounter(t)

	v := NewProjectListView(client)
	v.modal = forms.NewAddProject(client)

	_, cmd := v.Update(forms.CanceledMsg{})
	if v.modal != nil {
		t.Error("modal should be closed after cancel")
	}
	drain(t, cmd)

	if n := count("GET /projetos"); n != 0 {
		t.Errorf("list refetches = %d, want 0", n)
	}
}

// typeInto sends one key message per rune through the view, which
// forwards them to the open modal.
func typeInto(v *ProjectDetailView, s string) {
	for _, r := range s {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestAddTaskEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var posted *models.NovaTarefa
	taskGets := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method + " " + r.URL.Path {
		case "POST /projetos/7/tarefas":
			var body models.NovaTarefa
			json.NewDecoder(r.Body).Decode(&body)
			posted = &body
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
		case "GET /projetos/7/tarefas":
			taskGets++
			w.Write([]byte(`[{"ID_Tarefa":1,"Nome":"Survey","Descricao":"Site survey","Data_Inicio":"2025-01-01","Data_Fim_Prev":"2025-01-10","Status":"Pendente"}]`))
		default:
			w.Write([]byte("[]"))
		}
	}))
	defer srv.Close()
	client := api.New(srv.URL, zerolog.Nop())

	v := NewProjectDetailView(client, 7, "Reforma")

	// Open the add-task modal and fill it field by field.
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if v.modal == nil {
		t.Fatal("expected an open modal")
	}
	typeInto(v, "Survey")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(v, "Site survey")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(v, "2025-01-01")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(v, "2025-01-10")

	// Pump the command/message loop until it goes quiet, the way the
	// runtime would.
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, m := range drain(t, c) {
			if _, next := v.Update(m); next != nil {
				queue = append(queue, next)
			}
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if posted == nil {
		t.Fatal("no task was posted")
	}
	want := models.NovaTarefa{
		Nome:        "Survey",
		Descricao:   "Site survey",
		DataInicio:  "2025-01-01",
		DataFimPrev: "2025-01-10",
		Status:      models.StatusPendente,
	}
	if *posted != want {
		t.Errorf("posted = %#v, want %#v", *posted, want)
	}
	if taskGets != 1 {
		t.Errorf("task refetches = %d, want 1", taskGets)
	}
	if v.modal != nil {
		t.Error("modal should be closed after the refresh")
	}
	if len(v.tarefas) != 1 || v.tarefas[0].Nome != "Survey" {
		t.Errorf("tarefas = %#v", v.tarefas)
	}
}

func TestClientFilterMatchesNameEmailAndPhone(t *testing.T) {
	v := NewClientListView(nil)
	v.clientes = []models.Cliente{
		{CPFCNPJ: "111", Nome: "Ana Souza", Email: "ana@exemplo.com", Telefone: "11987654321"},
		{CPFCNPJ: "222", Nome: "Bruno Lima", Email: "bruno@outro.com", Telefone: "2133334444"},
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"ana", 1},
		{"SOUZA", 1},
		{"outro.com", 1},
		{"(11) 9", 1},
		{"2133", 1},
		{"ninguem", 0},
	}
	for _, tc := range cases {
		v.search.SetValue(tc.query)
		v.applyFilter()
		if len(v.filtered) != tc.want {
			t.Errorf("query %q matched %d, want %d", tc.query, len(v.filtered), tc.want)
		}
	}
}

func TestClientFilterCursorClamped(t *testing.T) {
	v := NewClientListView(nil)
	v.clientes = []models.Cliente{
		{CPFCNPJ: "111", Nome: "Ana"},
		{CPFCNPJ: "222", Nome: "Bruno"},
	}
	v.applyFilter()
	v.cursor = 1

	v.search.SetValue("ana")
	v.applyFilter()
	if v.cursor != 0 {
		t.Errorf("cursor = %d, want 0", v.cursor)
	}
}

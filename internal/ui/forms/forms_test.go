package forms

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"obra/internal/api"
	"obra/internal/models"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes a command synchronously and returns the message it
// produces.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

type countingServer struct {
	mu    sync.Mutex
	calls []string
	srv   *httptest.Server
}

func newCountingServer(t *testing.T, status int) *countingServer {
	t.Helper()
	cs := &countingServer{}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.calls = append(cs.calls, r.Method+" "+r.URL.Path)
		cs.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte("{}"))
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *countingServer) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.calls)
}

func readyProjectForm(client *api.Client) *ProjectForm {
	f := NewAddProject(client)
	f.clientes = []models.Cliente{{CPFCNPJ: "12345678901", Nome: "Ana"}}
	f.equipes = []models.Equipe{{ID: 3, Nome: "Alpha"}}
	f.clienteIdx = 0
	f.equipeIdx = 0
	f.nome.SetValue("Reforma")
	f.descricao.SetValue("Reforma completa")
	f.dataInicio.SetValue("2025-01-01")
	f.dataFim.SetValue("2025-06-30")
	f.orcamentoValor = 1500.50
	return f
}

func TestProjectFormCreateSuccess(t *testing.T) {
	cs := newCountingServer(t, http.StatusCreated)
	client := api.New(cs.srv.URL, zerolog.Nop())

	f := readyProjectForm(client)
	form, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	f = form.(*ProjectForm)
	if f.phase != phaseSubmitting {
		t.Fatalf("phase = %d, want submitting", f.phase)
	}

	msg := run(t, cmd)
	_, cmd = f.Update(msg)
	result := run(t, cmd)
	saved, ok := result.(SavedMsg)
	if !ok {
		t.Fatalf("expected SavedMsg, got %T", result)
	}
	if saved.Notice != "Projeto adicionado com sucesso!" {
		t.Errorf("notice = %q", saved.Notice)
	}
	if cs.count() != 1 {
		t.Errorf("server calls = %d, want 1", cs.count())
	}
	if cs.calls[0] != "POST /projetos" {
		t.Errorf("call = %q", cs.calls[0])
	}
}

func TestProjectFormFailureKeepsDraft(t *testing.T) {
	cs := newCountingServer(t, http.StatusInternalServerError)
	client := api.New(cs.srv.URL, zerolog.Nop())

	f := readyProjectForm(client)
	form, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	f = form.(*ProjectForm)

	msg := run(t, cmd)
	form, cmd = f.Update(msg)
	f = form.(*ProjectForm)

	if f.phase != phaseReady {
		t.Errorf("phase = %d, want ready", f.phase)
	}
	if f.nome.Value() != "Reforma" {
		t.Errorf("draft lost: nome = %q", f.nome.Value())
	}
	notice, ok := run(t, cmd).(NoticeMsg)
	if !ok || notice.Level != Error {
		t.Fatalf("expected error notice, got %#v", notice)
	}
	if cs.count() != 1 {
		t.Errorf("server calls = %d, want 1", cs.count())
	}
}

func TestProjectFormMissingFieldsNoCall(t *testing.T) {
	cs := newCountingServer(t, http.StatusOK)
	client := api.New(cs.srv.URL, zerolog.Nop())

	f := NewAddProject(client)
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	notice, ok := run(t, cmd).(NoticeMsg)
	if !ok || notice.Level != Warn {
		t.Fatalf("expected warning notice, got %#v", notice)
	}
	if cs.count() != 0 {
		t.Errorf("server calls = %d, want 0", cs.count())
	}
}

func TestTaskFormCreatePostsToOwningProject(t *testing.T) {
	var gotPath string
	var gotBody models.NovaTarefa
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()
	client := api.New(srv.URL, zerolog.Nop())

	f := NewAddTask(client, 7)
	f.nome.SetValue("Survey")
	f.descricao.SetValue("Site survey")
	f.dataInicio.SetValue("2025-01-01")
	f.dataFim.SetValue("2025-01-10")

	form, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	f = form.(*TaskForm)
	msg := run(t, cmd)
	_, cmd = f.Update(msg)
	saved, ok := run(t, cmd).(SavedMsg)
	if !ok {
		t.Fatal("expected SavedMsg")
	}
	if saved.Notice != "Tarefa adicionada com sucesso!" {
		t.Errorf("notice = %q", saved.Notice)
	}

	if gotPath != "POST /projetos/7/tarefas" {
		t.Errorf("path = %q", gotPath)
	}
	want := models.NovaTarefa{
		Nome:        "Survey",
		Descricao:   "Site survey",
		DataInicio:  "2025-01-01",
		DataFimPrev: "2025-01-10",
		Status:      models.StatusPendente,
	}
	if gotBody != want {
		t.Errorf("body = %#v, want %#v", gotBody, want)
	}
}

func TestClientFormSendsBareDigits(t *testing.T) {
	var gotPath string
	var gotBody models.Cliente
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()
	client := api.New(srv.URL, zerolog.Nop())

	f := NewEditClient(client, models.Cliente{
		CPFCNPJ:  "12345678901",
		Nome:     "Ana Souza",
		Telefone: "11987654321",
		Email:    "ana@exemplo.com",
		Endereco: "Rua A, 1",
	})
	if f.cpfcnpj.Value() != "123.456.789-01" {
		t.Errorf("masked cpf = %q", f.cpfcnpj.Value())
	}
	if f.telefone.Value() != "(11) 98765-4321" {
		t.Errorf("masked telefone = %q", f.telefone.Value())
	}

	form, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	f = form.(*ClientForm)
	msg := run(t, cmd)
	f.Update(msg)

	if gotPath != "PUT /clientes/12345678901" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.CPFCNPJ != "12345678901" {
		t.Errorf("body cpf = %q, want bare digits", gotBody.CPFCNPJ)
	}
	if gotBody.Telefone != "11987654321" {
		t.Errorf("body telefone = %q, want bare digits", gotBody.Telefone)
	}
	if gotBody.Senha != "" {
		t.Errorf("blank password should stay blank, got %q", gotBody.Senha)
	}
}

func TestConfirmDeleteRunsExactlyOnce(t *testing.T) {
	calls := 0
	f := NewConfirmDelete("Reforma", "ok!", "erro", func() error {
		calls++
		return nil
	})

	form, cmd := f.Update(keyRunes("y"))
	f = form.(*ConfirmDelete)
	msg := run(t, cmd)
	_, cmd = f.Update(msg)
	saved, ok := run(t, cmd).(SavedMsg)
	if !ok {
		t.Fatal("expected SavedMsg")
	}
	if saved.Notice != "ok!" {
		t.Errorf("notice = %q", saved.Notice)
	}
	if calls != 1 {
		t.Errorf("delete calls = %d, want 1", calls)
	}
}

func TestConfirmDeleteCancelMakesNoCall(t *testing.T) {
	calls := 0
	f := NewConfirmDelete("Reforma", "ok!", "erro", func() error {
		calls++
		return nil
	})

	_, cmd := f.Update(keyRunes("n"))
	if _, ok := run(t, cmd).(CanceledMsg); !ok {
		t.Fatal("expected CanceledMsg")
	}
	if calls != 0 {
		t.Errorf("delete calls = %d, want 0", calls)
	}
}

func TestUploadEmptyPathMakesNoCall(t *testing.T) {
	sends := 0
	f := NewUpload(func(filename string, r io.Reader) error {
		sends++
		return nil
	})

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	notice, ok := run(t, cmd).(NoticeMsg)
	if !ok || notice.Level != Info {
		t.Fatalf("expected info notice, got %#v", notice)
	}
	if sends != 0 {
		t.Errorf("sends = %d, want 0", sends)
	}
}

func TestUploadReadsFileAndSends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planta.pdf")
	if err := os.WriteFile(path, []byte("conteudo"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotName, gotBody string
	f := NewUpload(func(filename string, r io.Reader) error {
		data, _ := io.ReadAll(r)
		gotName = filename
		gotBody = string(data)
		return nil
	})
	f.path.SetValue(path)

	form, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f = form.(*UploadForm)
	msg := run(t, cmd)
	_, cmd = f.Update(msg)
	saved, ok := run(t, cmd).(SavedMsg)
	if !ok {
		t.Fatal("expected SavedMsg")
	}
	if saved.Notice != "Documento enviado com sucesso!" {
		t.Errorf("notice = %q", saved.Notice)
	}
	if gotName != "planta.pdf" {
		t.Errorf("filename = %q", gotName)
	}
	if gotBody != "conteudo" {
		t.Errorf("body = %q", gotBody)
	}
}

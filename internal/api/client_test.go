package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"obra/internal/models"
)

type recordedCall struct {
	method string
	path   string
	body   []byte
}

// callLog collects requests seen by the recorder; the handler runs on
// the server goroutine, so access is guarded.
type callLog struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (l *callLog) add(c recordedCall) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

func (l *callLog) all() []recordedCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedCall(nil), l.calls...)
}

// newRecorder spins up a server that records every call and answers
// from the routes map (method+" "+path -> JSON body).
func newRecorder(t *testing.T, routes map[string]string) (*Client, *callLog) {
	t.Helper()
	log := &callLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		log.add(recordedCall{method: r.Method, path: r.URL.Path, body: body})
		if resp, ok := routes[r.Method+" "+r.URL.Path]; ok {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, resp)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, zerolog.Nop()), log
}

func TestListProjetos(t *testing.T) {
	c, calls := newRecorder(t, map[string]string{
		"GET /projetos": `[{"ID_Projeto":1,"Nome":"Ponte","Orcamento_previsto":1500.5},{"ID_Projeto":2,"Nome":"Escola"}]`,
	})
	got, err := c.ListProjetos()
	if err != nil {
		t.Fatalf("ListProjetos: %v", err)
	}
	if len(got) != 2 || got[0].Nome != "Ponte" || got[0].OrcamentoPrev != 1500.5 {
		t.Fatalf("unexpected projects: %+v", got)
	}
	if len(calls.all()) != 1 {
		t.Fatalf("expected exactly one call, got %d", len(calls.all()))
	}
}

func TestGetProjetoNestedObjects(t *testing.T) {
	c, _ := newRecorder(t, map[string]string{
		"GET /projetos/7": `{"Nome":"Ponte","Contratante":{"Cliente_Nome":"ACME"},"Equipe_Resp":{"ID_Equipe":3,"Nome":"Alfa"}}`,
	})
	p, err := c.GetProjeto(7)
	if err != nil {
		t.Fatalf("GetProjeto: %v", err)
	}
	if p.Contratante.Nome != "ACME" || p.EquipeResp.ID != 3 {
		t.Fatalf("nested objects not decoded: %+v", p)
	}
}

func TestCreateAndUpdateProjetoEndpoints(t *testing.T) {
	c, calls := newRecorder(t, map[string]string{
		"POST /projetos":       `{}`,
		"PUT /projetos/edit/9": `{}`,
	})
	p := models.NovoProjeto{Nome: "Ponte", Status: models.StatusPlanejado, Contratante: "12345678901", EquipeResp: 2}
	if err := c.CreateProjeto(p); err != nil {
		t.Fatalf("CreateProjeto: %v", err)
	}
	if err := c.UpdateProjeto(9, p); err != nil {
		t.Fatalf("UpdateProjeto: %v", err)
	}

	got := calls.all()
	if got[0].method != "POST" || got[0].path != "/projetos" {
		t.Fatalf("create went to %s %s", got[0].method, got[0].path)
	}
	if got[1].method != "PUT" || got[1].path != "/projetos/edit/9" {
		t.Fatalf("update went to %s %s", got[1].method, got[1].path)
	}

	var sent map[string]any
	if err := json.Unmarshal(got[0].body, &sent); err != nil {
		t.Fatalf("create body not JSON: %v", err)
	}
	if sent["Nome"] != "Ponte" || sent["Contratante"] != "12345678901" {
		t.Fatalf("unexpected create body: %v", sent)
	}
}

func TestTarefaEndpoints(t *testing.T) {
	c, calls := newRecorder(t, map[string]string{
		"GET /projetos/7/tarefas":  `[{"ID_Tarefa":1,"Nome":"Survey","Status":"Pendente"}]`,
		"POST /projetos/7/tarefas": `{}`,
		"GET /tarefas/1":           `{"ID_Tarefa":1,"Nome":"Survey"}`,
		"PUT /tarefas/edit/1":      `{}`,
		"DELETE /tarefas/1":        `{}`,
	})

	tasks, err := c.ListTarefas(7)
	if err != nil || len(tasks) != 1 || tasks[0].Status != models.StatusPendente {
		t.Fatalf("ListTarefas: %v %+v", err, tasks)
	}
	if err := c.CreateTarefa(7, models.NovaTarefa{Nome: "Survey"}); err != nil {
		t.Fatalf("CreateTarefa: %v", err)
	}
	if _, err := c.GetTarefa(1); err != nil {
		t.Fatalf("GetTarefa: %v", err)
	}
	if err := c.UpdateTarefa(1, models.NovaTarefa{Nome: "Survey"}); err != nil {
		t.Fatalf("UpdateTarefa: %v", err)
	}
	if err := c.DeleteTarefa(1); err != nil {
		t.Fatalf("DeleteTarefa: %v", err)
	}

	got := calls.all()
	wantPaths := []string{"/projetos/7/tarefas", "/projetos/7/tarefas", "/tarefas/1", "/tarefas/edit/1", "/tarefas/1"}
	for i, want := range wantPaths {
		if got[i].path != want {
			t.Fatalf("call %d went to %s, expected %s", i, got[i].path, want)
		}
	}
}

func TestClienteAddressedByTaxID(t *testing.T) {
	c, calls := newRecorder(t, map[string]string{
		"PUT /clientes/12345678901":    `{}`,
		"DELETE /clientes/12345678901": `{}`,
	})
	cl := models.Cliente{CPFCNPJ: "12345678901", Nome: "ACME"}
	if err := c.UpdateCliente("12345678901", cl); err != nil {
		t.Fatalf("UpdateCliente: %v", err)
	}
	if err := c.DeleteCliente("12345678901"); err != nil {
		t.Fatalf("DeleteCliente: %v", err)
	}
	for _, call := range calls.all() {
		if !strings.HasSuffix(call.path, "/12345678901") {
			t.Fatalf("client call not addressed by tax id: %s", call.path)
		}
	}
}

func TestClienteSenhaOmittedWhenBlank(t *testing.T) {
	c, calls := newRecorder(t, map[string]string{"POST /clientes": `{}`})
	if err := c.CreateCliente(models.Cliente{CPFCNPJ: "1", Nome: "ACME"}); err != nil {
		t.Fatalf("CreateCliente: %v", err)
	}
	if body := calls.all()[0].body; strings.Contains(string(body), "Senha") {
		t.Fatalf("blank password leaked into payload: %s", body)
	}
}

func TestNon2xxReturnsStatusError(t *testing.T) {
	c, _ := newRecorder(t, nil) // everything 404s
	_, err := c.ListProjetos()
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound || se.Path != "/projetos" {
		t.Fatalf("unexpected StatusError: %+v", se)
	}
}

func TestUploadDocumentoMultipart(t *testing.T) {
	var gotFilename, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/projetos/5/documentos" {
			t.Errorf("upload went to %s %s", r.Method, r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotFilename, gotContent = hdr.Filename, string(data)
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	err := c.UploadDocumento(5, "planta.pdf", strings.NewReader("conteudo"))
	if err != nil {
		t.Fatalf("UploadDocumento: %v", err)
	}
	if gotFilename != "planta.pdf" || gotContent != "conteudo" {
		t.Fatalf("server saw (%q, %q)", gotFilename, gotContent)
	}
}

func TestDownloadDocumentoFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="planta.pdf"`)
		io.WriteString(w, "conteudo")
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	data, name, err := c.DownloadDocumento(5, 3)
	if err != nil {
		t.Fatalf("DownloadDocumento: %v", err)
	}
	if string(data) != "conteudo" || name != "planta.pdf" {
		t.Fatalf("got (%q, %q)", data, name)
	}
}

func TestDownloadDocumentoFilenameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "x")
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	_, name, err := c.DownloadDocumento(5, 3)
	if err != nil {
		t.Fatalf("DownloadDocumento: %v", err)
	}
	if name != "documento-3" {
		t.Fatalf("fallback name: got %q", name)
	}
}

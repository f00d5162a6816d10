package models

// Projeto is a project as returned by GET /projetos. The list endpoint
// denormalizes the contracting client and team into flat display fields.
type Projeto struct {
	ID              int64   `json:"ID_Projeto"`
	Nome            string  `json:"Nome"`
	Descricao       string  `json:"Descricao"`
	DataInicio      string  `json:"Data_Inicio"`
	DataFimPrev     string  `json:"Data_Fim_Prev"`
	Status          string  `json:"Status"`
	OrcamentoPrev   float64 `json:"Orcamento_previsto"`
	ClienteNome     string  `json:"Cliente_Nome"`
	ClienteTelefone string  `json:"Cliente_Telefone"`
	ClienteEmail    string  `json:"Cliente_Email"`
	ClienteEndereco string  `json:"Cliente_Endereco"`
	EquipeNome      string  `json:"Equipe_Nome"`
	SupervisorNome  string  `json:"Supervisor_Nome"`
}

// Contratante is the nested client object inside a project detail.
type Contratante struct {
	ID       string `json:"Cliente_ID"`
	Nome     string `json:"Cliente_Nome"`
	Telefone string `json:"Cliente_Telefone"`
	Email    string `json:"Cliente_Email"`
	Endereco string `json:"Cliente_Endereco"`
}

// EquipeResp is the nested responsible team inside a project detail.
type EquipeResp struct {
	ID             int64  `json:"ID_Equipe"`
	Nome           string `json:"Nome"`
	SupervisorNome string `json:"Supervisor_Nome"`
}

// ProjetoDetalhado is the aggregate returned by GET /projetos/{id}.
type ProjetoDetalhado struct {
	Nome          string      `json:"Nome"`
	Descricao     string      `json:"Descricao"`
	DataInicio    string      `json:"Data_Inicio"`
	DataFimPrev   string      `json:"Data_Fim_Prev"`
	Status        string      `json:"Status"`
	OrcamentoPrev float64     `json:"Orcamento_previsto"`
	Contratante   Contratante `json:"Contratante"`
	EquipeResp    EquipeResp  `json:"Equipe_Resp"`
}

// NovoProjeto is the payload for creating or updating a project.
// Contratante carries the client's tax id, EquipeResp the team id.
type NovoProjeto struct {
	Nome          string  `json:"Nome"`
	Descricao     string  `json:"Descricao"`
	DataInicio    string  `json:"Data_Inicio"`
	DataFimPrev   string  `json:"Data_Fim_Prev"`
	Status        string  `json:"Status"`
	OrcamentoPrev float64 `json:"Orcamento_previsto"`
	Contratante   string  `json:"Contratante"`
	EquipeResp    int64   `json:"Equipe_Resp"`
}

// Tarefa is a task. It belongs to exactly one project; the owning
// project id travels in the URL, never in the body.
type Tarefa struct {
	ID          int64  `json:"ID_Tarefa"`
	Nome        string `json:"Nome"`
	Descricao   string `json:"Descricao"`
	DataInicio  string `json:"Data_Inicio"`
	DataFimPrev string `json:"Data_Fim_Prev"`
	Status      string `json:"Status"`
}

// NovaTarefa is the payload for creating or updating a task.
type NovaTarefa struct {
	Nome        string `json:"Nome"`
	Descricao   string `json:"Descricao"`
	DataInicio  string `json:"Data_Inicio"`
	DataFimPrev string `json:"Data_Fim_Prev"`
	Status      string `json:"Status"`
}

// Cliente is a contracting party. CPF_CNPJ is the natural key and is
// immutable once created. Senha is write-only: the server never echoes
// it back and the UI never renders it.
type Cliente struct {
	CPFCNPJ  string `json:"CPF_CNPJ"`
	Nome     string `json:"Nome"`
	Telefone string `json:"Telefone"`
	Email    string `json:"Email"`
	Endereco string `json:"Endereco"`
	Senha    string `json:"Senha,omitempty"`
}

// Equipe is a team, read-only in this client.
type Equipe struct {
	ID   int64  `json:"ID_Equipe"`
	Nome string `json:"Nome"`
}

// Documento is a file attached to a project. Its content is opaque and
// only travels on upload and download.
type Documento struct {
	ID          int64  `json:"ID_Documento"`
	NomeArquivo string `json:"Nome_Arquivo"`
	TipoArquivo string `json:"Tipo_Arquivo"`
}

package models

// Project and task status values are fixed enumerations on the server;
// anything outside them is displayed with the fallback color and never
// written back.
const (
	StatusPlanejado   = "Planejado"
	StatusPendente    = "Pendente"
	StatusEmAndamento = "Em andamento"
	StatusConcluido   = "Concluído"
)

// ProjetoStatusOptions lists the valid project statuses in form order.
func ProjetoStatusOptions() []string {
	return []string{StatusPlanejado, StatusEmAndamento, StatusConcluido}
}

// TarefaStatusOptions lists the valid task statuses in form order.
func TarefaStatusOptions() []string {
	return []string{StatusPendente, StatusEmAndamento, StatusConcluido}
}

// ValidProjetoStatus reports whether s is one of the project statuses.
func ValidProjetoStatus(s string) bool {
	for _, opt := range ProjetoStatusOptions() {
		if s == opt {
			return true
		}
	}
	return false
}

// ValidTarefaStatus reports whether s is one of the task statuses.
func ValidTarefaStatus(s string) bool {
	for _, opt := range TarefaStatusOptions() {
		if s == opt {
			return true
		}
	}
	return false
}

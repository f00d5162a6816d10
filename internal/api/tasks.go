package api

import (
	"fmt"

	"obra/internal/models"
)

// ListTarefas returns the tasks of one project.
func (c *Client) ListTarefas(projectID int64) ([]models.Tarefa, error) {
	var out []models.Tarefa
	if err := c.doJSON("GET", fmt.Sprintf("/projetos/%d/tarefas", projectID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTarefa creates a task under its owning project. The project
// reference is fixed at creation and never changes afterwards.
func (c *Client) CreateTarefa(projectID int64, t models.NovaTarefa) error {
	return c.doJSON("POST", fmt.Sprintf("/projetos/%d/tarefas", projectID), t, nil)
}

// GetTarefa returns one task by its own id.
func (c *Client) GetTarefa(id int64) (*models.Tarefa, error) {
	out := &models.Tarefa{}
	if err := c.doJSON("GET", fmt.Sprintf("/tarefas/%d", id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTarefa updates a task in place.
func (c *Client) UpdateTarefa(id int64, t models.NovaTarefa) error {
	return c.doJSON("PUT", fmt.Sprintf("/tarefas/edit/%d", id), t, nil)
}

// DeleteTarefa deletes a task.
func (c *Client) DeleteTarefa(id int64) error {
	return c.doJSON("DELETE", fmt.Sprintf("/tarefas/%d", id), nil, nil)
}

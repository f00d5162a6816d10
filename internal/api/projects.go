package api

import (
	"fmt"

	"obra/internal/models"
)

// ListProjetos returns every project with denormalized display fields.
func (c *Client) ListProjetos() ([]models.Projeto, error) {
	var out []models.Projeto
	if err := c.doJSON("GET", "/projetos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProjeto returns the aggregate detail record for one project.
func (c *Client) GetProjeto(id int64) (*models.ProjetoDetalhado, error) {
	out := &models.ProjetoDetalhado{}
	if err := c.doJSON("GET", fmt.Sprintf("/projetos/%d", id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProjeto creates a project; the server assigns the id.
func (c *Client) CreateProjeto(p models.NovoProjeto) error {
	return c.doJSON("POST", "/projetos", p, nil)
}

// UpdateProjeto updates a project in place.
func (c *Client) UpdateProjeto(id int64, p models.NovoProjeto) error {
	return c.doJSON("PUT", fmt.Sprintf("/projetos/edit/%d", id), p, nil)
}

// DeleteProjeto deletes a project.
func (c *Client) DeleteProjeto(id int64) error {
	return c.doJSON("DELETE", fmt.Sprintf("/projetos/%d", id), nil, nil)
}

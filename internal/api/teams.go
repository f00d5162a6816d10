package api

import "obra/internal/models"

// ListEquipes returns the teams. Teams are read-only in this client;
// they only feed the responsible-team picker.
func (c *Client) ListEquipes() ([]models.Equipe, error) {
	var out []models.Equipe
	if err := c.doJSON("GET", "/equipes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

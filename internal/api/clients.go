package api

import "obra/internal/models"

// ListClientes returns every contracting client.
func (c *Client) ListClientes() ([]models.Cliente, error) {
	var out []models.Cliente
	if err := c.doJSON("GET", "/clientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCliente creates a client. The tax id in the payload becomes
// its permanent lookup key.
func (c *Client) CreateCliente(cl models.Cliente) error {
	return c.doJSON("POST", "/clientes", cl, nil)
}

// UpdateCliente updates the client addressed by its tax id.
func (c *Client) UpdateCliente(taxID string, cl models.Cliente) error {
	return c.doJSON("PUT", "/clientes/"+taxID, cl, nil)
}

// DeleteCliente deletes the client addressed by its tax id.
func (c *Client) DeleteCliente(taxID string) error {
	return c.doJSON("DELETE", "/clientes/"+taxID, nil, nil)
}

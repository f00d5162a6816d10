package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"obra/internal/models"
)

// ListDocumentos returns the documents attached to a project.
func (c *Client) ListDocumentos(projectID int64) ([]models.Documento, error) {
	var out []models.Documento
	if err := c.doJSON("GET", fmt.Sprintf("/projetos/%d/documentos", projectID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadDocumento attaches a file to a project as a multipart form
// with a single "file" field.
func (c *Client) UploadDocumento(projectID int64, filename string, r io.Reader) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	path := fmt.Sprintf("/projetos/%d/documentos", projectID)
	req, err := http.NewRequest("POST", c.base+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("upload failed")
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.log.Debug().Str("method", "POST").Str("path", path).Int("status", resp.StatusCode).Msg("api call")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: "POST", Path: path, Code: resp.StatusCode}
	}
	return nil
}

// DeleteDocumento removes one document from a project.
func (c *Client) DeleteDocumento(projectID, docID int64) error {
	return c.doJSON("DELETE", fmt.Sprintf("/projetos/%d/documentos/%d", projectID, docID), nil, nil)
}

// DownloadDocumento retrieves a document's bytes. The filename comes
// from the Content-Disposition header, falling back to the id when the
// server omits it.
func (c *Client) DownloadDocumento(projectID, docID int64) ([]byte, string, error) {
	path := fmt.Sprintf("/projetos/%d/documentos/%d", projectID, docID)

	resp, err := c.http.Get(c.base + path)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("download failed")
		return nil, "", err
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", "GET").Str("path", path).Int("status", resp.StatusCode).Msg("api call")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{Method: "GET", Path: path, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("documento-%d", docID)
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				filename = name
			}
		}
	}
	return data, filename, nil
}

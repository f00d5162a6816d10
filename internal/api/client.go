// Package api is the HTTP resource client for the project-management
// API. Every operation is a single round trip: no retry, no timeout
// override, no caching. Callers surface failures to the user.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Client issues calls against one API host. The base URL is injected
// at construction; nothing in this package hard-codes a host.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// New creates a client for the given base URL.
func New(base string, log zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{},
		log:  log,
	}
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// doJSON performs one JSON round trip. body and out may be nil.
func (c *Client) doJSON(method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

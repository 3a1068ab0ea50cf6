// Package api wraps the externally owned dine-in HTTP API.  Every response
// is decoded against an explicit schema at this boundary; a body that does
// not parse becomes ErrMalformed instead of propagating junk upwards.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin authenticated JSON client.  It is safe for concurrent use;
// the bearer token is supplied per call because one gateway process serves
// many device sessions.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for the given base URL.  The 10 second timeout matches
// what the upstream expects from mobile clients.
func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithHTTPClient is used by tests to point the client at a fake upstream
// with a custom timeout.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{base: baseURL, http: hc}
}

// do performs one JSON round trip.  token may be empty for the two
// unauthenticated auth endpoints.  out may be nil when the caller only cares
// about success.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode >= 400:
		return &BusinessError{Status: res.StatusCode, Message: serverMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s", ErrMalformed, method, path)
	}
	return nil
}

// serverMessage pulls the guest-facing message out of an error body, falling
// back to the raw body when it is not the usual {message} envelope.
func serverMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return string(raw)
}

package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/opensdd/jira-cli/core"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs Jira REST API v3 calls on behalf of a session.
// Every call is normalised into a Result; no method returns a Go error.
type Client struct {
	session *core.Session
	http    Doer
}

// NewClient returns a client bound to the given session. A nil doer means http.DefaultClient.
// The session is read on every call, so credentials set after construction are honoured.
func NewClient(session *core.Session, doer Doer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{session: session, http: doer}
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *core.Session {
	return c.session
}

// call performs the request and decodes a successful response body into T.
func call[T any](ctx context.Context, c *Client, method, path string, body any) Result[T] {
	raw := c.request(ctx, method, path, body)
	if !raw.Success {
		return failAs[T](raw)
	}
	var out T
	if method == http.MethodDelete || len(bytes.TrimSpace(raw.Data)) == 0 {
		return ok(out)
	}
	if err := json.Unmarshal(raw.Data, &out); err != nil {
		return fail[T](fmt.Sprintf("failed to parse response: %v", err))
	}
	return ok(out)
}

// request performs exactly one HTTP call against the session's API root and returns
// the raw response body on success. DELETE responses never carry data.
func (c *Client) request(ctx context.Context, method, path string, body any) Result[json.RawMessage] {
	log := slog.With("op", "jira.request", "method", method, "path", path)

	var reader io.Reader
	withBody := body != nil && (method == http.MethodPost || method == http.MethodPut)
	if withBody {
		b, err := json.Marshal(body)
		if err != nil {
			return fail[json.RawMessage](ClassifyFailure(0, nil, fmt.Errorf("failed to marshal jira request: %w", err)).Message())
		}
		reader = bytes.NewReader(b)
	}

	url := c.session.APIRoot() + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fail[json.RawMessage](ClassifyFailure(0, nil, err).Message())
	}
	req.Header.Set("Accept", "application/json")
	if withBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.session.GetEmail(), c.session.GetAPIToken())

	log.Debug("Sending Jira request")
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("Jira request failed", "error", err)
		return fail[json.RawMessage](ClassifyFailure(0, nil, err).Message())
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	log.Debug("Jira response received", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := fmt.Errorf("Request failed with status code %d", resp.StatusCode)
		return fail[json.RawMessage](ClassifyFailure(resp.StatusCode, respBody, cause).Message())
	}
	if method == http.MethodDelete {
		return ok[json.RawMessage](nil)
	}
	if err != nil {
		return fail[json.RawMessage](ClassifyFailure(resp.StatusCode, nil, fmt.Errorf("failed to read jira response: %w", err)).Message())
	}
	return ok(json.RawMessage(respBody))
}

// Package upstream is the typed client for the clinic REST API that owns
// all patient, doctor, follow-up, and message records. Every dashboard
// read and mutation goes through here; nothing is retried automatically.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Verb classifies an operation for the user-facing failure notice.
type Verb int

const (
	VerbLoad Verb = iota
	VerbSave
	VerbDelete
)

// Notice returns the short user-visible message for a failed operation.
func (v Verb) Notice() string {
	switch v {
	case VerbSave:
		return "could not save"
	case VerbDelete:
		return "could not delete"
	}
	return "could not load"
}

// Error is a failed upstream call. Status is zero for transport errors.
type Error struct {
	Op     string
	Verb   Verb
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Notice returns the generic message shown to the operator.
func (e *Error) Notice() string { return e.Verb.Notice() }

// Client talks to the clinic API under baseURL + "/api".
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger attaches a logger for call-site diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// WithTimeout sets the per-request timeout on the default transport.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.httpClient.Timeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request and decodes the JSON response into out when out
// is non-nil. Failures come back as *Error carrying the operation name
// and verb class.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, verb Verb, op string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Verb: verb, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Op: op, Verb: verb, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("upstream request failed")
		return &Error{Op: op, Verb: verb, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read at most 1KB of the error body for diagnostics.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("body", string(detail)).
			Msg("upstream rejected request")
		return &Error{Op: op, Verb: verb, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(detail)))}
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Verb: verb, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// doRaw issues a request and returns the response body bytes with their
// content type, for opaque payloads such as PDF exports.
func (c *Client) doRaw(ctx context.Context, path string, query url.Values, op string) ([]byte, string, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", &Error{Op: op, Verb: VerbLoad, Err: err}
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("upstream request failed")
		return nil, "", &Error{Op: op, Verb: VerbLoad, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", &Error{Op: op, Verb: VerbLoad, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(detail)))}
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Op: op, Verb: VerbLoad, Err: err}
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

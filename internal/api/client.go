// Package api is the HTTP client for the logistics backend. Every call is
// authenticated with the bearer token of an explicit Session, decodes the
// {success, message, data} envelope, and reports failures as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haulops/haulctl/internal/util"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when neither config nor environment sets one.
const DefaultBaseURL = "http://localhost:5000/api"

const defaultTimeout = 30 * time.Second

// Client talks to the backend on behalf of one Session.
type Client struct {
	baseURL string
	session Session
	http    *http.Client
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger; requests are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for baseURL. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, session Session, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session the client authenticates with.
func (c *Client) Session() Session {
	return c.session
}

// envelope is the common response body.
type envelope struct {
	Success *bool
	Message string
	fields  map[string]json.RawMessage
}

// records extracts the collection from "data", falling back to pluralKey.
func (e *envelope) records(pluralKey string) ([]Record, error) {
	raw, ok := e.fields["data"]
	if !ok && pluralKey != "" {
		raw, ok = e.fields[pluralKey]
	}
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return []Record{}, nil
	}
	var out []Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

// record extracts a single object from "data".
func (e *envelope) record() (Record, error) {
	raw, ok := e.fields["data"]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var out Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

// do performs one request and decodes the envelope. Transport and
// application failures come back as *Error.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	op := method + " " + path
	reqID := util.NewRequestID()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Op: op, RequestID: reqID, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, RequestID: reqID, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("op", op),
			zap.String("request_id", reqID),
			zap.Error(err))
		return nil, &Error{Kind: KindTransport, Op: op, RequestID: reqID, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("op", op),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, RequestID: reqID, Err: err}
	}

	env, decodeErr := decodeEnvelope(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, RequestID: reqID}
		if env != nil {
			e.Message = env.Message
		}
		e.Err = errors.New(http.StatusText(resp.StatusCode))
		return nil, e
	}
	if decodeErr != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, RequestID: reqID, Err: decodeErr}
	}
	if env.Success != nil && !*env.Success {
		return nil, &Error{Kind: KindApplication, Op: op, Status: resp.StatusCode, Message: env.Message, RequestID: reqID}
	}
	return env, nil
}

func decodeEnvelope(raw []byte) (*envelope, error) {
	env := &envelope{fields: map[string]json.RawMessage{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, &env.fields); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if s, ok := env.fields["success"]; ok {
		var b bool
		if err := json.Unmarshal(s, &b); err == nil {
			env.Success = &b
		}
	}
	if m, ok := env.fields["message"]; ok {
		var msg string
		if err := json.Unmarshal(m, &msg); err == nil {
			env.Message = sanitizeMessage(msg)
		}
	}
	return env, nil
}

// List fetches the resource's whole collection.
func (c *Client) List(ctx context.Context, res Resource) ([]Record, error) {
	env, err := c.do(ctx, http.MethodGet, res.ListPath, nil)
	if err != nil {
		return nil, err
	}
	return env.records(res.PluralKey)
}

// Create adds a record built from fields.
func (c *Client) Create(ctx context.Context, res Resource, fields Record) error {
	if err := ValidateRequired(res, fields); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, res.AddPath(), fields)
	return err
}

// Update replaces the editable fields of record id.
func (c *Client) Update(ctx context.Context, res Resource, id string, fields Record) error {
	if err := ValidateRequired(res, fields); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPut, res.ItemPath(id), fields)
	return err
}

// Delete removes record id.
func (c *Client) Delete(ctx context.Context, res Resource, id string) error {
	_, err := c.do(ctx, http.MethodDelete, res.ItemPath(id), nil)
	return err
}

// Package api is the client of the LMS REST API.
//
// Every call goes through Client.Request: one attempt, bearer credential attached when present,
// `{data: ...}` envelope unwrapped, non-2xx statuses turned into a *core.RequestError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
)

// TokenSource yields the stored bearer credential; "" means anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type (
	Option func(*Client)

	Client struct {
		rest           *resty.Client
		tokens         TokenSource
		logger         core.Logger
		onUnauthorized func(ctx context.Context)
	}
)

// WithTransport replaces the HTTP transport (e.g. an otelhttp transport).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.rest.SetTransport(rt) }
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		rest:   resty.New().SetBaseURL(baseURL),
		tokens: tokens,
		logger: core.NopLogger{},
	}
	c.rest.SetHeader("Content-Type", "application/json")
	c.rest.SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers fn to be called whenever the server answers 401.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// Request performs a single call to path (relative to the base URL) and returns
// the envelope's `data` member when present, else the raw body.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	reqID := uuid.NewString()
	req := c.rest.R().SetContext(ctx).SetHeader("X-Request-ID", reqID)
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "reading credential")
		}
		if token != "" {
			req.SetAuthToken(token)
		}
	}
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("api request failed", err, map[string]interface{}{
			"method": method, "path": path, "request_id": reqID,
		})
		return nil, core.NewRequestError(0, err.Error())
	}
	c.logger.Debug("api request", map[string]interface{}{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode(),
		"duration_ms": time.Since(start).Milliseconds(),
		"request_id":  reqID,
	})

	raw := resp.Body()
	env := parseEnvelope(raw)
	if !resp.IsSuccess() {
		if resp.StatusCode() == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, core.NewRequestError(resp.StatusCode(), env.errorMessage())
	}
	if data, ok := env["data"]; ok {
		return data, nil
	}
	return raw, nil
}

type envelope map[string]json.RawMessage

// parseEnvelope never fails: anything but a JSON object reads as `{}`.
func parseEnvelope(raw []byte) envelope {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env == nil {
		return envelope{}
	}
	return env
}

// errorMessage looks at `error.message`, `error` (string) then `message`.
func (env envelope) errorMessage() string {
	if rawErr, ok := env["error"]; ok {
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rawErr, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		var msg string
		if err := json.Unmarshal(rawErr, &msg); err == nil && msg != "" {
			return msg
		}
	}
	if rawMsg, ok := env["message"]; ok {
		var msg string
		if err := json.Unmarshal(rawMsg, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return core.DefaultRequestErrorMessage
}

// decode unmarshals data into out.
func decode(data json.RawMessage, out interface{}) error {
	if err := json.Unmarshal(data, out); err != nil {
		return core.NewRequestError(0, "malformed response: "+err.Error())
	}
	return nil
}

// decodeList accepts `{items: [...]}` or a bare array; missing items decode as an empty list.
func decodeList(data json.RawMessage, out interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decode(trimmed, out)
	}
	var env struct {
		Items json.RawMessage `json:"items"`
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := decode(trimmed, &env); err != nil {
			return err
		}
	}
	items := bytes.TrimSpace(env.Items)
	if len(items) == 0 || string(items) == "null" {
		items = []byte("[]")
	}
	return decode(items, out)
}

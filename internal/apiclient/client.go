// Package apiclient talks to the HR REST API and adapts its resources to
// listctl.Source.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/simp-lee/hrdash/internal/domain"
)

// Config holds the connection settings for the HR API.
type Config struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
}

// Client sends JSON requests to the HR API. GET requests are retried with
// exponential backoff on network errors and 5xx responses; other methods are
// sent once.
type Client struct {
	base       *url.URL
	token      string
	http       *http.Client
	maxRetries uint64
	initial    time.Duration
	log        *slog.Logger
	observe    func(method string, err error)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for retry and failure messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithObserver is called once per request with its final error.
func WithObserver(fn func(method string, err error)) Option {
	return func(c *Client) { c.observe = fn }
}

// New validates cfg and returns a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	initial := cfg.InitialInterval
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}

	c := &Client{
		base:       base,
		token:      cfg.Token,
		http:       &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		initial:    initial,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// apiMessage is the part of every error and mutation response we read.
type apiMessage struct {
	Message string `json:"message"`
}

// Do sends a request to path with the given query and JSON body and decodes
// the JSON response into out (if non-nil). Failures are *domain.RequestError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	target := c.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	op := func() error {
		return c.once(ctx, method, target.String(), payload, out)
	}

	var err error
	if method == http.MethodGet {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = c.initial
		policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)
		err = backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
			c.log.Warn("hr api request failed, retrying", "method", method, "url", target.String(), "wait", wait, "error", err)
		})
	} else {
		err = op()
	}

	var re *domain.RequestError
	if err != nil && !errors.As(err, &re) {
		err = domain.NewNetworkError(err)
	}
	if c.observe != nil {
		c.observe(method, err)
	}
	return err
}

// once performs a single attempt. Errors that retrying cannot fix are wrapped
// in backoff.Permanent.
func (c *Client) once(ctx context.Context, method, target string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return backoff.Permanent(domain.NewNetworkError(err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(domain.NewNetworkError(err))
		}
		return domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := domain.NewServerError(resp.StatusCode, errorMessage(resp.StatusCode, raw))
		if resp.StatusCode >= http.StatusInternalServerError {
			return rerr
		}
		return backoff.Permanent(rerr)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return backoff.Permanent(&domain.RequestError{
			Status:  resp.StatusCode,
			Message: "invalid response from server",
			Err:     err,
		})
	}
	return nil
}

func errorMessage(status int, raw []byte) string {
	var m apiMessage
	if json.Unmarshal(raw, &m) == nil && m.Message != "" {
		return m.Message
	}
	return http.StatusText(status)
}

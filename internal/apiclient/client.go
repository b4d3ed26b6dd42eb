// Package apiclient is the single HTTP client for the clinic's REST API.
//
// Every call carries the Session found in the context. A 401 triggers
// exactly one token refresh and one replay; if that fails the session is
// handed to the unauthorized handler and ErrUnauthorized is returned.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

var (
	ErrUnauthorized = session.ErrExpired
	ErrNoSession    = errors.New("no session in context")
)

// refreshLeeway refreshes tokens that are about to expire before sending.
const refreshLeeway = 30 * time.Second

type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// StatusOf returns the remote status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// UnauthorizedFunc is the one place a dead session is handled.
type UnauthorizedFunc func(ctx context.Context, s *session.Session)

type Client struct {
	baseURL        string
	http           *http.Client
	log            *logrus.Logger
	onUnauthorized UnauthorizedFunc
	now            func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithUnauthorizedHandler(fn UnauthorizedFunc) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, timeout time.Duration, log *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do sends an authenticated request and decodes a JSON response into out.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return ErrNoSession
	}
	if sess.Expired() {
		return ErrUnauthorized
	}

	if sess.CanRefresh() && sess.AccessExpiresWithin(c.now(), refreshLeeway) {
		if err := c.refreshSession(ctx, sess); err != nil {
			return c.unauthorized(ctx, sess, err)
		}
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	status, respBody, err := c.send(ctx, method, path, query, payload, sess.AccessToken())
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if !sess.CanRefresh() {
			return c.unauthorized(ctx, sess, errors.New("no refresh token"))
		}
		if err := c.refreshSession(ctx, sess); err != nil {
			return c.unauthorized(ctx, sess, err)
		}

		status, respBody, err = c.send(ctx, method, path, query, payload, sess.AccessToken())
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return c.unauthorized(ctx, sess, errors.New("rejected after refresh"))
		}
	}

	return decode(method, path, status, respBody, out)
}

func (c *Client) unauthorized(ctx context.Context, sess *session.Session, cause error) error {
	sess.Expire()
	c.log.WithFields(logrus.Fields{
		"subject":    sess.Subject(),
		"request_id": RequestID(ctx),
	}).Warnf("remote session rejected: %v", cause)

	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx, sess)
	}
	return ErrUnauthorized
}

func (c *Client) refreshSession(ctx context.Context, sess *session.Session) error {
	tokens, err := c.Refresh(ctx, sess.RefreshToken())
	if err != nil {
		return err
	}
	sess.Rotate(tokens.Access, tokens.Refresh)
	return nil
}

func (c *Client) send(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	payload []byte,
	token string,
) (int, []byte, error) {

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	started := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"elapsed_ms": c.now().Sub(started).Milliseconds(),
		"request_id": RequestID(ctx),
	}).Debug("clinic api call")

	return resp.StatusCode, respBody, nil
}

func decode(method, path string, status int, body []byte, out any) error {
	if status >= http.StatusBadRequest {
		return &APIError{
			Method: method,
			Path:   path,
			Status: status,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Package resumeapi is the HTTP client for the resume backend: generation, ATS
// scoring, the current user, admin user management and LaTeX.
package resumeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/telemetry"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

const (
	DefaultBaseURL = "http://localhost:8081"
	DefaultTimeout = 120 * time.Second

	// maxErrorBody bounds how much of an error response is read for its message.
	maxErrorBody = 64 << 10
)

// TokenSource supplies the bearer token for authenticated calls. An empty token
// sends the request without Authorization.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
	log    *logrus.Logger
}

func New(cfg Config, tokens TokenSource, log *logrus.Logger) (*Client, error) {
	const op = "resumeapi.New"

	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid backend url", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tokens == nil {
		tokens = TokenFunc(func(context.Context) (string, error) { return "", nil })
	}
	if log == nil {
		log = logrus.New()
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(telemetry.InstrumentTransport(cfg.Transport)),
		},
		tokens: tokens,
		log:    log,
	}, nil
}

// BaseURL is the backend root without a trailing slash.
func (c *Client) BaseURL() string { return c.base.String() }

// LoginURL is where the browser is sent to start the Google OAuth flow.
func (c *Client) LoginURL() string { return c.BaseURL() + "/oauth2/authorization/google" }

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	accept      string
	token       string // overrides the TokenSource when set
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// send performs r and returns the body of a 2xx response. Failures are AppErrors:
// UNAVAILABLE or TIMEOUT for transport problems, a status-derived code otherwise.
func (c *Client) send(ctx context.Context, op string, r request) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.BaseURL()+r.path, r.body)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "build request", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)

	token := r.token
	if token == "" {
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "read auth token", err)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	entry := c.log.WithFields(logrus.Fields{
		"op":         op,
		"method":     r.method,
		"path":       r.path,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		entry.Warn("backend call failed")
		return nil, statusError(op, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(op, err)
	}
	entry.Debug("backend call")
	return body, nil
}

func (c *Client) sendJSON(ctx context.Context, op string, r request, out any) error {
	body, err := c.send(ctx, op, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return utils.E(utils.CodeDecode, op, "unexpected response from backend", err)
	}
	return nil
}

func transportError(op string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return utils.E(utils.CodeTimeout, op, "backend request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return utils.E(utils.CodeUnavailable, op, "request cancelled", err)
	}
	return utils.E(utils.CodeUnavailable, op, "backend unreachable", err)
}

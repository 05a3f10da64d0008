// Package transport is the single point of egress for backend calls. It
// attaches the stored access token as a bearer credential, logs request and
// response metadata, and classifies failures into HTTPError, NetworkError and
// SetupError. It never refreshes tokens or retries.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 10 * time.Second

// HeaderRequestID carries a per-request id the backend echoes into its logs.
const HeaderRequestID = "X-Request-Id"

// AccessTokenSource yields the current access token for each request.
type AccessTokenSource interface {
	AccessToken(ctx context.Context) (string, bool, error)
}

// Config captures the transport settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; its Timeout is replaced by Timeout.
	HTTPClient *http.Client
}

// Client is the shared API transport. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  AccessTokenSource
	log     zerolog.Logger
}

// New builds the transport. tokens may be nil for unauthenticated use.
func New(cfg Config, tokens AccessTokenSource, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		cp := *cfg.HTTPClient
		hc = &cp
	}
	hc.Timeout = timeout

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		tokens:  tokens,
		log:     log,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Do sends one request. body is JSON-encoded when non-nil; a 2xx response
// body is decoded into out when out is non-nil and the body is not empty.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		requestsTotal.WithLabelValues(method, "setup").Inc()
		c.log.Error().Err(err).Str("kind", Kind(err)).Str("method", method).Str("path", path).Msg("api request setup failed")
		return err
	}

	c.authorize(ctx, req)
	reqID := req.Header.Get(HeaderRequestID)

	c.log.Debug().
		Str("method", method).
		Str("path", req.URL.Path).
		Str("request_id", reqID).
		Bool("authenticated", req.Header.Get("Authorization") != "").
		Msg("api request")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, "network").Inc()
		nerr := &NetworkError{Method: method, URL: req.URL.String(), Err: err}
		c.log.Warn().Err(err).Str("kind", Kind(nerr)).Str("method", method).Str("path", req.URL.Path).Msg("api request got no response")
		return nerr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		requestsTotal.WithLabelValues(method, "network").Inc()
		return &NetworkError{Method: method, URL: req.URL.String(), Err: fmt.Errorf("read response: %w", err)}
	}

	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())

	c.log.Debug().
		Str("method", method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Str("request_id", reqID).
		Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &HTTPError{
			Method:  method,
			URL:     req.URL.String(),
			Status:  resp.StatusCode,
			Body:    respBody,
			Message: envelopeMessage(respBody),
		}
		c.log.Warn().
			Str("kind", Kind(herr)).
			Str("method", method).
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("message", herr.Message).
			Msg("api request failed")
		return herr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, &SetupError{Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &SetupError{Err: fmt.Errorf("base URL %q is not absolute", c.baseURL)}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &SetupError{Err: fmt.Errorf("marshal request body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &SetupError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// authorize attaches the bearer header when a token is stored. A token read
// failure is logged and the request goes out without credentials.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, ok, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("read access token")
		return
	}
	if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

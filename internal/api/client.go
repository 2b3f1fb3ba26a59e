// Package api is the remote data gateway for the ReliefNet platform. It wraps
// the HTTP+JSON endpoints under the versioned /users namespace, carries the
// cookie-based session credential on every call, and normalizes every failure
// into a *Fault.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL points at a locally running platform server.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// Config holds gateway construction options.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// CookieFile, when set, persists the session cookie across invocations.
	CookieFile string
	Logger     *zap.Logger
}

// DefaultConfig returns sensible defaults for a local server.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 15 * time.Second,
	}
}

// Client is the remote data gateway. All methods are safe to call from the
// single UI event thread; the embedded http.Client handles its own internals.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *persistentJar
	log        *zap.Logger
}

// New builds a gateway client. The cookie jar is loaded from cfg.CookieFile
// when present so a session established by `reliefnet login` is visible to
// every later invocation.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	jar := newPersistentJar(inner, base, cfg.CookieFile)
	jar.load()

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		jar: jar,
		log: logger,
	}, nil
}

// envelope is the uniform response wrapper: {success, message, data}.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do issues one request and decodes the envelope into out (which may be nil
// for operations with no response data). Every failure mode collapses into a
// *Fault per the client's error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	reqID := uuid.NewString()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Fault{Kind: FaultRemote, Message: "failed to encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Fault{Kind: FaultRemote, Message: "failed to build request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("req", reqID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &Fault{Kind: FaultRemote, Message: "could not reach the server", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Fault{Kind: FaultRemote, Message: "failed to read response", Err: err}
	}

	c.log.Debug("request complete",
		zap.String("req", reqID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body (proxy error page, etc.) is a remote fault too.
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 400 {
			return &Fault{Kind: FaultRemote, Message: "malformed server response", Status: resp.StatusCode, Err: err}
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		msg := env.Message
		if msg == "" {
			msg = "session expired, please sign in again"
		}
		return &Fault{Kind: FaultAuth, Message: msg, Status: resp.StatusCode}
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("server returned status %d", resp.StatusCode)
		}
		return &Fault{Kind: FaultRemote, Message: msg, Status: resp.StatusCode}
	}

	c.jar.save()

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Fault{Kind: FaultRemote, Message: "malformed response payload", Status: resp.StatusCode, Err: err}
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

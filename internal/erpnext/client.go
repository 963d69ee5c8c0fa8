// Package erpnext is a client for the ERPNext (Frappe) REST API.
//
// Each method issues one HTTP call, unwraps the success payload to its
// business-data shape and, on failure, returns an *Error whose message is
// the normalized diagnostic produced by package errnorm.
package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/roivaz/erpnext-mcp/internal/errnorm"
	"github.com/roivaz/erpnext-mcp/internal/logging"
)

// DefaultTimeout bounds every outbound call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// ErrMissingBaseURL is returned by NewClient when no base URL is configured.
var ErrMissingBaseURL = errors.New("erpnext: base URL is required")

// Config holds the resolved connection settings for a Client.
type Config struct {
	// BaseURL is the ERPNext site address, e.g. "https://erp.example.com".
	BaseURL string
	// APIKey and APISecret enable token authentication when both are set.
	APIKey    string
	APISecret string
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient supplies the base transport. Optional.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client talks to one ERPNext site. It is safe for concurrent use; the only
// state that changes after construction is the authenticated flag, set once
// by a successful Login.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	log           logging.Logger
	authenticated atomic.Bool
}

// NewClient validates cfg and builds a Client. With an API key pair the
// client is authenticated from the start and sends a static token header on
// every request; otherwise it keeps the session cookie established by Login.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("erpnext: invalid base URL %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient, err := newHTTPClient(cfg, timeout)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		log:        logging.New(cfg.Logger.Logr()).WithName("erpnext"),
	}
	if hasTokenAuth(cfg) {
		c.authenticated.Store(true)
	}
	return c, nil
}

func hasTokenAuth(cfg Config) bool {
	return cfg.APIKey != "" && cfg.APISecret != ""
}

func newHTTPClient(cfg Config, timeout time.Duration) (*http.Client, error) {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}

	var client *http.Client
	if hasTokenAuth(cfg) {
		// Frappe expects "Authorization: token <key>:<secret>".
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.APIKey + ":" + cfg.APISecret,
			TokenType:   "token",
		})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		client = oauth2.NewClient(ctx, ts)
	} else {
		copied := *base
		client = &copied
	}

	client.Timeout = timeout
	if base.Jar != nil {
		client.Jar = base.Jar
	} else {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("erpnext: create cookie jar: %w", err)
		}
		client.Jar = jar
	}
	return client, nil
}

// BaseURL returns the normalized site address.
func (c *Client) BaseURL() string { return c.baseURL }

// IsAuthenticated reports whether the client holds static credentials or has
// completed a successful Login.
func (c *Client) IsAuthenticated() bool { return c.authenticated.Load() }

// do performs one request. It returns the raw body for 2xx responses and an
// *Error labelled with op otherwise.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, newError(op, errnorm.Context{Err: fmt.Errorf("encode request body: %w", err)})
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, newError(op, errnorm.Context{Err: err})
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithValues("request_id", uuid.NewString(), "method", method, "path", path)
	if c.log.DebugEnabled() {
		log.Debug("erpnext request", "query", query.Encode(), "body", redactBody(encoded))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = c.annotateTransportError(err)
		log.Debug("erpnext request failed", "error", err.Error(), "elapsed", time.Since(start).String())
		return nil, newError(op, errnorm.Context{Err: err})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(op, errnorm.Context{Status: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)})
	}
	log.Debug("erpnext response", "status", resp.StatusCode, "body", string(respBody), "elapsed", time.Since(start).String())

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, newError(op, errnorm.Context{Status: resp.StatusCode, Body: respBody})
}

// fetch performs a request and decodes the envelope field key ("data" or
// "message") of the response into out.
func (c *Client) fetch(ctx context.Context, op, method, path string, query url.Values, body any, key string, out any) error {
	raw, err := c.do(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	if err := decodeInto(gjson.GetBytes(raw, key).Raw, out); err != nil {
		return newError(op, errnorm.Context{Err: fmt.Errorf("decode response %s: %w", key, err)})
	}
	return nil
}

// fetchValue is fetch for endpoints whose envelope field may be absent or of
// any JSON type. A missing field yields nil.
func (c *Client) fetchValue(ctx context.Context, op, method, path string, query url.Values, body any, key string) (any, error) {
	raw, err := c.do(ctx, op, method, path, query, body)
	if err != nil {
		return nil, err
	}
	field := gjson.GetBytes(raw, key)
	if !field.Exists() {
		return nil, nil
	}
	var out any
	if err := decodeInto(field.Raw, &out); err != nil {
		return nil, newError(op, errnorm.Context{Err: fmt.Errorf("decode response %s: %w", key, err)})
	}
	return out, nil
}

func (c *Client) annotateTransportError(err error) error {
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
		return fmt.Errorf("timeout of %dms exceeded: %w", c.timeout.Milliseconds(), err)
	}
	return err
}

// secretKeys are top-level request body keys whose values never reach the
// verbose log.
var secretKeys = []string{"pwd", "password", "new_password", "old_password", "api_secret"}

const redacted = "********"

func redactBody(body []byte) string {
	var fields map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &fields) != nil {
		return string(body)
	}
	masked := false
	for _, key := range secretKeys {
		if _, ok := fields[key]; ok {
			fields[key] = json.RawMessage(`"` + redacted + `"`)
			masked = true
		}
	}
	if !masked {
		return string(body)
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return "<redacted>"
	}
	return string(out)
}

func resourcePath(doctype string, name ...string) string {
	path := "/api/resource/" + url.PathEscape(doctype)
	for _, n := range name {
		path += "/" + url.PathEscape(n)
	}
	return path
}

func methodPath(method string) string {
	return "/api/method/" + method
}

func encodeJSONParam(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/ewcportal/internal/urls"
	"github.com/muurk/ewcportal/internal/version"
)

const (
	// DefaultUsername is the HTTP Basic Auth user the firmware ships with
	DefaultUsername = "admin"

	// DefaultPassword is the firmware's default (empty) Basic Auth password
	DefaultPassword = ""

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultPort is the config server port
	DefaultPort = 80

	// maxBodySize bounds how much of a response is read; device payloads are small
	maxBodySize = 1 << 20
)

// Client talks to one device's config server.
// It performs exactly the requests it is asked to make: there are no retries
// here, the portal scheduler and poll controllers own the request policy.
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.4.1")
	BaseURL string

	// Username for HTTP Basic Auth. Auth is only sent when Username is set.
	Username string

	// Password for HTTP Basic Auth
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the device at host:port.
func NewClient(host string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewClientWithURL creates a client from a full base URL.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: DefaultUsername,
		Password: DefaultPassword,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
			// Actions answer with 302 to an HTML page; the redirect itself is the success signal.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets custom HTTP Basic Auth credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// Fetch performs a GET for uri and returns the raw body.
// Every request carries no-cache directives so intermediate caches never
// serve a stale poll result.
func (c *Client) Fetch(ctx context.Context, uri string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, uri, nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(uri, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError(uri, "failed to read response body", err)
	}
	return body, nil
}

// FetchJSON performs a GET and returns the body as a validated JSON document.
func (c *Client) FetchJSON(ctx context.Context, uri string) (json.RawMessage, error) {
	body, err := c.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	cleaned, err := CleanJSONResponse(body)
	if err != nil {
		return nil, NewParseError(uri, "response is not JSON", err)
	}
	if !json.Valid(cleaned) {
		return nil, NewParseError(uri, "malformed JSON document", nil)
	}
	return json.RawMessage(cleaned), nil
}

// Connect asks the device to join the given network. Progress is observed
// through /wifi/state.json.
func (c *Client) Connect(ctx context.Context, creds *Credentials) error {
	if creds == nil || creds.SSID == "" {
		return fmt.Errorf("connect: ssid is required")
	}
	form := creds.ToFormData().Encode()
	return c.action(ctx, http.MethodPost, urls.WiFiSave, strings.NewReader(form), "application/x-www-form-urlencoded")
}

// Disconnect drops the device's station connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.action(ctx, http.MethodGet, urls.WiFiDisconnect, nil, "")
}

// Restart reboots the device. The connection may drop before a response arrives.
func (c *Client) Restart(ctx context.Context) error {
	return c.action(ctx, http.MethodGet, urls.Restart, nil, "")
}

// action accepts any 2xx or 3xx answer.
func (c *Client) action(ctx context.Context, method, uri string, body io.Reader, contentType string) error {
	resp, err := c.do(ctx, method, uri, body, contentType)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return NewHTTPError(uri, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, uri string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+uri, body)
	if err != nil {
		return nil, NewNetworkError(uri, "failed to create request", err)
	}

	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", version.UserAgent())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(uri, method+" request failed", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		return nil, NewAuthError(uri)
	}
	return resp, nil
}

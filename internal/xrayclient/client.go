// Package xrayclient talks to the Xray cloud REST and GraphQL APIs.
package xrayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/robotomize/xrayctl/internal/xray"
)

const (
	// DefaultBaseURL is the Xray cloud host.
	DefaultBaseURL = "https://xray.cloud.getxray.app"

	apiPath     = "/api/v2"
	graphQLPath = apiPath + "/graphql"
)

// ErrUnauthenticated is returned by calls made before Authenticate succeeded.
var ErrUnauthenticated = errors.New("xray client is not authenticated")

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// Authenticate exchanges the API key pair for a bearer token used by every
// later call of the client.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) error {
	const op = "xray authenticate"

	body, err := json.Marshal(
		struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
		}{ClientID: clientID, ClientSecret: clientSecret},
	)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPath+"/authenticate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(op, req)
	if err != nil {
		return err
	}

	// The token comes back as a JSON string.
	var token string
	if err := json.Unmarshal(respBody, &token); err != nil {
		token = strings.Trim(strings.TrimSpace(string(respBody)), `"`)
	}

	if token == "" {
		return &xray.TransportError{Op: op, Err: errors.New("empty token in response")}
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	return nil
}

// Token returns the bearer token obtained by Authenticate.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

func (c *Client) newAuthorizedRequest(ctx context.Context, method, pth string, body io.Reader) (*http.Request, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pth, body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return req, nil
}

// do sends req and returns the body of a 2xx response. Anything else is a
// TransportError carrying the status and body.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &xray.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &xray.TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &xray.TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	return body, nil
}

func (c *Client) doJSON(op string, req *http.Request, v any) error {
	body, err := c.do(op, req)
	if err != nil {
		return err
	}

	if v == nil {
		return nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &xray.TransportError{Op: op, Body: string(body), Err: fmt.Errorf("json.Unmarshal: %w", err)}
	}

	return nil
}

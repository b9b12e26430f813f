// Package jira is a minimal Jira REST client for linking issues and updating fields.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robotomize/xrayctl/internal/xray"
)

// LinkComment is the comment attached to every issue link.
const LinkComment = "Linked related issue!"

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

type Client struct {
	baseURL    string
	basicToken string
	httpClient *http.Client
}

// New returns a client authenticating with a base64 "email:api-token" pair.
func New(baseURL, basicToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		basicToken: basicToken,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

type issueRef struct {
	Key string `json:"key"`
}

type issueLinkRequest struct {
	Type struct {
		ID string `json:"id"`
	} `json:"type"`
	InwardIssue  issueRef `json:"inwardIssue"`
	OutwardIssue issueRef `json:"outwardIssue"`
	Comment      struct {
		Body string `json:"body"`
	} `json:"comment"`
}

// LinkIssue links the test execution (inward) to the issue (outward) with the
// link type of the given id.
func (c *Client) LinkIssue(ctx context.Context, executionKey, issueKey, linkTypeID string) error {
	var body issueLinkRequest
	body.Type.ID = linkTypeID
	body.InwardIssue.Key = executionKey
	body.OutwardIssue.Key = issueKey
	body.Comment.Body = LinkComment

	return c.send(ctx, "jira link issue", http.MethodPost, "/rest/api/2/issueLink", body)
}

// SetCustomField sets a single field of an issue.
func (c *Client) SetCustomField(ctx context.Context, issueKey, fieldID, value string) error {
	body := map[string]map[string]string{
		"fields": {fieldID: value},
	}

	return c.send(ctx, "jira set custom field", http.MethodPut, "/rest/api/3/issue/"+url.PathEscape(issueKey), body)
}

func (c *Client) send(ctx context.Context, op, method, pth string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pth, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.basicToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &xray.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &xray.TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &xray.TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
	}

	return nil
}

package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotomize/xrayctl/internal/xray"
)

func TestLinkIssue(t *testing.T) {
	t.Parallel()

	var got map[string]any

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/rest/api/2/issueLink", r.URL.Path)
				assert.Equal(t, "Basic dXNlcjp0b2tlbg==", r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

				w.WriteHeader(http.StatusCreated)
			},
		),
	)
	defer server.Close()

	client := New(server.URL, "dXNlcjp0b2tlbg==", WithHTTPClient(server.Client()))
	require.NoError(t, client.LinkIssue(context.Background(), "PROJ-77", "PROJ-12", "10618"))

	expected := map[string]any{
		"type":         map[string]any{"id": "10618"},
		"inwardIssue":  map[string]any{"key": "PROJ-77"},
		"outwardIssue": map[string]any{"key": "PROJ-12"},
		"comment":      map[string]any{"body": LinkComment},
	}
	assert.Equal(t, expected, got)
}

func TestSetCustomField(t *testing.T) {
	t.Parallel()

	var got map[string]any

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/rest/api/3/issue/PROJ-101", r.URL.Path)
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

				w.WriteHeader(http.StatusNoContent)
			},
		),
	)
	defer server.Close()

	client := New(server.URL+"/", "token", WithHTTPClient(server.Client()))
	require.NoError(t, client.SetCustomField(context.Background(), "PROJ-101", "customfield_10050", "Regression"))

	assert.Equal(t, map[string]any{"fields": map[string]any{"customfield_10050": "Regression"}}, got)
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
			},
		),
	)
	t.Cleanup(server.Close)

	client := New(server.URL, "token", WithHTTPClient(server.Client()))

	testCases := []struct {
		name string
		call func() error
	}{
		{
			name: "test_link_issue",
			call: func() error {
				return client.LinkIssue(context.Background(), "PROJ-77", "PROJ-404", "10618")
			},
		},
		{
			name: "test_set_custom_field",
			call: func() error {
				return client.SetCustomField(context.Background(), "PROJ-404", "customfield_1", "v")
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				var transportErr *xray.TransportError
				require.ErrorAs(t, tc.call(), &transportErr)
				assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
				assert.Contains(t, transportErr.Body, "Issue does not exist")
			},
		)
	}
}

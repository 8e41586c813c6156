package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostCommand(t *testing.T) {
	var gotPath, gotToken, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get(TokenHeader)
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.Client())
	status, err := client.PostCommand(context.Background(), server.URL+"/", "ptog-token", map[string]any{"text": "search foo"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, CommandsPath, gotPath)
	assert.Equal(t, "ptog-token", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "search foo", gotBody["text"])
}

func TestClient_PostInteraction_Path(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	status, err := NewClient(server.Client()).PostInteraction(context.Background(), server.URL, "t", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, InteractionsPath, gotPath)
}

func TestClient_PostCommand_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid token"))
	}))
	defer server.Close()

	status, err := NewClient(server.Client()).PostCommand(context.Background(), server.URL, "bad", map[string]any{})

	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, status)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "invalid token", statusErr.Body)
}

func TestClient_PostCommand_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	status, err := NewClient(nil).PostCommand(context.Background(), url, "t", map[string]any{})
	require.Error(t, err)
	assert.Zero(t, status)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

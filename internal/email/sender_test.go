package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got mailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewSender("test-key", srv.URL, "planner@example.com")
	err := sender.Send(context.Background(), "traveler@example.com", "Your travel plan", "<html></html>")

	require.NoError(t, err)
	assert.Equal(t, "planner@example.com", got.From.Email)
	require.Len(t, got.Personalizations, 1)
	require.Len(t, got.Personalizations[0].To, 1)
	assert.Equal(t, "traveler@example.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "Your travel plan", got.Subject)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/html", got.Content[0].Type)
}

func TestSend_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"bad api key"}]}`))
	}))
	defer srv.Close()

	sender := NewSender("wrong-key", srv.URL, "planner@example.com")
	err := sender.Send(context.Background(), "traveler@example.com", "subject", "body")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad api key")
}

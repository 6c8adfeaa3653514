package brevo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-ops/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	Sender struct {
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	TextContent string `json:"textContent"`
}

func TestSend_PostsTransactionalEmail(t *testing.T) {
	var got sentEmail
	var apiKey, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<1@smtp-relay>"}`))
	}))
	defer srv.Close()

	c := New(config.EmailConfig{BaseURL: srv.URL + "/", APIKey: "key-1", Sender: "alerts@example.com"})
	err := c.Send(context.Background(), "cook@example.com", "Low Stock Alert", "Flour is low")
	require.NoError(t, err)

	assert.Equal(t, "key-1", apiKey)
	assert.Equal(t, "/v3/smtp/email", path)
	assert.Equal(t, "alerts@example.com", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "cook@example.com", got.To[0].Email)
	assert.Equal(t, "Low Stock Alert", got.Subject)
	assert.Equal(t, "Flour is low", got.TextContent)
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"invalid_parameter","message":"email is not valid"}`))
	}))
	defer srv.Close()

	c := New(config.EmailConfig{BaseURL: srv.URL, APIKey: "key-1", Sender: "alerts@example.com"})
	err := c.Send(context.Background(), "not-an-address", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "email is not valid")
}

func TestSend_RequiresCredentials(t *testing.T) {
	c := New(config.EmailConfig{BaseURL: "http://127.0.0.1:1"})
	assert.Error(t, c.Send(context.Background(), "cook@example.com", "s", "b"))
}

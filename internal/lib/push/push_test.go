package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsExpoPayload(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewClient(srv.URL, "secret", &logger)

	err := client.Send(context.Background(), Message{
		To:    "ExponentPushToken[abc]",
		Title: "📚 Yeni Hikaye!",
		Body:  "Yeni bir hikaye eklendi.",
		Data:  map[string]any{"route": "/stories"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "ExponentPushToken[abc]", got["to"])
	assert.Equal(t, "📚 Yeni Hikaye!", got["title"])
	assert.Equal(t, "default", got["sound"])
	assert.Equal(t, "high", got["priority"])
	assert.Equal(t, "default", got["channelId"])
	assert.Equal(t, map[string]any{"route": "/stories"}, got["data"])
}

func TestSendWithoutAccessTokenOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	require.NoError(t, NewClient(srv.URL, "", &logger).Send(context.Background(), Message{To: "t"}))
}

func TestSendReportsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusBadRequest)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	err := NewClient(srv.URL, "", &logger).Send(context.Background(), Message{To: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "bad token")
}

func TestSendRequiresRecipient(t *testing.T) {
	logger := zerolog.Nop()
	err := NewClient("http://127.0.0.1:1", "", &logger).Send(context.Background(), Message{})
	assert.Error(t, err)
}

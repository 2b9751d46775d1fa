package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestOpenAIBackend_Summarize(t *testing.T) {
	t.Run("should send the fixed sampling parameters and return the completion", func(t *testing.T) {
		var gotReq chatRequest
		var gotPath, gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices": [{"message": {"content": "the summary"}}]}`))
		}))
		defer server.Close()

		backend := NewOpenAIBackend("test-key", server.URL, "gpt-4o-mini", zap.NewNop())
		summary, err := backend.Summarize(context.Background(), "full transcript text")

		assert.NoError(t, err)
		assert.Equal(t, "the summary", summary)
		assert.Equal(t, "/v1/chat/completions", gotPath)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.Equal(t, "gpt-4o-mini", gotReq.Model)
		// Sampling parameters are part of the contract, not configuration
		assert.Equal(t, 0.7, gotReq.Temperature)
		assert.Equal(t, 1500, gotReq.MaxTokens)
		assert.Len(t, gotReq.Messages, 1)
		assert.Equal(t, "user", gotReq.Messages[0].Role)
		assert.Contains(t, gotReq.Messages[0].Content, "full transcript text")
	})

	t.Run("should return an error for a non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "bad request"}`, http.StatusBadRequest)
		}))
		defer server.Close()

		backend := NewOpenAIBackend("test-key", server.URL, "gpt-4o-mini", zap.NewNop())
		_, err := backend.Summarize(context.Background(), "transcript")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("should return an error when no choices are returned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		backend := NewOpenAIBackend("test-key", server.URL, "gpt-4o-mini", zap.NewNop())
		_, err := backend.Summarize(context.Background(), "transcript")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completionServer answers every chat completion with the given content
// and hands the decoded request body to inspect.
func completionServer(t *testing.T, content string, inspect func(map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if inspect != nil {
			inspect(body)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 1, "total_tokens": 11},
		})
	}))
}

func TestClient_Complete(t *testing.T) {
	var request map[string]any
	srv := completionServer(t, "STEM", func(body map[string]any) { request = body })
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v1", "test-model", time.Second)
	answer, err := client.Complete(context.Background(), "system prompt", "CSCI 104", false)

	require.NoError(t, err)
	assert.Equal(t, "STEM", answer)
	assert.Equal(t, "test-model", request["model"])
	assert.NotContains(t, request, "response_format")

	messages := request["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "CSCI 104", messages[1].(map[string]any)["content"])
}

func TestClient_Complete_JSONFormat(t *testing.T) {
	var request map[string]any
	srv := completionServer(t, `{"classes":[]}`, func(body map[string]any) { request = body })
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v1", "test-model", time.Second)
	_, err := client.Complete(context.Background(), "system", "user", true)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "json_object"}, request["response_format"])
}

func TestClient_CompleteWithImage(t *testing.T) {
	var request map[string]any
	srv := completionServer(t, `{"classes":[]}`, func(body map[string]any) { request = body })
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v1", "test-model", time.Second)
	_, err := client.CompleteWithImage(context.Background(), "system", "read this", "data:image/png;base64,AAAA", true)
	require.NoError(t, err)

	messages := request["messages"].([]any)
	parts := messages[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	image := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/png;base64,AAAA", image["url"])
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v1", "test-model", time.Second)
	_, err := client.Complete(context.Background(), "system", "user", false)

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_Complete_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v1", "test-model", time.Second)
	_, err := client.Complete(context.Background(), "system", "user", false)

	assert.ErrorContains(t, err, "llm completion")
}

package llmprovider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/task-api/internal/domain/llm"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func userMessage(text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: text}}
}

func TestCompleteSendsToolsAndAuth(t *testing.T) {
	var captured map[string]any
	var apiKey string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","tool_calls":[{"id":"call_9","type":"function","function":{"name":"get_user","arguments":"{\"user_id\":7}"}}]}}]}`))
	})

	client := NewClient(Config{CompletionsURL: server.URL, APIKey: "secret", Model: "gpt-test"}, zerolog.Nop())
	result, err := client.Complete(context.Background(), llm.CompletionRequest{
		Messages: userMessage("who is user 7"),
		Tools: []openai.Tool{{Type: openai.ToolTypeFunction, Function: &openai.FunctionDefinition{
			Name:       "get_user",
			Parameters: map[string]any{"type": "object", "properties": map[string]any{}, "required": []string{}},
		}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "secret", apiKey)
	assert.Equal(t, "auto", captured["tool_choice"])
	assert.Equal(t, "gpt-test", captured["model"])
	assert.Len(t, captured["tools"], 1)

	call, ok := result.FirstToolCall()
	require.True(t, ok)
	assert.Equal(t, "call_9", call.ID)
	assert.Equal(t, `{"user_id":7}`, call.Function.Arguments)
}

func TestCompleteWithoutToolsOmitsToolChoice(t *testing.T) {
	var captured map[string]any
	var authorization string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Done."}}]}`))
	})

	client := NewClient(Config{CompletionsURL: server.URL, APIKey: "tok", AuthHeader: "Authorization"}, zerolog.Nop())
	result, err := client.Complete(context.Background(), llm.CompletionRequest{Messages: userMessage("thanks"), Stage: "followup"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", authorization)
	assert.NotContains(t, captured, "tools")
	assert.NotContains(t, captured, "tool_choice")
	assert.False(t, result.HasToolCalls())
	assert.Equal(t, "Done.", result.Message.Content)
}

func TestCompleteErrors(t *testing.T) {
	t.Run("upstream status", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"slow down"}`))
		})
		_, err := NewClient(Config{CompletionsURL: server.URL}, zerolog.Nop()).
			Complete(context.Background(), llm.CompletionRequest{Messages: userMessage("x")})

		var upstream *llm.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
		assert.Equal(t, `{"error":"slow down"}`, upstream.Body)
	})

	t.Run("missing choices", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"message":"content filtered"}}`))
		})
		_, err := NewClient(Config{CompletionsURL: server.URL}, zerolog.Nop()).
			Complete(context.Background(), llm.CompletionRequest{Messages: userMessage("x")})

		var malformed *llm.MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, `'choices' not found in response: {"error":{"message":"content filtered"}}`, err.Error())
	})

	t.Run("empty choices", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := NewClient(Config{CompletionsURL: server.URL}, zerolog.Nop()).
			Complete(context.Background(), llm.CompletionRequest{Messages: userMessage("x"), Stage: "followup"})

		var malformed *llm.MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, err.Error(), "follow-up response")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := NewClient(Config{CompletionsURL: server.URL}, zerolog.Nop()).
			Complete(ctx, llm.CompletionRequest{Messages: userMessage("x")})

		var transport *llm.TransportError
		require.ErrorAs(t, err, &transport)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

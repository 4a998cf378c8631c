// Package llm defines the chat completion contract used by the chatbot bridge.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionRequest is one chat completion call. Tools may be empty, in which
// case the model must answer in plain text.
type CompletionRequest struct {
	Messages []openai.ChatCompletionMessage
	Tools    []openai.Tool
	// Stage labels the call for metrics and logs.
	Stage string
}

// CompletionResult is the first choice's message.
type CompletionResult struct {
	Message openai.ChatCompletionMessage
}

// HasToolCalls reports whether the model asked to invoke a tool.
func (r *CompletionResult) HasToolCalls() bool {
	return r != nil && len(r.Message.ToolCalls) > 0
}

// FirstToolCall returns the first requested tool call. Later calls in the same
// turn are ignored.
func (r *CompletionResult) FirstToolCall() (openai.ToolCall, bool) {
	if !r.HasToolCalls() {
		return openai.ToolCall{}, false
	}
	return r.Message.ToolCalls[0], true
}

// Provider sends chat completion requests to a remote endpoint.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// TransportError means the HTTP exchange itself failed or timed out.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError means the completion endpoint answered with a non-200 status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Request failed: %d, %s", e.StatusCode, e.Body)
}

// MalformedResponseError means the response body lacked the expected fields.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return e.Reason
}

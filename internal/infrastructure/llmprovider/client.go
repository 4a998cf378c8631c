package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/janhq/task-api/internal/domain/llm"
	"github.com/janhq/task-api/internal/infrastructure/metrics"
	"github.com/janhq/task-api/internal/infrastructure/observability"
)

// Config describes how to reach the completion endpoint.
type Config struct {
	CompletionsURL string
	APIKey         string
	// AuthHeader is the header carrying APIKey; "Authorization" sends a bearer token.
	AuthHeader string
	Model      string
}

// Client implements llm.Provider against an OpenAI compatible chat completions URL.
type Client struct {
	httpClient *resty.Client
	cfg        Config
	log        zerolog.Logger
}

// chatRequest is the wire payload. tool_choice is only sent alongside tools.
type chatRequest struct {
	Model      string                         `json:"model,omitempty"`
	Messages   []openai.ChatCompletionMessage `json:"messages"`
	Tools      []openai.Tool                  `json:"tools,omitempty"`
	ToolChoice string                         `json:"tool_choice,omitempty"`
}

// NewClient creates a Resty-backed client. Per-call deadlines come from the context.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)

	if cfg.APIKey != "" {
		header := cfg.AuthHeader
		if header == "" {
			header = "api-key"
		}
		if strings.EqualFold(header, "Authorization") {
			client.SetAuthToken(cfg.APIKey)
		} else {
			client.SetHeader(header, cfg.APIKey)
		}
	}

	return &Client{
		httpClient: client,
		cfg:        cfg,
		log:        log.With().Str("component", "llm-client").Logger(),
	}
}

// Complete posts one chat completion request and returns the first choice.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
	stage := req.Stage
	if stage == "" {
		stage = "completion"
	}
	ctx, span := observability.StartStageSpan(ctx, "llm."+stage)
	defer span.End()

	payload := chatRequest{
		Model:    c.cfg.Model,
		Messages: req.Messages,
	}
	if len(req.Tools) > 0 {
		payload.Tools = req.Tools
		payload.ToolChoice = "auto"
	}

	started := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.cfg.CompletionsURL)
	metrics.CompletionDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.CompletionCallsTotal.WithLabelValues(stage, "transport_error").Inc()
		observability.RecordError(span, err)
		c.log.Error().Err(err).Str("stage", stage).Msg("completion request failed")
		return nil, &llm.TransportError{Err: err}
	}
	metrics.CompletionCallsTotal.WithLabelValues(stage, strconv.Itoa(resp.StatusCode())).Inc()

	if resp.StatusCode() != http.StatusOK {
		upstream := &llm.UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
		observability.RecordError(span, upstream)
		c.log.Warn().Int("status", resp.StatusCode()).Str("stage", stage).Msg("completion endpoint returned error")
		return nil, upstream
	}

	return parseCompletion(resp.Body(), stage)
}

func parseCompletion(body []byte, stage string) (*llm.CompletionResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &llm.MalformedResponseError{Reason: "invalid completion response: " + err.Error()}
	}
	if _, ok := envelope["choices"]; !ok {
		return nil, &llm.MalformedResponseError{Reason: choicesMissing(stage, body)}
	}

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, &llm.MalformedResponseError{Reason: "invalid completion response: " + err.Error()}
	}
	if len(completion.Choices) == 0 {
		return nil, &llm.MalformedResponseError{Reason: choicesMissing(stage, body)}
	}
	return &llm.CompletionResult{Message: completion.Choices[0].Message}, nil
}

func choicesMissing(stage string, body []byte) string {
	where := "response"
	if stage == "followup" {
		where = "follow-up response"
	}
	return "'choices' not found in " + where + ": " + string(bytes.TrimSpace(body))
}

var _ llm.Provider = (*Client)(nil)

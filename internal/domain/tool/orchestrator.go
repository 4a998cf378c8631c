package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/task-api/internal/domain/apispec"
	"github.com/janhq/task-api/internal/domain/llm"
)

const tracerName = "github.com/janhq/task-api/tool"

// Reply is the chatbot envelope. Exactly one of Response or Error is meaningful.
type Reply struct {
	Response string
	Error    string
}

// Failed reports whether the reply carries an error.
func (r Reply) Failed() bool {
	return r.Error != ""
}

// MarshalJSON renders {"error": ...} for failures and {"response": ...} otherwise,
// keeping an empty response as an explicit empty string.
func (r Reply) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	return json.Marshal(map[string]string{"response": r.Response})
}

// Timeouts bounds each outbound stage of a conversation.
type Timeouts struct {
	Completion time.Duration
	Followup   time.Duration
	Dispatch   time.Duration
}

// Orchestrator runs one chatbot turn: completion, optional dispatch, follow-up completion.
type Orchestrator struct {
	source     apispec.Source
	provider   llm.Provider
	dispatcher *Dispatcher
	timeouts   Timeouts
	log        zerolog.Logger
}

// NewOrchestrator wires the chatbot pipeline.
func NewOrchestrator(source apispec.Source, provider llm.Provider, dispatcher *Dispatcher, timeouts Timeouts, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		source:     source,
		provider:   provider,
		dispatcher: dispatcher,
		timeouts:   timeouts,
		log:        log.With().Str("component", "chatbot-orchestrator").Logger(),
	}
}

// Converse answers userInput. Every failure is reported inside the Reply.
func (o *Orchestrator) Converse(ctx context.Context, userInput string) Reply {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "chatbot.converse", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	answer, err := o.converse(ctx, userInput)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Error().Err(err).Msg("chatbot turn failed")
		return Reply{Error: err.Error()}
	}
	return Reply{Response: answer}
}

func (o *Orchestrator) converse(ctx context.Context, userInput string) (string, error) {
	descriptors, err := o.source.Descriptors(ctx)
	if err != nil {
		return "", &DescriptorError{Err: err}
	}
	tools := BuildManifest(descriptors)
	o.log.Debug().Int("tools", len(tools)).Msg("tool manifest built")

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userInput},
	}

	first, err := o.complete(ctx, "completion", o.timeouts.Completion, llm.CompletionRequest{
		Messages: messages,
		Tools:    tools,
		Stage:    "completion",
	})
	if err != nil {
		return "", err
	}

	call, ok := first.FirstToolCall()
	if !ok {
		return first.Message.Content, nil
	}
	operationID := call.Function.Name

	args, err := parseArguments(operationID, call.Function.Arguments)
	if err != nil {
		return "", err
	}
	o.log.Info().Str("operation_id", operationID).Msg("model requested tool")

	result, err := o.dispatch(ctx, descriptors, operationID, args)
	if err != nil {
		return "", err
	}

	toolContent, err := json.Marshal(result.Body)
	if err != nil {
		return "", &DispatchError{OperationID: operationID, Err: fmt.Errorf("encode tool result: %w", err)}
	}

	assistant := first.Message
	assistant.ToolCalls = []openai.ToolCall{call}
	followup := append(messages,
		assistant,
		openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    string(toolContent),
			ToolCallID: call.ID,
		},
	)

	final, err := o.complete(ctx, "followup", o.timeouts.Followup, llm.CompletionRequest{Messages: followup, Stage: "followup"})
	if err != nil {
		return "", &FollowupError{Err: err}
	}
	return final.Message.Content, nil
}

func (o *Orchestrator) complete(ctx context.Context, stage string, timeout time.Duration, req llm.CompletionRequest) (*llm.CompletionResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "chatbot."+stage,
		trace.WithAttributes(attribute.Int("tools", len(req.Tools)), attribute.Int("messages", len(req.Messages))))
	defer span.End()

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	result, err := o.provider.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, descriptors []apispec.EndpointDescriptor, operationID string, args map[string]any) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "chatbot.dispatch",
		trace.WithAttributes(attribute.String("operation_id", operationID)))
	defer span.End()

	ctx, cancel := withTimeout(ctx, o.timeouts.Dispatch)
	defer cancel()

	result, err := o.dispatcher.Dispatch(ctx, descriptors, operationID, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", result.StatusCode))
	return result, nil
}

func parseArguments(operationID, raw string) (map[string]any, error) {
	var args map[string]any
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&args); err != nil {
		return nil, &MalformedArgumentsError{OperationID: operationID, Err: err}
	}
	if args == nil {
		return nil, &MalformedArgumentsError{OperationID: operationID, Err: errors.New("arguments must be a JSON object")}
	}
	return args, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

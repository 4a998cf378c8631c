package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/janhq/task-api/internal/domain/tool"
	"github.com/janhq/task-api/internal/infrastructure/metrics"
	"github.com/janhq/task-api/internal/interfaces/httpserver/requests"
)

// Chatbot answers one free-text instruction.
type Chatbot interface {
	Converse(ctx context.Context, userInput string) tool.Reply
}

// ChatbotHandler runs chatbot turns detached from the caller's connection.
type ChatbotHandler struct {
	chatbot  Chatbot
	validate *validator.Validate
	log      zerolog.Logger
}

func NewChatbotHandler(chatbot Chatbot, validate *validator.Validate, log zerolog.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		chatbot:  chatbot,
		validate: validate,
		log:      log.With().Str("component", "chatbot-handler").Logger(),
	}
}

// Ask runs one turn. Outbound calls keep running when the caller disconnects;
// each stage is still bounded by its own timeout. Only an invalid request
// returns an error; pipeline failures are reported inside the Reply.
func (h *ChatbotHandler) Ask(ctx context.Context, req requests.ChatbotRequest) (tool.Reply, error) {
	if err := h.validate.Struct(req); err != nil {
		return tool.Reply{}, validationError(ctx, err)
	}

	start := time.Now()
	reply := h.chatbot.Converse(context.WithoutCancel(ctx), req.UserInput)

	outcome := "answered"
	if reply.Failed() {
		outcome = "error"
	}
	metrics.ChatbotRequestsTotal.WithLabelValues(outcome).Inc()
	h.log.Debug().Str("outcome", outcome).Dur("latency", time.Since(start)).Msg("chatbot turn finished")
	return reply, nil
}

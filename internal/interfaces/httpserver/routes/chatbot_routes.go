package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/task-api/internal/infrastructure/openapispec"
	"github.com/janhq/task-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/task-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/task-api/internal/interfaces/httpserver/responses"
)

// The chatbot routes carry no operation id, so the assistant can never call itself.
func registerChatbotRoutes(r *Registrar, handler *handlers.ChatbotHandler) {
	for _, path := range []string{"/chatbot/", "/chatbot_gpt/"} {
		r.Handle(openapispec.Route{
			Method:      http.MethodPost,
			Path:        path,
			Summary:     "Ask the assistant",
			Description: "Send a natural language instruction. The assistant may call one user or task operation and summarizes the result.",
			Tags:        []string{"chatbot"},
			Body:        requests.ChatbotRequest{},
		}, askChatbot(handler))
	}
}

func askChatbot(handler *handlers.ChatbotHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.ChatbotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, err)
			return
		}
		reply, err := handler.Ask(c.Request.Context(), req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.ChatbotResponse{Response: reply})
	}
}

package requests

// ChatbotRequest carries one free-text instruction for the assistant.
type ChatbotRequest struct {
	UserInput string `json:"user_input" validate:"required" jsonschema:"description=Natural language instruction for the assistant."`
}

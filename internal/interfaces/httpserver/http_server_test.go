package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/janhq/task-api/internal/config"
	"github.com/janhq/task-api/internal/domain/llm"
	taskdomain "github.com/janhq/task-api/internal/domain/task"
	"github.com/janhq/task-api/internal/domain/tool"
	userdomain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/infrastructure/loopback"
	"github.com/janhq/task-api/internal/infrastructure/openapispec"
	taskrepo "github.com/janhq/task-api/internal/infrastructure/repository/task"
	userrepo "github.com/janhq/task-api/internal/infrastructure/repository/user"
	"github.com/janhq/task-api/internal/infrastructure/security"
	"github.com/janhq/task-api/internal/interfaces/httpserver"
	"github.com/janhq/task-api/internal/interfaces/httpserver/responses"
)

type completionStep func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error)

type scriptedProvider struct {
	mu       sync.Mutex
	steps    []completionStep
	requests []llm.CompletionRequest
}

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
	p.mu.Lock()
	idx := len(p.requests)
	p.requests = append(p.requests, req)
	var step completionStep
	if idx < len(p.steps) {
		step = p.steps[idx]
	}
	p.mu.Unlock()

	if step == nil {
		return nil, errors.New("unexpected completion call")
	}
	return step(ctx, req)
}

func (p *scriptedProvider) recorded() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.requests...)
}

func answer(content string) completionStep {
	return func(context.Context, llm.CompletionRequest) (*llm.CompletionResult, error) {
		return &llm.CompletionResult{Message: openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: content,
		}}, nil
	}
}

func callTool(name, arguments string) completionStep {
	return func(context.Context, llm.CompletionRequest) (*llm.CompletionResult, error) {
		return &llm.CompletionResult{Message: openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{{
				ID:   "call_1",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      name,
					Arguments: arguments,
				},
			}},
		}}, nil
	}
}

type harness struct {
	server   *httpserver.HttpServer
	provider *scriptedProvider
}

func newHarness(t *testing.T, completionTimeout time.Duration, steps ...completionStep) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServiceName:        "task-api-test",
		Environment:        "test",
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    time.Second,
	}
	log := zerolog.Nop()

	users := userrepo.NewInMemoryRepository()
	tasks := taskrepo.NewInMemoryRepository(users)
	users.OnDelete(tasks.DeleteByUser)

	userService := userdomain.NewService(users, security.NewBcryptHasher(bcrypt.MinCost), log)
	taskService := taskdomain.NewService(tasks, users, log)

	catalog := openapispec.NewBuilder("User & Task Management API", "1.0.0")
	var srv *httpserver.HttpServer
	transport := loopback.NewHandlerTransport(func() http.Handler {
		if srv == nil {
			return nil
		}
		return srv.Handler()
	})

	provider := &scriptedProvider{steps: steps}
	orchestrator := tool.NewOrchestrator(
		openapispec.NewLocalSource(catalog),
		provider,
		tool.NewDispatcher(transport, log),
		tool.Timeouts{Completion: completionTimeout, Followup: time.Second, Dispatch: time.Second},
		log,
	)
	srv = httpserver.New(cfg, log, userService, taskService, orchestrator, catalog)

	return &harness{server: srv, provider: provider}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func alice() map[string]any {
	return map[string]any{
		"username":   "alice",
		"email":      "alice@example.com",
		"first_name": "Alice",
		"last_name":  "Liddell",
		"phone_num":  "555-0101",
		"password":   "wonderland",
	}
}

func TestUserRoutes_Lifecycle(t *testing.T) {
	h := newHarness(t, time.Second)

	w := h.do(t, http.MethodPost, "/users/", alice())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[responses.User](t, w)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.NotContains(t, w.Body.String(), "password")

	dup := alice()
	dup["username"] = "alice2"
	w = h.do(t, http.MethodPost, "/users/", dup)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username or email already exists", decode[responses.ErrorResponse](t, w).Detail)

	w = h.do(t, http.MethodPost, "/users/", map[string]any{"username": "bob"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(t, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[responses.UserList](t, w).Total)

	w = h.do(t, http.MethodGet, "/users?name=ALI", nil)
	assert.Len(t, decode[responses.UserList](t, w).Users, 1)

	w = h.do(t, http.MethodGet, "/users?email_add=nobody", nil)
	assert.JSONEq(t, `{"total":0,"users":[]}`, w.Body.String())

	w = h.do(t, http.MethodPut, "/users/1", map[string]any{"first_name": "Alicia"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[responses.User](t, w)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "alice", updated.Username)

	w = h.do(t, http.MethodGet, "/users/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(t, http.MethodDelete, "/users/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully.", decode[responses.DetailResponse](t, w).Detail)

	w = h.do(t, http.MethodGet, "/users/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode[responses.ErrorResponse](t, w).Detail)

	w = h.do(t, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskRoutes_Lifecycle(t *testing.T) {
	h := newHarness(t, time.Second)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/users/", alice()).Code)

	w := h.do(t, http.MethodPost, "/tasks/", map[string]any{
		"title": "Orphan", "content": "", "user_id": 99, "is_completed": false,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User (owner) not found for given user_id", decode[responses.ErrorResponse](t, w).Detail)

	w = h.do(t, http.MethodPost, "/tasks/", map[string]any{"title": "No flag", "content": "x", "user_id": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(t, http.MethodPost, "/tasks/", map[string]any{
		"title": "Buy milk", "content": "2 liters", "user_id": 1, "is_completed": false,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	milk := decode[responses.Task](t, w)
	assert.False(t, milk.IsCompleted)

	w = h.do(t, http.MethodPost, "/tasks/", map[string]any{
		"title": "File taxes", "content": "before april", "user_id": 1, "is_completed": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?is_completed=false", 1},
		{"?is_completed=true", 1},
		{"?user_id=1", 2},
		{"?user_id=2", 0},
		{"?name=ALI", 2},
		{"?task_title=MILK", 1},
		{"?task_content=april", 1},
	}
	for _, tt := range tests {
		t.Run("list"+tt.query, func(t *testing.T) {
			w := h.do(t, http.MethodGet, "/tasks"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]responses.Task](t, w), tt.want)
		})
	}

	w = h.do(t, http.MethodPut, "/tasks/1", map[string]any{"is_completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[responses.Task](t, w)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Buy milk", updated.Title)

	w = h.do(t, http.MethodGet, "/tasks/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", decode[responses.ErrorResponse](t, w).Detail)

	w = h.do(t, http.MethodDelete, "/tasks/2", nil)
	assert.Equal(t, "Task deleted successfully.", decode[responses.DetailResponse](t, w).Detail)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodDelete, "/users/1", nil).Code)
	w = h.do(t, http.MethodGet, "/tasks", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestOpenAPIDocumentDrivesManifest(t *testing.T) {
	h := newHarness(t, time.Second)

	w := h.do(t, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := openapi3.NewLoader().LoadFromData(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "User & Task Management API", doc.Info.Title)

	tools := tool.BuildManifest(openapispec.ToDescriptors(doc))
	names := make([]string, 0, len(tools))
	for _, tl := range tools {
		names = append(names, tl.Function.Name)
	}
	assert.Equal(t, []string{
		"create_user", "list_users", "get_user", "update_user", "delete_user",
		"create_task", "list_tasks", "get_task", "update_task", "delete_task",
	}, names)

	createTask := tools[5].Function.Parameters.(map[string]any)
	assert.ElementsMatch(t, []string{"title", "content", "user_id", "is_completed"}, createTask["required"])
	props := createTask["properties"].(map[string]any)
	assert.Equal(t, "boolean", props["is_completed"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["user_id"].(map[string]any)["type"])

	listTasks := tools[6].Function.Parameters.(map[string]any)
	assert.Empty(t, listTasks["required"])

	w = h.do(t, http.MethodGet, "/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

type chatbotEnvelope struct {
	Response struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	} `json:"response"`
}

func TestChatbotRoute_CreatesTaskThroughTool(t *testing.T) {
	var toolMessage openai.ChatCompletionMessage
	h := newHarness(t, time.Second,
		callTool("create_task", `{"title":"Buy milk","content":"2 liters","user_id":1,"is_completed":false}`),
		func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
			toolMessage = req.Messages[len(req.Messages)-1]
			return answer("Task <b>Buy milk</b> created.")(ctx, req)
		},
	)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/users/", alice()).Code)

	w := h.do(t, http.MethodPost, "/chatbot/", map[string]any{"user_input": "Remind alice to buy 2 liters of milk"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[chatbotEnvelope](t, w)
	assert.Equal(t, "Task <b>Buy milk</b> created.", body.Response.Response)
	assert.Empty(t, body.Response.Error)

	assert.Equal(t, openai.ChatMessageRoleTool, toolMessage.Role)
	assert.Equal(t, "call_1", toolMessage.ToolCallID)
	assert.Contains(t, toolMessage.Content, `"title":"Buy milk"`)

	w = h.do(t, http.MethodGet, "/tasks?name=alice", nil)
	listed := decode[[]responses.Task](t, w)
	require.Len(t, listed, 1)
	assert.Equal(t, "2 liters", listed[0].Content)

	requests := h.provider.recorded()
	require.Len(t, requests, 2)
	assert.Len(t, requests[0].Tools, 10)
	assert.Empty(t, requests[1].Tools)
}

func TestChatbotRoute_ForwardsErrorBodies(t *testing.T) {
	var toolContent string
	h := newHarness(t, time.Second,
		callTool("get_task", `{"task_id":999}`),
		func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
			toolContent = req.Messages[len(req.Messages)-1].Content
			return answer("That task does not exist.")(ctx, req)
		},
	)

	w := h.do(t, http.MethodPost, "/chatbot_gpt/", map[string]any{"user_input": "show task 999"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "That task does not exist.", decode[chatbotEnvelope](t, w).Response.Response)
	assert.JSONEq(t, `{"detail":"Task not found"}`, toolContent)
}

func TestChatbotRoute_DirectAnswer(t *testing.T) {
	h := newHarness(t, time.Second, answer("Hello! How can I help?"))

	w := h.do(t, http.MethodPost, "/chatbot/", map[string]any{"user_input": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":{"response":"Hello! How can I help?"}}`, w.Body.String())
	assert.Len(t, h.provider.recorded(), 1)
}

func TestChatbotRoute_CompletionTimeoutIsReported(t *testing.T) {
	h := newHarness(t, 20*time.Millisecond,
		func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
			<-ctx.Done()
			return nil, &llm.TransportError{Err: ctx.Err()}
		},
	)

	w := h.do(t, http.MethodPost, "/chatbot/", map[string]any{"user_input": "list my tasks"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[chatbotEnvelope](t, w)
	assert.Empty(t, body.Response.Response)
	assert.Contains(t, body.Response.Error, "deadline exceeded")
	assert.NotContains(t, w.Body.String(), `"response":{"response"`)
}

func TestChatbotRoute_UnknownOperation(t *testing.T) {
	h := newHarness(t, time.Second, callTool("drop_database", `{}`))

	w := h.do(t, http.MethodPost, "/chatbot/", map[string]any{"user_input": "drop everything"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No endpoint found for operationId: drop_database", decode[chatbotEnvelope](t, w).Response.Error)
}

func TestChatbotRoute_RequiresInput(t *testing.T) {
	h := newHarness(t, time.Second)

	w := h.do(t, http.MethodPost, "/chatbot/", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, h.provider.recorded())
}

func TestCoreRoutes(t *testing.T) {
	h := newHarness(t, time.Second)

	for _, path := range []string{"/", "/healthz", "/readyz", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := h.do(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness(t, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, time.Second)

	req := httptest.NewRequest(http.MethodOptions, "/users", strings.NewReader(""))
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

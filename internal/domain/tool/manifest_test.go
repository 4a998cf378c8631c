package tool

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/task-api/internal/domain/apispec"
)

func sampleDescriptors() []apispec.EndpointDescriptor {
	return []apispec.EndpointDescriptor{
		{PathTemplate: "/", Method: "GET", Summary: "Service status"},
		{
			OperationID:  "get_user",
			PathTemplate: "/users/{user_id}",
			Method:       "GET",
			Summary:      "Fetch a user by id",
			Parameters: []apispec.Parameter{
				{Name: "user_id", Type: "integer", Required: true, Description: "User id", In: apispec.InPath},
			},
		},
		{
			OperationID:  "create_task",
			PathTemplate: "/tasks/",
			Method:       "POST",
			Parameters: []apispec.Parameter{
				{Name: "title", Type: "string", Required: true, In: apispec.InBody},
				{Name: "content", Type: "string", In: apispec.InBody},
				{Name: "user_id", Type: "integer", Required: true, In: apispec.InBody},
				{Name: "is_completed", Type: "boolean", Required: true, In: apispec.InBody},
				{Name: "tags", Type: "array", In: apispec.InBody},
			},
		},
	}
}

func properties(t *testing.T, tool openai.Tool) map[string]any {
	t.Helper()
	params, ok := tool.Function.Parameters.(map[string]any)
	require.True(t, ok)
	props, ok := params["properties"].(map[string]any)
	require.True(t, ok)
	return props
}

func required(t *testing.T, tool openai.Tool) []string {
	t.Helper()
	params := tool.Function.Parameters.(map[string]any)
	req, ok := params["required"].([]string)
	require.True(t, ok)
	return req
}

func TestBuildManifestSkipsDescriptorsWithoutOperationID(t *testing.T) {
	tools := BuildManifest(sampleDescriptors())

	require.Len(t, tools, 2)
	assert.Equal(t, "get_user", tools[0].Function.Name)
	assert.Equal(t, "create_task", tools[1].Function.Name)
	for _, tool := range tools {
		assert.Equal(t, openai.ToolTypeFunction, tool.Type)
	}
}

func TestBuildManifestDefaults(t *testing.T) {
	tools := BuildManifest(sampleDescriptors())

	assert.Equal(t, "Fetch a user by id", tools[0].Function.Description)
	assert.Equal(t, "Call create_task", tools[1].Function.Description)

	props := properties(t, tools[1])
	assert.Equal(t, map[string]any{"type": "string", "description": "title parameter"}, props["title"])
	assert.Equal(t, map[string]any{"type": "boolean", "description": "is_completed parameter"}, props["is_completed"])
	assert.Equal(t, "string", props["tags"].(map[string]any)["type"])
	assert.Equal(t, "User id", properties(t, tools[0])["user_id"].(map[string]any)["description"])
}

func TestBuildManifestRequiredPreservesOrder(t *testing.T) {
	tools := BuildManifest(sampleDescriptors())

	assert.Equal(t, []string{"user_id"}, required(t, tools[0]))
	assert.Equal(t, []string{"title", "user_id", "is_completed"}, required(t, tools[1]))

	props := properties(t, tools[1])
	for _, name := range required(t, tools[1]) {
		assert.Contains(t, props, name)
	}
}

func TestBuildManifestKeepsDuplicates(t *testing.T) {
	descriptors := []apispec.EndpointDescriptor{
		{OperationID: "list_users", PathTemplate: "/users", Method: "GET"},
		{OperationID: "list_users", PathTemplate: "/v2/users", Method: "GET"},
	}

	tools := BuildManifest(descriptors)
	require.Len(t, tools, 2)
	assert.Empty(t, required(t, tools[0]))
	assert.Empty(t, properties(t, tools[0]))
}

func TestBuildManifestEmpty(t *testing.T) {
	assert.Empty(t, BuildManifest(nil))
}

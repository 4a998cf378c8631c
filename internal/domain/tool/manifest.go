package tool

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/janhq/task-api/internal/domain/apispec"
)

var supportedTypes = map[string]struct{}{
	"string":  {},
	"integer": {},
	"boolean": {},
	"number":  {},
}

// BuildManifest turns endpoint descriptors into function tools, one per
// descriptor with an operation id, in descriptor order. Duplicate ids are kept.
func BuildManifest(descriptors []apispec.EndpointDescriptor) []openai.Tool {
	tools := make([]openai.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		if d.OperationID == "" {
			continue
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.OperationID,
				Description: toolDescription(d),
				Parameters:  parameterSchema(d.Parameters),
			},
		})
	}
	return tools
}

func toolDescription(d apispec.EndpointDescriptor) string {
	if d.Summary != "" {
		return d.Summary
	}
	return fmt.Sprintf("Call %s", d.OperationID)
}

func parameterSchema(params []apispec.Parameter) map[string]any {
	properties := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			continue
		}
		properties[p.Name] = map[string]any{
			"type":        schemaType(p.Type),
			"description": parameterDescription(p),
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func schemaType(declared string) string {
	if _, ok := supportedTypes[declared]; ok {
		return declared
	}
	return "string"
}

func parameterDescription(p apispec.Parameter) string {
	if p.Description != "" {
		return p.Description
	}
	return fmt.Sprintf("%s parameter", p.Name)
}

// Package apispec describes the service's callable endpoints in a transport-neutral form.
package apispec

import "context"

// ParameterLocation says where a parameter travels in the HTTP request.
type ParameterLocation string

const (
	InPath  ParameterLocation = "path"
	InQuery ParameterLocation = "query"
	InBody  ParameterLocation = "body"
)

// Parameter is one named input of an endpoint.
type Parameter struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Required    bool              `json:"required"`
	Description string            `json:"description,omitempty"`
	In          ParameterLocation `json:"in"`
}

// EndpointDescriptor describes one callable endpoint. Entries with an empty
// OperationID are not exposed as tools.
type EndpointDescriptor struct {
	OperationID  string      `json:"operation_id,omitempty"`
	PathTemplate string      `json:"path_template"`
	Method       string      `json:"method"`
	Parameters   []Parameter `json:"parameters"`
	Summary      string      `json:"summary,omitempty"`
}

// Source yields the current descriptor set, in a stable order.
type Source interface {
	Descriptors(ctx context.Context) ([]EndpointDescriptor, error)
}

// StaticSource serves a fixed descriptor set.
type StaticSource []EndpointDescriptor

func (s StaticSource) Descriptors(context.Context) ([]EndpointDescriptor, error) {
	out := make([]EndpointDescriptor, len(s))
	copy(out, s)
	return out, nil
}

// Package openapispec builds the service's OpenAPI document and turns OpenAPI
// documents into endpoint descriptors.
package openapispec

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/invopop/jsonschema"

	"github.com/janhq/task-api/internal/domain/apispec"
)

const (
	// ExtOrder carries the registration index of an operation.
	ExtOrder = "x-order"
	// ExtPropertyOrder carries the declaration order of request body properties.
	ExtPropertyOrder = "x-property-order"
)

// Route describes one registered endpoint. Body, when set, is a request DTO
// whose JSON fields become body parameters.
type Route struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Params      []apispec.Parameter
	Body        any
	Responses   map[int]string
}

// Builder collects routes in registration order and renders them as OpenAPI 3.
type Builder struct {
	mu      sync.RWMutex
	title   string
	version string
	routes  []Route
}

// NewBuilder creates an empty catalog.
func NewBuilder(title, version string) *Builder {
	return &Builder{title: title, version: version}
}

// Add appends a route, reflecting body parameters from route.Body.
func (b *Builder) Add(route Route) {
	if route.Body != nil {
		route.Params = append(append([]apispec.Parameter(nil), route.Params...), BodyParameters(route.Body)...)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes = append(b.routes, route)
}

// Routes returns a copy of the registered routes.
func (b *Builder) Routes() []Route {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Route(nil), b.routes...)
}

// Document renders the current catalog.
func (b *Builder) Document() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   b.title,
			Version: b.version,
		},
		Paths: openapi3.NewPaths(),
	}

	for i, route := range b.Routes() {
		doc.AddOperation(route.Path, route.Method, buildOperation(i, route))
	}
	return doc
}

func buildOperation(index int, route Route) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = route.OperationID
	op.Summary = route.Summary
	op.Description = route.Description
	op.Tags = route.Tags
	op.Extensions = map[string]any{ExtOrder: index}

	body := openapi3.NewObjectSchema()
	var bodyOrder []string
	for _, p := range route.Params {
		switch p.In {
		case apispec.InBody:
			prop := schemaFor(p.Type)
			prop.Description = p.Description
			body.WithProperty(p.Name, prop)
			if p.Required {
				body.Required = append(body.Required, p.Name)
			}
			bodyOrder = append(bodyOrder, p.Name)
		case apispec.InPath:
			op.AddParameter(openapi3.NewPathParameter(p.Name).
				WithSchema(schemaFor(p.Type)).
				WithDescription(p.Description))
		default:
			param := openapi3.NewQueryParameter(p.Name).
				WithSchema(schemaFor(p.Type)).
				WithDescription(p.Description)
			param.Required = p.Required
			op.AddParameter(param)
		}
	}
	if len(bodyOrder) > 0 {
		body.Extensions = map[string]any{ExtPropertyOrder: bodyOrder}
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithJSONSchema(body).WithRequired(true),
		}
	}

	responses := route.Responses
	if len(responses) == 0 {
		responses = map[int]string{http.StatusOK: "Successful Response"}
	}
	for status, description := range responses {
		op.AddResponse(status, openapi3.NewResponse().WithDescription(description))
	}
	return op
}

func schemaFor(typ string) *openapi3.Schema {
	switch typ {
	case "integer":
		return openapi3.NewIntegerSchema()
	case "boolean":
		return openapi3.NewBoolSchema()
	case "number":
		return openapi3.NewFloat64Schema()
	default:
		return openapi3.NewStringSchema()
	}
}

var reflector = &jsonschema.Reflector{
	DoNotReference: true,
	ExpandedStruct: true,
}

// BodyParameters reflects the JSON fields of a request DTO, in declaration order.
// Fields without omitempty are required.
func BodyParameters(dto any) []apispec.Parameter {
	schema := reflector.Reflect(dto)
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var params []apispec.Parameter
	if schema.Properties == nil {
		return params
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		params = append(params, apispec.Parameter{
			Name:        pair.Key,
			Type:        pair.Value.Type,
			Required:    required[pair.Key],
			Description: pair.Value.Description,
			In:          apispec.InBody,
		})
	}
	return params
}

// PathParam builds a required path parameter.
func PathParam(name, typ, description string) apispec.Parameter {
	return apispec.Parameter{Name: name, Type: typ, Required: true, Description: description, In: apispec.InPath}
}

// QueryParam builds an optional query parameter.
func QueryParam(name, typ, description string) apispec.Parameter {
	return apispec.Parameter{Name: name, Type: typ, Description: description, In: apispec.InQuery}
}

func orderOf(op *openapi3.Operation) (int, bool) {
	raw, ok := op.Extensions[ExtOrder]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		n, err := strconv.Atoi(fmt.Sprint(v))
		return n, err == nil
	}
}

package openapispec

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/janhq/task-api/internal/domain/apispec"
)

type indexedDescriptor struct {
	order      int
	hasOrder   bool
	descriptor apispec.EndpointDescriptor
}

// ToDescriptors flattens an OpenAPI document into endpoint descriptors.
// Operations carrying x-order come first in that order; the rest follow sorted
// by path then method.
func ToDescriptors(doc *openapi3.T) []apispec.EndpointDescriptor {
	if doc == nil || doc.Paths == nil {
		return nil
	}

	var collected []indexedDescriptor
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			order, hasOrder := orderOf(op)
			collected = append(collected, indexedDescriptor{
				order:      order,
				hasOrder:   hasOrder,
				descriptor: toDescriptor(path, method, item, op),
			})
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		a, b := collected[i], collected[j]
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		if a.hasOrder && a.order != b.order {
			return a.order < b.order
		}
		if a.descriptor.PathTemplate != b.descriptor.PathTemplate {
			return a.descriptor.PathTemplate < b.descriptor.PathTemplate
		}
		return a.descriptor.Method < b.descriptor.Method
	})

	out := make([]apispec.EndpointDescriptor, 0, len(collected))
	for _, c := range collected {
		out = append(out, c.descriptor)
	}
	return out
}

func toDescriptor(path, method string, item *openapi3.PathItem, op *openapi3.Operation) apispec.EndpointDescriptor {
	d := apispec.EndpointDescriptor{
		OperationID:  op.OperationID,
		PathTemplate: path,
		Method:       strings.ToUpper(method),
		Summary:      op.Summary,
	}

	params := append(openapi3.Parameters{}, item.Parameters...)
	params = append(params, op.Parameters...)
	for _, ref := range params {
		if ref == nil || ref.Value == nil {
			continue
		}
		p := ref.Value
		var in apispec.ParameterLocation
		switch p.In {
		case openapi3.ParameterInPath:
			in = apispec.InPath
		case openapi3.ParameterInQuery:
			in = apispec.InQuery
		default:
			continue
		}
		d.Parameters = append(d.Parameters, apispec.Parameter{
			Name:        p.Name,
			Type:        schemaType(p.Schema),
			Required:    p.Required,
			Description: p.Description,
			In:          in,
		})
	}

	d.Parameters = append(d.Parameters, bodyParameters(op)...)
	return d
}

func bodyParameters(op *openapi3.Operation) []apispec.Parameter {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	schema := media.Schema.Value
	if !schema.Type.Is(openapi3.TypeObject) && len(schema.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var params []apispec.Parameter
	for _, name := range propertyOrder(schema) {
		prop := schema.Properties[name]
		description := ""
		if prop != nil && prop.Value != nil {
			description = prop.Value.Description
		}
		params = append(params, apispec.Parameter{
			Name:        name,
			Type:        schemaType(prop),
			Required:    required[name],
			Description: description,
			In:          apispec.InBody,
		})
	}
	return params
}

// propertyOrder honours x-property-order, then lists required properties in
// declared order, then the rest alphabetically.
func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var names []string
	add := func(name string) {
		if _, ok := schema.Properties[name]; !ok || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	if raw, ok := schema.Extensions[ExtPropertyOrder]; ok {
		switch v := raw.(type) {
		case []string:
			for _, name := range v {
				add(name)
			}
		case []any:
			for _, item := range v {
				if name, ok := item.(string); ok {
					add(name)
				}
			}
		}
	}
	for _, name := range schema.Required {
		add(name)
	}

	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(name)
	}
	return names
}

func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil {
		return ""
	}
	types := ref.Value.Type.Slice()
	if len(types) == 0 {
		return ""
	}
	return types[0]
}

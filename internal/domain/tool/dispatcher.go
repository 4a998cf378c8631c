package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/task-api/internal/domain/apispec"
)

// Transport issues one HTTP request against the service's own endpoints.
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values, body []byte) (status int, respBody []byte, err error)
}

// DispatchObserver is notified after every completed dispatch.
type DispatchObserver func(operationID string, status int, elapsed time.Duration)

// Result is the outcome of one dispatch. Body is the decoded JSON response, or
// an empty object when the response had no content.
type Result struct {
	StatusCode int
	Body       any
}

// Dispatcher resolves tool invocations to endpoints and calls them.
type Dispatcher struct {
	transport Transport
	observer  DispatchObserver
	log       zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given transport.
func NewDispatcher(transport Transport, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		log:       log.With().Str("component", "tool-dispatcher").Logger(),
	}
}

// WithObserver sets a hook run after each dispatch that reached the endpoint.
func (d *Dispatcher) WithObserver(observer DispatchObserver) *Dispatcher {
	d.observer = observer
	return d
}

// ResolveOperation returns the first descriptor carrying operationID.
func ResolveOperation(descriptors []apispec.EndpointDescriptor, operationID string) (apispec.EndpointDescriptor, error) {
	for _, d := range descriptors {
		if d.OperationID == operationID {
			return d, nil
		}
	}
	return apispec.EndpointDescriptor{}, &UnknownOperationError{OperationID: operationID}
}

// CanonicalMethod upper-cases method and rejects anything outside GET, POST, PUT and DELETE.
func CanonicalMethod(method string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(method))
	switch upper {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return upper, nil
	default:
		return "", &UnsupportedMethodError{Method: method}
	}
}

// SubstitutePath replaces each {name} placeholder that has a matching argument.
// Placeholders without an argument are left as they are.
func SubstitutePath(template string, args map[string]any) string {
	path := template
	for name, value := range args {
		token := "{" + name + "}"
		if strings.Contains(path, token) {
			path = strings.ReplaceAll(path, token, url.PathEscape(Stringify(value)))
		}
	}
	return path
}

// PartitionArguments splits args into those named by a placeholder in template
// and everything else, including keys the endpoint does not declare.
func PartitionArguments(template string, args map[string]any) (pathArgs, payloadArgs map[string]any) {
	pathArgs = make(map[string]any)
	payloadArgs = make(map[string]any)
	for name, value := range args {
		if strings.Contains(template, "{"+name+"}") {
			pathArgs[name] = value
			continue
		}
		payloadArgs[name] = value
	}
	return pathArgs, payloadArgs
}

// Stringify renders an argument the way it appears in a URL.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}

// Dispatch resolves operationID and issues the HTTP call. Non-2xx responses are
// returned as results, not errors.
func (d *Dispatcher) Dispatch(ctx context.Context, descriptors []apispec.EndpointDescriptor, operationID string, args map[string]any) (*Result, error) {
	descriptor, err := ResolveOperation(descriptors, operationID)
	if err != nil {
		return nil, err
	}
	method, err := CanonicalMethod(descriptor.Method)
	if err != nil {
		return nil, err
	}

	path := SubstitutePath(descriptor.PathTemplate, args)
	_, payload := PartitionArguments(descriptor.PathTemplate, args)

	var (
		query url.Values
		body  []byte
	)
	switch method {
	case http.MethodGet, http.MethodDelete:
		query = queryValues(payload)
	default:
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, &DispatchError{OperationID: operationID, Err: fmt.Errorf("encode body: %w", err)}
		}
	}

	started := time.Now()
	status, raw, err := d.transport.Do(ctx, method, path, query, body)
	if err != nil {
		d.log.Error().Err(err).Str("operation_id", operationID).Str("path", path).Msg("dispatch failed")
		return nil, &DispatchError{OperationID: operationID, Err: err}
	}
	elapsed := time.Since(started)
	if d.observer != nil {
		d.observer(operationID, status, elapsed)
	}
	d.log.Debug().
		Str("operation_id", operationID).
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("elapsed", elapsed).
		Msg("tool dispatched")

	decoded, err := decodeBody(raw)
	if err != nil {
		return nil, &DispatchError{OperationID: operationID, Err: err}
	}
	return &Result{StatusCode: status, Body: decoded}, nil
}

// queryValues drops nil arguments and expands arrays into repeated keys.
func queryValues(payload map[string]any) url.Values {
	values := url.Values{}
	for name, value := range payload {
		switch v := value.(type) {
		case nil:
		case []any:
			for _, item := range v {
				values.Add(name, Stringify(item))
			}
		default:
			values.Set(name, Stringify(v))
		}
	}
	return values
}

func decodeBody(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return decoded, nil
}

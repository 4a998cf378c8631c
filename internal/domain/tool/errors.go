package tool

import (
	"errors"
	"fmt"

	"github.com/janhq/task-api/internal/domain/llm"
)

// UnknownOperationError means no descriptor carries the requested operation id.
type UnknownOperationError struct {
	OperationID string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("No endpoint found for operationId: %s", e.OperationID)
}

// UnsupportedMethodError means the descriptor names a method the dispatcher cannot issue.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("Unsupported HTTP method: %s", e.Method)
}

// MalformedArgumentsError means the model produced arguments that are not a JSON object.
type MalformedArgumentsError struct {
	OperationID string
	Err         error
}

func (e *MalformedArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.OperationID, e.Err)
}

func (e *MalformedArgumentsError) Unwrap() error { return e.Err }

// DescriptorError means the endpoint descriptions could not be loaded.
type DescriptorError struct {
	Err error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("load endpoint descriptions: %v", e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// DispatchError means the call against the service's own endpoint failed before
// a usable response was obtained.
type DispatchError struct {
	OperationID string
	Err         error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.OperationID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// FollowupError wraps a failure of the second completion call.
type FollowupError struct {
	Err error
}

func (e *FollowupError) Error() string {
	var upstream *llm.UpstreamError
	if errors.As(e.Err, &upstream) {
		return fmt.Sprintf("Follow-up failed: %d, %s", upstream.StatusCode, upstream.Body)
	}
	return fmt.Sprintf("Follow-up failed: %v", e.Err)
}

func (e *FollowupError) Unwrap() error { return e.Err }

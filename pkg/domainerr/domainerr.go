// Package domainerr implements the runtime/domain-error half of the error
// model: Go errors that abort a document load or an analyzer run, as
// opposed to pkg/schemaerr's accumulated values.
package domainerr

import (
	"fmt"

	"github.com/eighty4/wfguard/pkg/schemaerr"
)

// Kind is the fatal error taxonomy surfaced by the analyzer's user-facing report.
type Kind string

const (
	WorkflowSchema   Kind = "WORKFLOW_SCHEMA"
	ActionSchema     Kind = "ACTION_SCHEMA"
	WorkflowNotFound Kind = "WORKFLOW_NOT_FOUND"
	ActionNotFound   Kind = "ACTION_NOT_FOUND"
	WorkflowRuntime  Kind = "WORKFLOW_RUNTIME"
	RateLimited      Kind = "RATE_LIMITED"
	Unauthorized     Kind = "UNAUTHORIZED"
)

// Error is a fatal, control-flow-signaling domain error. Target binds it to a
// document or call: for a failed load, the referencing document's path when
// one is known, falling back to the callee's own path/specifier for a
// top-level load; for an analyzer runtime error, the `uses:` specifier of
// the failing call.
type Error struct {
	Kind         Kind
	Target       string
	Message      string
	SchemaErrors []schemaerr.Error
	Cause        error

	// ResetEpoch is set only when Kind == RateLimited: seconds since epoch
	// at which the GitHub API rate limit window resets.
	ResetEpoch int64
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Target)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Target)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// NewSchemaError wraps a reader's accumulated schema errors as a fatal
// WORKFLOW_SCHEMA or ACTION_SCHEMA domain error.
func NewSchemaError(kind Kind, target string, errs []schemaerr.Error) *Error {
	return &Error{
		Kind:         kind,
		Target:       target,
		Message:      fmt.Sprintf("%d schema error(s)", len(errs)),
		SchemaErrors: errs,
	}
}

// NewNotFound wraps a fetch failure as a fatal *_NOT_FOUND domain error.
func NewNotFound(kind Kind, target string, cause error) *Error {
	return &Error{Kind: kind, Target: target, Message: "not found", Cause: cause}
}

// NewRuntime builds a fatal WORKFLOW_RUNTIME domain error with a literal message.
func NewRuntime(target, message string) *Error {
	return &Error{Kind: WorkflowRuntime, Target: target, Message: message}
}

// NewRateLimited wraps a GitHub API rate-limit response as a fatal
// RATE_LIMITED domain error, carrying the reset epoch for user messaging.
func NewRateLimited(target string, resetEpoch int64, cause error) *Error {
	return &Error{Kind: RateLimited, Target: target, Message: "rate limited", Cause: cause, ResetEpoch: resetEpoch}
}

// NewUnauthorized wraps a GitHub API 401 response as a fatal UNAUTHORIZED
// domain error.
func NewUnauthorized(target string, cause error) *Error {
	return &Error{Kind: Unauthorized, Target: target, Message: "unauthorized", Cause: cause}
}

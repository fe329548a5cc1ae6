package shared

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a generation attempt could not produce a recipe.
type FailureKind string

const (
	// FailureCredentialMissing means no usable API key is configured.
	FailureCredentialMissing FailureKind = "credential_missing"
	// FailureCredentialFormat means a candidate key failed the shape check.
	FailureCredentialFormat FailureKind = "credential_invalid_format"
	// FailureCredentialRejected means the remote service refused the key at call time.
	FailureCredentialRejected FailureKind = "credential_rejected"
	// FailureQuotaExceeded means the service reported rate or quota limits.
	FailureQuotaExceeded FailureKind = "quota_exceeded"
	// FailureContentBlocked means the service declined to generate for safety reasons.
	FailureContentBlocked FailureKind = "content_blocked"
	// FailureResponseFormat means the model output was not valid JSON even after cleanup.
	FailureResponseFormat FailureKind = "response_format_invalid"
	// FailureResponseShape means the parsed JSON was missing required fields or mistyped them.
	FailureResponseShape FailureKind = "response_shape_invalid"
	// FailureTimeout means the generation call exceeded its deadline.
	FailureTimeout FailureKind = "timeout"
	// FailureUnknown wraps any other generation error.
	FailureUnknown FailureKind = "unknown"
)

// Failure is a classified, user-presentable error. Message is safe to show
// directly; Err carries the underlying cause, if any.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure creates a Failure without an underlying cause.
func NewFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// WrapFailure creates a Failure around an underlying error.
func WrapFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report FailureUnknown.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureUnknown
}

// UserMessage extracts the user-presentable message from an error chain,
// falling back to the raw error text.
func UserMessage(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}

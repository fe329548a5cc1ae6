// Package credential owns the Gemini API key lifecycle: startup resolution
// from the durable store and the environment, user-driven save/clear, and the
// remote-rejection status transition.
package credential

import "strings"

// StorageKey is the key under which the API key is persisted.
const StorageKey = "herbalInfusionAiApiKey"

const (
	keyPrefix    = "AIza"
	keyMinLength = 30
)

// Status is the state of the credential subsystem. Exactly one value holds at
// any time.
type Status string

const (
	StatusIdle          Status = "idle"
	StatusChecking      Status = "checking"
	StatusValid         Status = "valid"
	StatusMissing       Status = "missing"
	StatusInvalidFormat Status = "invalid_format"
	StatusErrorAPI      Status = "error_api"
)

// IsWellFormed reports whether a candidate string has the expected key shape.
// Well-formedness is necessary but not sufficient: the remote service may
// still reject a well-formed key at call time.
func IsWellFormed(candidate string) bool {
	return strings.HasPrefix(candidate, keyPrefix) && len(candidate) > keyMinLength
}

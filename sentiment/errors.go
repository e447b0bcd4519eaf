package sentiment

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrResource = errors.New("resource error")
	ErrModel    = errors.New("model error")
	ErrContract = errors.New("contract violation")
)

// ResourceError reports a vocabulary or model artifact that is missing,
// unreadable or malformed at load time.
type ResourceError struct {
	Resource string
	Path     string
	// Line is 1-based; zero when the failure is not tied to a row.
	Line int
	Err  error
}

func (e *ResourceError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s %s line %d: %v", e.Resource, e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s: %v", e.Resource, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Resource, e.Err)
	}
}

func (e *ResourceError) Unwrap() error { return e.Err }

func (e *ResourceError) Is(target error) bool { return target == ErrResource }

// ModelError reports a loaded model whose declared signature does not match
// the pipeline's fixed contract.
type ModelError struct {
	Field string
	Want  string
	Got   string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s mismatch: want %s, got %s", e.Field, e.Want, e.Got)
}

func (e *ModelError) Is(target error) bool { return target == ErrModel }

// ContractViolation signals a broken invariant at a component boundary.
// It indicates a programming error and is never retried.
type ContractViolation struct {
	Boundary string
	Detail   string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation at %s: %s", e.Boundary, e.Detail)
}

func (e *ContractViolation) Is(target error) bool { return target == ErrContract }

func violation(boundary, format string, args ...any) error {
	return &ContractViolation{Boundary: boundary, Detail: fmt.Sprintf(format, args...)}
}

package ai

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why the language model could not produce a usable answer.
type FailureKind string

const (
	FailureUnavailable FailureKind = "unavailable"
	FailureRateLimited FailureKind = "rate_limited"
	FailureEmpty       FailureKind = "empty"
	FailureMalformed   FailureKind = "malformed"
)

// CollaboratorFailure wraps an error coming from the language model. Callers
// map it to a fallback value instead of surfacing it to the candidate.
type CollaboratorFailure struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (f *CollaboratorFailure) Error() string {
	var b strings.Builder
	if f.Op != "" {
		b.WriteString(f.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(f.Kind))
	if f.Err != nil {
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

func (f *CollaboratorFailure) Unwrap() error { return f.Err }

// AsFailure converts any error into a CollaboratorFailure. Existing failures
// are returned unchanged, anything else counts as an unavailable collaborator.
func AsFailure(op string, err error) *CollaboratorFailure {
	if err == nil {
		return nil
	}

	var failure *CollaboratorFailure
	if errors.As(err, &failure) {
		return failure
	}

	return &CollaboratorFailure{Kind: FailureUnavailable, Op: op, Err: err}
}

// Failf builds a CollaboratorFailure of the given kind with a formatted cause.
func Failf(kind FailureKind, op, format string, args ...any) *CollaboratorFailure {
	return &CollaboratorFailure{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

package ai

import (
	"context"
	"errors"
)

// Generator is the language-model collaborator: a system instruction and a
// user message in, generated text out.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// ErrNotConfigured is returned by generators that have no backend.
var ErrNotConfigured = errors.New("language model is not configured")

// Unavailable is a Generator without a backend. Every call fails, which makes
// all callers fall back to their deterministic outputs.
type Unavailable struct{}

func (u Unavailable) GenerateContent(context.Context, string, string) (string, error) {
	return "", &CollaboratorFailure{Kind: FailureUnavailable, Op: "generate content", Err: ErrNotConfigured}
}

func (u Unavailable) Model() string { return "none" }

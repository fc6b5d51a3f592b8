package interview

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
)

// FollowUp is the outcome of a follow-up request. Question is never empty.
type FollowUp struct {
	Question string
	Failure  *ai.CollaboratorFailure
}

// FallbackFollowUp is the elaboration prompt used when the model fails.
func FallbackFollowUp(question string) string {
	return fmt.Sprintf("Can you elaborate more on: %s?", strings.TrimRight(strings.TrimSpace(question), "?"))
}

// FollowUp asks for exactly one elaboration question about answer.
func (g *Generator) FollowUp(ctx context.Context, question, answer string) FollowUp {
	prompt := strings.ReplaceAll(followUpTemplate, "{{QUESTION}}", question)
	prompt = strings.ReplaceAll(prompt, "{{ANSWER}}", answer)

	raw, err := g.generate(ctx, "generate follow-up", prompt)
	if err == nil {
		if q := firstQuestion(raw); q != "" {
			return FollowUp{Question: q}
		}
		err = ai.Failf(ai.FailureMalformed, "generate follow-up", "no question in response")
	}

	failure := ai.AsFailure("generate follow-up", err)
	g.logger.Warn("falling back to elaboration prompt",
		zap.String("failure_kind", string(failure.Kind)),
		zap.Error(failure),
	)

	return FollowUp{Question: FallbackFollowUp(question), Failure: failure}
}

// firstQuestion keeps a single line: models occasionally add a preamble or
// a second question despite the instructions.
func firstQuestion(raw string) string {
	questions := ParseQuestions(raw, 0)
	for _, q := range questions {
		if strings.HasSuffix(q, "?") {
			return q
		}
	}
	if len(questions) > 0 {
		return questions[0]
	}
	return ""
}

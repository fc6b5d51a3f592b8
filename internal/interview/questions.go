// Package interview asks the language model for technical questions and
// follow-ups, falling back to fixed texts whenever the model cannot help.
package interview

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/utils"
)

const (
	// MaxQuestions caps the number of questions kept per technology.
	MaxQuestions        = 5
	defaultMaxLogLength = 200
)

var (
	//go:embed prompts/system.md
	systemPrompt string
	//go:embed prompts/questions.md
	questionsTemplate string
	//go:embed prompts/follow_up.md
	followUpTemplate string
)

// "1. ", "2) ", "- ", "* " and similar list markers.
var listPrefixRe = regexp.MustCompile(`^\s*(?:\d+\s*[.)]|[-*•])\s+`)

// QuestionSet is the outcome of a question request. Questions is never empty;
// Failure is set when Questions holds the fallback.
type QuestionSet struct {
	Tech      string
	Questions []string
	Failure   *ai.CollaboratorFailure
}

// Generator produces interview questions and follow-ups.
type Generator struct {
	llm          ai.Generator
	logger       *zap.Logger
	maxQuestions int
	maxLogLen    int
}

// Options tune a Generator. Zero values pick defaults.
type Options struct {
	MaxQuestions int
	MaxLogLength int
}

func New(llm ai.Generator, logger *zap.Logger, opts Options) *Generator {
	if llm == nil {
		llm = ai.Unavailable{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	maxQuestions := opts.MaxQuestions
	if maxQuestions <= 0 || maxQuestions > MaxQuestions {
		maxQuestions = MaxQuestions
	}

	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Generator{
		llm:          llm,
		logger:       logger,
		maxQuestions: maxQuestions,
		maxLogLen:    maxLogLen,
	}
}

// FallbackQuestion is asked when the model produced nothing usable.
func FallbackQuestion(tech string) string {
	return fmt.Sprintf("Describe your experience with %s.", tech)
}

// Questions requests up to maxQuestions questions about tech. Negative years
// are treated as zero.
func (g *Generator) Questions(ctx context.Context, tech string, years int) QuestionSet {
	if years < 0 {
		years = 0
	}

	prompt := strings.ReplaceAll(questionsTemplate, "{{TECH}}", tech)
	prompt = strings.ReplaceAll(prompt, "{{YEARS}}", strconv.Itoa(years))

	raw, err := g.generate(ctx, "generate questions", prompt, zap.String("tech", tech))
	if err == nil {
		questions := ParseQuestions(raw, g.maxQuestions)
		if len(questions) > 0 {
			return QuestionSet{Tech: tech, Questions: questions}
		}
		err = ai.Failf(ai.FailureMalformed, "generate questions", "no questions in response")
	}

	failure := ai.AsFailure("generate questions", err)
	g.logger.Warn("falling back to generic question",
		zap.String("tech", tech),
		zap.String("failure_kind", string(failure.Kind)),
		zap.Error(failure),
	)

	return QuestionSet{
		Tech:      tech,
		Questions: []string{FallbackQuestion(tech)},
		Failure:   failure,
	}
}

func (g *Generator) generate(ctx context.Context, op, prompt string, fields ...zap.Field) (string, error) {
	g.logger.Debug(op+" request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)...)

	raw, err := g.llm.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}

	g.logger.Debug(op+" response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)...)

	return raw, nil
}

// ParseQuestions turns a model reply into questions: one per non-empty line
// with list markers removed. A positive limit caps the result.
func ParseQuestions(raw string, limit int) []string {
	lines := strings.Split(raw, "\n")
	questions := make([]string, 0, limit)

	for _, line := range lines {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*"))
		line = strings.TrimSpace(listPrefixRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == limit {
			break
		}
	}

	return questions
}

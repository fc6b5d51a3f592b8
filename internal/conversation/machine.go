// Package conversation drives a screening session from the greeting through
// the personal details to the technical assessment.
package conversation

import (
	"context"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/intake"
	"github.com/spigell/talentscout/internal/interview"
	appLogger "github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/sentiment"
)

// QuestionSource produces the main questions for a technology.
type QuestionSource interface {
	Questions(ctx context.Context, tech string, years int) interview.QuestionSet
}

// FollowUpSource produces one elaboration question for an answer.
type FollowUpSource interface {
	FollowUp(ctx context.Context, question, answer string) interview.FollowUp
}

// Scorer rates the sentiment of a candidate answer.
type Scorer interface {
	Score(text string) sentiment.Score
}

// Translator renders assistant messages in the session language. It returns
// the input unchanged when it cannot translate.
type Translator interface {
	Translate(ctx context.Context, text, lang string) string
}

// Machine applies candidate input to a Session. It holds collaborators only;
// all conversation state lives in the Session.
type Machine struct {
	questions  QuestionSource
	followUps  FollowUpSource
	scorer     Scorer
	translator Translator
	logger     *zap.Logger
	intn       func(n int) int
}

// Option customizes a Machine.
type Option func(*Machine)

// WithTranslator renders replies through t.
func WithTranslator(t Translator) Option {
	return func(m *Machine) { m.translator = t }
}

// WithRand replaces the source used to pick fallback responses.
func WithRand(intn func(n int) int) Option {
	return func(m *Machine) { m.intn = intn }
}

func NewMachine(questions QuestionSource, followUps FollowUpSource, scorer Scorer, logger *zap.Logger, opts ...Option) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Machine{
		questions: questions,
		followUps: followUps,
		scorer:    scorer,
		logger:    logger,
		intn:      rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin greets the candidate and waits for their name.
func (m *Machine) Begin(ctx context.Context, s *Session) string {
	if s.Step == StepGreeting {
		s.Step = StepCollectName
	}
	return m.reply(ctx, s, Prompt(StepCollectName))
}

// Handle consumes one candidate message and returns the assistant reply.
func (m *Machine) Handle(ctx context.Context, s *Session, input string) string {
	s.Record(RoleCandidate, input)
	input = strings.TrimSpace(input)
	log := appLogger.WithSession(m.logger, s.ID).With(zap.Stringer(appLogger.FieldConversationStep, s.Step))

	if s.Step != StepEnd && wantsExit(input) {
		log.Info("candidate ended the conversation")
		s.finish()
		return m.reply(ctx, s, ClosingMessage)
	}

	var out string
	switch s.Step {
	case StepGreeting, StepCollectName:
		out = m.collect(s, input, intake.Name, StepCollectEmail, func(v string) { s.Candidate.Name = v })
	case StepCollectEmail:
		out = m.collect(s, input, intake.Email, StepCollectPhone, func(v string) { s.Candidate.Email = v })
	case StepCollectPhone:
		out = m.collect(s, input, intake.Phone, StepCollectLocation, func(v string) { s.Candidate.Phone = v })
	case StepCollectLocation:
		out = m.collect(s, input, intake.Location, StepCollectExperience, func(v string) { s.Candidate.Location = v })
	case StepCollectExperience:
		out = m.collect(s, input, intake.Experience, StepCollectPosition, func(v string) {
			s.Candidate.YearsExperience, _ = intake.ParseExperience(v)
		})
	case StepCollectPosition:
		out = m.collect(s, input, intake.Position, StepCollectTechStack, func(v string) { s.Candidate.Position = v })
	case StepCollectTechStack:
		out = m.startAssessment(ctx, log, s, input)
	case StepTechAssessment:
		out = m.assess(ctx, log, s, input)
	default:
		out = fallbackResponses[m.intn(len(fallbackResponses))]
	}

	if s.Step != StepEnd {
		log.Debug("turn handled", zap.Stringer("next_step", s.Step))
	}
	return m.reply(ctx, s, out)
}

func (m *Machine) collect(s *Session, input string, v intake.Validator, next Step, store func(string)) string {
	if msg, ok := v.Validate(input); !ok {
		return msg
	}
	store(input)
	s.Step = next
	return Prompt(next)
}

func (m *Machine) startAssessment(ctx context.Context, log *zap.Logger, s *Session, input string) string {
	if msg, ok := intake.TechStack.Validate(input); !ok {
		return msg
	}

	stack := intake.ParseTechStack(input)
	questions := make(map[string][]string, len(stack))
	for _, tech := range stack {
		set := m.questions.Questions(ctx, tech, s.Candidate.YearsExperience)
		if set.Failure != nil {
			log.Warn("using fallback questions",
				zap.String("tech", tech),
				zap.String("failure_kind", string(set.Failure.Kind)),
			)
		}
		if len(set.Questions) == 0 {
			set.Questions = []string{interview.FallbackQuestion(tech)}
		}
		questions[tech] = set.Questions
	}

	s.Candidate.TechStack = stack
	s.Candidate.TechQuestions = questions
	s.Candidate.Answers = make(map[string][]Answer, len(stack))
	s.CurrentTech = stack[0]
	s.CurrentQuestion = 0
	s.PendingFollowUp = ""
	s.Step = StepTechAssessment

	log.Info("technical assessment started", zap.Strings("tech_stack", stack))
	return assessmentIntro(s.CurrentTech, questions[s.CurrentTech][0])
}

// assess runs one step of the assessment loop: every main answer gets exactly
// one follow-up, and only the follow-up answer advances to the next question.
func (m *Machine) assess(ctx context.Context, log *zap.Logger, s *Session, input string) string {
	score := m.scorer.Score(input)
	tech := s.CurrentTech
	questions := s.Candidate.TechQuestions[tech]

	if s.PendingFollowUp != "" {
		answers := s.Candidate.Answers[tech]
		if n := len(answers); n > 0 {
			answers[n-1].FollowUps = append(answers[n-1].FollowUps, FollowUpRecord{
				Question:  s.PendingFollowUp,
				Answer:    input,
				Sentiment: score,
			})
		}
		s.PendingFollowUp = ""
	} else if s.CurrentQuestion < len(questions) {
		question := questions[s.CurrentQuestion]
		s.Candidate.Answers[tech] = append(s.Candidate.Answers[tech], Answer{
			Question:  question,
			Answer:    input,
			Sentiment: score,
		})

		followUp := m.followUps.FollowUp(ctx, question, input)
		if followUp.Failure != nil {
			log.Warn("using fallback follow-up",
				zap.String("tech", tech),
				zap.String("failure_kind", string(followUp.Failure.Kind)),
			)
		}
		s.PendingFollowUp = followUp.Question
		log.Debug("answer recorded",
			zap.String("tech", tech),
			zap.Int("question", s.CurrentQuestion),
			zap.Float64("compound", score.Compound),
		)
		return followUp.Question
	}

	if s.CurrentQuestion+1 < len(questions) {
		s.CurrentQuestion++
		return questions[s.CurrentQuestion]
	}

	for i, t := range s.Candidate.TechStack {
		if t != tech || i+1 >= len(s.Candidate.TechStack) {
			continue
		}
		next := s.Candidate.TechStack[i+1]
		s.CurrentTech = next
		s.CurrentQuestion = 0
		s.PendingFollowUp = ""
		log.Info("moving to next technology", zap.String("tech", next))
		return nextTechIntro(next, s.Candidate.TechQuestions[next][0])
	}

	log.Info("technical assessment complete")
	s.finish()
	return CompletionMessage
}

func (m *Machine) reply(ctx context.Context, s *Session, text string) string {
	if m.translator != nil && s.Language != "" {
		text = m.translator.Translate(ctx, text, s.Language)
	}
	s.Record(RoleAssistant, text)
	return text
}

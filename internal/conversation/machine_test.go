package conversation

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/intake"
	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/sentiment"
)

type stubQuestions struct {
	byTech map[string][]string
	calls  []string
}

func (s *stubQuestions) Questions(_ context.Context, tech string, _ int) interview.QuestionSet {
	s.calls = append(s.calls, tech)
	if qs, ok := s.byTech[tech]; ok {
		return interview.QuestionSet{Tech: tech, Questions: qs}
	}
	return interview.QuestionSet{Tech: tech, Questions: []string{interview.FallbackQuestion(tech)}}
}

type stubFollowUps struct {
	calls int
}

func (s *stubFollowUps) FollowUp(_ context.Context, question, _ string) interview.FollowUp {
	s.calls++
	return interview.FollowUp{Question: "Why? (" + question + ")"}
}

type constScorer struct{}

func (constScorer) Score(string) sentiment.Score { return sentiment.Score{Neutral: 1} }

type upperTranslator struct{}

func (upperTranslator) Translate(_ context.Context, text, lang string) string {
	if lang == "en" {
		return text
	}
	return lang + ":" + text
}

func newTestMachine(qs *stubQuestions, fu *stubFollowUps) *Machine {
	return NewMachine(qs, fu, constScorer{}, zap.NewNop(), WithRand(func(int) int { return 0 }))
}

// walk feeds inputs in order and returns the last reply.
func walk(t *testing.T, m *Machine, s *Session, inputs ...string) string {
	t.Helper()
	var reply string
	for _, in := range inputs {
		reply = m.Handle(context.Background(), s, in)
	}
	return reply
}

var personalDetails = []string{"Jane Doe", "jane@x.co", "5551234567", "Berlin, Germany", "5", "Backend Engineer"}

func TestBeginGreetsAndAsksForName(t *testing.T) {
	m := newTestMachine(&stubQuestions{}, &stubFollowUps{})
	s := NewSession("s1", "en")

	reply := m.Begin(context.Background(), s)

	if reply != GreetingMessage {
		t.Fatalf("unexpected greeting %q", reply)
	}
	if s.Step != StepCollectName {
		t.Fatalf("expected collect_name, got %s", s.Step)
	}
	if len(s.Transcript) != 1 || s.Transcript[0].Role != RoleAssistant {
		t.Fatalf("greeting not recorded: %+v", s.Transcript)
	}
}

func TestExitKeywordEndsFromEveryStep(t *testing.T) {
	inputs := []string{"exit", "QUIT", "please Stop now", "I want to exit!"}
	steps := []Step{
		StepGreeting, StepCollectName, StepCollectEmail, StepCollectPhone, StepCollectLocation,
		StepCollectExperience, StepCollectPosition, StepCollectTechStack, StepTechAssessment,
	}

	for _, step := range steps {
		for _, in := range inputs {
			m := newTestMachine(&stubQuestions{}, &stubFollowUps{})
			s := NewSession("s1", "en")
			s.Step = step
			if step == StepTechAssessment {
				s.CurrentTech = "go"
				s.Candidate.TechStack = []string{"go"}
				s.Candidate.TechQuestions = map[string][]string{"go": {"Q1"}}
				s.Candidate.Answers = map[string][]Answer{}
			}

			reply := m.Handle(context.Background(), s, in)

			if reply != ClosingMessage {
				t.Fatalf("step %s input %q: expected closing message, got %q", step, in, reply)
			}
			if !s.Done() {
				t.Fatalf("step %s input %q: expected end, got %s", step, in, s.Step)
			}
			if s.CurrentTech != "" || s.PendingFollowUp != "" {
				t.Fatalf("step %s: assessment state not cleared", step)
			}
		}
	}
}

func TestInvalidInputLeavesSessionUnchanged(t *testing.T) {
	cases := []struct {
		step  Step
		input string
		want  string
	}{
		{StepCollectName, "Jane", intake.ErrName},
		{StepCollectEmail, "bad", intake.ErrEmail},
		{StepCollectPhone, "12-34", intake.ErrPhone},
		{StepCollectLocation, "NY", intake.ErrLocation},
		{StepCollectExperience, "abc", intake.ErrExperience},
		{StepCollectPosition, "QA", intake.ErrPosition},
		{StepCollectTechStack, " , ,", intake.ErrTechStack},
	}

	for _, tc := range cases {
		m := newTestMachine(&stubQuestions{}, &stubFollowUps{})
		s := NewSession("s1", "en")
		s.Step = tc.step
		before := s.Candidate.clone()

		for i := 0; i < 3; i++ {
			if reply := m.Handle(context.Background(), s, tc.input); reply != tc.want {
				t.Fatalf("step %s attempt %d: expected %q, got %q", tc.step, i, tc.want, reply)
			}
		}

		if s.Step != tc.step {
			t.Fatalf("step changed from %s to %s", tc.step, s.Step)
		}
		if !reflect.DeepEqual(before, s.Candidate) {
			t.Fatalf("candidate mutated at %s: %+v", tc.step, s.Candidate)
		}
	}
}

func TestPersonalDetailsScenario(t *testing.T) {
	m := newTestMachine(&stubQuestions{}, &stubFollowUps{})
	s := NewSession("s1", "en")
	m.Begin(context.Background(), s)

	if reply := m.Handle(context.Background(), s, "Jane Doe"); reply != Prompt(StepCollectEmail) {
		t.Fatalf("unexpected reply to name: %q", reply)
	}
	if s.Step != StepCollectEmail || s.Candidate.Name != "Jane Doe" {
		t.Fatalf("name not accepted: step=%s name=%q", s.Step, s.Candidate.Name)
	}

	if reply := m.Handle(context.Background(), s, "bad"); reply != intake.ErrEmail {
		t.Fatalf("expected email error, got %q", reply)
	}
	m.Handle(context.Background(), s, "jane@x.co")
	if s.Step != StepCollectPhone || s.Candidate.Email != "jane@x.co" {
		t.Fatalf("email not accepted: step=%s email=%q", s.Step, s.Candidate.Email)
	}

	walk(t, m, s, "5551234567", "Berlin, Germany")
	if reply := m.Handle(context.Background(), s, "abc"); reply != intake.ErrExperience {
		t.Fatalf("expected experience error, got %q", reply)
	}
	if reply := m.Handle(context.Background(), s, "5"); reply != Prompt(StepCollectPosition) {
		t.Fatalf("unexpected reply to experience: %q", reply)
	}
	if s.Candidate.YearsExperience != 5 {
		t.Fatalf("expected 5 years, got %d", s.Candidate.YearsExperience)
	}
}

func TestNameAcceptedDirectlyFromGreeting(t *testing.T) {
	m := newTestMachine(&stubQuestions{}, &stubFollowUps{})
	s := NewSession("s1", "en")

	m.Handle(context.Background(), s, "  Jane   Doe ")

	if s.Step != StepCollectEmail || s.Candidate.Name != "Jane   Doe" {
		t.Fatalf("unexpected state: step=%s name=%q", s.Step, s.Candidate.Name)
	}
}

func TestTechStackStartsAssessment(t *testing.T) {
	qs := &stubQuestions{byTech: map[string][]string{"java": {"JQ1"}, "python": {"PQ1"}, "c++": {"CQ1"}}}
	m := newTestMachine(qs, &stubFollowUps{})
	s := NewSession("s1", "en")
	walk(t, m, s, personalDetails...)

	reply := m.Handle(context.Background(), s, " Java, python ,C++, java")

	want := []string{"java", "python", "c++"}
	if !reflect.DeepEqual(s.Candidate.TechStack, want) {
		t.Fatalf("expected %v, got %v", want, s.Candidate.TechStack)
	}
	if !reflect.DeepEqual(qs.calls, want) {
		t.Fatalf("questions requested for %v", qs.calls)
	}
	if s.Step != StepTechAssessment || s.CurrentTech != "java" || s.CurrentQuestion != 0 {
		t.Fatalf("unexpected assessment state: %+v", s)
	}
	if reply != "Let's begin the technical assessment!\n\nJAVA questions:\n\nJQ1" {
		t.Fatalf("unexpected intro %q", reply)
	}
}

func TestFullPathSingleQuestion(t *testing.T) {
	qs := &stubQuestions{byTech: map[string][]string{"python": {"Q1"}}}
	fu := &stubFollowUps{}
	m := newTestMachine(qs, fu)
	s := NewSession("s1", "en")
	m.Begin(context.Background(), s)
	walk(t, m, s, personalDetails...)
	m.Handle(context.Background(), s, "python")

	reply := m.Handle(context.Background(), s, "I use it daily")
	if reply != "Why? (Q1)" {
		t.Fatalf("expected follow-up, got %q", reply)
	}
	if s.PendingFollowUp == "" || s.Step != StepTechAssessment {
		t.Fatalf("follow-up not pending: %+v", s)
	}

	reply = m.Handle(context.Background(), s, "Because it is productive")
	if reply != CompletionMessage {
		t.Fatalf("expected completion, got %q", reply)
	}
	if !s.Done() || s.CurrentTech != "" {
		t.Fatalf("expected end with no current tech, got step=%s tech=%q", s.Step, s.CurrentTech)
	}

	answers := s.Candidate.Answers["python"]
	if len(answers) != 1 || answers[0].Question != "Q1" || answers[0].Answer != "I use it daily" {
		t.Fatalf("unexpected answers %+v", answers)
	}
	if len(answers[0].FollowUps) != 1 || answers[0].FollowUps[0].Answer != "Because it is productive" {
		t.Fatalf("unexpected follow-ups %+v", answers[0].FollowUps)
	}
	if fu.calls != 1 {
		t.Fatalf("expected one follow-up request, got %d", fu.calls)
	}
}

func TestAssessmentWalksQuestionsAndTechs(t *testing.T) {
	qs := &stubQuestions{byTech: map[string][]string{"go": {"G1", "G2"}, "rust": {"R1"}}}
	m := newTestMachine(qs, &stubFollowUps{})
	s := NewSession("s1", "en")
	walk(t, m, s, personalDetails...)
	m.Handle(context.Background(), s, "go, rust")

	replies := []string{
		walk(t, m, s, "a1"),
		walk(t, m, s, "f1"),
		walk(t, m, s, "a2"),
		walk(t, m, s, "f2"),
		walk(t, m, s, "a3"),
		walk(t, m, s, "f3"),
	}

	want := []string{
		"Why? (G1)",
		"G2",
		"Why? (G2)",
		"Moving to RUST questions:\n\nR1",
		"Why? (R1)",
		CompletionMessage,
	}
	if !reflect.DeepEqual(replies, want) {
		t.Fatalf("unexpected replies:\n%q\nwant\n%q", replies, want)
	}
	if len(s.Candidate.Answers["go"]) != 2 || len(s.Candidate.Answers["rust"]) != 1 {
		t.Fatalf("unexpected answers %+v", s.Candidate.Answers)
	}
}

func TestUnavailableModelFallsBack(t *testing.T) {
	gen := interview.New(ai.Unavailable{}, zap.NewNop(), interview.Options{})
	m := NewMachine(gen, gen, sentiment.New(), zap.NewNop())
	s := NewSession("s1", "en")
	walk(t, m, s, personalDetails...)

	m.Handle(context.Background(), s, "go, sql")

	for _, tech := range []string{"go", "sql"} {
		got := s.Candidate.TechQuestions[tech]
		if len(got) != 1 || got[0] != interview.FallbackQuestion(tech) {
			t.Fatalf("expected one fallback question for %s, got %v", tech, got)
		}
	}

	reply := m.Handle(context.Background(), s, "I love it")
	if reply != interview.FallbackFollowUp(interview.FallbackQuestion("go")) {
		t.Fatalf("unexpected follow-up %q", reply)
	}
	if s.Candidate.Answers["go"][0].Sentiment.Compound <= 0 {
		t.Fatalf("expected positive sentiment, got %+v", s.Candidate.Answers["go"][0].Sentiment)
	}
}

func TestInputAfterEndGetsFallback(t *testing.T) {
	m := NewMachine(&stubQuestions{}, &stubFollowUps{}, constScorer{}, zap.NewNop(), WithRand(func(int) int { return 1 }))
	s := NewSession("s1", "en")
	s.Step = StepEnd

	reply := m.Handle(context.Background(), s, "hello?")

	if reply != fallbackResponses[1] {
		t.Fatalf("unexpected reply %q", reply)
	}
	if !s.Done() {
		t.Fatalf("expected to stay in end, got %s", s.Step)
	}
}

func TestExitAfterEndDoesNotFinishAgain(t *testing.T) {
	m := NewMachine(&stubQuestions{}, &stubFollowUps{}, constScorer{}, zap.NewNop(), WithRand(func(int) int { return 0 }))
	s := NewSession("s1", "en")
	m.Begin(context.Background(), s)

	if reply := m.Handle(context.Background(), s, "quit"); reply != ClosingMessage {
		t.Fatalf("expected closing message, got %q", reply)
	}
	finished := *s.FinishedAt

	reply := m.Handle(context.Background(), s, "QUIT")

	if reply != fallbackResponses[0] {
		t.Fatalf("expected fallback after end, got %q", reply)
	}
	if !s.FinishedAt.Equal(finished) {
		t.Fatalf("finish time changed from %v to %v", finished, *s.FinishedAt)
	}
	closings := 0
	for _, msg := range s.Transcript {
		if msg.Content == ClosingMessage {
			closings++
		}
	}
	if closings != 1 {
		t.Fatalf("expected one closing message in transcript, got %d", closings)
	}
}

func TestRepliesAreTranslated(t *testing.T) {
	m := NewMachine(&stubQuestions{}, &stubFollowUps{}, constScorer{}, zap.NewNop(), WithTranslator(upperTranslator{}))
	s := NewSession("s1", "fr")

	reply := m.Begin(context.Background(), s)
	if !strings.HasPrefix(reply, "fr:") {
		t.Fatalf("expected translated greeting, got %q", reply)
	}

	m.Handle(context.Background(), s, "Jane")
	last := s.Transcript[len(s.Transcript)-1]
	if last.Content != "fr:"+intake.ErrName {
		t.Fatalf("unexpected recorded reply %q", last.Content)
	}
}

func TestStepTextRoundTrip(t *testing.T) {
	for step := StepGreeting; step <= StepEnd; step++ {
		text, err := step.MarshalText()
		if err != nil {
			t.Fatalf("marshal %d: %v", step, err)
		}
		var got Step
		if err := got.UnmarshalText(text); err != nil || got != step {
			t.Fatalf("round trip %s: got %s err %v", step, got, err)
		}
	}

	if _, err := Step(42).MarshalText(); err == nil {
		t.Fatalf("expected error for unknown step")
	}
}

func TestWriteReport(t *testing.T) {
	m := newTestMachine(&stubQuestions{byTech: map[string][]string{"go": {"G1"}}}, &stubFollowUps{})
	s := NewSession("s1", "en")
	m.Begin(context.Background(), s)
	walk(t, m, s, append(personalDetails, "go", "answer", "more")...)

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := WriteReport(dir, s)
	if err != nil {
		t.Fatalf("write report: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report written to %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat report: %v", err)
	}

	loaded, err := ReadReport(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if loaded.Step != StepEnd || loaded.Candidate.Email != "jane@x.co" {
		t.Fatalf("unexpected report %+v", loaded)
	}
	if len(loaded.Candidate.Answers["go"]) != 1 || len(loaded.Transcript) != len(s.Transcript) {
		t.Fatalf("answers or transcript lost: %+v", loaded)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewSession("s1", "en")
	s.Candidate.TechStack = []string{"go"}
	s.Candidate.Answers = map[string][]Answer{"go": {{Question: "Q"}}}

	snap := s.Snapshot()
	s.Candidate.TechStack[0] = "rust"
	s.Candidate.Answers["go"][0].Question = "changed"

	if snap.Candidate.TechStack[0] != "go" || snap.Candidate.Answers["go"][0].Question != "Q" {
		t.Fatalf("snapshot shares memory with session")
	}
}

func TestFixedMessages(t *testing.T) {
	fixed := make(map[string]bool)
	for _, msg := range FixedMessages() {
		if msg == "" {
			t.Fatalf("empty fixed message")
		}
		fixed[msg] = true
	}

	for _, want := range []string{GreetingMessage, ClosingMessage, CompletionMessage, Prompt(StepCollectTechStack), fallbackResponses[1], intake.ErrTechStack} {
		if !fixed[want] {
			t.Fatalf("missing fixed message %q", want)
		}
	}
	if fixed[assessmentIntro("go", "Q1")] {
		t.Fatalf("assessment intro depends on the candidate")
	}
}

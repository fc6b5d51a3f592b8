package conversation

import "time"

// Role identifies the author of a transcript message.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleCandidate Role = "user"
)

// Message is one rendered turn of the conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the state of a single conversation. It is owned by exactly one
// caller and passed to every Machine call; Machine keeps no state of its own.
//
// CurrentTech is set iff Step is StepTechAssessment. A non-empty
// PendingFollowUp means the next input answers that follow-up.
type Session struct {
	ID              string     `json:"id"`
	Language        string     `json:"language"`
	Step            Step       `json:"step"`
	Candidate       Candidate  `json:"candidate"`
	CurrentTech     string     `json:"current_tech,omitempty"`
	CurrentQuestion int        `json:"current_question"`
	PendingFollowUp string     `json:"pending_follow_up,omitempty"`
	Transcript      []Message  `json:"transcript"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// NewSession returns a session in StepGreeting.
func NewSession(id, language string) *Session {
	return &Session{
		ID:        id,
		Language:  language,
		Step:      StepGreeting,
		StartedAt: time.Now().UTC(),
	}
}

// Done reports whether the conversation reached StepEnd.
func (s *Session) Done() bool {
	return s.Step == StepEnd
}

// Record appends a rendered message to the transcript.
func (s *Session) Record(role Role, content string) {
	s.Transcript = append(s.Transcript, Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

// Snapshot returns a deep copy that is safe to read while the session keeps changing.
func (s *Session) Snapshot() Session {
	out := *s
	out.Candidate = s.Candidate.clone()
	out.Transcript = append([]Message(nil), s.Transcript...)
	if s.FinishedAt != nil {
		finished := *s.FinishedAt
		out.FinishedAt = &finished
	}
	return out
}

func (s *Session) finish() {
	s.Step = StepEnd
	s.CurrentTech = ""
	s.PendingFollowUp = ""
	now := time.Now().UTC()
	s.FinishedAt = &now
}

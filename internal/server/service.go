package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/conversation"
	appLogger "github.com/spigell/talentscout/internal/logger"
)

// Turn is the assistant side of one exchange.
type Turn struct {
	SessionID string            `json:"id"`
	Reply     string            `json:"reply"`
	Step      conversation.Step `json:"step"`
	Done      bool              `json:"done"`
}

// Options configure a Service.
type Options struct {
	// Language used when a session is created without one.
	Language string
	// ReportDir receives a candidate report for every finished session.
	// Empty disables reports.
	ReportDir string
}

// Service runs conversations for many candidates over one Machine.
type Service struct {
	store   *Store
	machine *conversation.Machine
	opts    Options
	logger  *zap.Logger
}

func NewService(machine *conversation.Machine, store *Store, logger *zap.Logger, opts Options) *Service {
	if store == nil {
		store = NewStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	return &Service{store: store, machine: machine, opts: opts, logger: logger}
}

// Start opens a session and returns its greeting.
func (s *Service) Start(ctx context.Context, language string) Turn {
	if language == "" {
		language = s.opts.Language
	}

	e := s.store.create(language)
	e.mu.Lock()
	defer e.mu.Unlock()

	reply := s.machine.Begin(ctx, e.session)
	appLogger.WithSession(s.logger, e.session.ID).Info("session started", zap.String("language", language))

	return turnOf(e.session, reply)
}

// Send applies one candidate message to the session.
func (s *Service) Send(ctx context.Context, id, content string) (Turn, error) {
	e, err := s.store.get(id)
	if err != nil {
		return Turn{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// a turn waiting on the lock may find the session already finished
	if e.closed {
		return Turn{}, ErrSessionNotFound
	}

	reply := s.machine.Handle(ctx, e.session, content)

	if e.session.Done() {
		e.closed = true
		s.finish(e.session)
	}
	return turnOf(e.session, reply), nil
}

// Snapshot returns a copy of the session state.
func (s *Service) Snapshot(id string) (conversation.Session, error) {
	e, err := s.store.get(id)
	if err != nil {
		return conversation.Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot(), nil
}

// lastReply returns the most recent assistant message of the session.
func (s *Service) lastReply(id string) (Turn, error) {
	e, err := s.store.get(id)
	if err != nil {
		return Turn{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var reply string
	for i := len(e.session.Transcript) - 1; i >= 0; i-- {
		if msg := e.session.Transcript[i]; msg.Role == conversation.RoleAssistant {
			reply = msg.Content
			break
		}
	}
	return turnOf(e.session, reply), nil
}

// finish writes the report, if enabled, and drops the finished session.
func (s *Service) finish(session *conversation.Session) {
	defer s.store.delete(session.ID)

	log := appLogger.WithSession(s.logger, session.ID)
	if s.opts.ReportDir == "" {
		log.Info("session finished")
		return
	}

	path, err := conversation.WriteReport(s.opts.ReportDir, session)
	if err != nil {
		log.Error("failed to write candidate report", zap.Error(err))
		return
	}
	log.Info("session finished", zap.String("report", path))
}

func turnOf(session *conversation.Session, reply string) Turn {
	return Turn{
		SessionID: session.ID,
		Reply:     reply,
		Step:      session.Step,
		Done:      session.Done(),
	}
}

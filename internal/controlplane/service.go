// Package controlplane provides the command dispatcher and the HTTP API.
package controlplane

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fentz26/toyrobot/internal/audit"
	"github.com/fentz26/toyrobot/internal/codec"
	"github.com/fentz26/toyrobot/internal/engine"
	"github.com/fentz26/toyrobot/internal/history"
	"github.com/fentz26/toyrobot/internal/logger"
	"github.com/fentz26/toyrobot/internal/models"
)

// Auditor journals dispatch attempts. *audit.Recorder satisfies it.
type Auditor interface {
	Record(e audit.Entry) (*models.AuditRecord, error)
}

// Service routes commands to the engine and keeps the session history. It
// is single-threaded; Server serializes access for HTTP callers.
type Service struct {
	id      string
	engine  *engine.Engine
	history *history.Log
	auditor Auditor
	base    *log.Logger
	log     *log.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithAuditor journals every dispatch attempt through a.
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithLogger replaces the global logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a dispatcher for a fresh session on eng.
func NewService(eng *engine.Engine, opts ...Option) *Service {
	s := &Service{
		engine:  eng,
		history: history.New(),
		log:     logger.Logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.base = s.log
	s.newSession()
	return s
}

func (s *Service) newSession() {
	s.id = uuid.New().String()
	s.log = s.base.With("session", s.id[:8])
}

// SessionID identifies this session in the audit journal. It changes on
// every Reset, since history sequence numbers restart.
func (s *Service) SessionID() string {
	return s.id
}

// ExecuteText decodes and dispatches a textual command. Decode failures are
// returned and leave the engine and history untouched.
func (s *Service) ExecuteText(text string) (models.HistoryEntry, error) {
	cmd, err := codec.Decode(text)
	if err != nil {
		s.log.Warn("command rejected", "input", text, "err", err)
		s.record(audit.Entry{Command: text, Outcome: models.OutcomeRejected, Details: err.Error()})
		return models.HistoryEntry{}, err
	}
	return s.Execute(cmd)
}

// Execute dispatches cmd to the engine and appends one history entry, even
// when the engine ignored the command.
func (s *Service) Execute(cmd models.Command) (models.HistoryEntry, error) {
	var (
		applied bool
		result  string
	)

	switch c := cmd.(type) {
	case models.PlaceRobot:
		if !c.Direction.Valid() {
			err := fmt.Errorf("%w: %s: invalid direction %d", codec.ErrMalformed, c.Name(), int(c.Direction))
			s.log.Warn("command rejected", "err", err)
			return models.HistoryEntry{}, err
		}
		applied = s.engine.PlaceRobot(c.Position, c.Direction)
	case models.PlaceWall:
		applied = s.engine.PlaceWall(c.Position)
	case models.Move:
		applied = s.engine.Move()
	case models.Left:
		applied = s.engine.Left()
	case models.Right:
		applied = s.engine.Right()
	case models.Report:
		result, applied = s.engine.Report()
	default:
		err := fmt.Errorf("%w: %T", codec.ErrUnknownCommand, cmd)
		s.log.Warn("command rejected", "err", err)
		return models.HistoryEntry{}, err
	}

	entry := s.history.Append(models.HistoryEntry{
		Name:    cmd.Name(),
		Command: cmd,
		Text:    codec.Encode(cmd),
		Result:  result,
		At:      s.now().UTC(),
	})

	outcome := models.OutcomeApplied
	if !applied {
		outcome = models.OutcomeIgnored
		s.log.Debug("command ignored", "seq", entry.Seq, "command", entry.Text)
	} else {
		s.log.Debug("command applied", "seq", entry.Seq, "command", entry.Text, "result", entry.Result)
	}
	s.record(audit.Entry{
		Seq:     entry.Seq,
		Command: entry.Text,
		Name:    entry.Name,
		Outcome: outcome,
		Result:  entry.Result,
	})
	return entry, nil
}

func (s *Service) record(e audit.Entry) {
	if s.auditor == nil {
		return
	}
	e.SessionID = s.id
	if _, err := s.auditor.Record(e); err != nil {
		s.log.Error("audit write failed", "command", e.Command, "err", err)
	}
}

// Reset empties the board, removes the robot and clears the history. The
// journal continues under a new session ID.
func (s *Service) Reset() {
	prev := s.id
	s.engine.Reset()
	s.history.Clear()
	s.newSession()
	s.log.Info("session reset", "previous", prev[:8])
}

// State returns a snapshot of the board, robot and history.
func (s *Service) State() models.State {
	return models.State{
		Size:    s.engine.Size(),
		Cells:   s.engine.Board(),
		Robot:   s.engine.Robot(),
		History: s.history.Entries(),
	}
}

// History returns the dispatched commands in order.
func (s *Service) History() []models.HistoryEntry {
	return s.history.Entries()
}

// CellContent returns what occupies pos.
func (s *Service) CellContent(pos models.Position) models.CellContent {
	return s.engine.CellContent(pos)
}

// Report returns the robot's "x,y,DIRECTION" without recording history.
func (s *Service) Report() (string, bool) {
	return s.engine.Report()
}

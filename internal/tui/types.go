package tui

import (
	"sync"

	"github.com/fentz26/toyrobot/internal/controlplane"
	"github.com/fentz26/toyrobot/internal/models"
)

// Session is what the UI drives: a local service or a remote daemon.
type Session interface {
	ExecuteText(text string) (models.HistoryEntry, error)
	Reset() error
	State() (models.State, error)
}

// LocalSession runs commands in-process. Bubble Tea runs commands on their
// own goroutines, so access to the service is serialized here.
type LocalSession struct {
	mu      sync.Mutex
	service *controlplane.Service
}

// NewLocalSession wraps svc.
func NewLocalSession(svc *controlplane.Service) *LocalSession {
	return &LocalSession{service: svc}
}

// ExecuteText implements Session.
func (l *LocalSession) ExecuteText(text string) (models.HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.service.ExecuteText(text)
}

// Reset implements Session.
func (l *LocalSession) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.service.Reset()
	return nil
}

// State implements Session.
func (l *LocalSession) State() (models.State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.service.State(), nil
}

// placingKind is what the cursor will drop on the board.
type placingKind int

const (
	placingNone placingKind = iota
	placingWall
	placingRobot
)

// placement is the state of the "Place wall" / "Place robot" controls.
type placement struct {
	kind      placingKind
	direction models.Direction
	cursor    models.Position
}

func (p placement) active() bool {
	return p.kind != placingNone
}

// command renders the placement as a textual command.
func (p placement) command() string {
	switch p.kind {
	case placingWall:
		return "PLACE_WALL " + p.cursor.String()
	case placingRobot:
		return "PLACE_ROBOT " + p.cursor.String() + "," + p.direction.String()
	}
	return ""
}

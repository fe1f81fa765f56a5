package controlplane

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fentz26/toyrobot/internal/codec"
	"github.com/fentz26/toyrobot/internal/logger"
	"github.com/fentz26/toyrobot/internal/models"
	"github.com/fentz26/toyrobot/internal/store"
)

// Version is reported by /health.
var Version = "0.1.0"

// Server provides the HTTP API over one session.
type Server struct {
	mu      sync.Mutex
	service *Service
	store   *store.Store
	addr    string
	server  *http.Server
}

// NewServer creates a new HTTP server. st may be nil when no journal is
// configured.
func NewServer(service *Service, st *store.Store, addr string) *Server {
	return &Server{
		service: service,
		store:   st,
		addr:    addr,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/cells", s.handleCells)
	mux.HandleFunc("/commands", s.handleCommands)
	mux.HandleFunc("/reset", s.handleReset)
	mux.HandleFunc("/audit", s.handleAudit)

	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves the API on ln.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	logger.Info("starting toyrobot daemon", "addr", ln.Addr().String(), "session", s.service.SessionID())
	return srv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
	// Commands counts the current session's journal records by outcome.
	Commands map[models.Outcome]int `json:"commands,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := HealthResponse{
		OK:      true,
		DB:      "disabled",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			health.OK = false
			health.DB = "error: " + err.Error()
			status = http.StatusServiceUnavailable
		} else {
			health.DB = "ok"
			s.mu.Lock()
			sessionID := s.service.SessionID()
			s.mu.Unlock()
			counts, err := s.store.CountByOutcome(sessionID)
			if err != nil {
				logger.Warn("count journal records", "err", err)
			} else {
				health.Commands = counts
			}
		}
	}

	writeJSON(w, status, health)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	st := s.service.State()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	entries := s.service.History()
	s.mu.Unlock()

	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// CellResponse is the /cells payload.
type CellResponse struct {
	Position models.Position    `json:"position"`
	Content  models.CellContent `json:"content"`
}

func (s *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidPosition)
		return
	}

	pos := models.Position{X: x, Y: y}
	s.mu.Lock()
	content := s.service.CellContent(pos)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, CellResponse{Position: pos, Content: content})
}

// CommandRequest is the POST /commands body.
type CommandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeError(w, http.StatusBadRequest, ErrEmptyCommand)
		return
	}

	s.mu.Lock()
	entry, err := s.service.ExecuteText(req.Command)
	s.mu.Unlock()

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, codec.ErrUnknownCommand) || errors.Is(err, codec.ErrMalformed) || errors.Is(err, codec.ErrEmpty) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	s.service.Reset()
	st := s.service.State()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		writeError(w, http.StatusNotFound, ErrNoJournal)
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	sessionID := q.Get("session")
	if sessionID == "" {
		sessionID = s.service.SessionID()
	}

	records, err := s.store.ListCommands(store.ListFilter{
		SessionID: sessionID,
		Outcome:   models.Outcome(q.Get("outcome")),
		Limit:     limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []models.AuditRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package controlplane

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fentz26/toyrobot/internal/audit"
	"github.com/fentz26/toyrobot/internal/engine"
	"github.com/fentz26/toyrobot/internal/logger"
	"github.com/fentz26/toyrobot/internal/models"
	"github.com/fentz26/toyrobot/internal/store"
)

func TestHealthEndpoint_OK(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	// Create a test request
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	// Call the handler
	s.handleHealth(w, req)

	// Check response
	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !health.OK {
		t.Error("Expected health.OK to be true")
	}
	if health.DB != "ok" {
		t.Errorf("Expected DB status 'ok', got '%s'", health.DB)
	}
	if health.Version == "" {
		t.Error("Expected version to be set")
	}
	if health.Time == "" {
		t.Error("Expected time to be set")
	}
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint_DBError(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	server := NewServer(newService(t, st), st, "127.0.0.1:0")

	// Close the store to simulate DB error
	st.Close()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.handleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if health.OK {
		t.Error("Expected health.OK to be false when DB is down")
	}
	if health.DB == "ok" {
		t.Error("Expected DB status to indicate error")
	}
}

func TestHealthEndpoint_NoJournal(t *testing.T) {
	server := NewServer(newService(t, nil), nil, "127.0.0.1:0")

	w := httptest.NewRecorder()
	server.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"db":"disabled"`) {
		t.Errorf("Expected disabled journal, got %s", w.Body.String())
	}
}

func TestCommandsEndpoint(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()
	h := s.Handler()

	for _, cmd := range []string{"PLACE_ROBOT 3,2,EAST", "PLACE_WALL 1,1"} {
		w := postCommand(h, cmd)
		if w.Code != http.StatusOK {
			t.Fatalf("POST %q: expected 200, got %d: %s", cmd, w.Code, w.Body.String())
		}
	}

	w := postCommand(h, "report")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var entry models.HistoryEntry
	if err := json.NewDecoder(w.Body).Decode(&entry); err != nil {
		t.Fatalf("Failed to decode entry: %v", err)
	}
	if entry.Seq != 3 || entry.Text != "REPORT" || entry.Result != "3,2,EAST" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
}

func TestCommandsEndpoint_Rejected(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()
	h := s.Handler()

	for _, cmd := range []string{"JUMP", "PLACE_WALL 1", "   "} {
		w := postCommand(h, cmd)
		if w.Code != http.StatusBadRequest {
			t.Errorf("POST %q: expected 400, got %d", cmd, w.Code)
		}
		var body ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil || body.Error == "" {
			t.Errorf("POST %q: expected error body, got %v / %+v", cmd, err, body)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/commands", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid json, got %d", w.Code)
	}

	if n := len(s.service.History()); n != 0 {
		t.Errorf("Expected empty history, got %d entries", n)
	}
}

func TestStateCellsAndReset(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()
	h := s.Handler()

	postCommand(h, "PLACE_WALL 2,4")
	postCommand(h, "PLACE_ROBOT 5,5,SOUTH")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	var st models.State
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	if st.Size != 5 || st.Robot == nil || st.Robot.Report() != "5,5,SOUTH" {
		t.Errorf("Unexpected state: %+v", st)
	}
	if st.CellAt(models.Position{X: 2, Y: 4}) != models.Wall {
		t.Error("Expected wall at 2,4")
	}
	if len(st.History) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(st.History))
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cells?x=2&y=4", nil))
	var cell CellResponse
	if err := json.NewDecoder(w.Body).Decode(&cell); err != nil {
		t.Fatalf("Failed to decode cell: %v", err)
	}
	if cell.Content != models.Wall {
		t.Errorf("Expected WALL, got %q", cell.Content)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cells?x=a&y=4", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad coordinates, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from reset, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty history after reset, got %s", w.Body.String())
	}
}

func TestAuditEndpoint(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()
	h := s.Handler()

	postCommand(h, "MOVE")
	postCommand(h, "PLACE_ROBOT 1,1,NORTH")
	postCommand(h, "NOPE")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit", nil))
	var records []models.AuditRecord
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("Failed to decode audit: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 audit records, got %d", len(records))
	}
	want := []models.Outcome{models.OutcomeIgnored, models.OutcomeApplied, models.OutcomeRejected}
	for i, rec := range records {
		if rec.Outcome != want[i] {
			t.Errorf("record %d: expected %s, got %s", i, want[i], rec.Outcome)
		}
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit?outcome=rejected", nil))
	records = nil
	json.NewDecoder(w.Body).Decode(&records)
	if len(records) != 1 || records[0].Command != "NOPE" {
		t.Errorf("Unexpected filtered records: %+v", records)
	}
}

func TestHealthEndpoint_CommandCounts(t *testing.T) {
	s, cleanup := newTestServer(t)
	defer cleanup()
	h := s.Handler()

	postCommand(h, "MOVE")
	postCommand(h, "PLACE_ROBOT 1,1,NORTH")
	postCommand(h, "REPORT")
	postCommand(h, "NOPE")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	want := map[models.Outcome]int{
		models.OutcomeApplied:  2,
		models.OutcomeIgnored:  1,
		models.OutcomeRejected: 1,
	}
	for outcome, n := range want {
		if health.Commands[outcome] != n {
			t.Errorf("Expected %d %s records, got %d", n, outcome, health.Commands[outcome])
		}
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/reset", nil))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	health = HealthResponse{}
	json.NewDecoder(w.Body).Decode(&health)
	if len(health.Commands) != 0 {
		t.Errorf("Expected no records for the new session, got %v", health.Commands)
	}
}

func TestAuditEndpoint_NoJournal(t *testing.T) {
	server := NewServer(newService(t, nil), nil, "127.0.0.1:0")

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestServeAndShutdown(t *testing.T) {
	server := NewServer(newService(t, nil), nil, "127.0.0.1:0")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = client.Get("http://" + ln.Addr().String() + "/health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Server never answered: %v", err)
	}
	resp.Body.Close()
	client.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := <-errCh; err != http.ErrServerClosed {
		t.Errorf("Expected ErrServerClosed, got %v", err)
	}
}

func postCommand(h http.Handler, cmd string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(CommandRequest{Command: cmd})
	req := httptest.NewRequest(http.MethodPost, "/commands", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newService(t *testing.T, st *store.Store) *Service {
	eng, err := engine.New(engine.DefaultSize)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	opts := []Option{WithLogger(logger.New(io.Discard))}
	if st != nil {
		opts = append(opts, WithAuditor(audit.NewRecorder(st)))
	}
	return NewService(eng, opts...)
}

func newTestServer(t *testing.T) (*Server, func()) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	server := NewServer(newService(t, st), st, "127.0.0.1:0")

	cleanup := func() {
		st.Close()
	}

	return server, cleanup
}

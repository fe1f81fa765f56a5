// Package audit writes command decision records to the journal.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/toyrobot/internal/models"
	"github.com/fentz26/toyrobot/internal/store"
)

// Recorder writes one record per dispatch attempt.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a new recorder backed by s.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Entry describes a dispatch attempt to be journaled.
type Entry struct {
	SessionID string
	Seq       int
	Command   string
	Name      models.CommandName
	Outcome   models.Outcome
	Result    string
	Details   string
}

// Record writes e and returns the stored record.
func (r *Recorder) Record(e Entry) (*models.AuditRecord, error) {
	rec := &models.AuditRecord{
		SessionID:  e.SessionID,
		Seq:        e.Seq,
		Command:    e.Command,
		Name:       string(e.Name),
		Outcome:    e.Outcome,
		Result:     e.Result,
		InputsHash: hashInputs(map[string]string{"command": e.Command, "session_id": e.SessionID}),
		Details:    e.Details,
	}
	if err := r.store.WriteCommand(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

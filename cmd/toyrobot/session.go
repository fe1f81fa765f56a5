package main

import (
	"fmt"

	"github.com/fentz26/toyrobot/internal/audit"
	"github.com/fentz26/toyrobot/internal/controlplane"
	"github.com/fentz26/toyrobot/internal/engine"
	"github.com/fentz26/toyrobot/internal/logger"
	"github.com/fentz26/toyrobot/internal/store"
)

// openSession builds a service from cfg. The returned store is nil unless an
// audit journal is configured; callers close it.
func openSession() (*controlplane.Service, *store.Store, error) {
	eng, err := engine.New(cfg.BoardSize)
	if err != nil {
		return nil, nil, err
	}

	opts := []controlplane.Option{controlplane.WithLogger(logger.Logger)}

	var st *store.Store
	if cfg.AuditDB != "" {
		st, err = store.New(cfg.AuditDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit journal: %w", err)
		}
		opts = append(opts, controlplane.WithAuditor(audit.NewRecorder(st)))
	}

	svc := controlplane.NewService(eng, opts...)
	logger.Debug("session opened", "session", svc.SessionID(), "size", cfg.BoardSize, "journal", cfg.AuditDB)
	return svc, st, nil
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logger.Error("Database close error", "err", err)
	}
}

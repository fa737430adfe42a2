package cli

import (
	"context"
	"errors"

	"github.com/alchemypls/stellar/internal/catalog"
	"github.com/alchemypls/stellar/internal/config"
	"github.com/alchemypls/stellar/internal/logging"
	"github.com/alchemypls/stellar/internal/persist"
	"github.com/alchemypls/stellar/internal/state"
)

// session is a catalog, a manager restored from the save slot and, for
// commands that change state, an attached autosaver.
type session struct {
	cfg    config.Config
	cat    *catalog.Catalog
	mgr    *state.Manager
	store  persist.Store
	saver  *persist.Autosaver
	logger *logging.Logger

	// restored is true when the slot held a previous session.
	restored bool
}

// openSession loads the catalog and restores the slot. With autosave set,
// every later state change is written back to the slot and a fresh session
// is placed on its start star.
func openSession(ctx context.Context, cfg config.Config, logger *logging.Logger, autosave bool) (*session, error) {
	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "load catalog", err)
	}

	store, err := cfg.OpenStore()
	if err != nil {
		return nil, WrapExitError(ExitFailure, "open save store", err)
	}

	s := &session{
		cfg:    cfg,
		cat:    cat,
		mgr:    state.NewManager(cfg.StateConfig()),
		store:  store,
		logger: logger,
	}
	s.mgr.Hydrate(cat)

	// Read-only commands only need the session; writers keep the session id.
	var (
		saved     state.Session
		sessionID string
		found     bool
	)
	if autosave {
		var rec persist.Record
		rec, found, err = persist.LoadRecord(ctx, store, cfg.Slot)
		saved, sessionID = rec.State, rec.SessionID
	} else {
		saved, found, err = persist.LoadSession(ctx, store, cfg.Slot)
	}
	switch {
	case errors.Is(err, persist.ErrUnsupportedVersion):
		logger.Warn("slot %s has an unsupported version, starting fresh", cfg.Slot)
	case err != nil:
		_ = store.Close()
		return nil, WrapExitError(ExitFailure, "load save slot", err)
	case found:
		s.mgr.Restore(saved)
		s.restored = true
		logger.Debug("restored slot %s", cfg.Slot)
	}

	if !autosave {
		return s, nil
	}

	s.saver = persist.NewAutosaver(store, cfg.Slot, logger)
	if sessionID != "" {
		s.saver.SetSessionID(sessionID)
	}
	s.saver.Attach(s.mgr)
	s.ensureStarted()
	return s, nil
}

// ensureStarted puts a session without a current star on the start star.
func (s *session) ensureStarted() {
	if s.mgr.Session().CurrentStarID != "" {
		return
	}
	star, ok := s.cat.StartStar(s.cfg.StartStar, s.cfg.Seed)
	if !ok {
		s.logger.Warn("no start star: %q is missing and %s has no stars", s.cfg.StartStar, s.cfg.Seed)
		return
	}
	s.mgr.SetCurrentStar(star.ID)
}

// close stops autosaving and reports the last save error, if any.
func (s *session) close() error {
	var saveErr error
	if s.saver != nil {
		s.saver.Stop()
		if _, err := s.saver.Stats(); err != nil {
			saveErr = WrapExitError(ExitFailure, "save session", err)
		}
	}
	if err := s.store.Close(); err != nil && saveErr == nil {
		saveErr = WrapExitError(ExitFailure, "close save store", err)
	}
	return saveErr
}

// starName returns the display name for a star id.
func (s *session) starName(id string) string {
	if star, ok := s.cat.Star(id); ok {
		return star.DisplayName()
	}
	return id
}

// constellationName returns the display name for a constellation id.
func (s *session) constellationName(id string) string {
	if c, ok := s.mgr.Constellation(id); ok {
		return c.DisplayName()
	}
	return id
}

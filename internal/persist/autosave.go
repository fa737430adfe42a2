package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alchemypls/stellar/internal/logging"
	"github.com/alchemypls/stellar/internal/state"
)

// saveTimeout bounds a single autosave write.
const saveTimeout = 5 * time.Second

// LoadRecord reads and decodes a slot. found is false when the slot has never
// been written.
func LoadRecord(ctx context.Context, store Store, slot string) (rec Record, found bool, err error) {
	data, err := store.Load(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	rec, err = Decode(data)
	if err != nil {
		return Record{}, true, err
	}
	return rec, true, nil
}

// LoadSession reads the session stored in a slot.
func LoadSession(ctx context.Context, store Store, slot string) (state.Session, bool, error) {
	rec, found, err := LoadRecord(ctx, store, slot)
	return rec.State, found, err
}

// Autosaver writes the session to a slot every time the manager changes.
// Write failures are logged and kept for inspection, never returned to the
// caller of the action that triggered them.
type Autosaver struct {
	store  Store
	slot   string
	logger *logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	sessionID string
	saves     int
	lastErr   error
	stop      func()
}

// NewAutosaver creates an autosaver for the slot. It is inert until
// attached.
func NewAutosaver(store Store, slot string, logger *logging.Logger) *Autosaver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Autosaver{
		store:     store,
		slot:      slot,
		logger:    logger.With("autosave"),
		now:       time.Now,
		sessionID: NewSessionID(),
	}
}

// Autosave subscribes a new autosaver to the manager.
func Autosave(mgr *state.Manager, store Store, slot string, logger *logging.Logger) *Autosaver {
	a := NewAutosaver(store, slot, logger)
	a.Attach(mgr)
	return a
}

// Attach subscribes to mgr. A previous subscription is dropped.
func (a *Autosaver) Attach(mgr *state.Manager) {
	unsub := mgr.Subscribe(func(s state.Session) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		_ = a.Save(ctx, s)
	})

	a.mu.Lock()
	prev := a.stop
	a.stop = unsub
	a.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Stop unsubscribes from the manager.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	stop := a.stop
	a.stop = nil
	a.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// SetSessionID keeps the id of a restored save so later writes continue it.
func (a *Autosaver) SetSessionID(id string) {
	if id == "" {
		return
	}
	a.mu.Lock()
	a.sessionID = id
	a.mu.Unlock()
}

// SessionID returns the id written with each save.
func (a *Autosaver) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

// Save writes the session now.
func (a *Autosaver) Save(ctx context.Context, s state.Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := Encode(NewRecord(a.sessionID, s, a.now()))
	if err == nil {
		err = a.store.Save(ctx, a.slot, data)
	}
	if err != nil {
		a.lastErr = err
		a.logger.Error("save slot %q: %v", a.slot, err)
		return err
	}

	a.saves++
	a.lastErr = nil
	a.logger.Debug("saved slot %q (%d visited)", a.slot, len(s.VisitedStars))
	return nil
}

// Stats returns the number of successful saves and the last error.
func (a *Autosaver) Stats() (saves int, lastErr error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves, a.lastErr
}

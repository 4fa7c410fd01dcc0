// Package sessions holds the in-memory registry of active learning sessions.
// A session is process-local state only; the persisted user record is owned
// by the services layer, which the registry reaches through the Ledger
// interface. Sessions do not survive a restart.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/logging"
)

// Ledger is the accrual authority the registry debits against. AccrueHour
// removes one credit and returns the remaining balance.
type Ledger interface {
	AccrueHour(ctx context.Context, userID string) (int64, error)
}

// session is one registry entry. gen identifies which timer chain owns the
// entry: a firing callback re-arms only if its generation still matches, so a
// replaced or ended session can never be resurrected by a stale timer.
type session struct {
	startTime    time.Time
	lastActivity time.Time
	timer        *time.Timer
	gen          uint64
}

// Registry maps user IDs to their active session. At most one session, and
// therefore at most one pending timer, exists per user at any time.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	nextGen  uint64
	closed   bool

	interval time.Duration
	ledger   Ledger
	logger   logging.Logger
}

func NewRegistry(ledger Ledger, interval time.Duration, logger logging.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		interval: interval,
		ledger:   ledger,
		logger:   logger.With("module", "sessions"),
	}
}

// Start registers a fresh session for the user, cancelling any previous one
// first, and arms the accrual timer. Returns the session start time.
func (r *Registry) Start(userID string) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if r.closed {
		return now
	}

	if prev, ok := r.sessions[userID]; ok {
		prev.timer.Stop()
	}

	r.nextGen++
	s := &session{startTime: now, lastActivity: now, gen: r.nextGen}
	s.timer = r.armLocked(userID, s.gen)
	r.sessions[userID] = s

	return now
}

// Touch refreshes the session's last-activity timestamp, starting a session
// if none exists. It never reschedules the pending timer: the accrual cadence
// is anchored to session start, not to a sliding activity window.
func (r *Registry) Touch(userID string) {
	r.mu.Lock()
	if s, ok := r.sessions[userID]; ok {
		s.lastActivity = time.Now()
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.Start(userID)
}

// End cancels the user's pending timer and removes the session. No-op if
// absent.
func (r *Registry) End(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		s.timer.Stop()
		delete(r.sessions, userID)
	}
}

// Shutdown cancels every pending timer and clears the registry. Further
// Start/Touch calls register nothing.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		s.timer.Stop()
	}
	r.sessions = make(map[string]*session)
	r.closed = true
}

// armLocked schedules the next firing for the given chain generation. Caller
// holds the mutex.
func (r *Registry) armLocked(userID string, gen uint64) *time.Timer {
	return time.AfterFunc(r.interval, func() {
		r.fire(userID, gen)
	})
}

// fire is the accrual callback: debit one credit and decide whether the chain
// continues. It runs off the registry lock; ownership is re-checked via the
// generation before any registry mutation.
func (r *Registry) fire(userID string, gen uint64) {
	ctx := context.Background()

	remaining, err := r.ledger.AccrueHour(ctx, userID)
	switch {
	case errors.Is(err, common.ErrInsufficientCredits), errors.Is(err, common.ErrorNotFound):
		r.logger.Info(ctx, "accrual stopped, ending session", "user_id", userID, "reason", err.Error())
		r.endIfOwner(userID, gen)
		return
	case err != nil:
		// Soft failure: log and let the chain lapse. The next activity
		// starts a fresh session.
		r.logger.Error(ctx, "accrual failed", "user_id", userID, "error", err.Error())
		r.endIfOwner(userID, gen)
		return
	}

	if remaining <= 0 {
		r.logger.Info(ctx, "credits exhausted, ending session", "user_id", userID)
		r.endIfOwner(userID, gen)
		return
	}

	r.rearm(userID, gen)
}

// endIfOwner removes the session only if the firing chain still owns it. A
// session restarted while the callback ran keeps its new timer untouched.
func (r *Registry) endIfOwner(userID string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok && s.gen == gen {
		s.timer.Stop()
		delete(r.sessions, userID)
	}
}

// rearm schedules the next firing under the same generation, provided the
// entry still belongs to this chain and the registry is still open.
func (r *Registry) rearm(userID string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if s, ok := r.sessions[userID]; ok && s.gen == gen {
		s.timer = r.armLocked(userID, gen)
	}
}

// Package session owns the live to-do list and its lifecycle.
//
// A Session moves through three phases: uninitialized, loading, ready.
// Hydrate runs exactly once at startup and only a ready session accepts
// mutations, so user intents can never race ahead of the initial load.
//
// Mutations are optimistic: the in-memory list is updated first and the
// save runs in the background. A failed save is reported as a Notice and
// the in-memory change stays in place; the durable copy goes stale until
// the next save succeeds.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"taskpad/internal/storage"
	"taskpad/internal/task"
)

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
)

// ErrNotReady is returned when a mutation arrives before Hydrate completed.
var ErrNotReady = errors.New("session is not ready")

// ErrAlreadyHydrated is returned when Hydrate is called twice.
var ErrAlreadyHydrated = errors.New("session already hydrated")

// Intent is a user request to mutate the list.
type Intent interface {
	isIntent()
}

// AddIntent requests appending a new task with the given text.
type AddIntent struct {
	Text string
}

// ToggleIntent requests flipping the completed flag of a task.
type ToggleIntent struct {
	ID int64
}

// RemoveIntent requests deleting a task.
type RemoveIntent struct {
	ID int64
}

func (AddIntent) isIntent()    {}
func (ToggleIntent) isIntent() {}
func (RemoveIntent) isIntent() {}

// Notice is a dismissible problem report, typically a failed background
// save. Notices never abort the session.
type Notice struct {
	Text string
	Err  error
	Time time.Time
}

// Session holds the current list and phase. It expects a single mutating
// caller (one interactive user); the mutex only guards against reads from
// the background save path.
type Session struct {
	gateway *storage.Gateway
	alloc   *task.Allocator
	logger  *log.Logger

	mu    sync.Mutex
	phase Phase
	list  task.List

	notices chan Notice

	// Background saves are serialized through a single drain goroutine.
	// pending always holds the newest list awaiting a write, so the last
	// successful save carries the latest state no matter how slow an
	// earlier write was.
	saveMu     sync.Mutex
	pending    task.List
	hasPending bool
	draining   bool
	saves      sync.WaitGroup
}

// New returns an uninitialized session over the given gateway. A nil
// logger discards log output.
func New(gateway *storage.Gateway, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		gateway: gateway,
		alloc:   task.NewAllocator(),
		logger:  logger,
		phase:   PhaseUninitialized,
		notices: make(chan Notice, 16),
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// List returns the current list. The returned value is immutable; every
// mutation replaces it wholesale.
func (s *Session) List() task.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

// Notices returns the channel failed saves are reported on.
func (s *Session) Notices() <-chan Notice {
	return s.notices
}

// Hydrate loads the persisted list and moves the session to ready. It runs
// once; corrupt or unreadable storage keeps the session out of ready and
// the error is returned instead of being swallowed as an empty list.
func (s *Session) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseUninitialized {
		s.mu.Unlock()
		return ErrAlreadyHydrated
	}
	s.phase = PhaseLoading
	s.mu.Unlock()

	list, err := s.gateway.Load(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.phase = PhaseUninitialized
		return fmt.Errorf("hydrate: %w", err)
	}
	for i := range list {
		s.alloc.Observe(list[i].ID)
	}
	s.list = list
	s.phase = PhaseReady
	s.logger.Debug("session ready", "tasks", len(list))
	return nil
}

// Apply dispatches one intent against the current list. The in-memory list
// is updated immediately and the save runs in the background; Apply never
// waits for the store. Intents that change nothing (blank add, unknown id)
// are silent no-ops.
func (s *Session) Apply(ctx context.Context, intent Intent) (task.List, error) {
	next, changed, err := s.step(intent)
	if err != nil || !changed {
		return next, err
	}
	s.persistAsync(ctx, next)
	return next, nil
}

// ApplyWait is Apply for one-shot callers that exit right after the
// mutation: it waits for the save and returns its error. The in-memory
// list keeps the change even when the save fails.
func (s *Session) ApplyWait(ctx context.Context, intent Intent) (task.List, error) {
	next, changed, err := s.step(intent)
	if err != nil || !changed {
		return next, err
	}
	if err := s.gateway.Save(ctx, next); err != nil {
		return next, fmt.Errorf("persist: %w", err)
	}
	return next, nil
}

// Flush blocks until all background saves have finished. Intended for
// shutdown and tests.
func (s *Session) Flush() {
	s.saves.Wait()
}

func (s *Session) step(intent Intent) (task.List, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReady {
		return s.list, false, ErrNotReady
	}

	var (
		next    task.List
		changed bool
	)
	switch in := intent.(type) {
	case AddIntent:
		next, _, changed = s.list.Add(s.alloc, in.Text)
	case ToggleIntent:
		next, changed = s.list.Toggle(in.ID)
	case RemoveIntent:
		next, changed = s.list.Remove(in.ID)
	default:
		return s.list, false, fmt.Errorf("unknown intent %T", intent)
	}
	if changed {
		s.list = next
	}
	return next, changed, nil
}

func (s *Session) persistAsync(ctx context.Context, list task.List) {
	// The save outlives the intent that triggered it; a quitting UI must
	// not cancel a write that is already on its way to disk.
	ctx = context.WithoutCancel(ctx)

	s.saveMu.Lock()
	s.pending = list
	s.hasPending = true
	if s.draining {
		// The running drainer will pick the newer list up.
		s.saveMu.Unlock()
		return
	}
	s.draining = true
	s.saves.Add(1)
	s.saveMu.Unlock()

	go s.drainSaves(ctx)
}

// drainSaves writes pending lists until none remain. Saves issued while a
// write is in flight collapse into the newest pending list, so writes never
// reach the store out of order.
func (s *Session) drainSaves(ctx context.Context) {
	defer s.saves.Done()
	for {
		s.saveMu.Lock()
		if !s.hasPending {
			s.draining = false
			s.saveMu.Unlock()
			return
		}
		list := s.pending
		s.hasPending = false
		s.saveMu.Unlock()

		if err := s.gateway.Save(ctx, list); err != nil {
			s.logger.Error("save failed", "err", err)
			s.notify(Notice{
				Text: "Saving your tasks failed; recent changes are not on disk yet.",
				Err:  err,
				Time: time.Now(),
			})
		}
	}
}

// notify delivers a notice without ever blocking the save path. If nobody
// is draining the channel the oldest notice is dropped.
func (s *Session) notify(n Notice) {
	select {
	case s.notices <- n:
	default:
		select {
		case <-s.notices:
		default:
		}
		select {
		case s.notices <- n:
		default:
		}
	}
}

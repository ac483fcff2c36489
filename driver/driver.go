// Package driver ties the core together: one Core owns the identity
// registry and the set of live sessions, and is what the enumeration layer
// talks to.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/padsync/padsync/device"
	intlog "github.com/padsync/padsync/internal/log"
	"github.com/padsync/padsync/registry"
	"github.com/padsync/padsync/session"
	"github.com/padsync/padsync/transport"
)

// ErrClosed is returned by Attach after Close.
var ErrClosed = errors.New("driver: core closed")

// AttachError wraps a resource-acquisition failure during attach. By the
// time it is returned every partially-acquired resource has been released.
type AttachError struct {
	Identity device.Identity
	Err      error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("driver: attach %s: %v", e.Identity, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }

// Options configures a Core. A nil Logger discards logs.
type Options struct {
	Logger *slog.Logger

	// RawTrace, when set, receives hex dumps of every report crossing
	// the transport boundary of every session.
	RawTrace io.Writer
}

// Core is the device-state synchronization core. Construct one per process
// (or per test: a fresh Core carries a fresh registry).
type Core struct {
	log      *slog.Logger
	reg      *registry.Registry
	rawTrace io.Writer

	mu       sync.Mutex
	closed   bool
	sessions map[*session.Session]struct{}
}

func New(opts Options) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = intlog.Discard()
	}
	return &Core{
		log:      logger,
		reg:      registry.New(),
		rawTrace: opts.RawTrace,
		sessions: make(map[*session.Session]struct{}),
	}
}

// Attach brings up a session for a newly enumerated device. Failures are
// wrapped in *AttachError; registry.ErrAlreadyConnected means the caller
// must abandon claiming the device.
func (c *Core) Attach(id device.Identity, v device.Variant, tr transport.Transport) (*session.Session, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, &AttachError{Identity: id, Err: ErrClosed}
	}
	c.mu.Unlock()

	s, err := session.Attach(session.Config{
		Registry:  c.reg,
		Identity:  id,
		Variant:   v,
		Transport: tr,
		Logger:    c.log,
		RawTrace:  c.rawTrace,
	})
	if err != nil {
		return nil, &AttachError{Identity: id, Err: err}
	}

	c.mu.Lock()
	if c.closed {
		// Lost the race with Close: this session is ours to tear down.
		c.mu.Unlock()
		_ = s.Detach()
		return nil, &AttachError{Identity: id, Err: ErrClosed}
	}
	c.sessions[s] = struct{}{}
	c.mu.Unlock()
	return s, nil
}

// Detach tears down a session previously returned by Attach.
func (c *Core) Detach(s *session.Session) error {
	c.mu.Lock()
	delete(c.sessions, s)
	c.mu.Unlock()
	return s.Detach()
}

// Sessions returns the number of live sessions.
func (c *Core) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Close detaches every remaining session concurrently. The Core is unusable
// afterwards.
func (c *Core) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	remaining := make([]*session.Session, 0, len(c.sessions))
	for s := range c.sessions {
		remaining = append(remaining, s)
	}
	c.sessions = make(map[*session.Session]struct{})
	c.mu.Unlock()

	var g errgroup.Group
	for _, s := range remaining {
		g.Go(s.Detach)
	}
	return g.Wait()
}

package session

import (
	"github.com/padsync/padsync/report"
)

// The flusher is the output scheduler: a single goroutine per session plus a
// dirty flag behind the session mutex. Any number of state mutations between
// two flush cycles collapse into one send carrying the latest values, and at
// most one send is ever in flight.

// markDirtyLocked records a pending state change and wakes the flusher
// unless output is still deferred. Caller holds s.mu.
func (s *Session) markDirtyLocked() {
	s.dirty = true
	if s.deferred {
		return
	}
	s.wakeLocked()
}

// wakeLocked nudges the flush goroutine. The capacity-1 channel makes the
// nudge idempotent while a flush is pending or in flight.
func (s *Session) wakeLocked() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-s.wake:
			s.flush()
		}
	}
}

// flush drains the dirty flag: it snapshots the current state under the
// lock, then encodes and sends outside it. Looping until the flag stays
// clear picks up mutations that raced with an in-flight send.
func (s *Session) flush() {
	for {
		s.mu.Lock()
		if !s.dirty || s.phase != phaseOperational {
			s.mu.Unlock()
			return
		}
		s.dirty = false
		snap := *s.st
		s.mu.Unlock()

		buf := report.Encode(&snap, s.variant)
		s.raw.Log(false, buf)
		if err := s.tr.SendOutputReport(buf); err != nil {
			// Non-fatal: the next state change re-triggers a flush,
			// which is the retry policy.
			s.log.Warn("output report send failed", "error", err)
		}
	}
}

// Package transport defines the boundary between the state-sync core and
// whatever actually moves bytes to the device (USB interrupt pipe,
// Bluetooth L2CAP channel, a test harness).
package transport

import (
	"sync"
	"time"
)

// Transport sends a fully-encoded output report to the device. Sends are
// synchronous; timeouts and retries belong to the implementation, not the
// core. A send error is non-fatal to the core.
type Transport interface {
	SendOutputReport(report []byte) error
}

// Func adapts a plain function to a Transport.
type Func func(report []byte) error

func (f Func) SendOutputReport(report []byte) error { return f(report) }

// Recorder is an in-memory Transport for tests: it counts sends, keeps the
// last report, and can inject per-send errors.
type Recorder struct {
	mu    sync.Mutex
	sends int
	last  []byte

	// Err, when non-nil, is returned by every send (the report is still
	// recorded).
	Err error

	notify chan struct{}
}

func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 64)}
}

func (r *Recorder) SendOutputReport(report []byte) error {
	r.mu.Lock()
	r.sends++
	r.last = append([]byte(nil), report...)
	err := r.Err
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return err
}

// Sends returns how many reports were transmitted.
func (r *Recorder) Sends() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sends
}

// Last returns a copy of the most recent report, or nil.
func (r *Recorder) Last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.last...)
}

// WaitSend blocks until a send happens or the timeout expires. It reports
// whether a send was observed.
func (r *Recorder) WaitSend(timeout time.Duration) bool {
	select {
	case <-r.notify:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Quiesce reports that no send happened for the given duration, draining
// nothing: use it to assert silence.
func (r *Recorder) Quiesce(d time.Duration) bool {
	select {
	case <-r.notify:
		// Put it back for a later WaitSend.
		select {
		case r.notify <- struct{}{}:
		default:
		}
		return false
	case <-time.After(d):
		return true
	}
}

// Package registry tracks connected controller identities and hands out the
// small numeric IDs used for default LED patterns.
//
// A Registry is an injected service with process lifetime: construct one per
// driver core (or per test) instead of sharing package-level state.
package registry

import (
	"errors"
	"sync"

	"github.com/padsync/padsync/device"
)

// ErrAlreadyConnected is returned when the same physical address registers
// twice over the same transport classification. A USB and a Bluetooth
// connection with the same address are one physical unit and are allowed.
var ErrAlreadyConnected = errors.New("registry: device already connected")

// Registry is the table of connected identities plus the numeric-ID pool.
// One mutex guards both; it is only held for table scans and allocations,
// never during I/O.
type Registry struct {
	mu      sync.Mutex
	entries []device.Identity
	ids     idPool
}

func New() *Registry {
	return &Registry{}
}

// Register adds an identity. When the physical address is already present
// over the other transport classification, registration succeeds and
// duplicate is true so the caller can pick a disambiguating display name.
// The same address over the same classification fails with
// ErrAlreadyConnected.
func (r *Registry) Register(id device.Identity) (duplicate bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Addr != id.Addr {
			continue
		}
		if e.Conn.Bluetooth() == id.Conn.Bluetooth() {
			return false, ErrAlreadyConnected
		}
		duplicate = true
	}
	r.entries = append(r.entries, id)
	return duplicate, nil
}

// Release removes an identity. Releasing an identity that was never
// registered is a no-op, so attach-failure unwinding can call it blindly.
func (r *Registry) Release(id device.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered identities.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// AcquireID allocates the smallest free numeric ID.
func (r *Registry) AcquireID() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids.acquire()
}

// ReleaseID returns a numeric ID to the pool. Double-release or release of
// an ID that was never acquired is a programming error and panics.
func (r *Registry) ReleaseID(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids.release(id)
}

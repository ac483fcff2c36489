// Package session owns the per-device lifecycle: one Session per transport
// connection, from attach through operational decode/flush to detach.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/padsync/padsync/device"
	intlog "github.com/padsync/padsync/internal/log"
	"github.com/padsync/padsync/registry"
	"github.com/padsync/padsync/report"
	"github.com/padsync/padsync/transport"
)

var (
	// ErrDetached is returned by mutators and readers once the session
	// left the operational phase.
	ErrDetached = errors.New("session: device detached")

	// ErrLEDIndex is returned for an LED index the variant does not have.
	ErrLEDIndex = errors.New("session: LED index out of range")
)

type phase uint8

const (
	phaseAttaching phase = iota
	phaseOperational
	phaseDetaching
	phaseGone
)

// Config carries everything a Session needs; all fields except Logger and
// RawTrace are required.
type Config struct {
	Registry  *registry.Registry
	Identity  device.Identity
	Variant   device.Variant
	Transport transport.Transport
	Logger    *slog.Logger

	// RawTrace, when set, receives a hex dump of every report crossing
	// the transport boundary.
	RawTrace io.Writer
}

// Session is one connected controller. All state shared between the decode
// path, consumer-facing accessors and the flush goroutine sits behind mu;
// the lock is never held across a transport send.
type Session struct {
	id        uuid.UUID
	identity  device.Identity
	variant   device.Variant
	tr        transport.Transport
	log       *slog.Logger
	reg       *registry.Registry
	duplicate bool

	mu        sync.Mutex
	phase     phase
	st        *device.State
	dirty     bool
	deferred  bool // device wants one input report before accepting output
	numericID int

	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	raw           intlog.RawLogger
	uninterpreted *intlog.Throttle
}

// Attach acquires the session's resources in order (registry entry, numeric
// ID, state, flusher) and returns an operational session. On any failure it
// unwinds whatever was already acquired; the release calls are safe on
// never-acquired resources.
func Attach(cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = intlog.Discard()
	}

	s := &Session{
		id:            uuid.New(),
		identity:      cfg.Identity,
		variant:       cfg.Variant,
		tr:            cfg.Transport,
		reg:           cfg.Registry,
		phase:         phaseAttaching,
		numericID:     device.NoNumericID,
		wake:          make(chan struct{}, 1),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		raw:           intlog.NewRaw(cfg.RawTrace),
		uninterpreted: intlog.NewThrottle(3, 10*time.Second),
	}
	s.log = logger.With("session", s.id, "device", s.identity.String(), "variant", s.variant.String())

	dup, err := s.reg.Register(s.identity)
	if err != nil {
		return nil, fmt.Errorf("register identity: %w", err)
	}
	s.duplicate = dup

	if s.variant.WantsNumericID() {
		id, err := s.reg.AcquireID()
		if err != nil {
			s.unwind()
			return nil, fmt.Errorf("acquire numeric ID: %w", err)
		}
		s.numericID = id
	}

	s.st = device.NewState(s.variant, s.numericID)
	s.deferred = s.variant.DefersFirstOutput(s.identity.Conn)

	s.mu.Lock()
	s.phase = phaseOperational
	// Push the default LED pattern out unless the device first needs to
	// prove it is ready by sending an input report.
	s.dirty = true
	if !s.deferred {
		s.wakeLocked()
	}
	s.mu.Unlock()

	go s.run()

	s.log.Info("device attached", "duplicate", dup, "numericID", s.numericID)
	return s, nil
}

// unwind releases partially-acquired attach resources. Safe to call with
// nothing acquired.
func (s *Session) unwind() {
	s.mu.Lock()
	id := s.numericID
	s.numericID = device.NoNumericID
	s.mu.Unlock()

	if id != device.NoNumericID {
		s.reg.ReleaseID(id)
	}
	s.reg.Release(s.identity)
}

// HandleInputReport decodes one transport-delivered frame and folds it into
// device state. It reports whether the frame was accepted, so the transport
// adapter can decide whether to forward it elsewhere. Never blocks on the
// flush path.
func (s *Session) HandleInputReport(raw []byte) bool {
	s.raw.Log(true, raw)

	sample, err := report.Decode(raw, s.variant)
	switch {
	case errors.Is(err, report.ErrSpurious):
		s.log.Debug("dropping spurious input frame")
		return false
	case err != nil:
		s.uninterpreted.Do(func() {
			s.log.Debug("ignoring uninterpreted input report", "len", len(raw))
		})
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseOperational {
		return false
	}

	s.st.BatteryCapacity = sample.BatteryCapacity
	s.st.BatteryStatus = sample.BatteryStatus
	if sample.HasAccel {
		s.st.Accel = sample.Accel
	}

	if s.deferred {
		// First decoded report: the device is ready for output now.
		s.deferred = false
		if s.dirty {
			s.wakeLocked()
		}
	}
	return true
}

// SetLED sets one LED's brightness and schedules a flush.
func (s *Session) SetLED(index int, brightness uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseOperational {
		return ErrDetached
	}
	if index < 0 || index >= s.variant.LEDCount() {
		return fmt.Errorf("%w: %d", ErrLEDIndex, index)
	}
	s.st.LEDs[index].Brightness = brightness
	s.markDirtyLocked()
	return nil
}

// SetBlink sets one LED's blink timing in milliseconds. The device stores
// deciseconds; non-zero requests never round down to "steady".
func (s *Session) SetBlink(index int, onMs, offMs uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseOperational {
		return ErrDetached
	}
	if index < 0 || index >= s.variant.LEDCount() {
		return fmt.Errorf("%w: %d", ErrLEDIndex, index)
	}
	s.st.LEDs[index].BlinkOn = msToDecisec(onMs)
	s.st.LEDs[index].BlinkOff = msToDecisec(offMs)
	s.markDirtyLocked()
	return nil
}

// SetRumble sets both motor intensities and schedules a flush.
func (s *Session) SetRumble(strong, weak uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseOperational {
		return ErrDetached
	}
	s.st.RumbleStrong = strong
	s.st.RumbleWeak = weak
	s.markDirtyLocked()
	return nil
}

// Battery returns the last known battery capacity and status.
func (s *Session) Battery() (capacity uint8, status device.BatteryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.BatteryCapacity, s.st.BatteryStatus
}

// SensorAxes returns the last decoded accelerometer axes. Zero for variants
// without an accelerometer.
func (s *Session) SensorAxes() (x, y, z int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Accel[0], s.st.Accel[1], s.st.Accel[2]
}

// Identity returns the transport identity this session was attached with.
func (s *Session) Identity() device.Identity { return s.identity }

// Variant returns the hardware profile matched at attach time.
func (s *Session) Variant() device.Variant { return s.variant }

// NumericID returns the pool-assigned ID, or device.NoNumericID (always so
// once detached).
func (s *Session) NumericID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numericID
}

// Duplicate reports whether this session is the second transport connection
// to a physical unit already registered over the other transport.
func (s *Session) Duplicate() bool { return s.duplicate }

// DisplayName returns the human-readable device name, suffixed with the
// transport when this is the second connection to one physical unit.
func (s *Session) DisplayName() string {
	var name string
	switch s.variant {
	case device.VariantNavigation:
		name = "Navigation Controller"
	default:
		name = "Motion Controller"
	}
	if s.duplicate {
		name = fmt.Sprintf("%s (%s)", name, s.identity.Conn)
	}
	return name
}

// Detach stops the flusher, waits out any in-flight flush, then releases the
// numeric ID and registry entry. Idempotent; concurrent callers may return
// before the first caller finished teardown.
func (s *Session) Detach() error {
	s.mu.Lock()
	if s.phase == phaseDetaching || s.phase == phaseGone {
		s.mu.Unlock()
		return nil
	}
	s.phase = phaseDetaching
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	s.unwind()

	s.mu.Lock()
	s.phase = phaseGone
	s.mu.Unlock()

	s.log.Info("device detached")
	return nil
}

func msToDecisec(ms uint32) uint8 {
	ds := ms / 100
	if ds == 0 && ms > 0 {
		ds = 1
	}
	if ds > 255 {
		ds = 255
	}
	return uint8(ds)
}

// Package report implements the fixed-layout input/output report codec for
// the sixaxis controller family. Decode and Encode are pure: they never
// touch device state and hold no locks.
package report

import (
	"encoding/binary"
	"errors"

	"github.com/padsync/padsync/device"
)

var (
	// ErrMalformed marks a frame this codec does not interpret (wrong
	// length or truncated). The connection stays up; the device emits
	// other report shapes that belong to other consumers.
	ErrMalformed = errors.New("report: malformed input report")

	// ErrSpurious marks the known all-zero glitch frame with 0xFF in the
	// status byte. It carries no input and must not reach device state.
	ErrSpurious = errors.New("report: spurious input report")
)

// Sample is one decoded telemetry frame.
type Sample struct {
	BatteryCapacity uint8
	BatteryStatus   device.BatteryStatus

	HasAccel bool
	Accel    [3]int16
}

// Decode validates and decodes a raw input report for the given variant.
// The returned Sample is only valid when the error is nil.
func Decode(raw []byte, v device.Variant) (Sample, error) {
	if len(raw) != InputReportSize || raw[0] != ReportIDInput {
		return Sample{}, ErrMalformed
	}
	if raw[InOffsetStatus] == SpuriousMarker {
		return Sample{}, ErrSpurious
	}

	var s Sample
	s.BatteryCapacity, s.BatteryStatus = decodeBattery(raw[InOffsetBattery])

	if v.HasAccelerometer() {
		s.HasAccel = true
		// The wire stores each pair byte-swapped relative to the
		// host's little-endian reads, so read big-endian. Y and Z
		// are inverted and occupy each other's slots.
		x := binary.BigEndian.Uint16(raw[InOffsetAccelX:])
		y := binary.BigEndian.Uint16(raw[InOffsetAccelY:])
		z := binary.BigEndian.Uint16(raw[InOffsetAccelZ:])
		s.Accel[0] = int16(x) - accelBias
		s.Accel[1] = accelBias - int16(y)
		s.Accel[2] = accelBias - int16(z)
	}
	return s, nil
}

func decodeBattery(b uint8) (uint8, device.BatteryStatus) {
	if b >= BatteryWired {
		if b&BatteryFullBit != 0 {
			return 100, device.BatteryFull
		}
		return 100, device.BatteryCharging
	}
	if b > batteryTableMax {
		b = batteryTableMax
	}
	return batteryCapacity[b], device.BatteryDischarging
}

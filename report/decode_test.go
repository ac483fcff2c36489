package report_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padsync/padsync/device"
	"github.com/padsync/padsync/report"
)

// inputFrame builds a valid 49-byte telemetry frame with the given battery
// byte and raw 10-bit accelerometer pair values (already in wire slots:
// X at 41, Z at 43, Y at 45, byte-swapped pairs).
func inputFrame(battery byte, rawX, rawY, rawZ uint16) []byte {
	b := make([]byte, report.InputReportSize)
	b[0] = report.ReportIDInput
	b[report.InOffsetBattery] = battery
	binary.BigEndian.PutUint16(b[report.InOffsetAccelX:], rawX)
	binary.BigEndian.PutUint16(b[report.InOffsetAccelZ:], rawZ)
	binary.BigEndian.PutUint16(b[report.InOffsetAccelY:], rawY)
	return b
}

func TestDecodeBatteryMapping(t *testing.T) {
	cases := []struct {
		name     string
		raw      byte
		capacity uint8
		status   device.BatteryStatus
	}{
		{"wired charging", 0xEE, 100, device.BatteryCharging},
		{"wired full", 0xEF, 100, device.BatteryFull},
		{"empty", 0x00, 0, device.BatteryDischarging},
		{"critical", 0x01, 1, device.BatteryDischarging},
		{"quarter", 0x02, 25, device.BatteryDischarging},
		{"half", 0x03, 50, device.BatteryDischarging},
		{"three quarters", 0x04, 75, device.BatteryDischarging},
		{"full charge", 0x05, 100, device.BatteryDischarging},
		{"out of table clamps", 0x09, 100, device.BatteryDischarging},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := report.Decode(inputFrame(tc.raw, 511, 511, 511), device.VariantSixaxis)
			require.NoError(t, err)
			assert.Equal(t, tc.capacity, s.BatteryCapacity)
			assert.Equal(t, tc.status, s.BatteryStatus)
		})
	}
}

func TestDecodeAccelerometer(t *testing.T) {
	cases := []struct {
		name             string
		rawX, rawY, rawZ uint16
		x, y, z          int16
	}{
		{"at rest", 511, 511, 511, 0, 0, 0},
		{"x positive", 611, 511, 511, 100, 0, 0},
		// Y and Z are inverted on the wire.
		{"y positive", 511, 411, 511, 0, 100, 0},
		{"z negative", 511, 511, 611, 0, 0, -100},
		{"extremes", 1023, 0, 1023, 512, 511, -512},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := report.Decode(inputFrame(0x05, tc.rawX, tc.rawY, tc.rawZ), device.VariantSixaxis)
			require.NoError(t, err)
			assert.True(t, s.HasAccel)
			assert.Equal(t, tc.x, s.Accel[0], "x")
			assert.Equal(t, tc.y, s.Accel[1], "y")
			assert.Equal(t, tc.z, s.Accel[2], "z")
		})
	}
}

func TestDecodeAxisRange(t *testing.T) {
	// Sweep the 10-bit raw space: every decoded axis stays within the
	// derived range and every battery value maps into the table.
	for raw := 0; raw < 1024; raw += 7 {
		s, err := report.Decode(inputFrame(byte(raw%6), uint16(raw), uint16(raw), uint16(raw)), device.VariantSixaxis)
		require.NoError(t, err)
		for _, v := range s.Accel {
			assert.GreaterOrEqual(t, v, int16(-512))
			assert.LessOrEqual(t, v, int16(512))
		}
		assert.Contains(t, []uint8{0, 1, 25, 50, 75, 100}, s.BatteryCapacity)
	}
}

func TestDecodeNavigationSkipsAccel(t *testing.T) {
	s, err := report.Decode(inputFrame(0x03, 1023, 0, 0), device.VariantNavigation)
	require.NoError(t, err)
	assert.False(t, s.HasAccel)
	assert.Equal(t, [3]int16{}, s.Accel)
}

func TestDecodeSpuriousFrame(t *testing.T) {
	b := make([]byte, report.InputReportSize)
	b[0] = report.ReportIDInput
	b[1] = 0xFF
	_, err := report.Decode(b, device.VariantSixaxis)
	assert.ErrorIs(t, err, report.ErrSpurious)
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"short", []byte{0x01, 0x00}},
		{"other report length", make([]byte, 30)},
		{"too long", make([]byte, 64)},
		{"wrong report id", append([]byte{0x02}, make([]byte, report.InputReportSize-1)...)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := report.Decode(tc.raw, device.VariantSixaxis)
			assert.ErrorIs(t, err, report.ErrMalformed)
		})
	}
}

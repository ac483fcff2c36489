package report

// Input report layout (49-byte telemetry frame, report ID 0x01).
const (
	ReportIDInput = 0x01

	InputReportSize = 49

	// InOffsetStatus is the glitch sentinel byte: 0xFF here marks a
	// spurious frame that must be dropped without touching state.
	InOffsetStatus = 1

	InOffsetBattery = 30

	// Accelerometer axes, one byte-swapped 10-bit pair each. The Y and Z
	// slots are swapped relative to their logical axes.
	InOffsetAccelX = 41
	InOffsetAccelZ = 43
	InOffsetAccelY = 45
)

// SpuriousMarker in the status byte identifies a transport glitch frame.
const SpuriousMarker = 0xFF

// Battery byte semantics: values >= BatteryWired mean powered over the wire
// (bit0 distinguishes full from charging); lower values index the capacity
// table, clamped to its last entry.
const (
	BatteryWired    = 0xEE
	BatteryFullBit  = 0x01
	batteryTableMax = 5
)

var batteryCapacity = [batteryTableMax + 1]uint8{0, 1, 25, 50, 75, 100}

// accelBias centers the 10-bit unsigned wire value around rest.
const accelBias = 511

// Output report layout (36-byte command frame, report ID 0x01).
const (
	ReportIDOutput = 0x01

	OutputReportSize = 36

	OutOffsetWeakOn      = 3 // right/small motor, on/off only
	OutOffsetStrongForce = 5 // left/large motor, force 0-255

	// OutOffsetLEDBitmap holds one bit per LED at bit position index+1.
	OutOffsetLEDBitmap = 10

	// LED timing slots: four 5-byte entries in reverse index order
	// (logical LED 0 occupies the last slot).
	OutOffsetLEDSlots = 11
	ledSlotSize       = 5
	ledSlotDutyOff    = 3
	ledSlotDutyOn     = 4

	// LEDBitsMask covers the four real LED bits; AllLEDsOffBit is the
	// sentinel some third-party clones need to distinguish "all off"
	// from "uninitialized".
	LEDBitsMask   = 0x1E
	AllLEDsOffBit = 0x20
)

// outputTemplate is the factory-default output report. Unspecified and
// reserved bytes must keep these values: the 0xFF/0x27/0x10/0x00/0x32 LED
// slots are the firmware's steady-on timing, and zeroing them would latch
// the LED off on some units.
var outputTemplate = [OutputReportSize]byte{
	0x01,
	0x01, 0xFF, 0x00, 0xFF, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0x27, 0x10, 0x00, 0x32,
	0xFF, 0x27, 0x10, 0x00, 0x32,
	0xFF, 0x27, 0x10, 0x00, 0x32,
	0xFF, 0x27, 0x10, 0x00, 0x32,
	0x00, 0x00, 0x00, 0x00, 0x00,
}

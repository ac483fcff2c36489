package device

// MaxLEDs is the number of player LEDs on the full controller.
const MaxLEDs = 4

// NoNumericID marks a state whose variant does not use the numeric-ID pool.
const NoNumericID = -1

// BatteryStatus mirrors the charge state reported by the device.
type BatteryStatus uint8

const (
	BatteryDischarging BatteryStatus = iota
	BatteryCharging
	BatteryFull
)

func (s BatteryStatus) String() string {
	switch s {
	case BatteryCharging:
		return "charging"
	case BatteryFull:
		return "full"
	default:
		return "discharging"
	}
}

// LED is one player LED: a brightness plus optional blink timing in
// deciseconds. BlinkOn == BlinkOff == 0 means steady, no blink.
type LED struct {
	Brightness uint8
	BlinkOn    uint8
	BlinkOff   uint8
}

// State is the authoritative record of one connected controller. It is plain
// data; the owning session serializes all access (decode path, consumer
// setters and the flush path share one mutex).
type State struct {
	BatteryCapacity uint8 // 0-100
	BatteryStatus   BatteryStatus

	LEDs [MaxLEDs]LED

	RumbleStrong uint8 // left/large motor, force 0-255
	RumbleWeak   uint8 // right/small motor, on/off threshold

	// Accel holds the last decoded sensor axes. Only meaningful while the
	// variant carries an accelerometer.
	Accel [3]int16

	// NumericID selects the default LED pattern, NoNumericID when unused.
	NumericID int
}

// defaultLEDPatterns maps a numeric ID (modulo 10) to the factory player-LED
// display: IDs 0-3 light a single LED, higher IDs combine them.
var defaultLEDPatterns = [10][MaxLEDs]uint8{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
	{1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, 0, 1, 1},
	{1, 0, 1, 1},
	{0, 1, 1, 1},
	{1, 1, 1, 1},
}

// DefaultLEDPattern returns the factory LED row for a numeric ID, cycling
// modulo the pattern table.
func DefaultLEDPattern(numericID int) [MaxLEDs]uint8 {
	if numericID < 0 {
		return [MaxLEDs]uint8{}
	}
	return defaultLEDPatterns[numericID%len(defaultLEDPatterns)]
}

// NewState builds the attach-time state: optimistic full battery before the
// first real sample, LEDs derived from the numeric ID.
func NewState(v Variant, numericID int) *State {
	st := &State{
		BatteryCapacity: 100,
		BatteryStatus:   BatteryDischarging,
		NumericID:       numericID,
	}
	for i, on := range DefaultLEDPattern(numericID) {
		st.LEDs[i].Brightness = on
	}
	return st
}

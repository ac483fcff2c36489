package device

import "fmt"

// Variant identifies the hardware profile of a connected controller. It is
// matched once at attach time; every conditional in the core goes through
// the capability accessors below.
type Variant uint8

const (
	// VariantSixaxis is the full motion controller: four player LEDs,
	// a three-axis accelerometer and two rumble motors.
	VariantSixaxis Variant = iota
	// VariantNavigation is the one-handed variant: a single LED, no
	// accelerometer, no player-number display.
	VariantNavigation
)

func (v Variant) String() string {
	switch v {
	case VariantSixaxis:
		return "sixaxis"
	case VariantNavigation:
		return "navigation"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// HasAccelerometer reports whether input reports carry sensor axes.
func (v Variant) HasAccelerometer() bool { return v == VariantSixaxis }

// WantsNumericID reports whether the variant needs a pool-assigned numeric
// ID to pick a default player-LED pattern.
func (v Variant) WantsNumericID() bool { return v == VariantSixaxis }

// LEDCount returns how many controllable LEDs the variant exposes.
func (v Variant) LEDCount() int {
	if v == VariantNavigation {
		return 1
	}
	return MaxLEDs
}

// DefersFirstOutput reports whether the device must emit one input report
// before it accepts output reports on the given transport. Sixaxis units
// over Bluetooth reject output sent before their first input frame.
func (v Variant) DefersFirstOutput(k ConnKind) bool {
	return v == VariantSixaxis && k.Bluetooth()
}

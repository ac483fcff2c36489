package report

import "github.com/padsync/padsync/device"

// Encode builds the output report for the given state. It never fails: the
// state was validated by the setters that produced it.
//
// The buffer starts as the factory-default template so reserved bytes keep
// known-good values, then rumble, the LED bitmap and any requested blink
// timing are overlaid.
func Encode(st *device.State, v device.Variant) []byte {
	buf := make([]byte, OutputReportSize)
	copy(buf, outputTemplate[:])

	if st.RumbleWeak != 0 {
		buf[OutOffsetWeakOn] = 1
	} else {
		buf[OutOffsetWeakOn] = 0
	}
	buf[OutOffsetStrongForce] = st.RumbleStrong

	var bitmap byte
	n := v.LEDCount()
	for i := 0; i < n; i++ {
		if st.LEDs[i].Brightness > 0 {
			bitmap |= 1 << (i + 1)
		}
	}
	if bitmap&LEDBitsMask == 0 {
		// Required so third-party clones do not read "all off" as
		// "uninitialized, all on".
		bitmap |= AllLEDsOffBit
	}
	buf[OutOffsetLEDBitmap] = bitmap

	// Timing slots run in reverse index order: logical LED 0 occupies the
	// last slot. Slots keep their template timing unless the LED actually
	// blinks; all-zero timing would force the LED permanently off.
	for i := 0; i < n; i++ {
		led := st.LEDs[i]
		if led.BlinkOn == 0 && led.BlinkOff == 0 {
			continue
		}
		slot := OutOffsetLEDSlots + ledSlotSize*(device.MaxLEDs-1-i)
		buf[slot+ledSlotDutyOff] = led.BlinkOff
		buf[slot+ledSlotDutyOn] = led.BlinkOn
	}

	return buf
}

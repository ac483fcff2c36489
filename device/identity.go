// Package device defines the identities, variants and mutable state of
// connected motion controllers.
package device

import "fmt"

// ConnKind is the transport a controller is connected over.
type ConnKind uint8

const (
	ConnUSB ConnKind = iota
	ConnBluetooth
)

// Bluetooth reports the classification used for duplicate detection: a USB
// and a Bluetooth connection with the same physical address are the same
// physical unit, while two connections of the same classification are a
// genuine duplicate.
func (k ConnKind) Bluetooth() bool { return k == ConnBluetooth }

func (k ConnKind) String() string {
	switch k {
	case ConnUSB:
		return "usb"
	case ConnBluetooth:
		return "bluetooth"
	default:
		return fmt.Sprintf("connkind(%d)", uint8(k))
	}
}

// Identity names one transport connection to a physical controller.
type Identity struct {
	Addr [6]byte
	Conn ConnKind
}

func (id Identity) String() string {
	a := id.Addr
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x/%s",
		a[0], a[1], a[2], a[3], a[4], a[5], id.Conn)
}

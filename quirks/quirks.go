// Package quirks carries literal report-descriptor fixups for known-buggy
// dongles. The enumeration layer calls FixupDescriptor before handing a
// descriptor to its HID parser; the state-sync core itself never interprets
// descriptors.
package quirks

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed quirks.yaml
var rawQuirks []byte

type substitution struct {
	At    int   `yaml:"at"`
	Value uint8 `yaml:"value"`
}

type patchRule struct {
	Match struct {
		Size   int   `yaml:"size"`
		At     int   `yaml:"at"`
		Equals uint8 `yaml:"equals"`
	} `yaml:"match"`
	Set []substitution `yaml:"set"`
}

// Entry is one fixup record: either Patch (conditional byte substitutions)
// or Replace (a complete literal descriptor).
type Entry struct {
	Name    string     `yaml:"name"`
	Vendor  uint16     `yaml:"vendor"`
	Product uint16     `yaml:"product"`
	Patch   *patchRule `yaml:"patch"`
	Replace []int      `yaml:"replace"`
}

type table struct {
	Quirks []Entry `yaml:"quirks"`
}

var (
	loadOnce sync.Once
	entries  []Entry
)

func load() {
	var t table
	if err := yaml.Unmarshal(rawQuirks, &t); err != nil {
		// Embedded data; failing to parse it is a build defect.
		panic(fmt.Sprintf("quirks: bad embedded table: %v", err))
	}
	entries = t.Quirks
}

// Entries returns the parsed fixup table.
func Entries() []Entry {
	loadOnce.Do(load)
	return entries
}

// FixupDescriptor returns the descriptor the HID parser should see for the
// given device. When a quirk applies, the result is a patched copy (or the
// literal replacement descriptor); otherwise desc is returned unchanged.
func FixupDescriptor(vendor, product uint16, desc []byte) []byte {
	loadOnce.Do(load)
	for _, e := range entries {
		if e.Vendor != vendor || e.Product != product {
			continue
		}
		if len(e.Replace) > 0 {
			out := make([]byte, len(e.Replace))
			for i, b := range e.Replace {
				out[i] = byte(b)
			}
			return out
		}
		if p := e.Patch; p != nil {
			m := p.Match
			if len(desc) != m.Size || m.At >= len(desc) || desc[m.At] != m.Equals {
				continue
			}
			out := append([]byte(nil), desc...)
			for _, s := range p.Set {
				if s.At < len(out) {
					out[s.At] = s.Value
				}
			}
			return out
		}
	}
	return desc
}

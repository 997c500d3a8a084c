// internal/registry/descriptor.go
package registry

import "strings"

// Kind selects the Modbus register class a descriptor lives in.
type Kind int

const (
	// KindInput is a read-only input register (FC 4).
	KindInput Kind = iota
	// KindHolding is a holding register (FC 3 read, FC 6/16 write).
	KindHolding
)

// Access describes what callers may do with a register.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
	// WriteOnlyTransient marks momentary-action registers (device reset).
	// Writes are allowed; no confirmatory read is expected afterwards.
	WriteOnlyTransient
)

// Cadence assigns a register to one of the two poll groups.
type Cadence int

const (
	// CadenceNone excludes a register from periodic polling.
	CadenceNone Cadence = iota
	CadenceFast
	CadenceSlow
)

func (c Cadence) String() string {
	switch c {
	case CadenceFast:
		return "fast"
	case CadenceSlow:
		return "slow"
	default:
		return "none"
	}
}

// ValueType tags the domain interpretation of a register.
type ValueType int

const (
	Temperature ValueType = iota
	Pressure
	FlowVolume
	RPM
	Percentage
	Enum
	Count
	Bitfield
)

// EnumState is one raw-code -> symbolic-state mapping entry.
// DisplayOnly states can be decoded but never encoded back; the device
// reports them but does not accept them as a setting.
type EnumState struct {
	Code        uint16
	Name        string
	DisplayOnly bool
}

// Descriptor describes one addressable register. Immutable after New.
type Descriptor struct {
	Key     string
	Address uint16
	Words   uint16 // 1, or 2 for 32-bit values (high word first)
	Kind    Kind
	Access  Access
	Type    ValueType
	Cadence Cadence
	Signed  bool
	Scale   float64 // multiplier applied after raw decode; 0 means 1
	Min     float64 // inclusive, domain units
	Max     float64 // inclusive, domain units
	Unit    string
	Enum    []EnumState // ordered; present only for Type == Enum
}

// EffectiveScale returns Scale with the zero value meaning identity.
func (d Descriptor) EffectiveScale() float64 {
	if d.Scale == 0 {
		return 1
	}
	return d.Scale
}

// EnumName resolves a raw code to its symbolic state.
func (d Descriptor) EnumName(code uint16) (string, bool) {
	for _, e := range d.Enum {
		if e.Code == code {
			return e.Name, true
		}
	}
	return "", false
}

// EnumCode resolves a symbolic state to the raw code written to the device.
// DisplayOnly states are not writable and resolve to false. Lookup is
// case-insensitive so service callers can pass "automatic" for "Automatic".
func (d Descriptor) EnumCode(name string) (uint16, bool) {
	for _, e := range d.Enum {
		if e.DisplayOnly {
			continue
		}
		if strings.EqualFold(e.Name, name) {
			return e.Code, true
		}
	}
	return 0, false
}

// internal/codec/codec.go

// Package codec converts raw register words to typed domain values and
// back. Pure functions, no IO, no state.
package codec

import (
	"errors"
	"fmt"
	"math"

	"github.com/openhru/brinkd/internal/registry"
)

var (
	// ErrValueOutOfRange rejects an encode whose value falls outside the
	// descriptor's valid range.
	ErrValueOutOfRange = errors.New("codec: value out of range")
	// ErrReadOnlyRegister rejects any encode against a read-only register.
	ErrReadOnlyRegister = errors.New("codec: read-only register")
	// ErrInvalidEnumState rejects enum states with no writable raw code.
	ErrInvalidEnumState = errors.New("codec: invalid enum state")
)

// Value is a decoded register value. Numeric types use Num; Enum types use
// State plus EnumCode, with UnknownEnum set when the device reported a code
// absent from the descriptor's mapping.
type Value struct {
	Num      float64
	State    string
	EnumCode uint16

	// UnknownEnum marks enum codes with no mapping entry. The value is
	// still delivered so the raw code stays observable.
	UnknownEnum bool

	// OutOfRange marks decoded numeric values outside the descriptor's
	// valid range. Delivered, not dropped: a misreporting sensor must
	// remain visible for diagnostics.
	OutOfRange bool
}

// Number builds a numeric Value for Encode.
func Number(n float64) Value { return Value{Num: n} }

// State builds an enum Value for Encode.
func State(s string) Value { return Value{State: s} }

func (v Value) String() string {
	if v.UnknownEnum {
		return fmt.Sprintf("unknown(%d)", v.EnumCode)
	}
	if v.State != "" {
		return v.State
	}
	if v.OutOfRange {
		return fmt.Sprintf("%g (out of range)", v.Num)
	}
	return fmt.Sprintf("%g", v.Num)
}

// Decode interprets raw words per the descriptor: sign, high-word-first
// 32-bit combination, scaling, enum mapping. Unmapped enum codes yield an
// explicit unknown value, never an error and never a default state.
func Decode(d registry.Descriptor, raw []uint16) (Value, error) {
	if len(raw) != int(d.Words) {
		return Value{}, fmt.Errorf("codec: %s: got %d words, want %d", d.Key, len(raw), d.Words)
	}

	if d.Type == registry.Enum {
		code := raw[0]
		name, ok := d.EnumName(code)
		if !ok {
			return Value{EnumCode: code, UnknownEnum: true}, nil
		}
		return Value{State: name, EnumCode: code}, nil
	}

	var n int64
	switch d.Words {
	case 2:
		u := uint32(raw[0])<<16 | uint32(raw[1])
		if d.Signed {
			n = int64(int32(u))
		} else {
			n = int64(u)
		}
	default:
		if d.Signed {
			n = int64(int16(raw[0]))
		} else {
			n = int64(raw[0])
		}
	}

	v := Value{Num: float64(n) * d.EffectiveScale()}
	if v.Num < d.Min || v.Num > d.Max {
		v.OutOfRange = true
	}
	return v, nil
}

// Encode validates a typed value against the descriptor and produces the
// raw words to write.
func Encode(d registry.Descriptor, v Value) ([]uint16, error) {
	if d.Access == registry.ReadOnly {
		return nil, fmt.Errorf("%w: %s", ErrReadOnlyRegister, d.Key)
	}

	if d.Type == registry.Enum {
		if v.UnknownEnum {
			return nil, fmt.Errorf("%w: %s: unknown(%d)", ErrInvalidEnumState, d.Key, v.EnumCode)
		}
		code, ok := d.EnumCode(v.State)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q", ErrInvalidEnumState, d.Key, v.State)
		}
		return []uint16{code}, nil
	}

	// NaN slips past plain comparisons and would collapse to raw 0.
	if math.IsNaN(v.Num) || v.Num < d.Min || v.Num > d.Max {
		return nil, fmt.Errorf("%w: %s: %g not in [%g, %g]", ErrValueOutOfRange, d.Key, v.Num, d.Min, d.Max)
	}

	n := int64(math.Round(v.Num / d.EffectiveScale()))

	switch d.Words {
	case 2:
		var u uint32
		if d.Signed {
			u = uint32(int32(n))
		} else {
			u = uint32(n)
		}
		return []uint16{uint16(u >> 16), uint16(u)}, nil
	default:
		var u uint16
		if d.Signed {
			u = uint16(int16(n))
		} else {
			u = uint16(n)
		}
		return []uint16{u}, nil
	}
}

// internal/command/dump.go
package command

import (
	"context"

	"github.com/openhru/brinkd/internal/codec"
	"github.com/openhru/brinkd/internal/registry"
)

// DumpEntry is one register in a diagnostics dump: raw words plus the
// decoded value, or the read error.
type DumpEntry struct {
	Key     string
	Address uint16
	Raw     []uint16
	Value   codec.Value
	Err     error
}

// DumpAll reads every register of the active model once, in ascending
// address order, outside the normal cadence groups. Failures are recorded
// per register; the pass always completes.
func (e *Executor) DumpAll(ctx context.Context) ([]DumpEntry, error) {
	var out []DumpEntry

	for _, key := range e.reg.Keys() {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		d, err := e.reg.Describe(key)
		if err != nil {
			continue
		}
		if d.Access == registry.WriteOnlyTransient {
			// Momentary-action registers have no readable state.
			continue
		}

		entry := DumpEntry{Key: key, Address: d.Address}

		if err := e.tok.Acquire(ctx); err != nil {
			return out, err
		}
		var raw []uint16
		if d.Kind == registry.KindInput {
			raw, err = e.bus.ReadInputRegisters(d.Address, d.Words)
		} else {
			raw, err = e.bus.ReadHoldingRegisters(d.Address, d.Words)
		}
		e.tok.Release()

		if err != nil {
			entry.Err = err
		} else {
			entry.Raw = raw
			entry.Value, entry.Err = codec.Decode(d, raw)
		}
		out = append(out, entry)
	}
	return out, nil
}

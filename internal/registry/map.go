// internal/registry/map.go
package registry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownRegister is returned for domain keys absent from the active
// model's map.
var ErrUnknownRegister = errors.New("registry: unknown register")

// Map is the register map for one device model. Purely descriptive, no IO.
type Map struct {
	model Model
	byKey map[string]Descriptor
	order []string // keys in ascending address order
}

// New builds the map for a model. Per-model flow ceilings are applied and
// registers absent on the model are dropped.
func New(model Model) *Map {
	table := baseTable(model.MaxFlow())

	m := &Map{
		model: model,
		byKey: make(map[string]Descriptor, len(table)),
	}
	for _, d := range table {
		if isCO2Key(d.Key) && !model.hasCO2() {
			continue
		}
		m.byKey[d.Key] = d
		m.order = append(m.order, d.Key)
	}
	sort.Slice(m.order, func(i, j int) bool {
		a, b := m.byKey[m.order[i]], m.byKey[m.order[j]]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Address < b.Address
	})
	return m
}

// Model returns the profile the map was built for.
func (m *Map) Model() Model { return m.model }

// Describe looks up a descriptor by domain key.
func (m *Map) Describe(key string) (Descriptor, error) {
	d, ok := m.byKey[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownRegister, key)
	}
	return d, nil
}

// Keys returns every domain key, ascending by register class then address.
func (m *Map) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// KeysForCadence returns the keys of one cadence group, in the same
// deterministic order as Keys.
func (m *Map) KeysForCadence(c Cadence) []string {
	var out []string
	for _, k := range m.order {
		if m.byKey[k].Cadence == c {
			out = append(out, k)
		}
	}
	return out
}

// Range is one contiguous read of Count words starting at Start, covering
// Keys in ascending address order.
type Range struct {
	Kind  Kind
	Start uint16
	Count uint16
	Keys  []string
}

// Ranges partitions a cadence group into the minimal set of contiguous
// reads. Adjacent registers coalesce into one bus round-trip; gaps split.
func (m *Map) Ranges(c Cadence) []Range {
	var out []Range
	for _, k := range m.KeysForCadence(c) {
		d := m.byKey[k]
		n := len(out)
		if n > 0 {
			last := &out[n-1]
			if last.Kind == d.Kind && last.Start+last.Count == d.Address {
				last.Count += d.Words
				last.Keys = append(last.Keys, k)
				continue
			}
		}
		out = append(out, Range{
			Kind:  d.Kind,
			Start: d.Address,
			Count: d.Words,
			Keys:  []string{k},
		})
	}
	return out
}

func isCO2Key(key string) bool {
	switch key {
	case "co2_sensor_1", "co2_sensor_2", "co2_sensor_3", "co2_sensor_4", "co2_sensor_mode":
		return true
	}
	return false
}

// internal/registry/map_test.go
package registry

import (
	"errors"
	"testing"
)

func TestDescribe_UnknownKey(t *testing.T) {
	m := New(Flair325Plus)
	if _, err := m.Describe("warp_drive"); !errors.Is(err, ErrUnknownRegister) {
		t.Fatalf("err=%v, want ErrUnknownRegister", err)
	}
}

func TestKeysForCadence_AscendingAndDisjoint(t *testing.T) {
	m := New(Flair325Plus)

	seen := map[string]Cadence{}
	for _, c := range []Cadence{CadenceFast, CadenceSlow} {
		var prevKind Kind
		var prevAddr uint16
		first := true
		for _, k := range m.KeysForCadence(c) {
			if prev, dup := seen[k]; dup {
				t.Errorf("%s in both %s and %s groups", k, prev, c)
			}
			seen[k] = c

			d, _ := m.Describe(k)
			if !first && d.Kind == prevKind && d.Address <= prevAddr {
				t.Errorf("%s group not ascending at %s (addr %d after %d)", c, k, d.Address, prevAddr)
			}
			prevKind, prevAddr, first = d.Kind, d.Address, false
		}
	}
}

func TestRanges_CoalescesAdjacent(t *testing.T) {
	m := New(Flair325Plus)

	find := func(c Cadence, start uint16) *Range {
		for _, r := range m.Ranges(c) {
			if r.Start == start {
				r := r
				return &r
			}
		}
		return nil
	}

	// The four flow levels 6000-6003 are one read.
	r := find(CadenceSlow, 6000)
	if r == nil || r.Count != 4 || len(r.Keys) != 4 {
		t.Fatalf("6000 range = %+v, want count 4 with 4 keys", r)
	}

	// serial_number (2 words at 4010) and software_version (4012) coalesce.
	r = find(CadenceSlow, 4010)
	if r == nil || r.Count != 3 || len(r.Keys) != 2 {
		t.Fatalf("4010 range = %+v, want count 3 with 2 keys", r)
	}

	// Both pressures 4023-4024 are one read.
	r = find(CadenceFast, 4023)
	if r == nil || r.Count != 2 {
		t.Fatalf("4023 range = %+v, want count 2", r)
	}

	// CO2 sensors sit two addresses apart and must not coalesce.
	r = find(CadenceFast, 4201)
	if r == nil || r.Count != 1 {
		t.Fatalf("4201 range = %+v, want count 1", r)
	}
}

func TestRanges_NeverSpanRegisterClasses(t *testing.T) {
	m := New(Flair325Plus)
	for _, c := range []Cadence{CadenceFast, CadenceSlow} {
		for _, r := range m.Ranges(c) {
			for _, k := range r.Keys {
				d, _ := m.Describe(k)
				if d.Kind != r.Kind {
					t.Errorf("range @%d mixes register classes (%s)", r.Start, k)
				}
			}
		}
	}
}

func TestModelProfiles_FlowCeiling(t *testing.T) {
	cases := []struct {
		model Model
		max   float64
	}{
		{Flair325, 325},
		{Flair325Plus, 325},
		{Flair350, 350},
		{Flair400, 400},
	}
	for _, tc := range cases {
		d, err := New(tc.model).Describe("flow_setpoint")
		if err != nil {
			t.Fatalf("%s: %v", tc.model, err)
		}
		if d.Max != tc.max {
			t.Errorf("%s: flow_setpoint max = %g, want %g", tc.model, d.Max, tc.max)
		}
		if d.Min != 50 {
			t.Errorf("%s: flow_setpoint min = %g, want 50", tc.model, d.Min)
		}
	}
}

func TestModelProfiles_CO2Subset(t *testing.T) {
	if _, err := New(Flair325).Describe("co2_sensor_1"); err == nil {
		t.Error("co2_sensor_1 present on FLAIR 325")
	}
	if _, err := New(Flair325Plus).Describe("co2_sensor_1"); err != nil {
		t.Errorf("co2_sensor_1 missing on FLAIR 325 Plus: %v", err)
	}
	if _, err := New(Flair400).Describe("co2_sensor_mode"); err != nil {
		t.Errorf("co2_sensor_mode missing on FLAIR 400: %v", err)
	}
}

func TestDeviceReset_TransientAndUnpolled(t *testing.T) {
	m := New(Flair325Plus)
	d, err := m.Describe("device_reset")
	if err != nil {
		t.Fatal(err)
	}
	if d.Access != WriteOnlyTransient {
		t.Errorf("device_reset access = %v, want WriteOnlyTransient", d.Access)
	}
	for _, c := range []Cadence{CadenceFast, CadenceSlow} {
		for _, k := range m.KeysForCadence(c) {
			if k == "device_reset" {
				t.Errorf("device_reset polled in %s group", c)
			}
		}
	}
}

func TestUniqueAddresses(t *testing.T) {
	m := New(Flair400)
	seen := map[[2]uint16]string{}
	for _, k := range m.Keys() {
		d, _ := m.Describe(k)
		for w := uint16(0); w < d.Words; w++ {
			id := [2]uint16{uint16(d.Kind), d.Address + w}
			if prev, dup := seen[id]; dup {
				t.Errorf("address %d claimed by %s and %s", d.Address+w, prev, k)
			}
			seen[id] = k
		}
	}
}

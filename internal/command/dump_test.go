// internal/command/dump_test.go
package command

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openhru/brinkd/internal/registry"
	"github.com/openhru/brinkd/internal/snapshot"
	"github.com/openhru/brinkd/internal/token"
)

// flakyBus fails reads of one address and serves the rest.
type flakyBus struct {
	fakeBus
	failAddr uint16
}

func (f *flakyBus) ReadHoldingRegisters(start, count uint16) ([]uint16, error) {
	if start == f.failAddr {
		f.reads++
		return nil, errors.New("serial: timeout")
	}
	return f.fakeBus.ReadHoldingRegisters(start, count)
}

func TestDumpAll_CoversEveryReadableRegister(t *testing.T) {
	bus := &fakeBus{}
	e, _ := newTestExecutor(t, bus)

	entries, err := e.DumpAll(context.Background())
	if err != nil {
		t.Fatalf("DumpAll err=%v", err)
	}

	reg := registry.New(registry.Flair325Plus)
	want := 0
	for _, k := range reg.Keys() {
		d, _ := reg.Describe(k)
		if d.Access != registry.WriteOnlyTransient {
			want++
		}
	}
	if len(entries) != want {
		t.Fatalf("dumped %d registers, want %d", len(entries), want)
	}

	for _, entry := range entries {
		if entry.Key == "device_reset" {
			t.Error("write-only register in dump")
		}
		if entry.Err != nil {
			t.Errorf("%s: %v", entry.Key, entry.Err)
		}
		if len(entry.Raw) == 0 {
			t.Errorf("%s: no raw words recorded", entry.Key)
		}
	}
}

func TestDumpAll_RecordsPerRegisterErrors(t *testing.T) {
	bus := &flakyBus{failAddr: 8002}
	store := snapshot.NewStore()
	e, err := New(registry.New(registry.Flair325Plus), bus, token.New(), store, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	entries, err := e.DumpAll(context.Background())
	if err != nil {
		t.Fatalf("DumpAll err=%v", err)
	}

	var sawFailure bool
	for _, entry := range entries {
		if entry.Key == "flow_setpoint" {
			if entry.Err == nil {
				t.Error("flow_setpoint read failure not recorded")
			}
			sawFailure = true
		} else if entry.Err != nil {
			t.Errorf("%s: unexpected error %v", entry.Key, entry.Err)
		}
	}
	if !sawFailure {
		t.Fatal("flow_setpoint missing from dump")
	}
}

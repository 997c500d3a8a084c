// internal/command/executor_test.go
package command

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openhru/brinkd/internal/codec"
	"github.com/openhru/brinkd/internal/registry"
	"github.com/openhru/brinkd/internal/snapshot"
	"github.com/openhru/brinkd/internal/token"
	"github.com/openhru/brinkd/internal/transport"
)

// fakeBus records calls and echoes written values back on reads, like a
// well-behaved device.
type fakeBus struct {
	writeErrs []error // consumed one per write attempt; nil = success
	writes    int
	reads     int
	lastAddr  uint16
	lastWords []uint16
}

func (f *fakeBus) WriteRegisters(addr uint16, words []uint16) error {
	f.writes++
	f.lastAddr = addr
	f.lastWords = append([]uint16(nil), words...)
	if len(f.writeErrs) > 0 {
		err := f.writeErrs[0]
		f.writeErrs = f.writeErrs[1:]
		return err
	}
	return nil
}

func (f *fakeBus) ReadHoldingRegisters(start, count uint16) ([]uint16, error) {
	f.reads++
	if start == f.lastAddr && int(count) == len(f.lastWords) {
		return f.lastWords, nil
	}
	return make([]uint16, count), nil
}

func (f *fakeBus) ReadInputRegisters(start, count uint16) ([]uint16, error) {
	f.reads++
	return make([]uint16, count), nil
}

func timeoutErr() error {
	return &transport.CommError{Kind: transport.KindTimeout, Op: "write", Err: errors.New("serial: timeout")}
}

func newTestExecutor(t *testing.T, bus Bus) (*Executor, *snapshot.Store) {
	t.Helper()
	store := snapshot.NewStore()
	e, err := New(registry.New(registry.Flair325Plus), bus, token.New(), store, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return e, store
}

func TestExecute_SuccessConfirmsThroughRead(t *testing.T) {
	bus := &fakeBus{}
	e, store := newTestExecutor(t, bus)

	if err := e.Execute(context.Background(), "flow_setpoint", codec.Number(120), "corr-1"); err != nil {
		t.Fatalf("Execute err=%v", err)
	}

	if bus.writes != 1 || bus.reads != 1 {
		t.Errorf("writes=%d reads=%d, want 1 write + 1 confirmatory read", bus.writes, bus.reads)
	}
	if bus.lastAddr != 8002 || bus.lastWords[0] != 120 {
		t.Errorf("wrote %v @%d, want [120] @8002", bus.lastWords, bus.lastAddr)
	}

	r, ok := store.Current()["flow_setpoint"]
	if !ok {
		t.Fatal("snapshot not updated after confirmed write")
	}
	if r.Value.Num != 120 {
		t.Errorf("confirmed value = %g, want 120", r.Value.Num)
	}
}

func TestExecute_OutOfRange_NoTransportCall(t *testing.T) {
	bus := &fakeBus{}
	e, _ := newTestExecutor(t, bus)

	err := e.Execute(context.Background(), "flow_setpoint", codec.Number(10), "corr-2")
	if !errors.Is(err, codec.ErrValueOutOfRange) {
		t.Fatalf("err=%v, want ErrValueOutOfRange", err)
	}
	if bus.writes != 0 || bus.reads != 0 {
		t.Errorf("transport touched on validation failure: writes=%d reads=%d", bus.writes, bus.reads)
	}
}

func TestExecute_UnknownRegister(t *testing.T) {
	bus := &fakeBus{}
	e, _ := newTestExecutor(t, bus)

	err := e.Execute(context.Background(), "warp_drive", codec.Number(1), "")
	if !errors.Is(err, registry.ErrUnknownRegister) {
		t.Fatalf("err=%v, want ErrUnknownRegister", err)
	}
}

func TestExecute_UnknownEnumStateRejected(t *testing.T) {
	bus := &fakeBus{}
	e, _ := newTestExecutor(t, bus)

	d, _ := registry.New(registry.Flair325Plus).Describe("bypass_mode")
	unknown, _ := codec.Decode(d, []uint16{3})

	err := e.Execute(context.Background(), "bypass_mode", unknown, "")
	if !errors.Is(err, codec.ErrInvalidEnumState) {
		t.Fatalf("err=%v, want ErrInvalidEnumState", err)
	}
	if bus.writes != 0 {
		t.Error("transport touched for unwritable enum state")
	}
}

func TestExecute_RetriesTwiceThenSucceeds(t *testing.T) {
	bus := &fakeBus{writeErrs: []error{timeoutErr(), timeoutErr(), nil}}
	e, _ := newTestExecutor(t, bus)

	if err := e.Execute(context.Background(), "bypass_mode", codec.State("Open"), "corr-3"); err != nil {
		t.Fatalf("Execute err=%v", err)
	}
	if bus.writes != 3 {
		t.Errorf("writes=%d, want 3 (2 retries consumed)", bus.writes)
	}
}

func TestExecute_RetryExhaustion(t *testing.T) {
	bus := &fakeBus{writeErrs: []error{timeoutErr(), timeoutErr(), timeoutErr()}}
	e, _ := newTestExecutor(t, bus)

	err := e.Execute(context.Background(), "flow_setpoint", codec.Number(100), "corr-9")

	var wf *WriteFailedError
	if !errors.As(err, &wf) {
		t.Fatalf("err=%v, want WriteFailedError", err)
	}
	if wf.CorrelationID != "corr-9" {
		t.Errorf("correlation id = %q, want corr-9", wf.CorrelationID)
	}
	if bus.writes != 3 {
		t.Errorf("writes=%d, want 3", bus.writes)
	}
	if bus.reads != 0 {
		t.Error("confirmatory read issued after failed write")
	}
}

func TestExecute_DeviceRejectionNeverRetries(t *testing.T) {
	rej := &transport.RejectedError{Address: 8002, ExceptionCode: 2}
	bus := &fakeBus{writeErrs: []error{rej}}
	e, _ := newTestExecutor(t, bus)

	err := e.Execute(context.Background(), "flow_setpoint", codec.Number(100), "")

	var got *transport.RejectedError
	if !errors.As(err, &got) {
		t.Fatalf("err=%v, want RejectedError", err)
	}
	if bus.writes != 1 {
		t.Errorf("writes=%d, want 1 (no retry on rejection)", bus.writes)
	}
}

func TestExecute_MomentaryActionSkipsConfirmation(t *testing.T) {
	bus := &fakeBus{}
	e, store := newTestExecutor(t, bus)

	if err := e.Execute(context.Background(), "device_reset", codec.Number(1), ""); err != nil {
		t.Fatalf("Execute err=%v", err)
	}
	if bus.writes != 1 {
		t.Errorf("writes=%d, want 1", bus.writes)
	}
	if bus.reads != 0 {
		t.Error("confirmatory read issued for momentary action")
	}
	if _, ok := store.Current()["device_reset"]; ok {
		t.Error("transient register leaked into snapshot")
	}
}

func TestExecute_GeneratesCorrelationID(t *testing.T) {
	bus := &fakeBus{writeErrs: []error{timeoutErr(), timeoutErr(), timeoutErr()}}
	e, _ := newTestExecutor(t, bus)

	err := e.Execute(context.Background(), "flow_setpoint", codec.Number(100), "")
	var wf *WriteFailedError
	if !errors.As(err, &wf) {
		t.Fatalf("err=%v, want WriteFailedError", err)
	}
	if wf.CorrelationID == "" {
		t.Error("no correlation id generated")
	}
}

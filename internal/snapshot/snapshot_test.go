// internal/snapshot/snapshot_test.go
package snapshot

import (
	"testing"
	"time"

	"github.com/openhru/brinkd/internal/codec"
)

func TestApplyAndCurrent(t *testing.T) {
	s := NewStore()
	at := time.Now()

	s.Apply(at, map[string]codec.Value{"flow_setpoint": codec.Number(120)})

	r, ok := s.Current()["flow_setpoint"]
	if !ok {
		t.Fatal("reading missing")
	}
	if r.Value.Num != 120 || r.Stale || !r.At.Equal(at) {
		t.Errorf("reading = %+v", r)
	}
}

func TestApply_ReplacesPointerNotContents(t *testing.T) {
	s := NewStore()
	s.Apply(time.Now(), map[string]codec.Value{"a": codec.Number(1)})

	before := s.Current()
	s.Apply(time.Now(), map[string]codec.Value{"b": codec.Number(2)})

	// The previously handed-out map must be untouched.
	if _, ok := before["b"]; ok {
		t.Fatal("published snapshot mutated in place")
	}
	after := s.Current()
	if len(after) != 2 {
		t.Fatalf("merge lost keys: %v", after)
	}
}

func TestMarkStale_KeepsValueAndTimestamp(t *testing.T) {
	s := NewStore()
	at := time.Now()
	s.Apply(at, map[string]codec.Value{"a": codec.Number(7)})

	s.MarkStale([]string{"a", "never_read"})

	r := s.Current()["a"]
	if !r.Stale {
		t.Error("not marked stale")
	}
	if r.Value.Num != 7 || !r.At.Equal(at) {
		t.Errorf("stale reading lost provenance: %+v", r)
	}
	if _, ok := s.Current()["never_read"]; ok {
		t.Error("never-read key materialized by MarkStale")
	}
}

func TestApply_ClearsStaleness(t *testing.T) {
	s := NewStore()
	s.Apply(time.Now(), map[string]codec.Value{"a": codec.Number(1)})
	s.MarkStale([]string{"a"})
	s.Apply(time.Now(), map[string]codec.Value{"a": codec.Number(2)})

	r := s.Current()["a"]
	if r.Stale || r.Value.Num != 2 {
		t.Errorf("recovered reading = %+v", r)
	}
}

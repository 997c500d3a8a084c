// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openhru/brinkd/internal/codec"
	"github.com/openhru/brinkd/internal/registry"
	"github.com/openhru/brinkd/internal/snapshot"
	"github.com/openhru/brinkd/internal/token"
)

// Bus abstracts the transport operations the poller needs. The poller
// depends on read geometry plus the reopen hook, nothing else.
type Bus interface {
	ReadInputRegisters(start, count uint16) ([]uint16, error)
	ReadHoldingRegisters(start, count uint16) ([]uint16, error)
	Reopen() error
}

// reopenAfter is the consecutive-failure threshold per range that triggers
// a transport reopen as a self-healing reconnect.
const reopenAfter = 3

type rangeID struct {
	kind  registry.Kind
	start uint16
}

// Poller runs the two cadence loops. One instance serves both; each loop
// runs in its own goroutine and contends for the shared bus token.
type Poller struct {
	reg   *registry.Map
	bus   Bus
	tok   *token.Token
	store *snapshot.Store
	log   zerolog.Logger

	// failures is per-range consecutive failure counts. Both cadence
	// loops share the map, so access goes through mu.
	mu       sync.Mutex
	failures map[rangeID]int
}

// New creates a poller over the shared bus token and snapshot store.
func New(reg *registry.Map, bus Bus, tok *token.Token, store *snapshot.Store, log zerolog.Logger) (*Poller, error) {
	if reg == nil || bus == nil || tok == nil || store == nil {
		return nil, errors.New("poller: registry, bus, token and store required")
	}
	return &Poller{
		reg:      reg,
		bus:      bus,
		tok:      tok,
		store:    store,
		log:      log,
		failures: make(map[rangeID]int),
	}, nil
}

// Cycle polls every range of one cadence group once, strictly sequentially
// in ascending address order. A failed range marks its keys stale and does
// not abort the cycle; the next period retries at standard cadence.
//
// The group's snapshot portion is published exactly once, at cycle end: a
// reader never observes early ranges of a batch without the later ones.
func (p *Poller) Cycle(ctx context.Context, cadence registry.Cadence) {
	at := time.Now()

	values := make(map[string]codec.Value)
	var stale []string
	reopen := false

	for _, r := range p.reg.Ranges(cadence) {
		// A cancelled cycle publishes nothing; a half-read batch must
		// not reach consumers.
		if ctx.Err() != nil {
			return
		}

		raw, err := p.readRange(ctx, r)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			p.log.Warn().Err(err).
				Str("cadence", cadence.String()).
				Uint16("start", r.Start).
				Uint16("count", r.Count).
				Msg("range read failed")
			stale = append(stale, r.Keys...)
			if p.rangeFailed(r) {
				reopen = true
			}
			continue
		}

		p.mu.Lock()
		p.failures[rangeID{r.Kind, r.Start}] = 0
		p.mu.Unlock()
		for k, v := range p.decodeRange(r, raw) {
			values[k] = v
		}
	}

	p.store.Apply(at, values)
	p.store.MarkStale(stale)

	// One reopen per cycle, no matter how many ranges crossed the
	// threshold: a dead link does not need reconnecting N times in a row.
	if reopen {
		p.reopenBus(ctx)
	}
}

// readRange performs one token-guarded transport call. The token is
// released as soon as the call returns; it is never held across decode
// work or sleeps.
func (p *Poller) readRange(ctx context.Context, r registry.Range) ([]uint16, error) {
	if err := p.tok.Acquire(ctx); err != nil {
		return nil, err
	}
	defer p.tok.Release()

	if r.Kind == registry.KindInput {
		return p.bus.ReadInputRegisters(r.Start, r.Count)
	}
	return p.bus.ReadHoldingRegisters(r.Start, r.Count)
}

func (p *Poller) decodeRange(r registry.Range, raw []uint16) map[string]codec.Value {
	values := make(map[string]codec.Value, len(r.Keys))
	for _, key := range r.Keys {
		d, err := p.reg.Describe(key)
		if err != nil {
			continue
		}
		off := int(d.Address - r.Start)
		if off+int(d.Words) > len(raw) {
			p.log.Error().Str("key", key).Msg("range shorter than descriptor")
			continue
		}
		v, err := codec.Decode(d, raw[off:off+int(d.Words)])
		if err != nil {
			p.log.Error().Err(err).Str("key", key).Msg("decode failed")
			continue
		}
		if v.OutOfRange {
			p.log.Warn().Str("key", key).Str("value", v.String()).Msg("value out of documented range")
		}
		values[key] = v
	}
	return values
}

// rangeFailed counts consecutive failures for one range and reports
// whether the reopen threshold was crossed. The counter resets on a hit
// whether or not the reopen then succeeds; the next threshold crossing may
// try again.
func (p *Poller) rangeFailed(r registry.Range) bool {
	id := rangeID{r.Kind, r.Start}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failures[id]++
	if p.failures[id] < reopenAfter {
		return false
	}
	p.failures[id] = 0
	return true
}

// reopenBus performs the token-guarded self-healing reconnect.
func (p *Poller) reopenBus(ctx context.Context) {
	if err := p.tok.Acquire(ctx); err != nil {
		return
	}
	err := p.bus.Reopen()
	p.tok.Release()

	if err != nil {
		p.log.Error().Err(err).Msg("transport reopen failed")
		return
	}
	p.log.Info().Msg("transport reopened after repeated range failures")
}

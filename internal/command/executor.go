// internal/command/executor.go

// Package command applies validated write commands to the device and keeps
// the snapshot in agreement with what the device actually accepted.
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openhru/brinkd/internal/codec"
	"github.com/openhru/brinkd/internal/registry"
	"github.com/openhru/brinkd/internal/snapshot"
	"github.com/openhru/brinkd/internal/token"
	"github.com/openhru/brinkd/internal/transport"
)

// Bus abstracts the transport operations the executor needs.
type Bus interface {
	ReadInputRegisters(start, count uint16) ([]uint16, error)
	ReadHoldingRegisters(start, count uint16) ([]uint16, error)
	WriteRegisters(addr uint16, words []uint16) error
}

// writeRetries is the number of additional attempts after the first failed
// write. No backoff beyond the link's own response timeout: commands are
// small and latency-sensitive.
const writeRetries = 2

// WriteFailedError is terminal for one command: the write kept failing
// after retry exhaustion. The correlation id ties it back to the logs.
type WriteFailedError struct {
	Key           string
	CorrelationID string
	Err           error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("command: write %s failed (correlation %s): %v", e.Key, e.CorrelationID, e.Err)
}

func (e *WriteFailedError) Unwrap() error { return e.Err }

// Executor validates, encodes, writes and verifies commands one at a time.
type Executor struct {
	reg   *registry.Map
	bus   Bus
	tok   *token.Token
	store *snapshot.Store
	log   zerolog.Logger
}

// New creates an executor over the shared bus token and snapshot store.
func New(reg *registry.Map, bus Bus, tok *token.Token, store *snapshot.Store, log zerolog.Logger) (*Executor, error) {
	if reg == nil || bus == nil || tok == nil || store == nil {
		return nil, errors.New("command: registry, bus, token and store required")
	}
	return &Executor{reg: reg, bus: bus, tok: tok, store: store, log: log}, nil
}

// Execute applies one write command.
//
// Validation failures (unknown register, out-of-range value, read-only
// register, unwritable enum state) surface immediately with no transport
// call. Communication failures retry up to writeRetries times; a device
// rejection never retries. On success a confirmatory out-of-cadence read
// updates the snapshot so the caller observes device-confirmed state, not
// an echo of the request — some firmware revisions silently ignore writes
// to certain holding registers. Momentary-action registers skip the
// confirmation.
func (e *Executor) Execute(ctx context.Context, key string, value codec.Value, correlationID string) error {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	d, err := e.reg.Describe(key)
	if err != nil {
		return err
	}

	words, err := codec.Encode(d, value)
	if err != nil {
		return err
	}

	log := e.log.With().
		Str("key", key).
		Str("correlation_id", correlationID).
		Str("value", value.String()).
		Logger()

	if err := e.write(ctx, d, words, log); err != nil {
		var rej *transport.RejectedError
		if errors.As(err, &rej) {
			return rej
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &WriteFailedError{Key: key, CorrelationID: correlationID, Err: err}
	}

	if d.Access == registry.WriteOnlyTransient {
		log.Info().Msg("momentary command written")
		return nil
	}

	e.confirm(ctx, d, log)
	return nil
}

func (e *Executor) write(ctx context.Context, d registry.Descriptor, words []uint16, log zerolog.Logger) error {
	var err error
	for attempt := 0; attempt <= writeRetries; attempt++ {
		if err = e.tok.Acquire(ctx); err != nil {
			return err
		}
		err = e.bus.WriteRegisters(d.Address, words)
		e.tok.Release()

		if err == nil {
			if attempt > 0 {
				log.Info().Int("retries", attempt).Msg("write succeeded after retry")
			}
			return nil
		}

		var rej *transport.RejectedError
		if errors.As(err, &rej) {
			return err
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("write failed")
	}
	return err
}

// confirm re-reads the register just written and folds the decoded value
// into the snapshot. A failed confirmation does not fail the command — the
// write itself succeeded — but the key is marked stale until the next poll
// settles it.
func (e *Executor) confirm(ctx context.Context, d registry.Descriptor, log zerolog.Logger) {
	if err := e.tok.Acquire(ctx); err != nil {
		return
	}
	var raw []uint16
	var err error
	if d.Kind == registry.KindInput {
		raw, err = e.bus.ReadInputRegisters(d.Address, d.Words)
	} else {
		raw, err = e.bus.ReadHoldingRegisters(d.Address, d.Words)
	}
	e.tok.Release()

	if err != nil {
		log.Warn().Err(err).Msg("confirmatory read failed")
		e.store.MarkStale([]string{d.Key})
		return
	}

	v, err := codec.Decode(d, raw)
	if err != nil {
		log.Error().Err(err).Msg("confirmatory decode failed")
		return
	}
	e.store.Apply(time.Now(), map[string]codec.Value{d.Key: v})
	log.Info().Str("confirmed", v.String()).Msg("command applied")
}

// internal/transport/transport.go

// Package transport owns the single RTU serial session. Every call is
// serialized; the half-duplex RS-485 link carries at most one request at a
// time. Retry policy lives in callers.
package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"
)

// Config is the serial link configuration. Framing is fixed 8E1 per the
// BRINK register map; only device, baud rate and slave id vary.
type Config struct {
	Device   string
	BaudRate int
	SlaveID  byte
	// Timeout overrides the baud-derived per-call timeout when > 0.
	Timeout time.Duration
}

type openFunc func() (modbus.Client, io.Closer, error)

// Session is the exclusive owner of one serial handle.
//
// On a port-unavailable failure the session latches Faulted and every call
// fails fast with the same error until Reopen succeeds. This keeps a
// missing or stolen device path from starving the bus with failed
// syscalls.
type Session struct {
	mu      sync.Mutex
	open    openFunc
	client  modbus.Client
	closer  io.Closer
	faulted bool
	log     zerolog.Logger
}

// New opens the serial device and returns a connected session.
func New(cfg Config, log zerolog.Logger) (*Session, error) {
	if cfg.Device == "" {
		return nil, errors.New("transport: serial device required")
	}
	if cfg.SlaveID < 1 || cfg.SlaveID > 247 {
		return nil, fmt.Errorf("transport: slave id %d out of range 1-247", cfg.SlaveID)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = ResponseTimeout(cfg.BaudRate)
	}

	open := func() (modbus.Client, io.Closer, error) {
		h := modbus.NewRTUClientHandler(cfg.Device)
		h.BaudRate = cfg.BaudRate
		h.DataBits = 8
		h.Parity = "E"
		h.StopBits = 1
		h.SlaveId = cfg.SlaveID
		h.Timeout = timeout
		if err := h.Connect(); err != nil {
			return nil, nil, err
		}
		return modbus.NewClient(h), h, nil
	}

	return newSession(open, log)
}

func newSession(open openFunc, log zerolog.Logger) (*Session, error) {
	client, closer, err := open()
	if err != nil {
		return nil, classify("open", 0, false, err)
	}
	return &Session{open: open, client: client, closer: closer, log: log}, nil
}

// ResponseTimeout derives the per-call timeout from the baud rate: wire
// time for the largest RTU frame in each direction at 11 bits per
// character, plus margin for device turnaround.
func ResponseTimeout(baud int) time.Duration {
	if baud <= 0 {
		baud = 19200
	}
	const frameBits = (256 + 256 + 8) * 11
	wire := time.Duration(frameBits) * time.Second / time.Duration(baud)
	return wire + 200*time.Millisecond
}

// ReadInputRegisters reads count input registers starting at start.
func (s *Session) ReadInputRegisters(start, count uint16) ([]uint16, error) {
	return s.read("read input", start, count, func(c modbus.Client) ([]byte, error) {
		return c.ReadInputRegisters(start, count)
	})
}

// ReadHoldingRegisters reads count holding registers starting at start.
func (s *Session) ReadHoldingRegisters(start, count uint16) ([]uint16, error) {
	return s.read("read holding", start, count, func(c modbus.Client) ([]byte, error) {
		return c.ReadHoldingRegisters(start, count)
	})
}

func (s *Session) read(op string, start, count uint16, fn func(modbus.Client) ([]byte, error)) ([]uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.faulted {
		return nil, &CommError{Kind: KindPortUnavailable, Op: op, Err: errFaulted}
	}

	data, err := fn(s.client)
	if err != nil {
		return nil, s.fail(op, start, false, err)
	}
	if len(data) != int(count)*2 {
		return nil, &CommError{Kind: KindTimeout, Op: op,
			Err: fmt.Errorf("short response: %d bytes for %d registers", len(data), count)}
	}
	return unpackRegisters(data), nil
}

// WriteRegisters writes one or two words at addr. Single-word writes use
// FC 6, multi-word FC 16.
func (s *Session) WriteRegisters(addr uint16, words []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.faulted {
		return &CommError{Kind: KindPortUnavailable, Op: "write", Err: errFaulted}
	}
	if len(words) == 0 {
		return errors.New("transport: empty write")
	}

	var err error
	if len(words) == 1 {
		_, err = s.client.WriteSingleRegister(addr, words[0])
	} else {
		_, err = s.client.WriteMultipleRegisters(addr, uint16(len(words)), packRegisters(words))
	}
	if err != nil {
		return s.fail("write", addr, true, err)
	}
	return nil
}

var errFaulted = errors.New("session faulted, reopen required")

// fail classifies err and latches Faulted on port loss.
func (s *Session) fail(op string, addr uint16, write bool, err error) error {
	werr := classify(op, addr, write, err)
	var ce *CommError
	if errors.As(werr, &ce) && ce.Kind == KindPortUnavailable {
		s.faulted = true
		s.log.Error().Err(err).Msg("serial port unavailable, session faulted")
	}
	return werr
}

// Reopen closes the current handle and opens a fresh one. Clears the
// Faulted latch on success.
func (s *Session) Reopen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closer != nil {
		_ = s.closer.Close()
	}
	client, closer, err := s.open()
	if err != nil {
		s.faulted = true
		return classify("reopen", 0, false, err)
	}
	s.client = client
	s.closer = closer
	s.faulted = false
	s.log.Info().Msg("serial session reopened")
	return nil
}

// Close releases the serial handle. Safe on every exit path; the OS-level
// exclusive port lock must never leak across reconfiguration.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	s.client = nil
	s.faulted = true
	return err
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

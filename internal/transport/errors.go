// internal/transport/errors.go
package transport

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"

	"github.com/goburrow/modbus"
)

// ErrKind partitions communication failures by cause.
type ErrKind int

const (
	KindTimeout ErrKind = iota
	KindCRC
	KindException
	KindPortUnavailable
)

func (k ErrKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindCRC:
		return "crc"
	case KindException:
		return "exception"
	case KindPortUnavailable:
		return "port unavailable"
	default:
		return "unknown"
	}
}

// CommError is a transient link failure. Retry policy belongs to callers.
type CommError struct {
	Kind ErrKind
	Op   string
	Err  error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("transport: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *CommError) Unwrap() error { return e.Err }

// RejectedError is a Modbus exception response to a write: the device
// refused the value or the register. Retrying a rejection is pointless.
type RejectedError struct {
	Address       uint16
	ExceptionCode byte
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transport: write to %d rejected by device (exception %d)", e.Address, e.ExceptionCode)
}

// classify wraps a raw client error into the taxonomy. A Modbus exception
// on a write means the device rejected it; on a read it is a link-level
// failure like any other.
func classify(op string, addr uint16, write bool, err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		if write {
			return &RejectedError{Address: addr, ExceptionCode: me.ExceptionCode}
		}
		return &CommError{Kind: KindException, Op: op, Err: err}
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return &CommError{Kind: KindPortUnavailable, Op: op, Err: err}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &CommError{Kind: KindTimeout, Op: op, Err: err}
	}
	if os.IsTimeout(err) {
		return &CommError{Kind: KindTimeout, Op: op, Err: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "crc"):
		return &CommError{Kind: KindCRC, Op: op, Err: err}
	case strings.Contains(msg, "no such file"), strings.Contains(msg, "device or resource busy"),
		strings.Contains(msg, "permission denied"):
		return &CommError{Kind: KindPortUnavailable, Op: op, Err: err}
	default:
		// Unrecognized link errors (short frames, EOF mid-response)
		// count as timeouts: transient, retriable.
		return &CommError{Kind: KindTimeout, Op: op, Err: err}
	}
}

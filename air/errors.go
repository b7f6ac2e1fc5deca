package air

import (
	"errors"
	"fmt"

	"github.com/mklimuk/sen5x/i2c"
)

// ErrorKind classifies a driver failure.
type ErrorKind int

const (
	// KindBus is a failure reported by the bus transport.
	KindBus ErrorKind = iota
	// KindCRC means a response word failed checksum validation.
	KindCRC
	// KindNotAllowed is reserved for commands rejected while periodic measurement runs.
	KindNotAllowed
	// KindInternal covers invalid arguments and failures not otherwise classified.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindBus:
		return "i2c"
	case KindCRC:
		return "crc"
	case KindNotAllowed:
		return "not allowed"
	case KindInternal:
		return "internal"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrBus        = errors.New("sen5x: bus error")
	ErrCRC        = errors.New("sen5x: crc mismatch")
	ErrNotAllowed = errors.New("sen5x: not allowed while measurement is running")
	ErrInternal   = errors.New("sen5x: internal error")
)

// Error is returned by every failing SEN5x operation. Err holds the
// underlying transport or checksum error and is reachable with errors.As.
type Error struct {
	Kind    ErrorKind
	Command Command
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sen5x: %s: %s", e.Command, e.Kind)
	}
	return fmt.Sprintf("sen5x: %s: %s: %v", e.Command, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBus:
		return e.Kind == KindBus
	case ErrCRC:
		return e.Kind == KindCRC
	case ErrNotAllowed:
		return e.Kind == KindNotAllowed
	case ErrInternal:
		return e.Kind == KindInternal
	}
	return false
}

func busError(cmd Command, err error) error {
	return &Error{Kind: KindBus, Command: cmd, Err: err}
}

// readError tells checksum failures apart from transport failures.
func readError(cmd Command, err error) error {
	if errors.Is(err, i2c.ErrCRC) {
		return &Error{Kind: KindCRC, Command: cmd, Err: err}
	}
	return busError(cmd, err)
}

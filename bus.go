package sen5x

import (
	"context"
	"fmt"
	"time"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// Delayer blocks the caller for the given duration. It has no failure mode
// and cannot be cancelled.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a plain function to the Delayer interface.
type DelayFunc func(d time.Duration)

func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

// Sleep is the wall clock Delayer.
var Sleep Delayer = DelayFunc(time.Sleep)

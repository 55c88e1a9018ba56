// Package controller defines the SPI controller contract shared by every transport backend, the
// chunking used for long transfers, and the Facade that flash tooling drives.
package controller

import "context"

// A Controller reaches the SPI controller of a device through one physical transport.
//
// Exactly one Controller is bound per process. Init must succeed before SendCommand or CSRelease
// are useful; Shutdown is safe after a failed Init and may be called more than once.
type Controller interface {
	// Name identifies the backend, e.g. "ch341a_i2c".
	Name() string

	// Init opens the transport and starts a session. The meaning of connection is backend
	// specific: a device node for bus backends, ignored by usb adapters.
	Init(ctx context.Context, connection string) error

	// Shutdown ends access to the transport. Release failures are reported but never leave the
	// controller half open.
	Shutdown(ctx context.Context) error

	// SendCommand reads len(readArr) bytes into readArr, then writes writeArr. A failed read
	// skips the write.
	SendCommand(ctx context.Context, writeArr, readArr []byte) error

	// CSRelease ends the current command, the equivalent of raising chip select.
	CSRelease(ctx context.Context) error

	// MaxTransfer is the largest payload a single SendCommand accepts in either direction.
	// Zero or less means unbounded.
	MaxTransfer() int
}

// Speed is the requested SPI clock class. No backend can change its clock, so it is accepted and
// ignored.
type Speed int

// Known speeds.
const (
	SpeedSingle Speed = iota
	SpeedDual
	SpeedQuad
)

func (s Speed) String() string {
	switch s {
	case SpeedSingle:
		return "single"
	case SpeedDual:
		return "dual"
	case SpeedQuad:
		return "quad"
	default:
		return "unknown"
	}
}

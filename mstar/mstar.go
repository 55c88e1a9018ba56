// Package mstar implements the MSTAR command framing used to reach the SPI controller of MStar
// display SoCs over an I2C byte channel.
//
// A session starts with the 5-byte magic "MSTAR" and ends with the END opcode. In between, every
// write is sent as the WRITE opcode followed by the payload in a single transfer, and every read is
// the READ opcode as a one-byte transfer followed by a plain read of the wanted length. The device
// needs a short settling delay before each of these transfers.
package mstar

import (
	"context"
	"time"
)

// Protocol opcodes.
const (
	OpWrite byte = 0x10
	OpRead  byte = 0x11
	OpEnd   byte = 0x12
)

// Port is the 7-bit I2C address the MSTAR debug port answers on.
const Port = 0x49

// Delay is the settling time the device needs before every protocol transfer.
const Delay = 10 * time.Microsecond

// Magic opens a session.
var Magic = []byte{'M', 'S', 'T', 'A', 'R'}

// A Channel is a raw byte channel to the MSTAR port. Each call is one bus transaction and returns
// the number of bytes moved. Backends do not retry; short counts are reported as is.
type Channel interface {
	Write(ctx context.Context, p []byte) (int, error)
	Read(ctx context.Context, p []byte) (int, error)
}

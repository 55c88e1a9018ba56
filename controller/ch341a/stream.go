package ch341a

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/spiflash/mstar"
)

// I2C stream commands understood by the adapter.
const (
	cmdI2CStream = 0xAA
	stmEnd       = 0x00
	stmSet       = 0x60
	stmStart     = 0x74
	stmStop      = 0x75
	stmOut       = 0x80
	stmIn        = 0xC0
)

// The adapter takes 32 byte packets. A write frame spends 6 of them on framing.
const (
	packetSize     = 32
	maxStreamWrite = packetSize - 6
	maxStreamRead  = packetSize
)

// writeFrame wraps p as one I2C write to addr.
func writeFrame(addr byte, p []byte) ([]byte, error) {
	if len(p) > maxStreamWrite {
		return nil, errors.Wrapf(mstar.ErrPayloadTooLarge, "stream write of %d bytes, at most %d", len(p), maxStreamWrite)
	}
	frame := make([]byte, 0, packetSize)
	frame = append(frame, cmdI2CStream, stmStart, stmOut|byte(len(p)+1), addr<<1)
	frame = append(frame, p...)
	return append(frame, stmStop, stmEnd), nil
}

// readFrame asks for an I2C read of n bytes from addr. All bytes but the last are acked.
func readFrame(addr byte, n int) ([]byte, error) {
	if n < 1 || n > maxStreamRead {
		return nil, errors.Wrapf(mstar.ErrPayloadTooLarge, "stream read of %d bytes, want 1 to %d", n, maxStreamRead)
	}
	frame := make([]byte, 0, 8)
	frame = append(frame, cmdI2CStream, stmStart, stmOut|1, (addr<<1)|1)
	if n > 1 {
		frame = append(frame, stmIn|byte(n-1))
	}
	return append(frame, stmIn, stmStop, stmEnd), nil
}

// configFrame sets the I2C clock of the stream interface.
func configFrame(speed Speed) []byte {
	return []byte{cmdI2CStream, stmSet | byte(speed), stmEnd}
}

// streamChannel carries MSTAR traffic as adapter I2C stream transactions.
type streamChannel struct {
	dev     bulkDevice
	addr    byte
	timeout time.Duration
}

func (c *streamChannel) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *streamChannel) bulkOut(ctx context.Context, frame []byte) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	n, err := c.dev.WriteBulk(ctx, frame)
	if err != nil {
		return errors.Wrapf(mstar.ErrTransfer, "failed to transfer %d bytes: %v", len(frame), err)
	}
	if n != len(frame) {
		return errors.Wrapf(mstar.ErrTransfer, "short bulk write, %d of %d bytes", n, len(frame))
	}
	return nil
}

// Write sends p to the port in a single stream transaction.
func (c *streamChannel) Write(ctx context.Context, p []byte) (int, error) {
	frame, err := writeFrame(c.addr, p)
	if err != nil {
		return 0, err
	}
	if err := c.bulkOut(ctx, frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read requests len(p) bytes and collects them from the in endpoint.
func (c *streamChannel) Read(ctx context.Context, p []byte) (int, error) {
	frame, err := readFrame(c.addr, len(p))
	if err != nil {
		return 0, err
	}
	if err := c.bulkOut(ctx, frame); err != nil {
		return 0, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	n, err := c.dev.ReadBulk(ctx, p)
	if err != nil {
		return n, errors.Wrapf(mstar.ErrTransfer, "failed to transfer %d bytes: %v", len(p), err)
	}
	return n, nil
}

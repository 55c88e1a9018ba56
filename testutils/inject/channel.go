package inject

import (
	"context"

	"go.viam.com/spiflash/mstar"
)

// Channel is an injected mstar.Channel.
type Channel struct {
	mstar.Channel
	WriteFunc func(ctx context.Context, p []byte) (int, error)
	ReadFunc  func(ctx context.Context, p []byte) (int, error)
}

// Write calls the injected Write or the real version.
func (c *Channel) Write(ctx context.Context, p []byte) (int, error) {
	if c.WriteFunc == nil {
		return c.Channel.Write(ctx, p)
	}
	return c.WriteFunc(ctx, p)
}

// Read calls the injected Read or the real version.
func (c *Channel) Read(ctx context.Context, p []byte) (int, error) {
	if c.ReadFunc == nil {
		return c.Channel.Read(ctx, p)
	}
	return c.ReadFunc(ctx, p)
}

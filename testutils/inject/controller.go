package inject

import (
	"context"

	"go.viam.com/spiflash/controller"
)

// Controller is an injected controller.Controller.
type Controller struct {
	controller.Controller
	NameFunc        func() string
	InitFunc        func(ctx context.Context, connection string) error
	ShutdownFunc    func(ctx context.Context) error
	SendCommandFunc func(ctx context.Context, writeArr, readArr []byte) error
	CSReleaseFunc   func(ctx context.Context) error
	MaxTransferFunc func() int
}

// Name calls the injected Name or the real version.
func (c *Controller) Name() string {
	if c.NameFunc == nil {
		return c.Controller.Name()
	}
	return c.NameFunc()
}

// Init calls the injected Init or the real version.
func (c *Controller) Init(ctx context.Context, connection string) error {
	if c.InitFunc == nil {
		return c.Controller.Init(ctx, connection)
	}
	return c.InitFunc(ctx, connection)
}

// Shutdown calls the injected Shutdown or the real version.
func (c *Controller) Shutdown(ctx context.Context) error {
	if c.ShutdownFunc == nil {
		return c.Controller.Shutdown(ctx)
	}
	return c.ShutdownFunc(ctx)
}

// SendCommand calls the injected SendCommand or the real version.
func (c *Controller) SendCommand(ctx context.Context, writeArr, readArr []byte) error {
	if c.SendCommandFunc == nil {
		return c.Controller.SendCommand(ctx, writeArr, readArr)
	}
	return c.SendCommandFunc(ctx, writeArr, readArr)
}

// CSRelease calls the injected CSRelease or the real version.
func (c *Controller) CSRelease(ctx context.Context) error {
	if c.CSReleaseFunc == nil {
		return c.Controller.CSRelease(ctx)
	}
	return c.CSReleaseFunc(ctx)
}

// MaxTransfer calls the injected MaxTransfer or the real version.
func (c *Controller) MaxTransfer() int {
	if c.MaxTransferFunc == nil {
		return c.Controller.MaxTransfer()
	}
	return c.MaxTransferFunc()
}

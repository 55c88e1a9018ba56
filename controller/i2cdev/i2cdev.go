// Package i2cdev implements a controller that reaches an MSTAR port through a native Linux I2C bus
// device node such as /dev/i2c-1.
package i2cdev

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/spiflash/controller"
	"go.viam.com/spiflash/logging"
	"go.viam.com/spiflash/mstar"
)

// Name is the backend name of the native bus controller.
const Name = "mstar_i2c"

// Transfer size limits.
const (
	DefaultMaxTransfer = 4096
	MaxMaxTransfer     = 8192
)

// Config describes a native bus controller.
type Config struct {
	MaxTransfer int `json:"max_transfer,omitempty"`
	// Address overrides the MSTAR port address.
	Address int `json:"address,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.MaxTransfer < 0 || conf.MaxTransfer > MaxMaxTransfer {
		return errors.Errorf("%s.max_transfer: %d must be 0 (default) or 1 to %d", path, conf.MaxTransfer, MaxMaxTransfer)
	}
	if conf.Address < 0 || conf.Address > 0x7f {
		return errors.Errorf("%s.address: %#x is not a 7 bit address", path, conf.Address)
	}
	return nil
}

// busFile is a device node bound to one slave address.
type busFile interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// openBus is a variable so tests can run without a bus.
var openBus = openDeviceNode

// busChannel adapts a busFile to mstar.Channel. The descriptor calls block and ignore ctx.
type busChannel struct {
	f busFile
}

func (c busChannel) Write(ctx context.Context, p []byte) (int, error) {
	return c.f.Write(p)
}

func (c busChannel) Read(ctx context.Context, p []byte) (int, error) {
	return c.f.Read(p)
}

// Controller is a controller.Controller on a native I2C bus.
type Controller struct {
	logger      logging.Logger
	maxTransfer int
	addr        int
	opts        []mstar.Option

	f       busFile
	session *mstar.Session
}

var _ controller.Controller = (*Controller)(nil)

// NewController returns an uninitialized controller. opts are passed on to the MSTAR session.
func NewController(conf *Config, logger logging.Logger, opts ...mstar.Option) (*Controller, error) {
	if conf == nil {
		conf = &Config{}
	}
	if err := conf.Validate(Name); err != nil {
		return nil, err
	}
	c := &Controller{
		logger:      logger,
		maxTransfer: DefaultMaxTransfer,
		addr:        mstar.Port,
		opts:        opts,
	}
	if conf.MaxTransfer != 0 {
		c.maxTransfer = conf.MaxTransfer
	}
	if conf.Address != 0 {
		c.addr = conf.Address
	}
	return c, nil
}

// Name returns the backend name.
func (c *Controller) Name() string {
	return Name
}

// Init opens the device node at connection, binds the port address and starts an MSTAR session.
func (c *Controller) Init(ctx context.Context, connection string) error {
	if c.session != nil {
		return nil
	}
	if connection == "" {
		return errors.Wrap(controller.ErrOpenFailed, "no device node given")
	}
	f, err := openBus(connection, c.addr)
	if err != nil {
		c.logger.Errorw("failed to open bus", "connection", connection, "error", err)
		return err
	}
	c.logger.Infof("connection %s, transfer size %dB", connection, c.maxTransfer)

	session, err := mstar.Open(ctx, busChannel{f: f}, c.maxTransfer, c.logger, c.opts...)
	if err != nil {
		c.logger.Errorw("failed to start mstar session", "error", err)
		if closeErr := f.Close(); closeErr != nil {
			c.logger.Debugw("failed to close bus", "error", closeErr)
		}
		return err
	}
	c.f = f
	c.session = session
	return nil
}

// Shutdown closes the device node. It is safe to call after a failed Init and more than once.
func (c *Controller) Shutdown(ctx context.Context) error {
	if c.session != nil {
		if n := c.session.Errors(); n > 0 {
			c.logger.Warnf("total read/write errors: %d", n)
		}
		c.session = nil
	}
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	if err != nil {
		c.logger.Warnw("failed to close bus", "error", err)
	}
	return err
}

// SendCommand reads len(readArr) bytes and then writes writeArr.
func (c *Controller) SendCommand(ctx context.Context, writeArr, readArr []byte) error {
	if c.session == nil {
		return controller.NewNotInitializedError(Name)
	}
	return c.session.SendCommand(ctx, writeArr, readArr)
}

// CSRelease ends the MSTAR session.
func (c *Controller) CSRelease(ctx context.Context) error {
	if c.session == nil {
		return controller.NewNotInitializedError(Name)
	}
	return c.session.End(ctx)
}

// MaxTransfer returns the configured transfer size.
func (c *Controller) MaxTransfer() int {
	return c.maxTransfer
}

// Package ch341a implements a controller that reaches an MSTAR port through a CH341A USB to I2C
// adapter in stream mode.
package ch341a

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/spiflash/controller"
	"go.viam.com/spiflash/logging"
	"go.viam.com/spiflash/mstar"
	"go.viam.com/spiflash/usb"
)

// Name is the backend name of the CH341A controller.
const Name = "ch341a_i2c"

// ID is the USB identity of the adapter.
var ID = usb.Identifier{Vendor: 0x1a86, Product: 0x5512}

// Speed is an I2C clock code of the stream interface.
type Speed byte

// Supported I2C clocks.
const (
	Speed20K Speed = iota
	Speed100K
	Speed400K
	Speed750K
)

var speeds = map[string]Speed{
	"20k":  Speed20K,
	"100k": Speed100K,
	"400k": Speed400K,
	"750k": Speed750K,
}

func (s Speed) String() string {
	for name, code := range speeds {
		if code == s {
			return name
		}
	}
	return fmt.Sprintf("Speed(%d)", byte(s))
}

// MaxTransfer is the largest payload a framed MSTAR write can carry.
const MaxTransfer = maxStreamWrite - 1

// Config describes a CH341A controller.
type Config struct {
	// Speed is one of 20k, 100k, 400k or 750k. Defaults to 100k.
	Speed     string `json:"i2c_speed,omitempty"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
	// Address overrides the MSTAR port address.
	Address int `json:"address,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Speed != "" {
		if _, ok := speeds[conf.Speed]; !ok {
			return errors.Errorf("%s.i2c_speed: unsupported speed %q", path, conf.Speed)
		}
	}
	if conf.TimeoutMS < 0 {
		return errors.Errorf("%s.timeout_ms: must not be negative", path)
	}
	if conf.Address < 0 || conf.Address > 0x7f {
		return errors.Errorf("%s.address: %#x is not a 7 bit address", path, conf.Address)
	}
	return nil
}

// Controller is a controller.Controller on a CH341A adapter.
type Controller struct {
	logger  logging.Logger
	speed   Speed
	addr    byte
	timeout time.Duration
	opts    []mstar.Option

	dev     bulkDevice
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
		logger:  logger,
		speed:   Speed100K,
		addr:    mstar.Port,
		timeout: time.Duration(conf.TimeoutMS) * time.Millisecond,
		opts:    opts,
	}
	if conf.Speed != "" {
		c.speed = speeds[conf.Speed]
	}
	if conf.Address != 0 {
		c.addr = byte(conf.Address)
	}
	return c, nil
}

// Name returns the backend name.
func (c *Controller) Name() string {
	return Name
}

// Init opens the adapter, switches it to stream mode and starts an MSTAR session. The connection
// string is ignored.
func (c *Controller) Init(ctx context.Context, connection string) error {
	if c.session != nil {
		return nil
	}
	dev, err := openDevice(ctx, c.logger)
	if err != nil {
		c.logger.Errorw("failed to open adapter", "id", ID, "error", err)
		return err
	}
	ch := &streamChannel{dev: dev, addr: c.addr, timeout: c.timeout}

	if err := ch.bulkOut(ctx, configFrame(c.speed)); err != nil {
		err = errors.Wrap(controller.ErrConfigFailed, err.Error())
		c.logger.Errorw("failed to configure adapter", "speed", c.speed, "error", err)
		return multierr.Combine(err, dev.Close())
	}

	session, err := mstar.Open(ctx, ch, MaxTransfer, c.logger, c.opts...)
	if err != nil {
		c.logger.Errorw("failed to start mstar session", "error", err)
		return multierr.Combine(err, dev.Close())
	}
	c.dev = dev
	c.session = session
	c.logger.Debugw("adapter ready", "id", ID, "speed", c.speed, "address", fmt.Sprintf("%#x", c.addr))
	return nil
}

// Shutdown closes the adapter. It is safe to call after a failed Init and more than once.
func (c *Controller) Shutdown(ctx context.Context) error {
	if c.session != nil {
		if n := c.session.Errors(); n > 0 {
			c.logger.Warnf("total read/write errors: %d", n)
		}
		c.session = nil
	}
	if c.dev == nil {
		return nil
	}
	err := c.dev.Close()
	c.dev = nil
	if err != nil {
		c.logger.Warnw("failed to close adapter", "error", err)
	}
	return err
}

// SendCommand reads len(readArr) bytes and then writes writeArr. Each phase is one stream
// transaction, so readArr is limited to 32 bytes and writeArr to MaxTransfer bytes.
func (c *Controller) SendCommand(ctx context.Context, writeArr, readArr []byte) error {
	if c.session == nil {
		return controller.NewNotInitializedError(Name)
	}
	if len(readArr) > maxStreamRead {
		return errors.Wrapf(mstar.ErrPayloadTooLarge, "read of %d bytes, at most %d", len(readArr), maxStreamRead)
	}
	return c.session.SendCommand(ctx, writeArr, readArr)
}

// CSRelease ends the MSTAR session, which deasserts chip select on the far side.
func (c *Controller) CSRelease(ctx context.Context) error {
	if c.session == nil {
		return controller.NewNotInitializedError(Name)
	}
	return c.session.End(ctx)
}

// MaxTransfer returns the largest write a single command carries. Reads accept up to 32 bytes but
// callers chunking by MaxTransfer use this bound for both directions.
func (c *Controller) MaxTransfer() int {
	return MaxTransfer
}

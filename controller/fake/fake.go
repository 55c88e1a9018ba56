// Package fake implements a controller that talks to no hardware. It records every command and
// serves reads from queued data, which makes it useful for dry runs and tests.
package fake

import (
	"context"

	"go.viam.com/spiflash/controller"
	"go.viam.com/spiflash/logging"
)

// Name is the backend name of the fake controller.
const Name = "fake"

// DefaultMaxTransfer is used when Config leaves MaxTransfer unset.
const DefaultMaxTransfer = 4096

// Config describes a fake controller.
type Config struct {
	MaxTransfer int `json:"max_transfer,omitempty"`
	// Fill is the byte returned once queued read data runs out.
	Fill byte `json:"fill,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	return nil
}

// A Command is one recorded SendCommand call.
type Command struct {
	Write []byte
	Read  int
}

// Controller is a fake controller.Controller.
type Controller struct {
	logger      logging.Logger
	maxTransfer int
	fill        byte

	initialized bool
	connection  string
	pending     []byte

	Commands []Command
	Releases int
}

var _ controller.Controller = (*Controller)(nil)

// NewController returns a fake controller.
func NewController(conf *Config, logger logging.Logger) *Controller {
	c := &Controller{logger: logger, maxTransfer: DefaultMaxTransfer}
	if conf != nil {
		if conf.MaxTransfer != 0 {
			c.maxTransfer = conf.MaxTransfer
		}
		c.fill = conf.Fill
	}
	return c
}

// QueueRead appends data that later reads return in order.
func (c *Controller) QueueRead(data ...byte) {
	c.pending = append(c.pending, data...)
}

// Connection returns the connection string given to Init.
func (c *Controller) Connection() string {
	return c.connection
}

// Name returns the backend name.
func (c *Controller) Name() string {
	return Name
}

// Init marks the controller initialized.
func (c *Controller) Init(ctx context.Context, connection string) error {
	c.initialized = true
	c.connection = connection
	c.logger.Infow("fake controller initialized", "connection", connection)
	return nil
}

// Shutdown marks the controller closed.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.initialized = false
	return nil
}

// SendCommand records the command and answers reads from queued data.
func (c *Controller) SendCommand(ctx context.Context, writeArr, readArr []byte) error {
	if !c.initialized {
		return controller.NewNotInitializedError(Name)
	}
	cmd := Command{Read: len(readArr)}
	if len(writeArr) > 0 {
		cmd.Write = append([]byte(nil), writeArr...)
	}
	c.Commands = append(c.Commands, cmd)

	n := copy(readArr, c.pending)
	c.pending = c.pending[n:]
	for i := n; i < len(readArr); i++ {
		readArr[i] = c.fill
	}
	return nil
}

// CSRelease counts releases.
func (c *Controller) CSRelease(ctx context.Context) error {
	if !c.initialized {
		return controller.NewNotInitializedError(Name)
	}
	c.Releases++
	return nil
}

// MaxTransfer returns the configured transfer size.
func (c *Controller) MaxTransfer() int {
	return c.maxTransfer
}

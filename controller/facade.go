package controller

import (
	"context"

	"go.viam.com/spiflash/logging"
)

// A Facade exposes the SPI controller operations flash tooling expects on top of a bound
// Controller. It keeps no state of its own.
type Facade struct {
	ctrl   Controller
	logger logging.Logger
}

// NewFacade returns a Facade dispatching to ctrl.
func NewFacade(ctrl Controller, logger logging.Logger) *Facade {
	return &Facade{ctrl: ctrl, logger: logger}
}

// Controller returns the bound controller.
func (f *Facade) Controller() Controller {
	return f.ctrl
}

// EnableManualMode is a no-op; no backend exposes manual bus control.
func (f *Facade) EnableManualMode() error {
	return nil
}

// WriteOneByte writes a single byte.
func (f *Facade) WriteOneByte(ctx context.Context, data byte) error {
	return f.ctrl.SendCommand(ctx, []byte{data}, nil)
}

// ChipSelectHigh ends the current command.
func (f *Facade) ChipSelectHigh(ctx context.Context) error {
	return f.ctrl.CSRelease(ctx)
}

// ChipSelectLow is a no-op; a command starts with its first transfer.
func (f *Facade) ChipSelectLow() error {
	return nil
}

// ReadNBytes fills buf, split into transfers the controller accepts. On failure buf holds
// whatever the completed transfers read.
func (f *Facade) ReadNBytes(ctx context.Context, buf []byte, speed Speed) error {
	return Chunk(buf, f.ctrl.MaxTransfer(), func(piece []byte) error {
		return f.ctrl.SendCommand(ctx, nil, piece)
	})
}

// WriteNBytes writes buf, split into transfers the controller accepts.
func (f *Facade) WriteNBytes(ctx context.Context, buf []byte, speed Speed) error {
	return Chunk(buf, f.ctrl.MaxTransfer(), func(piece []byte) error {
		return f.ctrl.SendCommand(ctx, piece, nil)
	})
}

// Transfer reads len(rx) bytes then writes tx as one command, without splitting either.
func (f *Facade) Transfer(ctx context.Context, tx, rx []byte) error {
	f.logger.Debugw("transfer", "write", len(tx), "read", len(rx))
	return f.ctrl.SendCommand(ctx, tx, rx)
}

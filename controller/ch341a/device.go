package ch341a

import (
	"context"

	"github.com/google/gousb"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/spiflash/controller"
	"go.viam.com/spiflash/logging"
)

// Bulk endpoints of the adapter's vendor interface, 0x02 out and 0x82 in.
const (
	endpointOut = 2
	endpointIn  = 2
)

// libusb log level, warnings and errors.
const usbDebugLevel = 3

// bulkDevice is an opened adapter with its interface claimed.
type bulkDevice interface {
	WriteBulk(ctx context.Context, p []byte) (int, error)
	ReadBulk(ctx context.Context, p []byte) (int, error)
	Close() error
}

// openDevice opens the first adapter found. It's a variable so tests can swap in a fake device.
var openDevice = openUSBDevice

type usbDevice struct {
	usbCtx *gousb.Context
	dev    *gousb.Device
	intf   *gousb.Interface
	done   func()
	in     *gousb.InEndpoint
	out    *gousb.OutEndpoint
}

func openUSBDevice(ctx context.Context, logger logging.Logger) (bulkDevice, error) {
	d := &usbDevice{usbCtx: gousb.NewContext()}
	d.usbCtx.Debug(usbDebugLevel)

	var err error
	d.dev, err = d.usbCtx.OpenDeviceWithVIDPID(gousb.ID(ID.Vendor), gousb.ID(ID.Product))
	if err != nil || d.dev == nil {
		// gousb reports a missing device as a nil device without an error
		if err == nil {
			err = errors.Errorf("no device with id %s", ID)
		}
		return nil, multierr.Combine(errors.Wrapf(controller.ErrDeviceNotFound, "%s: %v", ID, err), d.Close())
	}
	if err := d.dev.SetAutoDetach(true); err != nil {
		logger.Debugw("kernel driver auto detach unavailable", "error", err)
	}

	d.intf, d.done, err = d.dev.DefaultInterface()
	if err != nil {
		return nil, multierr.Combine(errors.Wrap(controller.ErrClaimFailed, err.Error()), d.Close())
	}
	if d.out, err = d.intf.OutEndpoint(endpointOut); err != nil {
		return nil, multierr.Combine(errors.Wrap(controller.ErrClaimFailed, err.Error()), d.Close())
	}
	if d.in, err = d.intf.InEndpoint(endpointIn); err != nil {
		return nil, multierr.Combine(errors.Wrap(controller.ErrClaimFailed, err.Error()), d.Close())
	}
	return d, nil
}

func (d *usbDevice) WriteBulk(ctx context.Context, p []byte) (int, error) {
	return d.out.WriteContext(ctx, p)
}

func (d *usbDevice) ReadBulk(ctx context.Context, p []byte) (int, error) {
	return d.in.ReadContext(ctx, p)
}

// Close releases the interface and closes the device and context, skipping whatever was never
// opened.
func (d *usbDevice) Close() error {
	if d.done != nil {
		d.done()
		d.done = nil
	}
	var err error
	if d.dev != nil {
		err = multierr.Combine(err, d.dev.Close())
		d.dev = nil
	}
	if d.usbCtx != nil {
		err = multierr.Combine(err, d.usbCtx.Close())
		d.usbCtx = nil
	}
	return err
}

//go:build linux

package i2cdev

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"go.viam.com/spiflash/controller"
)

// i2cSlave is the i2c-dev ioctl that sets the address of later reads and writes.
const i2cSlave = 0x0703

type deviceNode struct {
	fd int
}

func openDeviceNode(path string, addr int) (busFile, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(controller.ErrOpenFailed, "%s: %v", path, err)
	}
	if err := unix.IoctlSetInt(fd, i2cSlave, addr); err != nil {
		//nolint:errcheck
		unix.Close(fd)
		return nil, errors.Wrapf(controller.ErrAddressBindFailed, "%#x on %s: %v", addr, path, err)
	}
	return &deviceNode{fd: fd}, nil
}

func (d *deviceNode) Read(p []byte) (int, error) {
	return unix.Read(d.fd, p)
}

func (d *deviceNode) Write(p []byte) (int, error) {
	return unix.Write(d.fd, p)
}

func (d *deviceNode) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

//go:build !linux

package i2cdev

import (
	"runtime"

	"github.com/pkg/errors"

	"go.viam.com/spiflash/controller"
)

func openDeviceNode(path string, addr int) (busFile, error) {
	return nil, errors.Wrapf(controller.ErrOpenFailed, "i2c device nodes are not supported on %s", runtime.GOOS)
}

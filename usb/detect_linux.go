//go:build linux

package usb

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SysPath is where the kernel lists usb devices. It's a variable so tests can point it elsewhere.
var SysPath = "/sys/bus/usb/devices"

// SearchDevices lists the usb devices for which includeDevice returns true.
// A missing or unreadable sysfs yields no results rather than an error.
func SearchDevices(includeDevice func(vendorID, productID int) bool) []Description {
	if includeDevice == nil {
		return nil
	}
	entries, err := os.ReadDir(SysPath)
	if err != nil {
		return nil
	}
	var results []Description
	for _, entry := range entries {
		devDir := filepath.Join(SysPath, entry.Name())
		vendorID, err := readHexAttr(devDir, "idVendor")
		if err != nil {
			// interfaces (1-1:1.0) have no ids
			continue
		}
		productID, err := readHexAttr(devDir, "idProduct")
		if err != nil {
			continue
		}
		if !includeDevice(vendorID, productID) {
			continue
		}
		desc := Description{
			ID:   Identifier{Vendor: vendorID, Product: productID},
			Path: devDir,
		}
		if bus, err := readDecAttr(devDir, "busnum"); err == nil {
			desc.Bus = bus
		}
		if addr, err := readDecAttr(devDir, "devnum"); err == nil {
			desc.Address = addr
		}
		results = append(results, desc)
	}
	return results
}

func readAttr(dir, name string) (string, error) {
	//nolint:gosec
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func readHexAttr(dir, name string) (int, error) {
	val, err := readAttr(dir, name)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseInt(val, 16, 64)
	return int(parsed), err
}

func readDecAttr(dir, name string) (int, error) {
	val, err := readAttr(dir, name)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.Atoi(val)
	return parsed, err
}

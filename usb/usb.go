// Package usb provides utilities for searching for and working with usb based devices.
package usb

import "fmt"

// Description describes a specific USB device attached to the host.
type Description struct {
	ID Identifier
	// Bus and Address locate the device the way libusb does.
	Bus     int
	Address int
	Path    string
}

// Identifier identifies a specific USB device by the vendor
// who produced it and the product that it is. These should
// be unique across products.
type Identifier struct {
	Vendor  int
	Product int
}

func (id Identifier) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

// Matches returns a filter for SearchDevices accepting only this identifier.
func (id Identifier) Matches(vendorID, productID int) bool {
	return id.Vendor == vendorID && id.Product == productID
}

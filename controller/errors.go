package controller

import "github.com/pkg/errors"

// Errors reported by backends while setting up a transport. All of them are terminal for Init.
var (
	ErrDeviceNotFound    = errors.New("device not found")
	ErrOpenFailed        = errors.New("failed to open device")
	ErrClaimFailed       = errors.New("failed to claim interface")
	ErrAddressBindFailed = errors.New("failed to bind slave address")
	ErrConfigFailed      = errors.New("failed to configure stream interface")
	ErrNotInitialized    = errors.New("controller not initialized")
)

// NewNotInitializedError is returned by a backend used before a successful Init.
func NewNotInitializedError(name string) error {
	return errors.Wrap(ErrNotInitialized, name)
}

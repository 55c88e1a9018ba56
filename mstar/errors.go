package mstar

import "github.com/pkg/errors"

var (
	// ErrTransfer is returned when a transfer fails or moves fewer bytes than asked.
	ErrTransfer = errors.New("transfer failed")
	// ErrHandshakeFailed is returned when neither the magic nor the fallback END reached the device.
	ErrHandshakeFailed = errors.New("handshake failed")
	// ErrPayloadTooLarge is returned before any bus traffic when a payload exceeds the staging buffer.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// checkTransfer folds a transfer result into ErrTransfer.
func checkTransfer(n, want int, err error) error {
	if err != nil {
		if errors.Is(err, ErrTransfer) || errors.Is(err, ErrPayloadTooLarge) {
			return err
		}
		return errors.Wrapf(ErrTransfer, "%d bytes: %v", want, err)
	}
	if n != want {
		return errors.Wrapf(ErrTransfer, "short transfer, moved %d of %d bytes", n, want)
	}
	return nil
}

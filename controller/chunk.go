package controller

// Chunk calls fn on consecutive pieces of buf of at most maxSize bytes, in order, until buf is
// consumed or fn fails. The first error is returned unchanged and nothing after it is attempted;
// pieces already handled stay handled. A maxSize of zero or less passes buf whole.
func Chunk(buf []byte, maxSize int, fn func(piece []byte) error) error {
	if maxSize <= 0 {
		maxSize = len(buf)
	}
	for len(buf) > 0 {
		size := len(buf)
		if size > maxSize {
			size = maxSize
		}
		if err := fn(buf[:size]); err != nil {
			return err
		}
		buf = buf[size:]
	}
	return nil
}

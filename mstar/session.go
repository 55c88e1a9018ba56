package mstar

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/spiflash/logging"
)

// A Session frames commands for one MSTAR port over a Channel. It is not safe for concurrent use;
// the bus is assumed to be owned by a single caller.
type Session struct {
	ch     Channel
	clk    clock.Clock
	delay  time.Duration
	logger logging.Logger

	// stage holds the WRITE opcode followed by the payload.
	stage []byte
	errs  atomic.Int64
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for the inter-command delay.
func WithClock(clk clock.Clock) Option {
	return func(s *Session) {
		s.clk = clk
	}
}

// WithDelay overrides the inter-command delay.
func WithDelay(delay time.Duration) Option {
	return func(s *Session) {
		s.delay = delay
	}
}

// NewSession returns a session over ch accepting write payloads of up to maxWrite bytes.
// No bytes are sent until Handshake or a command is issued.
func NewSession(ch Channel, maxWrite int, logger logging.Logger, opts ...Option) *Session {
	s := &Session{
		ch:     ch,
		clk:    clock.New(),
		delay:  Delay,
		logger: logger,
		stage:  make([]byte, maxWrite+1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a session over ch and performs the handshake.
func Open(ctx context.Context, ch Channel, maxWrite int, logger logging.Logger, opts ...Option) (*Session, error) {
	s := NewSession(ch, maxWrite, logger, opts...)
	if err := s.Handshake(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// MaxWrite is the largest write payload a single command accepts.
func (s *Session) MaxWrite() int {
	return len(s.stage) - 1
}

// Errors returns the number of failed transfers so far.
func (s *Session) Errors() int64 {
	return s.errs.Load()
}

func (s *Session) settle() {
	if s.delay > 0 {
		s.clk.Sleep(s.delay)
	}
}

// Handshake sends the session magic. A device that is already in a session may refuse it; in that
// case the current session is ended instead and only a failure of that is reported.
func (s *Session) Handshake(ctx context.Context) error {
	s.settle()
	n, err := s.ch.Write(ctx, Magic)
	magicErr := checkTransfer(n, len(Magic), err)
	if magicErr == nil {
		return nil
	}
	s.logger.Debugw("handshake not accepted, ending session", "error", magicErr)
	if endErr := s.End(ctx); endErr != nil {
		return errors.Wrap(ErrHandshakeFailed, multierr.Combine(magicErr, endErr).Error())
	}
	return nil
}

// End sends the END opcode.
func (s *Session) End(ctx context.Context) error {
	s.settle()
	n, err := s.ch.Write(ctx, []byte{OpEnd})
	return s.record("end", checkTransfer(n, 1, err))
}

// SendCommand performs a read of len(readArr) bytes into readArr, then a write of writeArr. Either
// may be empty. A failed read skips the write.
func (s *Session) SendCommand(ctx context.Context, writeArr, readArr []byte) error {
	if len(writeArr) > s.MaxWrite() {
		return errors.Wrapf(ErrPayloadTooLarge, "%d bytes, at most %d", len(writeArr), s.MaxWrite())
	}
	if len(readArr) > 0 {
		if err := s.read(ctx, readArr); err != nil {
			return err
		}
	}
	if len(writeArr) > 0 {
		if err := s.write(ctx, writeArr); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) read(ctx context.Context, readArr []byte) error {
	s.settle()
	n, err := s.ch.Write(ctx, []byte{OpRead})
	if reqErr := checkTransfer(n, 1, err); reqErr != nil {
		return s.record("read request", reqErr)
	}

	s.settle()
	n, err = s.ch.Read(ctx, readArr)
	return s.record("read", checkTransfer(n, len(readArr), err))
}

func (s *Session) write(ctx context.Context, writeArr []byte) error {
	s.settle()
	s.stage[0] = OpWrite
	size := copy(s.stage[1:], writeArr) + 1
	n, err := s.ch.Write(ctx, s.stage[:size])
	return s.record("write", checkTransfer(n, size, err))
}

// record counts and logs a failed phase.
func (s *Session) record(phase string, err error) error {
	if err == nil {
		return nil
	}
	s.errs.Inc()
	s.logger.Warnw("mstar "+phase+" failed", "error", err)
	return err
}

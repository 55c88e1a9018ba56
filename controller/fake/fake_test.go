package fake

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/spiflash/controller"
	"go.viam.com/spiflash/logging"
)

func TestFakeController(t *testing.T) {
	ctx := context.Background()
	c := NewController(&Config{MaxTransfer: 8, Fill: 0xff}, logging.NewTestLogger(t))
	test.That(t, c.Name(), test.ShouldEqual, Name)
	test.That(t, c.MaxTransfer(), test.ShouldEqual, 8)

	err := c.SendCommand(ctx, []byte{0x9f}, nil)
	test.That(t, errors.Is(err, controller.ErrNotInitialized), test.ShouldBeTrue)
	test.That(t, errors.Is(c.CSRelease(ctx), controller.ErrNotInitialized), test.ShouldBeTrue)

	test.That(t, c.Init(ctx, "/dev/null"), test.ShouldBeNil)
	test.That(t, c.Connection(), test.ShouldEqual, "/dev/null")

	c.QueueRead(0xef, 0x40)
	buf := make([]byte, 3)
	test.That(t, c.SendCommand(ctx, []byte{0x9f}, buf), test.ShouldBeNil)
	test.That(t, buf, test.ShouldResemble, []byte{0xef, 0x40, 0xff})
	test.That(t, c.CSRelease(ctx), test.ShouldBeNil)

	test.That(t, c.Commands, test.ShouldResemble, []Command{{Write: []byte{0x9f}, Read: 3}})
	test.That(t, c.Releases, test.ShouldEqual, 1)

	test.That(t, c.Shutdown(ctx), test.ShouldBeNil)
	test.That(t, c.Shutdown(ctx), test.ShouldBeNil)
}

func TestFakeDefaults(t *testing.T) {
	c := NewController(nil, logging.NewTestLogger(t))
	test.That(t, c.MaxTransfer(), test.ShouldEqual, DefaultMaxTransfer)
}

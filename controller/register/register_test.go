package register

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/spiflash/config"
	"go.viam.com/spiflash/controller/ch341a"
	"go.viam.com/spiflash/controller/fake"
	"go.viam.com/spiflash/controller/i2cdev"
	"go.viam.com/spiflash/logging"
)

func TestBackends(t *testing.T) {
	test.That(t, Backends(), test.ShouldResemble, []string{"ch341a_i2c", "fake", "mstar_i2c"})
}

func TestNew(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("fake", func(t *testing.T) {
		ctrl, err := New(&config.Config{
			Backend:    fake.Name,
			Attributes: config.AttributeMap{"max_transfer": 8, "fill": 0xff},
		}, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ctrl.Name(), test.ShouldEqual, fake.Name)
		test.That(t, ctrl.MaxTransfer(), test.ShouldEqual, 8)

		test.That(t, ctrl.Init(context.Background(), "dry-run"), test.ShouldBeNil)
		buf := make([]byte, 2)
		test.That(t, ctrl.SendCommand(context.Background(), nil, buf), test.ShouldBeNil)
		test.That(t, buf, test.ShouldResemble, []byte{0xff, 0xff})
	})

	t.Run("i2cdev", func(t *testing.T) {
		ctrl, err := New(&config.Config{
			Backend:    i2cdev.Name,
			Attributes: config.AttributeMap{"max_transfer": float64(1024)},
		}, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ctrl.Name(), test.ShouldEqual, i2cdev.Name)
		test.That(t, ctrl.MaxTransfer(), test.ShouldEqual, 1024)
	})

	t.Run("ch341a", func(t *testing.T) {
		ctrl, err := New(&config.Config{Backend: ch341a.Name}, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ctrl.MaxTransfer(), test.ShouldEqual, ch341a.MaxTransfer)
	})
}

func TestNewErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	_, err := New(&config.Config{}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"backend" is required`)

	_, err = New(&config.Config{Backend: "ftdi"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown backend "ftdi"`)

	_, err = New(&config.Config{Backend: i2cdev.Name, Attributes: config.AttributeMap{"max_transfer": 9000}}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "mstar_i2c.max_transfer")

	_, err = New(&config.Config{Backend: ch341a.Name, Attributes: config.AttributeMap{"speed": "400k"}}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown attributes [speed]")
}

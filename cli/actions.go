package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"go.viam.com/spiflash/config"
	"go.viam.com/spiflash/controller"
	"go.viam.com/spiflash/controller/ch341a"
	"go.viam.com/spiflash/controller/register"
	"go.viam.com/spiflash/logging"
	"go.viam.com/spiflash/usb"
)

// progressBlock is how many bytes dump and program move between progress updates.
const progressBlock = 64 * 1024

// newController builds the controller a command runs against. Tests replace it.
var newController = func(conf *config.Config, logger logging.Logger) (controller.Controller, error) {
	return register.New(conf, logger)
}

// searchDevices lists attached usb devices. Tests replace it.
var searchDevices = usb.SearchDevices

// logFileSizeMB is the size at which --log-file rotates.
const logFileSizeMB = 10

func newLogger(debug bool, logFile string) logging.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	if logFile != "" {
		return logging.NewFileLogger("spiflash", logFile, logFileSizeMB, level)
	}
	if debug {
		return logging.NewDebugLogger("spiflash")
	}
	return logging.NewLogger("spiflash")
}

// loadConfig reads --config if given and applies the backend flags on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	conf := &config.Config{}
	if path := c.Path(flagConfig); path != "" {
		var err error
		if conf, err = config.Read(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet(flagBackend) {
		conf.Backend = c.String(flagBackend)
	}
	if c.IsSet(flagConnection) {
		conf.Connection = c.String(flagConnection)
	}
	if c.Bool(flagDebug) {
		conf.Debug = true
	}
	if err := conf.Validate("config"); err != nil {
		return nil, err
	}
	return conf, nil
}

// withFacade initializes the configured controller, runs fn inside manual mode and always raises
// chip select and shuts the controller down afterwards.
func withFacade(c *cli.Context, fn func(ctx context.Context, f *controller.Facade) error) (err error) {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(conf.Debug, c.Path(flagLogFile))
	defer func() {
		//nolint:errcheck
		logger.Sync()
	}()

	ctrl, err := newController(conf, logger)
	if err != nil {
		return err
	}
	ctx := c.Context
	if err := ctrl.Init(ctx, conf.Connection); err != nil {
		return multierr.Combine(errors.Wrapf(err, "failed to initialize %s", ctrl.Name()), ctrl.Shutdown(ctx))
	}
	defer func() {
		if shutdownErr := ctrl.Shutdown(ctx); shutdownErr != nil {
			logger.Warnw("shutdown failed", "error", shutdownErr)
		}
	}()

	logger.Debugw("controller ready", "backend", ctrl.Name(), "max_transfer", ctrl.MaxTransfer())
	f := controller.NewFacade(ctrl, logger)
	if err := f.EnableManualMode(); err != nil {
		return err
	}
	if err := f.ChipSelectLow(); err != nil {
		return err
	}
	err = fn(ctx, f)
	return multierr.Combine(err, f.ChipSelectHigh(ctx))
}

func parseHex(c *cli.Context, flag string) ([]byte, error) {
	raw := strings.TrimPrefix(strings.ReplaceAll(c.String(flag), " ", ""), "0x")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "--%s is not hex", flag)
	}
	return b, nil
}

// ListAction prints the attached CH341A adapters.
func ListAction(c *cli.Context) error {
	devices := searchDevices(ch341a.ID.Matches)
	if len(devices) == 0 {
		fmt.Fprintf(c.App.Writer, "no %s adapters found\n", ch341a.ID)
		return nil
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Bus", "Device", "Path"})
	for _, d := range devices {
		t.AppendRow(table.Row{d.ID.String(), fmt.Sprintf("%03d", d.Bus), fmt.Sprintf("%03d", d.Address), d.Path})
	}
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

// ProbeAction opens the controller and reports its name and transfer size.
func ProbeAction(c *cli.Context) error {
	return withFacade(c, func(ctx context.Context, f *controller.Facade) error {
		ctrl := f.Controller()
		if size := ctrl.MaxTransfer(); size > 0 {
			fmt.Fprintf(c.App.Writer, "%s ready, max transfer %dB\n", ctrl.Name(), size)
		} else {
			fmt.Fprintf(c.App.Writer, "%s ready, unbounded transfers\n", ctrl.Name())
		}
		return nil
	})
}

// XferAction writes --write and then reads --read bytes, printing them as hex.
func XferAction(c *cli.Context) error {
	tx, err := parseHex(c, flagWrite)
	if err != nil {
		return err
	}
	n := c.Int(flagRead)
	if n < 0 {
		return errors.Errorf("--%s must not be negative", flagRead)
	}
	if len(tx) == 0 && n == 0 {
		return errors.Errorf("nothing to do, set --%s or --%s", flagWrite, flagRead)
	}

	return withFacade(c, func(ctx context.Context, f *controller.Facade) error {
		if err := f.WriteNBytes(ctx, tx, controller.SpeedSingle); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		rx := make([]byte, n)
		if err := f.ReadNBytes(ctx, rx, controller.SpeedSingle); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, hex.EncodeToString(rx))
		return nil
	})
}

// DumpAction sends --cmd and saves the following --length bytes to --output.
func DumpAction(c *cli.Context) error {
	cmd, err := parseHex(c, flagCmd)
	if err != nil {
		return err
	}
	length := c.Int(flagLength)
	if length <= 0 {
		return errors.Errorf("--%s must be positive", flagLength)
	}
	output := c.Path(flagOutput)

	buf := make([]byte, length)
	err = withFacade(c, func(ctx context.Context, f *controller.Facade) error {
		if err := f.WriteNBytes(ctx, cmd, controller.SpeedSingle); err != nil {
			return err
		}
		p := newProgress(c, "reading")
		done := 0
		return p.finish(controller.Chunk(buf, progressBlock, func(block []byte) error {
			if err := f.ReadNBytes(ctx, block, controller.SpeedSingle); err != nil {
				return err
			}
			done += len(block)
			p.update(done, len(buf))
			return nil
		}))
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, buf, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", output)
	}
	fmt.Fprintf(c.App.Writer, "read %d bytes into %s\n", length, output)
	return nil
}

// ProgramAction sends --cmd followed by the contents of --input.
func ProgramAction(c *cli.Context) error {
	cmd, err := parseHex(c, flagCmd)
	if err != nil {
		return err
	}
	input := c.Path(flagInput)
	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", input)
	}

	err = withFacade(c, func(ctx context.Context, f *controller.Facade) error {
		if err := f.WriteNBytes(ctx, cmd, controller.SpeedSingle); err != nil {
			return err
		}
		p := newProgress(c, "writing")
		done := 0
		return p.finish(controller.Chunk(data, progressBlock, func(block []byte) error {
			if err := f.WriteNBytes(ctx, block, controller.SpeedSingle); err != nil {
				return err
			}
			done += len(block)
			p.update(done, len(data))
			return nil
		}))
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %d bytes from %s\n", len(data), input)
	return nil
}

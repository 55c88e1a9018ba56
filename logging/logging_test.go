package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)

	logger.Debugw("transfer", "bytes", 6)
	logger.Warnf("total read/write errors: %d", 2)

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entries := logs.All()
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.DebugLevel)
	test.That(t, entries[0].Message, test.ShouldEqual, "transfer")
	test.That(t, entries[0].ContextMap()["bytes"], test.ShouldEqual, int64(6))
	test.That(t, entries[1].Message, test.ShouldEqual, "total read/write errors: 2")
}

func TestSubloggerSharesLevel(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("ch341a")

	logger.SetLevel(zapcore.WarnLevel)
	test.That(t, sub.Level(), test.ShouldEqual, zapcore.WarnLevel)

	sub.Info("dropped")
	sub.Warn("kept")
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("kept").Len(), test.ShouldEqual, 1)
}

func TestNewLoggerLevels(t *testing.T) {
	test.That(t, NewLogger("spiflash").Level(), test.ShouldEqual, zapcore.InfoLevel)
	test.That(t, NewDebugLogger("spiflash").Level(), test.ShouldEqual, zapcore.DebugLevel)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spiflash.log")
	logger := NewFileLogger("spiflash", path, 1, zapcore.InfoLevel)

	logger.Debug("hidden")
	logger.Infow("adapter ready", "speed", "100k")
	logger.SetLevel(zapcore.DebugLevel)
	logger.Debug("shown")

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"msg":"adapter ready"`)
	test.That(t, string(data), test.ShouldContainSubstring, `"speed":"100k"`)
	test.That(t, string(data), test.ShouldContainSubstring, `"msg":"shown"`)
	test.That(t, string(data), test.ShouldNotContainSubstring, "hidden")
}

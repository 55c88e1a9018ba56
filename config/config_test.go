package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestFromReaderValidate(t *testing.T) {
	_, err := FromReader("somepath", strings.NewReader(""))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "EOF")

	_, err = FromReader("somepath", strings.NewReader(`{"backend": 1}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unmarshal")

	_, err = FromReader("somepath", strings.NewReader(`{}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"backend" is required`)

	conf, err := FromReader("somepath", strings.NewReader(
		`{"backend": "mstar_i2c", "connection": "/dev/i2c-1", "attributes": {"max_transfer": 512}}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf, test.ShouldResemble, &Config{
		ConfigFilePath: "somepath",
		Backend:        "mstar_i2c",
		Connection:     "/dev/i2c-1",
		Attributes:     AttributeMap{"max_transfer": float64(512)},
	})
}

func TestFromReaderYAML(t *testing.T) {
	conf, err := FromReader("board.yaml", strings.NewReader(`
backend: ch341a_i2c
debug: true
attributes:
  i2c_speed: 400k
  timeout_ms: 250
`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Backend, test.ShouldEqual, "ch341a_i2c")
	test.That(t, conf.Debug, test.ShouldBeTrue)
	test.That(t, conf.Attributes.Has("i2c_speed"), test.ShouldBeTrue)
	test.That(t, conf.Attributes.Has("address"), test.ShouldBeFalse)

	_, err = FromReader("board.yml", strings.NewReader("backend: [1, 2"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unmarshal yaml")
}

func TestRead(t *testing.T) {
	t.Setenv("SPIFLASH_TEST_BUS", "/dev/i2c-7")
	path := filepath.Join(t.TempDir(), "spiflash.json")
	test.That(t, os.WriteFile(path, []byte(`{"backend": "mstar_i2c", "connection": "${SPIFLASH_TEST_BUS}"}`), 0o600),
		test.ShouldBeNil)

	conf, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, conf.Connection, test.ShouldEqual, "/dev/i2c-7")

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateEmptyAttributeKey(t *testing.T) {
	conf := &Config{Backend: "fake", Attributes: AttributeMap{"": 1}}
	err := conf.Validate("config")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "empty key")
}

type testAttributes struct {
	MaxTransfer int           `json:"max_transfer"`
	Speed       string        `json:"i2c_speed"`
	Fill        byte          `json:"fill"`
	Timeout     time.Duration `json:"timeout"`
}

func TestTransformAttributeMap(t *testing.T) {
	conv, err := TransformAttributeMap[*testAttributes](AttributeMap{
		"max_transfer": float64(1024),
		"i2c_speed":    "750k",
		"fill":         255,
		"timeout":      "20ms",
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conv, test.ShouldResemble, &testAttributes{
		MaxTransfer: 1024,
		Speed:       "750k",
		Fill:        0xff,
		Timeout:     20 * time.Millisecond,
	})

	// yaml numbers arrive as ints and strings convert weakly
	val, err := TransformAttributeMap[testAttributes](AttributeMap{"max_transfer": "64"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, val.MaxTransfer, test.ShouldEqual, 64)

	empty, err := TransformAttributeMap[*testAttributes](nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, empty, test.ShouldResemble, &testAttributes{})

	_, err = TransformAttributeMap[*testAttributes](AttributeMap{"speed": "1m", "bus": 2})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown attributes [bus speed]")

	_, err = TransformAttributeMap[*testAttributes](AttributeMap{"max_transfer": "lots"})
	test.That(t, err, test.ShouldNotBeNil)
}

// Package register binds a backend name from a config file to its controller implementation.
package register

import (
	"sort"

	"github.com/pkg/errors"

	"go.viam.com/spiflash/config"
	"go.viam.com/spiflash/controller"
	"go.viam.com/spiflash/controller/ch341a"
	"go.viam.com/spiflash/controller/fake"
	"go.viam.com/spiflash/controller/i2cdev"
	"go.viam.com/spiflash/logging"
	"go.viam.com/spiflash/mstar"
)

// A Constructor builds an uninitialized controller from converted attributes.
type Constructor func(attributes config.AttributeMap, logger logging.Logger, opts ...mstar.Option) (controller.Controller, error)

var backends = map[string]Constructor{
	ch341a.Name: func(attributes config.AttributeMap, logger logging.Logger, opts ...mstar.Option) (controller.Controller, error) {
		conf, err := convert[*ch341a.Config](ch341a.Name, attributes)
		if err != nil {
			return nil, err
		}
		return ch341a.NewController(conf, logger, opts...)
	},
	i2cdev.Name: func(attributes config.AttributeMap, logger logging.Logger, opts ...mstar.Option) (controller.Controller, error) {
		conf, err := convert[*i2cdev.Config](i2cdev.Name, attributes)
		if err != nil {
			return nil, err
		}
		return i2cdev.NewController(conf, logger, opts...)
	},
	fake.Name: func(attributes config.AttributeMap, logger logging.Logger, _ ...mstar.Option) (controller.Controller, error) {
		conf, err := convert[*fake.Config](fake.Name, attributes)
		if err != nil {
			return nil, err
		}
		return fake.NewController(conf, logger), nil
	},
}

type validator interface {
	Validate(path string) error
}

func convert[T validator](name string, attributes config.AttributeMap) (T, error) {
	conf, err := config.TransformAttributeMap[T](attributes)
	if err != nil {
		return conf, errors.Wrapf(err, "%s attributes", name)
	}
	if err := conf.Validate(name); err != nil {
		return conf, err
	}
	return conf, nil
}

// Backends returns the sorted names of all known backends.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the uninitialized controller conf selects. The caller runs Init with
// conf.Connection.
func New(conf *config.Config, logger logging.Logger, opts ...mstar.Option) (controller.Controller, error) {
	if err := conf.Validate("config"); err != nil {
		return nil, err
	}
	ctor, ok := backends[conf.Backend]
	if !ok {
		return nil, errors.Errorf("unknown backend %q, want one of %v", conf.Backend, Backends())
	}
	return ctor(conf.Attributes, logger.Sublogger(conf.Backend), opts...)
}

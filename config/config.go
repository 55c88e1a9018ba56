// Package config reads the file that selects and configures a controller backend.
package config

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// AttributeMap holds backend specific attributes as decoded from a config file.
type AttributeMap map[string]interface{}

// Has returns whether name is set.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// Config selects one backend and holds its attributes.
type Config struct {
	ConfigFilePath string `json:"-" yaml:"-"`

	Backend    string       `json:"backend" yaml:"backend"`
	Connection string       `json:"connection,omitempty" yaml:"connection,omitempty"`
	Debug      bool         `json:"debug,omitempty" yaml:"debug,omitempty"`
	Attributes AttributeMap `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	if conf.Backend == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "backend")
	}
	for key := range conf.Attributes {
		if key == "" {
			return goutils.NewConfigValidationError(path, errors.New("attributes may not have an empty key"))
		}
	}
	return nil
}

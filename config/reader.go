package config

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Read reads a config from the given file. ${VAR} references are expanded from the environment
// first. Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies where, if applicable, the file the
// reader originated from. The extension of originalPath picks the decoder.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	cfg := Config{}
	switch strings.ToLower(filepath.Ext(originalPath)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "cannot unmarshal yaml config")
		}
	default:
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "cannot unmarshal json config")
		}
	}
	cfg.ConfigFilePath = originalPath

	if err := cfg.Validate("config"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

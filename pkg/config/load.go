package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// Load reads a JSON configuration file and validates it.
// The path must have a .json extension.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no configuration file was provided")
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid configuration file %q (expected .json)", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "configuration file %q", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration from r.
// Unknown fields are rejected so that typos such as "weight" surface early.
func Parse(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

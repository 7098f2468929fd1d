package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a config file. The format follows the
// extension: .yaml/.yml, .toml or .json.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		c, err = LoadYAML(f)
	case ".toml":
		c, err = LoadTOML(f)
	case ".json":
		c, err = LoadJSON(f)
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err = c.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// LoadYAML decodes config from YAML. It does not validate.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadTOML decodes config from TOML. It does not validate.
func LoadTOML(r io.Reader) (*Config, error) {
	var c Config
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadJSON decodes config from JSON. It does not validate.
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

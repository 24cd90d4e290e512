package config

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/segmentio/encoding/json"
)

// Load reads a TOML file over the defaults and validates the result.
// An empty path returns the validated defaults. When the file lists ores
// they replace the default ore rules entirely.
func Load(path string) (Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.New("reading config file failed").
			WithType(ErrTypeLoadConfig).
			WithTag("path", path).
			Wrap(err)
	}
	return Parse(data)
}

// Parse decodes TOML bytes over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	c.Ores = nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, errors.New("decoding config failed").
			WithType(ErrTypeLoadConfig).
			Wrap(err)
	}
	if c.Ores == nil {
		c.Ores = DefaultOres()
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Hash returns a short fingerprint of the configuration, for logs.
func (c Config) Hash() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "unknown"
	}
	h := fnv.New64a()
	h.Write(b)
	return fmt.Sprintf("%016x", h.Sum64())
}

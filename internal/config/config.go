// Package config loads linecalc settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// EnvPath is the environment variable naming the configuration file when none
// is given on the command line.
const EnvPath = "LINECALC_CONFIG"

// Config holds the settings of a linecalc session.
type Config struct {
	// Format is the fmt verb used to print each result.
	Format string `yaml:"format"`
	// LogLevel is a zerolog level name for diagnostics on stderr.
	LogLevel string `yaml:"log_level"`
	// Trace logs every token at debug level.
	Trace bool `yaml:"trace"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Format:   "%g",
		LogLevel: "warn",
	}
}

// Load reads the configuration file at path. An empty path yields the
// defaults. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration over the defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the format verb prints a number and that the log level
// is known.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Format == "" {
		return errors.New("format must not be empty")
	}
	if s := fmt.Sprintf(c.Format, 1.5); strings.Contains(s, "%!") {
		return fmt.Errorf("format %q does not format a single number: %s", c.Format, s)
	}
	return nil
}

// Level parses the log level. An empty level is zerolog.NoLevel.
func (c Config) Level() (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Package config handles stltool configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/stlkit/internal/logger"
	"github.com/Faultbox/stlkit/pkg/encoding"
	"github.com/Faultbox/stlkit/pkg/stl"
)

// Config holds all stltool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Read    ReadConfig    `yaml:"read"`
	Write   WriteConfig   `yaml:"write"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ReadConfig holds input settings.
type ReadConfig struct {
	Detection string `yaml:"detection"` // "size" or "token"
}

// WriteConfig holds output settings.
type WriteConfig struct {
	Format    string `yaml:"format"`     // "binary" or "ascii"
	Precision int    `yaml:"precision"`  // significant digits, 0 for shortest exact
	SolidName string `yaml:"solid_name"` // empty uses the output file name
	Header    string `yaml:"header"`     // replaces the binary header when set
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Read: ReadConfig{
			Detection: stl.DetectSize.String(),
		},
		Write: WriteConfig{
			Format: stl.FormatBinary.String(),
		},
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := stl.ParseDetectStrategy(c.Read.Detection); err != nil {
		return fmt.Errorf("read.detection: %w", err)
	}
	if _, err := c.OutputFormat(); err != nil {
		return fmt.Errorf("write.format: %w", err)
	}
	if c.Write.Precision < 0 || c.Write.Precision > 9 {
		return fmt.Errorf("write.precision: %d out of range 0-9", c.Write.Precision)
	}
	if len(encoding.UTF8ToLatin1(c.Write.Header)) > stl.HeaderSize {
		return fmt.Errorf("write.header: longer than %d bytes", stl.HeaderSize)
	}
	return nil
}

// OutputFormat parses Write.Format.
func (c *Config) OutputFormat() (stl.Format, error) {
	switch strings.ToLower(c.Write.Format) {
	case "", "binary", "bin":
		return stl.FormatBinary, nil
	case "ascii", "text":
		return stl.FormatASCII, nil
	default:
		return stl.FormatBinary, fmt.Errorf("unknown format %q", c.Write.Format)
	}
}

// Codec builds an stl.Codec from the read and write sections.
func (c *Config) Codec(log *zap.Logger) (*stl.Codec, error) {
	detect, err := stl.ParseDetectStrategy(c.Read.Detection)
	if err != nil {
		return nil, err
	}

	codec := stl.NewCodec(log)
	codec.Detection = detect
	codec.Precision = c.Write.Precision
	codec.SolidName = c.Write.SolidName
	return codec, nil
}

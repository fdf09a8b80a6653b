// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/demandlab/price-optimizer/internal/pricing"
	"github.com/demandlab/price-optimizer/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for price-optimizer.
type Configuration struct {
	Server       ServerConfig          `yaml:"server,omitempty"`
	Logging      LoggingConfig         `yaml:"logging,omitempty"`
	Output       OutputConfig          `yaml:"output,omitempty"`
	Model        *pricing.Parameters   `yaml:"model,omitempty"`
	Observations []pricing.Observation `yaml:"observations,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address        string   `yaml:"address,omitempty"`
	MaxBodySize    string   `yaml:"maxBodySize,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
	bodySizeBytes  int64
}

// Default returns a Configuration populated with server defaults.
func Default() *Configuration {
	return &Configuration{
		Server: ServerConfig{
			Address:       constants.DefaultServerAddress,
			MaxBodySize:   fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
			bodySizeBytes: constants.DefaultMaxBodySizeBytes,
		},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file yields the defaults without error so
// the server can start unconfigured.
func LoadConfiguration(configPath string) (*Configuration, error) {
	configuration := Default()
	if configPath == "" {
		return configuration, nil
	}
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return configuration, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	if err := v.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.normalize(); err != nil {
		return nil, err
	}

	return configuration, nil
}

func (conf *Configuration) normalize() error {
	if conf.Server.Address == "" {
		conf.Server.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(conf.Server.MaxBodySize)
	if sizeStr == "" {
		conf.Server.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		conf.Server.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	conf.Server.bodySizeBytes = bytes
	return nil
}

// BodySizeBytes returns the configured maximum request body size in bytes.
func (s *ServerConfig) BodySizeBytes() int64 {
	if s.bodySizeBytes <= 0 {
		return constants.DefaultMaxBodySizeBytes
	}
	return s.bodySizeBytes
}

// ValidateConfiguration checks for suspicious-but-legal values and returns
// warnings for any that are found. Hard validation failures are left to the
// pricing core, which rejects them per request.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Model != nil {
		if conf.Model.Alpha == 0 {
			warnings = append(warnings, "model.alpha is 0; demand vanishes at any positive price")
		}
		if conf.Model.PMax == 0 {
			warnings = append(warnings, "model.pMax is 0; the optimal price will be clamped to 0")
		}
		if conf.Model.Beta <= 0 {
			warnings = append(warnings, "model.beta is not positive; optimization will be rejected")
		}
		if conf.Model.PMin > conf.Model.PMax {
			warnings = append(warnings, "model.pMin exceeds model.pMax; optimization will be rejected")
		}
	}

	if len(conf.Observations) == 1 {
		warnings = append(warnings, "a single observation cannot be fitted; provide at least 2")
	}

	return warnings
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}

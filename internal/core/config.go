package core

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ConfigEnvVar names the environment variable holding a path to a YAML config file.
const ConfigEnvVar = "IMPMOCK_CONFIG"

// Resolver tier names usable in Config.Resolvers.
const (
	ResolverGiven  = "given"
	ResolverLocal  = "local"
	ResolverGlobal = "global"
)

// Config tunes a mock. The zero value is not useful; start from DefaultConfig.
//
//	resolvers: [given, global]
//	warnOnTypeMismatch: false
//	logLevel: debug
type Config struct {
	// Resolvers lists the tiers tried before the terminal "unresolved" tier, in order.
	Resolvers []string `yaml:"resolvers"`
	// WarnOnTypeMismatch logs when a matched behaviour produced a value of the wrong type and
	// resolution fell through.
	WarnOnTypeMismatch bool `yaml:"warnOnTypeMismatch"`
	// LogLevel is a zap level name.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns the configuration used when nothing else is supplied.
func DefaultConfig() Config {
	return Config{
		Resolvers:          []string{ResolverGiven, ResolverLocal, ResolverGlobal},
		WarnOnTypeMismatch: true,
		LogLevel:           "info",
	}
}

// ConfigFromEnv loads the file named by ConfigEnvVar, or returns DefaultConfig when unset.
func ConfigFromEnv(getEnv func(string) string) (Config, error) {
	path := getEnv(ConfigEnvVar)
	if path == "" {
		return DefaultConfig(), nil
	}

	return LoadConfig(path)
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig parses YAML over DefaultConfig, so omitted keys keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return level, nil
}

// Validate checks resolver names and the log level.
func (c Config) Validate() error {
	known := []string{ResolverGiven, ResolverLocal, ResolverGlobal}

	for index, name := range c.Resolvers {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: unknown resolver %q", ErrInvalidConfig, name)
		}

		if slices.Contains(c.Resolvers[:index], name) {
			return fmt.Errorf("%w: resolver %q listed twice", ErrInvalidConfig, name)
		}
	}

	_, err := c.Level()

	return err
}

// ErrInvalidConfig is returned for configs that fail validation.
var ErrInvalidConfig = errors.New("invalid config")

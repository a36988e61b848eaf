// Package config loads the YAML configuration that decides what arguments
// to pass to the three constructors, kept external to the core data
// structures: defaults are populated first, then overridden from file,
// then validated.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a setindex deployment: one
// Bloom filter, one Cuckoo filter, and one skip list, plus logging.
type Config struct {
	Bloom    BloomConfig    `yaml:"bloom"`
	Cuckoo   CuckooConfig   `yaml:"cuckoo"`
	SkipList SkipListConfig `yaml:"skiplist"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BloomConfig configures bloom.New.
type BloomConfig struct {
	ExpectedInsertions uint64  `yaml:"expected_insertions"`
	FalsePositiveRate  float64 `yaml:"false_positive_rate"`
	HashFunction       string  `yaml:"hash_function"` // "xxhash", "crc32", "sha256"
}

// CuckooConfig configures cuckoo.New.
type CuckooConfig struct {
	Capacity        uint64 `yaml:"capacity"`
	FingerprintSize int    `yaml:"fingerprint_size"`
	HashFunction    string `yaml:"hash_function"`
}

// SkipListConfig configures skiplist.New.
type SkipListConfig struct {
	MaxElements uint64 `yaml:"max_elements"`
}

// LoggingConfig controls the async structured logger.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	EnableConsole bool   `yaml:"enable_console"`
	EnableFile    bool   `yaml:"enable_file"`
	LogFile       string `yaml:"log_file"`
	BufferSize    int    `yaml:"buffer_size"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Bloom: BloomConfig{
			ExpectedInsertions: 1_000_000,
			FalsePositiveRate:  0.01,
			HashFunction:       "xxhash",
		},
		Cuckoo: CuckooConfig{
			Capacity:        1_000_000,
			FingerprintSize: 2,
			HashFunction:    "xxhash",
		},
		SkipList: SkipListConfig{
			MaxElements: 1_000_000,
		},
		Logging: LoggingConfig{
			Level:         "info",
			EnableConsole: true,
			EnableFile:    false,
			BufferSize:    1000,
		},
	}
}

// Load reads and parses path, falling back to Default() if the file does
// not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration against the constructors' own
// contracts, so bad YAML fails at load time rather than inside the filter
// constructors.
func (c *Config) Validate() error {
	if c.Bloom.ExpectedInsertions == 0 {
		return fmt.Errorf("bloom.expected_insertions must be >= 1")
	}
	if !(c.Bloom.FalsePositiveRate > 0 && c.Bloom.FalsePositiveRate < 1) {
		return fmt.Errorf("bloom.false_positive_rate must be in (0,1)")
	}
	if !isValidHashFunction(c.Bloom.HashFunction) {
		return fmt.Errorf("bloom.hash_function must be one of xxhash, crc32, sha256")
	}
	if c.Cuckoo.Capacity == 0 {
		return fmt.Errorf("cuckoo.capacity must be >= 1")
	}
	if c.Cuckoo.FingerprintSize <= 0 {
		return fmt.Errorf("cuckoo.fingerprint_size must be >= 1")
	}
	if !isValidHashFunction(c.Cuckoo.HashFunction) {
		return fmt.Errorf("cuckoo.hash_function must be one of xxhash, crc32, sha256")
	}
	if c.SkipList.MaxElements == 0 {
		return fmt.Errorf("skiplist.max_elements must be >= 1")
	}
	if !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, fatal")
	}
	return nil
}

func isValidHashFunction(name string) bool {
	switch name {
	case "xxhash", "crc32", "sha256":
		return true
	default:
		return false
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error", "fatal":
		return true
	default:
		return false
	}
}

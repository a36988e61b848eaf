package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"setindex/pkg/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() config should validate cleanly, got: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file should fall back to defaults, got error: %v", err)
	}
	if cfg.Bloom.ExpectedInsertions != config.Default().Bloom.ExpectedInsertions {
		t.Fatalf("Load of a missing file should return Default()")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setindex.yaml")
	yaml := `
bloom:
  expected_insertions: 500
  false_positive_rate: 0.05
  hash_function: crc32
cuckoo:
  capacity: 2048
  fingerprint_size: 4
  hash_function: sha256
skiplist:
  max_elements: 256
logging:
  level: debug
  enable_console: true
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bloom.ExpectedInsertions != 500 {
		t.Errorf("Bloom.ExpectedInsertions = %d, want 500", cfg.Bloom.ExpectedInsertions)
	}
	if cfg.Cuckoo.Capacity != 2048 {
		t.Errorf("Cuckoo.Capacity = %d, want 2048", cfg.Cuckoo.Capacity)
	}
	if cfg.SkipList.MaxElements != 256 {
		t.Errorf("SkipList.MaxElements = %d, want 256", cfg.SkipList.MaxElements)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"zero expected insertions", func(c *config.Config) { c.Bloom.ExpectedInsertions = 0 }},
		{"fpr out of range", func(c *config.Config) { c.Bloom.FalsePositiveRate = 1.5 }},
		{"unknown bloom hash", func(c *config.Config) { c.Bloom.HashFunction = "md5" }},
		{"zero capacity", func(c *config.Config) { c.Cuckoo.Capacity = 0 }},
		{"zero fingerprint size", func(c *config.Config) { c.Cuckoo.FingerprintSize = 0 }},
		{"zero max elements", func(c *config.Config) { c.SkipList.MaxElements = 0 }},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected Validate() to reject: %s", tc.name)
			}
		})
	}
}

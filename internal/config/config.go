package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Pipeline fixes the simulated system's geometry. Values are construction
// parameters, never runtime mutable.
type Pipeline struct {
	Lanes       int `toml:"lanes"`
	Depth       int `toml:"depth"`
	PayloadBits int `toml:"payload_bits"`
	SeqBits     int `toml:"seq_bits"`
	CounterBits int `toml:"counter_bits"`
}

// Cipher configures the per-stage XOR-rotate round.
type Cipher struct {
	// MasterKey is a hex string (with or without 0x prefix) seeding every
	// stage key.
	MasterKey string `toml:"master_key"`
}

// Workload configures the default producer/consumer harness for runs.
type Workload struct {
	Blocks   int    `toml:"blocks"`
	Producer string `toml:"producer"`
	Consumer string `toml:"consumer"`
	Seed     uint64 `toml:"seed"`
	MaxTicks uint64 `toml:"max_ticks"`
}

// Trace configures the SQLite-backed run recorder.
type Trace struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for Relane.
type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	Cipher   Cipher   `toml:"cipher"`
	Workload Workload `toml:"workload"`
	Trace    Trace    `toml:"trace"`
	Logging  Logging  `toml:"logging"`

	masterKey uint64
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/relane/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and the master key parsed. It also
// reports the resolved path and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("RELANE_CONFIG")
	}
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("relane.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		trimmed = filepath.Join(home, trimmed[2:])
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}

// MasterKeyValue returns the parsed cipher master key. Valid only after a
// successful Load (or normalize on a Default config).
func (c *Config) MasterKeyValue() uint64 {
	return c.masterKey
}

// EnsureDirectories creates the directories Relane writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{}
	if c.Trace.Dir != "" {
		dirs = append(dirs, c.Trace.Dir)
	}
	if c.Logging.Dir != "" {
		dirs = append(dirs, c.Logging.Dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the annotated sample configuration to target.
func CreateSample(target string) error {
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

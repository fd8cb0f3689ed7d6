package config

import (
	"fmt"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCipher(); err != nil {
		return err
	}
	c.normalizeWorkload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Trace.Dir) == "" {
		c.Trace.Dir = defaultTraceDir
	}
	if c.Trace.Dir, err = ExpandPath(c.Trace.Dir); err != nil {
		return fmt.Errorf("trace.dir: %w", err)
	}
	if c.Logging.Dir, err = ExpandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCipher() error {
	key := strings.TrimSpace(c.Cipher.MasterKey)
	if key == "" {
		key = defaultMasterKey
	}
	c.Cipher.MasterKey = key

	parsed, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(key), "0x"), 16, 64)
	if err != nil {
		return fmt.Errorf("cipher.master_key: %q is not a hex value: %w", key, err)
	}
	c.masterKey = parsed
	return nil
}

func (c *Config) normalizeWorkload() {
	c.Workload.Producer = strings.ToLower(strings.TrimSpace(c.Workload.Producer))
	if c.Workload.Producer == "" {
		c.Workload.Producer = defaultWorkloadProducer
	}
	c.Workload.Consumer = strings.ToLower(strings.TrimSpace(c.Workload.Consumer))
	if c.Workload.Consumer == "" {
		c.Workload.Consumer = defaultWorkloadConsumer
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

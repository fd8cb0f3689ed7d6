package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateWorkload(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	p := c.Pipeline
	if p.Lanes < 1 {
		return errors.New("pipeline.lanes must be at least 1")
	}
	if p.Depth < 1 {
		return errors.New("pipeline.depth must be at least 1")
	}
	if p.PayloadBits < 1 || p.PayloadBits > 64 {
		return errors.New("pipeline.payload_bits must be between 1 and 64")
	}
	if p.SeqBits < 1 || p.SeqBits > 64 {
		return errors.New("pipeline.seq_bits must be between 1 and 64")
	}
	if p.CounterBits < 1 || p.CounterBits > 64 {
		return errors.New("pipeline.counter_bits must be between 1 and 64")
	}

	capacity := uint64(p.Lanes) * uint64(p.Depth+1)
	if p.SeqBits < 64 && capacity >= uint64(1)<<uint(p.SeqBits) {
		return fmt.Errorf("pipeline.seq_bits: %d bits cannot keep %d in-flight blocks unique; raise seq_bits or shrink the pipeline", p.SeqBits, capacity)
	}
	return nil
}

func (c *Config) validateWorkload() error {
	if c.Workload.Blocks < 1 {
		return errors.New("workload.blocks must be at least 1")
	}
	if c.Workload.Producer == "" {
		return errors.New("workload.producer must be set")
	}
	if c.Workload.Consumer == "" {
		return errors.New("workload.consumer must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

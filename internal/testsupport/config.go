package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"relane/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	lanes    int
	depth    int
	seqBits  int
	blocks   uint64
	producer string
	consumer string
	seed     uint64
}

// NewConfig writes a configuration file into a unique temp directory, loads
// it, and returns the parsed config. Trace and log paths point inside the
// temp directory so tests never touch the real home directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	builder := &configBuilder{
		lanes:    4,
		depth:    8,
		seqBits:  16,
		blocks:   32,
		producer: "always",
		consumer: "always",
		seed:     1,
	}
	for _, opt := range opts {
		opt(builder)
	}

	base := t.TempDir()
	body := fmt.Sprintf(`[pipeline]
lanes = %d
depth = %d
payload_bits = 64
seq_bits = %d
counter_bits = 32

[workload]
blocks = %d
producer = %q
consumer = %q
seed = %d

[trace]
enabled = true
dir = %q

[logging]
format = "console"
level = "debug"
dir = %q
`,
		builder.lanes, builder.depth, builder.seqBits,
		builder.blocks, builder.producer, builder.consumer, builder.seed,
		filepath.Join(base, "trace"), filepath.Join(base, "logs"))

	cfgPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

// WithPipeline overrides the lane count and depth on the test config.
func WithPipeline(lanes, depth int) ConfigOption {
	return func(b *configBuilder) {
		b.lanes = lanes
		b.depth = depth
	}
}

// WithSeqBits overrides the sequence id width on the test config.
func WithSeqBits(bits int) ConfigOption {
	return func(b *configBuilder) {
		b.seqBits = bits
	}
}

// WithWorkload overrides the workload shape on the test config.
func WithWorkload(blocks uint64, producer, consumer string) ConfigOption {
	return func(b *configBuilder) {
		b.blocks = blocks
		b.producer = producer
		b.consumer = consumer
	}
}

package config

const (
	defaultLanes       = 4
	defaultDepth       = 8
	defaultPayloadBits = 64
	defaultSeqBits     = 16
	defaultCounterBits = 32

	defaultMasterKey = "0x9e3779b97f4a7c15"

	defaultWorkloadBlocks   = 256
	defaultWorkloadProducer = "always"
	defaultWorkloadConsumer = "always"
	defaultWorkloadSeed     = 1

	defaultTraceDir  = "~/.local/share/relane/trace"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Pipeline: Pipeline{
			Lanes:       defaultLanes,
			Depth:       defaultDepth,
			PayloadBits: defaultPayloadBits,
			SeqBits:     defaultSeqBits,
			CounterBits: defaultCounterBits,
		},
		Cipher: Cipher{
			MasterKey: defaultMasterKey,
		},
		Workload: Workload{
			Blocks:   defaultWorkloadBlocks,
			Producer: defaultWorkloadProducer,
			Consumer: defaultWorkloadConsumer,
			Seed:     defaultWorkloadSeed,
		},
		Trace: Trace{
			Enabled: false,
			Dir:     defaultTraceDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

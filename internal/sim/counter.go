package sim

// counters holds the two observability counters. Both wrap at the
// configured width; wrapping is expected behavior, not an error.
type counters struct {
	mask   uint64
	blocks uint64 // incremented on each consumer-facing release
	cycles uint64 // free running, incremented every tick
}

func (c *counters) tickCycle() {
	c.cycles = (c.cycles + 1) & c.mask
}

func (c *counters) countBlock() {
	c.blocks = (c.blocks + 1) & c.mask
}

func (c *counters) reset() {
	c.blocks = 0
	c.cycles = 0
}

// Counters is the read-only view of the system's counters.
type Counters struct {
	BlocksProcessed uint64
	CyclesElapsed   uint64
}

package workload

import (
	"fmt"

	"relane/internal/sim"
)

// Release records one block delivered to the consumer.
type Release struct {
	Tick    uint64
	Lane    int
	Seq     uint64
	Payload uint64
}

// Sink implements the consumer side of the release link. It decides per
// tick whether to assert ready, records every delivered block, and checks
// that the pipeline honors the hold rule: while a block is presented and
// the consumer refuses, the presented payload and sequence id must not
// change.
type Sink struct {
	pattern  *Pattern
	releases []Release

	holding     bool
	heldSeq     uint64
	heldPayload uint64
}

func NewSink(pattern *Pattern) *Sink {
	return &Sink{pattern: pattern}
}

// Ready returns this tick's consumer ready signal.
func (k *Sink) Ready() bool {
	return k.pattern.Next()
}

// Observe inspects one tick's output. ready must be the value Ready
// returned for the same tick. It fails if the pipeline swapped or mutated
// a presented block while the consumer was refusing.
func (k *Sink) Observe(tick uint64, out sim.Output, ready bool) error {
	if out.OutValid && !ready {
		if k.holding && (k.heldSeq != out.OutSeq || k.heldPayload != out.OutPayload) {
			return fmt.Errorf("tick %d: presented block changed under backpressure: had seq %d payload %#x, now seq %d payload %#x",
				tick, k.heldSeq, k.heldPayload, out.OutSeq, out.OutPayload)
		}
		k.holding = true
		k.heldSeq = out.OutSeq
		k.heldPayload = out.OutPayload
		return nil
	}

	if out.Released {
		if k.holding && (k.heldSeq != out.OutSeq || k.heldPayload != out.OutPayload) {
			return fmt.Errorf("tick %d: released block differs from held presentation: had seq %d, got seq %d",
				tick, k.heldSeq, out.OutSeq)
		}
		k.releases = append(k.releases, Release{
			Tick:    tick,
			Lane:    out.OutLane,
			Seq:     out.OutSeq,
			Payload: out.OutPayload,
		})
	}
	k.holding = false
	return nil
}

// Releases returns every recorded delivery in arrival order.
func (k *Sink) Releases() []Release {
	return k.releases
}

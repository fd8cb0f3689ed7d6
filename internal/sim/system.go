package sim

import (
	"errors"
	"fmt"
)

// Spec fixes the construction-time shape of a pipeline system. None of its
// fields are runtime mutable.
type Spec struct {
	// Lanes is the number of parallel transform pipelines (N >= 1).
	Lanes int
	// Depth is the per-lane latency in ticks (K >= 1); each lane has
	// exactly Depth pipeline slots.
	Depth int
	// PayloadBits is the payload width in bits (1..64).
	PayloadBits int
	// SeqBits is the sequence-id width in bits; ids wrap modulo 2^SeqBits.
	SeqBits int
	// CounterBits is the width of both observability counters.
	CounterBits int
	// MasterKey seeds the per-stage XOR-rotate round keys.
	MasterKey uint64
	// Transform overrides the default XOR-rotate round when non-nil.
	Transform Transform
}

func (s Spec) validate() error {
	if s.Lanes < 1 {
		return errors.New("sim: lanes must be at least 1")
	}
	if s.Depth < 1 {
		return errors.New("sim: depth must be at least 1")
	}
	if s.PayloadBits < 1 || s.PayloadBits > 64 {
		return errors.New("sim: payload bits must be between 1 and 64")
	}
	if s.SeqBits < 1 || s.SeqBits > 64 {
		return errors.New("sim: sequence bits must be between 1 and 64")
	}
	if s.CounterBits < 1 || s.CounterBits > 64 {
		return errors.New("sim: counter bits must be between 1 and 64")
	}

	// Sequence ids must stay unique among concurrently outstanding blocks:
	// Lanes*Depth in lane slots plus Lanes reassembly slots.
	capacity := uint64(s.Lanes) * uint64(s.Depth+1)
	if s.SeqBits < 64 && capacity >= uint64(1)<<uint(s.SeqBits) {
		return fmt.Errorf("sim: sequence width %d bits cannot cover %d in-flight blocks", s.SeqBits, capacity)
	}
	return nil
}

// Input carries the external signals presented to the system for one tick:
// the producer side of the admission link and the consumer's ready signal
// on the release link.
type Input struct {
	Valid         bool
	Payload       uint64
	ConsumerReady bool
}

// Output carries the system's externally visible signals for one tick.
// InReady and the Out* fields reflect the state the tick began with;
// Admitted and Released report the transfers that actually occurred.
type Output struct {
	// InReady is the producer-facing ready signal.
	InReady bool
	// Admitted reports that the offered block transferred this tick.
	Admitted     bool
	AdmittedSeq  uint64
	AdmittedLane int

	// OutValid reports that a block is presented on the release link;
	// OutLane is the lane whose reassembly slot holds it, or -1.
	OutValid   bool
	OutLane    int
	OutPayload uint64
	OutSeq     uint64
	// Released reports that the presented block transferred this tick.
	Released bool
}

// System wires one dispatcher, Lanes lanes, one reassembler, and the
// counters, and drives the global tick and reset. It contains no logic
// beyond the wiring and the two-phase tick discipline.
type System struct {
	spec        Spec
	payloadMask uint64
	seqMask     uint64

	dispatcher  *dispatcher
	lanes       []*lane
	reassembler *reassembler
	counters    counters
	tick        uint64
}

// New validates the spec and builds a fully wired system at reset state.
func New(spec Spec) (*System, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	xform := spec.Transform
	if xform == nil {
		xform = XORRotate(spec.MasterKey, spec.Depth, spec.PayloadBits)
	}

	seqMask := widthMask(spec.SeqBits)
	sys := &System{
		spec:        spec,
		payloadMask: widthMask(spec.PayloadBits),
		seqMask:     seqMask,
		dispatcher:  newDispatcher(spec.Lanes, seqMask),
		lanes:       make([]*lane, spec.Lanes),
		reassembler: newReassembler(spec.Lanes, seqMask),
		counters:    counters{mask: widthMask(spec.CounterBits)},
	}
	for i := range sys.lanes {
		sys.lanes[i] = newLane(spec.Depth, xform)
	}
	return sys, nil
}

// Spec returns the construction parameters.
func (s *System) Spec() Spec {
	return s.spec
}

// SeqMask returns the sequence-id value mask (2^SeqBits - 1).
func (s *System) SeqMask() uint64 {
	return s.seqMask
}

// Tick advances the system one synchronous step. All transfer and readiness
// decisions are evaluated against the state the tick began with; the next
// state commits before Tick returns. A block latched into a reassembly slot
// this tick becomes releasable on the next one, matching register-transfer
// timing.
func (s *System) Tick(in Input) Output {
	// Evaluate. Capture the lane output registers and the full readiness
	// graph before anything moves. Readiness depends on state alone.
	outs := make([]slot, len(s.lanes))
	stalled := make([]bool, len(s.lanes))
	for i, l := range s.lanes {
		b, ok := l.output()
		outs[i] = slot{valid: ok, block: b}
		stalled[i] = ok && !s.reassembler.laneFree(i)
	}

	inReady := s.dispatcher.ready(func(i int) bool { return !stalled[i] })
	admit := in.Valid && inReady

	rel := s.reassembler.pending()

	out := Output{
		InReady:      inReady,
		OutValid:     rel >= 0,
		OutLane:      rel,
		AdmittedLane: -1,
	}
	if rel >= 0 {
		b := s.reassembler.slots[rel].block
		out.OutPayload = b.Payload
		out.OutSeq = b.Seq
	}

	// Commit. Every write below uses only values captured above.
	if rel >= 0 && in.ConsumerReady {
		s.reassembler.release(rel)
		s.counters.countBlock()
		out.Released = true
	}

	var admitted *Block
	admitLane := -1
	if admit {
		lane, seq := s.dispatcher.admit()
		admitLane = lane
		admitted = &Block{Payload: in.Payload & s.payloadMask, Seq: seq}
		out.Admitted = true
		out.AdmittedLane = lane
		out.AdmittedSeq = seq
	}

	for i, l := range s.lanes {
		if stalled[i] {
			continue // every slot holds
		}
		if outs[i].valid {
			s.reassembler.latch(i, outs[i].block)
		}
		if i == admitLane {
			l.advance(admitted)
		} else {
			l.advance(nil)
		}
	}

	s.counters.tickCycle()
	s.tick++
	return out
}

// Reset synchronously clears all lane slots, reassembly slots, the sequence
// counter, the next-expected cursor, both counters, and the tick index.
// Blocks in flight are discarded, not drained.
func (s *System) Reset() {
	s.dispatcher.reset()
	for _, l := range s.lanes {
		l.reset()
	}
	s.reassembler.reset()
	s.counters.reset()
	s.tick = 0
}

// Counters returns the current counter values.
func (s *System) Counters() Counters {
	return Counters{
		BlocksProcessed: s.counters.blocks,
		CyclesElapsed:   s.counters.cycles,
	}
}

// InFlight counts blocks currently held in lane slots and reassembly slots.
func (s *System) InFlight() int {
	n := s.reassembler.buffered()
	for _, l := range s.lanes {
		n += l.occupied()
	}
	return n
}

package workload

import (
	"context"
	"fmt"
	"log/slog"

	"relane/internal/logging"
	"relane/internal/sim"
)

// Event kinds surfaced to the trace recorder.
const (
	EventAdmit   = "admit"
	EventRelease = "release"
	EventStall   = "stall"
)

// Event is one observable pipeline occurrence during a run.
type Event struct {
	Tick uint64
	Kind string
	Lane int
	Seq  uint64
}

// Result summarizes a completed run.
type Result struct {
	Ticks      uint64
	Admitted   uint64
	Released   uint64
	LaneAdmits []uint64
	Counters   sim.Counters
	Releases   []Release
}

// Runner drives a system with a source and sink until every block has been
// released, checking ordering and handshake discipline every tick.
type Runner struct {
	sys     *sim.System
	src     *Source
	sink    *Sink
	logger  *slog.Logger
	onEvent func(Event)
}

// NewRunner wires a runner. logger and onEvent may be nil.
func NewRunner(sys *sim.System, src *Source, sink *Sink, logger *slog.Logger, onEvent func(Event)) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		sys:     sys,
		src:     src,
		sink:    sink,
		logger:  logging.NewComponentLogger(logger, "runner"),
		onEvent: onEvent,
	}
}

// Run executes ticks until the source is exhausted and every admitted block
// has been released, or the tick budget runs out. maxTicks of 0 derives a
// budget from the block count and pipeline shape.
func (r *Runner) Run(ctx context.Context, maxTicks uint64) (*Result, error) {
	spec := r.sys.Spec()
	seqMask := r.sys.SeqMask()
	if maxTicks == 0 {
		maxTicks = defaultTickBudget(spec, r.src.limit)
	}

	result := &Result{LaneAdmits: make([]uint64, spec.Lanes)}
	var expectSeq uint64

	for tick := uint64(0); ; tick++ {
		if tick >= maxTicks {
			return nil, fmt.Errorf("run exceeded %d ticks with %d of %d blocks released; consumer pattern %q may never drain",
				maxTicks, result.Released, r.src.limit, r.sink.pattern)
		}
		if tick%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("run aborted: %w", err)
			}
		}

		payload, valid := r.src.Offer()
		ready := r.sink.Ready()
		out := r.sys.Tick(sim.Input{Valid: valid, Payload: payload, ConsumerReady: ready})

		if out.Admitted {
			r.src.Admitted()
			result.Admitted++
			result.LaneAdmits[out.AdmittedLane]++
			r.emit(Event{Tick: tick, Kind: EventAdmit, Lane: out.AdmittedLane, Seq: out.AdmittedSeq})
			r.logger.Debug("block admitted", logging.Args(
				logging.Uint64(logging.FieldTick, tick),
				logging.Int(logging.FieldLane, out.AdmittedLane),
				logging.Uint64(logging.FieldSeq, out.AdmittedSeq),
			)...)
		}

		if err := r.sink.Observe(tick, out, ready); err != nil {
			return nil, err
		}
		if out.OutValid && !ready {
			r.emit(Event{Tick: tick, Kind: EventStall, Lane: out.OutLane, Seq: out.OutSeq})
		}
		if out.Released {
			if out.OutSeq != expectSeq {
				return nil, fmt.Errorf("tick %d: released seq %d out of order, expected %d", tick, out.OutSeq, expectSeq)
			}
			expectSeq = (expectSeq + 1) & seqMask
			result.Released++
			r.emit(Event{Tick: tick, Kind: EventRelease, Lane: out.OutLane, Seq: out.OutSeq})
			r.logger.Debug("block released", logging.Args(
				logging.Uint64(logging.FieldTick, tick),
				logging.Int(logging.FieldLane, out.OutLane),
				logging.Uint64(logging.FieldSeq, out.OutSeq),
			)...)
		}

		if r.src.Exhausted() && result.Released == result.Admitted {
			result.Ticks = tick + 1
			break
		}
	}

	result.Counters = r.sys.Counters()
	result.Releases = r.sink.Releases()
	r.logger.Info("run complete", logging.Args(
		logging.Uint64("ticks", result.Ticks),
		logging.Uint64("admitted", result.Admitted),
		logging.Uint64("released", result.Released),
	)...)
	return result, nil
}

func (r *Runner) emit(ev Event) {
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

// defaultTickBudget allows the pipeline to drain even under heavily skewed
// duty patterns before a run is declared stuck.
func defaultTickBudget(spec sim.Spec, blocks int) uint64 {
	budget := uint64(blocks)*64 + uint64(spec.Depth)*8 + 1024
	return budget
}

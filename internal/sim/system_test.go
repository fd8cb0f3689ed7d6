package sim_test

import (
	"testing"

	"relane/internal/sim"
)

func newTestSystem(t *testing.T, lanes, depth, seqBits, counterBits int) *sim.System {
	t.Helper()
	sys, err := sim.New(sim.Spec{
		Lanes:       lanes,
		Depth:       depth,
		PayloadBits: 64,
		SeqBits:     seqBits,
		CounterBits: counterBits,
		Transform:   sim.Identity(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return sys
}

func TestNewRejectsInvalidSpecs(t *testing.T) {
	cases := []struct {
		name string
		spec sim.Spec
	}{
		{"zero lanes", sim.Spec{Lanes: 0, Depth: 1, PayloadBits: 8, SeqBits: 8, CounterBits: 8}},
		{"zero depth", sim.Spec{Lanes: 1, Depth: 0, PayloadBits: 8, SeqBits: 8, CounterBits: 8}},
		{"payload too wide", sim.Spec{Lanes: 1, Depth: 1, PayloadBits: 65, SeqBits: 8, CounterBits: 8}},
		{"zero seq bits", sim.Spec{Lanes: 1, Depth: 1, PayloadBits: 8, SeqBits: 0, CounterBits: 8}},
		{"zero counter bits", sim.Spec{Lanes: 1, Depth: 1, PayloadBits: 8, SeqBits: 8, CounterBits: 0}},
		{"seq width cannot cover in-flight blocks", sim.Spec{Lanes: 4, Depth: 8, PayloadBits: 8, SeqBits: 5, CounterBits: 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := sim.New(tc.spec); err == nil {
				t.Fatalf("expected error for spec %+v", tc.spec)
			}
		})
	}
}

// Four blocks admitted back to back with everything ready come out one tick
// apart starting at admission-of-B0 + depth + 1, in admission order.
func TestBackToBackBlocksReleaseInOrderOneTickApart(t *testing.T) {
	const depth = 8
	sys := newTestSystem(t, 4, depth, 16, 32)

	type release struct {
		tick    int
		seq     uint64
		payload uint64
	}
	var releases []release

	for tick := 0; tick < 20; tick++ {
		in := sim.Input{ConsumerReady: true}
		if tick < 4 {
			in.Valid = true
			in.Payload = uint64(100 + tick)
		}
		out := sys.Tick(in)
		if tick < 4 {
			if !out.Admitted {
				t.Fatalf("tick %d: admission refused", tick)
			}
			if out.AdmittedLane != tick || out.AdmittedSeq != uint64(tick) {
				t.Fatalf("tick %d: admitted lane %d seq %d", tick, out.AdmittedLane, out.AdmittedSeq)
			}
		}
		if out.Released {
			releases = append(releases, release{tick, out.OutSeq, out.OutPayload})
		}
	}

	if len(releases) != 4 {
		t.Fatalf("released %d blocks, want 4", len(releases))
	}
	for i, r := range releases {
		if r.tick != depth+1+i {
			t.Fatalf("block %d released at tick %d, want %d", i, r.tick, depth+1+i)
		}
		if r.seq != uint64(i) || r.payload != uint64(100+i) {
			t.Fatalf("block %d released as seq %d payload %d", i, r.seq, r.payload)
		}
	}
}

// A lone block admitted at tick 0 occupies lane slot j during tick j+1 and
// the output register exactly at tick depth, never earlier or later.
func TestFixedLatencyThroughLane(t *testing.T) {
	const depth = 8
	sys := newTestSystem(t, 4, depth, 16, 32)

	sys.Tick(sim.Input{Valid: true, Payload: 42, ConsumerReady: true})
	for tick := 1; tick <= depth; tick++ {
		snap := sys.Snapshot()
		lane := snap.Lanes[0]
		for j, sl := range lane.Slots {
			want := j == tick-1
			if sl.Valid != want {
				t.Fatalf("tick %d: lane slot %d valid=%v, want %v", tick, j, sl.Valid, want)
			}
		}
		sys.Tick(sim.Input{ConsumerReady: true})
	}

	// The block was latched during the tick it sat on the output register;
	// it now waits in the reassembly slot.
	snap := sys.Snapshot()
	if snap.Lanes[0].Slots[depth-1].Valid {
		t.Fatal("block still in lane after latch tick")
	}
	if !snap.Buffered[0].Valid || snap.Buffered[0].Seq != 0 {
		t.Fatalf("reassembly slot 0 = %+v, want buffered seq 0", snap.Buffered[0])
	}
}

// With all lanes free, admissions rotate through lanes in strict order and
// sequence ids increment by exactly one per admission.
func TestRoundRobinFairness(t *testing.T) {
	sys := newTestSystem(t, 4, 2, 16, 32)

	for i := 0; i < 12; i++ {
		out := sys.Tick(sim.Input{Valid: true, Payload: uint64(i), ConsumerReady: true})
		if !out.InReady || !out.Admitted {
			t.Fatalf("admission %d: InReady=%v Admitted=%v", i, out.InReady, out.Admitted)
		}
		if out.AdmittedLane != i%4 {
			t.Fatalf("admission %d routed to lane %d, want %d", i, out.AdmittedLane, i%4)
		}
		if out.AdmittedSeq != uint64(i) {
			t.Fatalf("admission %d assigned seq %d, want %d", i, out.AdmittedSeq, i)
		}
	}
}

// An early completion waits in its reassembly slot; nothing is released
// until the cursor block completes, then both come out back to back.
func TestEarlyCompletionBuffersUntilCursorMatches(t *testing.T) {
	sys := newTestSystem(t, 2, 1, 8, 32)

	// Three admissions while the consumer refuses: B0 (lane 0), B1 (lane 1),
	// B2 (lane 0). B0 and B1 land in their reassembly slots; B2 is stuck on
	// lane 0's output register behind B0.
	for i := 0; i < 3; i++ {
		out := sys.Tick(sim.Input{Valid: true, Payload: uint64(100 + i)})
		if !out.Admitted {
			t.Fatalf("admission %d refused", i)
		}
	}
	sys.Tick(sim.Input{})

	snap := sys.Snapshot()
	if !snap.Buffered[0].Valid || snap.Buffered[0].Seq != 0 {
		t.Fatalf("lane 0 slot = %+v, want seq 0", snap.Buffered[0])
	}
	if !snap.Buffered[1].Valid || snap.Buffered[1].Seq != 1 {
		t.Fatalf("lane 1 slot = %+v, want buffered seq 1", snap.Buffered[1])
	}
	if !snap.Lanes[0].Slots[0].Valid || snap.Lanes[0].Slots[0].Seq != 2 {
		t.Fatalf("lane 0 output = %+v, want held seq 2", snap.Lanes[0].Slots[0])
	}

	// Consumer returns: releases must follow sequence order exactly.
	var got []uint64
	for tick := 0; tick < 5; tick++ {
		out := sys.Tick(sim.Input{ConsumerReady: true})
		if out.Released {
			got = append(got, out.OutSeq)
		}
	}
	want := []uint64{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("released %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("released %v, want %v", got, want)
		}
	}
}

// While the consumer holds ready low, the presented block never changes,
// the pending lane's slot stays occupied (stalling that lane), the block
// counter freezes, and the cycle counter keeps running.
func TestConsumerBackpressureHoldsPresentedBlock(t *testing.T) {
	sys := newTestSystem(t, 2, 1, 8, 32)

	// B0 -> lane 0, B1 -> lane 1, B2 -> lane 0.
	for i := 0; i < 3; i++ {
		sys.Tick(sim.Input{Valid: true, Payload: uint64(100 + i)})
	}

	// Five ticks of refusal. B0 is pending; lane 0 cannot hand over B2.
	for tick := 0; tick < 5; tick++ {
		out := sys.Tick(sim.Input{})
		if !out.OutValid {
			t.Fatalf("backpressure tick %d: output not presented", tick)
		}
		if out.OutSeq != 0 || out.OutPayload != 100 {
			t.Fatalf("backpressure tick %d: presented seq %d payload %d changed", tick, out.OutSeq, out.OutPayload)
		}
		if out.Released {
			t.Fatalf("backpressure tick %d: release fired without consumer ready", tick)
		}

		snap := sys.Snapshot()
		if !snap.Buffered[0].Valid || snap.Buffered[0].Seq != 0 {
			t.Fatalf("backpressure tick %d: lane 0 slot freed early: %+v", tick, snap.Buffered[0])
		}
		if !snap.Lanes[0].Slots[0].Valid || snap.Lanes[0].Slots[0].Seq != 2 {
			t.Fatalf("backpressure tick %d: lane 0 did not hold its completion", tick)
		}
	}

	c := sys.Counters()
	if c.BlocksProcessed != 0 {
		t.Fatalf("blocks processed %d during backpressure, want 0", c.BlocksProcessed)
	}
	if c.CyclesElapsed != 8 {
		t.Fatalf("cycles elapsed %d, want 8", c.CyclesElapsed)
	}

	// Releases resume in order once the consumer drains.
	var got []uint64
	for tick := 0; tick < 5; tick++ {
		out := sys.Tick(sim.Input{ConsumerReady: true})
		if out.Released {
			got = append(got, out.OutSeq)
		}
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("post-backpressure releases %v, want [0 1 2]", got)
	}
	if c := sys.Counters(); c.BlocksProcessed != 3 {
		t.Fatalf("blocks processed %d, want 3", c.BlocksProcessed)
	}
}

// Two lanes can hold valid completions on their output registers in the
// same tick; only the block matching the cursor is ever releasable, and the
// producer sees backpressure while its selected lane is stalled.
func TestSimultaneousCompletionsReleaseCursorFirst(t *testing.T) {
	sys := newTestSystem(t, 2, 1, 8, 32)

	// B0..B3 admitted while the consumer refuses. B0/B1 fill the reassembly
	// slots; B2/B3 end up held on both output registers simultaneously.
	for i := 0; i < 4; i++ {
		out := sys.Tick(sim.Input{Valid: true, Payload: uint64(200 + i)})
		if !out.Admitted {
			t.Fatalf("admission %d refused", i)
		}
	}

	snap := sys.Snapshot()
	if !snap.Lanes[0].Slots[0].Valid || snap.Lanes[0].Slots[0].Seq != 2 {
		t.Fatalf("lane 0 output = %+v, want held seq 2", snap.Lanes[0].Slots[0])
	}
	if !snap.Lanes[1].Slots[0].Valid || snap.Lanes[1].Slots[0].Seq != 3 {
		t.Fatalf("lane 1 output = %+v, want held seq 3", snap.Lanes[1].Slots[0])
	}
	if !snap.Buffered[0].Valid || snap.Buffered[0].Seq != 0 {
		t.Fatalf("lane 0 slot = %+v, want seq 0", snap.Buffered[0])
	}
	if !snap.Buffered[1].Valid || snap.Buffered[1].Seq != 1 {
		t.Fatalf("lane 1 slot = %+v, want seq 1", snap.Buffered[1])
	}

	var got []uint64
	for tick := 0; tick < 6; tick++ {
		out := sys.Tick(sim.Input{Valid: tick == 0, Payload: 999, ConsumerReady: true})
		if tick == 0 && out.InReady {
			t.Fatal("producer ready asserted while selected lane is stalled")
		}
		if out.Released {
			got = append(got, out.OutSeq)
		}
	}
	if len(got) != 4 {
		t.Fatalf("released %v, want 4 blocks", got)
	}
	for i := range got {
		if got[i] != uint64(i) {
			t.Fatalf("released %v, want [0 1 2 3]", got)
		}
	}
}

// Long intermittent run: no block is lost or duplicated, releases follow
// admission order across sequence wraps, and buffering never exceeds one
// block per lane.
func TestNoLossNoDuplicationAcrossSequenceWrap(t *testing.T) {
	const lanes, wantBlocks = 3, 100
	sys := newTestSystem(t, lanes, 4, 6, 32)
	seqMask := sys.SeqMask()

	var admitted []uint64 // payloads in admission order
	var released int
	var expectSeq uint64
	wrapped := false
	nextPayload := uint64(1000)

	for tick := 0; released < wantBlocks; tick++ {
		if tick > 10000 {
			t.Fatalf("no forward progress: %d of %d released", released, wantBlocks)
		}
		in := sim.Input{ConsumerReady: tick%2 == 0}
		if len(admitted) < wantBlocks {
			in.Valid = true
			in.Payload = nextPayload
		}
		out := sys.Tick(in)

		if out.Admitted {
			admitted = append(admitted, nextPayload)
			nextPayload++
		}
		if out.Released {
			if out.OutSeq != expectSeq {
				t.Fatalf("release %d: seq %d, want %d", released, out.OutSeq, expectSeq)
			}
			if out.OutPayload != admitted[released] {
				t.Fatalf("release %d: payload %d, want %d", released, out.OutPayload, admitted[released])
			}
			if expectSeq == seqMask {
				wrapped = true
			}
			expectSeq = (expectSeq + 1) & seqMask
			released++
		}

		buffered := 0
		for _, sl := range sys.Snapshot().Buffered {
			if sl.Valid {
				buffered++
			}
		}
		if buffered > lanes {
			t.Fatalf("tick %d: %d blocks buffered, cap is %d", tick, buffered, lanes)
		}
	}

	if !wrapped {
		t.Fatal("run never crossed the sequence wrap boundary")
	}
}

func TestCountersWrapAtConfiguredWidth(t *testing.T) {
	sys := newTestSystem(t, 1, 1, 8, 4)

	released := 0
	for tick := 0; released < 17; tick++ {
		if tick > 200 {
			t.Fatal("no forward progress")
		}
		out := sys.Tick(sim.Input{Valid: true, Payload: uint64(tick), ConsumerReady: true})
		if out.Released {
			released++
		}
	}

	c := sys.Counters()
	if c.BlocksProcessed != 1 {
		t.Fatalf("blocks counter %d, want 1 after wrapping 17 mod 16", c.BlocksProcessed)
	}
	if c.CyclesElapsed >= 16 {
		t.Fatalf("cycles counter %d escaped its width", c.CyclesElapsed)
	}
}

// Reset discards all in-flight blocks and returns the system to its initial
// state: next admission gets sequence 0 on lane 0 and releases restart at 0.
func TestResetDiscardsInFlightState(t *testing.T) {
	sys := newTestSystem(t, 4, 8, 16, 32)

	for i := 0; i < 6; i++ {
		sys.Tick(sim.Input{Valid: true, Payload: uint64(i), ConsumerReady: true})
	}
	if sys.InFlight() == 0 {
		t.Fatal("expected blocks in flight before reset")
	}

	sys.Reset()

	if sys.InFlight() != 0 {
		t.Fatalf("%d blocks in flight after reset", sys.InFlight())
	}
	snap := sys.Snapshot()
	if snap.Tick != 0 || snap.NextSeq != 0 || snap.NextExpected != 0 || snap.SelectedLane != 0 {
		t.Fatalf("state not cleared: %+v", snap)
	}
	if c := sys.Counters(); c.BlocksProcessed != 0 || c.CyclesElapsed != 0 {
		t.Fatalf("counters not cleared: %+v", c)
	}

	out := sys.Tick(sim.Input{Valid: true, Payload: 7, ConsumerReady: true})
	if !out.Admitted || out.AdmittedSeq != 0 || out.AdmittedLane != 0 {
		t.Fatalf("first post-reset admission: %+v", out)
	}
	for tick := 0; tick < 12; tick++ {
		out = sys.Tick(sim.Input{ConsumerReady: true})
		if out.Released {
			if out.OutSeq != 0 || out.OutPayload != 7 {
				t.Fatalf("post-reset release seq %d payload %d", out.OutSeq, out.OutPayload)
			}
			return
		}
	}
	t.Fatal("post-reset block never released")
}

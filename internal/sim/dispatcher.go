package sim

// dispatcher admits blocks from the producer, assigns monotonically
// increasing sequence ids, and routes each admission to the next lane in
// strict rotation. At most one lane receives an admission per tick, and no
// block is ever routed to more than one lane.
type dispatcher struct {
	lanes   int
	seqMask uint64

	sel  int    // lane targeted by the next admission
	next uint64 // sequence id assigned to the next admission
}

func newDispatcher(lanes int, seqMask uint64) *dispatcher {
	return &dispatcher{lanes: lanes, seqMask: seqMask}
}

// ready reports the producer-facing ready signal: whether the currently
// selected lane can accept. It reads state only, never the offered payload.
func (d *dispatcher) ready(laneFree func(int) bool) bool {
	return laneFree(d.sel)
}

// admit consumes one admission: the current sequence id is assigned and the
// selector advances. The selector uses true modulo, not a bit mask, so
// non-power-of-two lane counts wrap correctly.
func (d *dispatcher) admit() (lane int, seq uint64) {
	lane, seq = d.sel, d.next
	d.next = (d.next + 1) & d.seqMask
	d.sel = (d.sel + 1) % d.lanes
	return lane, seq
}

func (d *dispatcher) reset() {
	d.sel = 0
	d.next = 0
}

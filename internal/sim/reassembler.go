package sim

// reassembler buffers lane completions, one single-block slot per lane, and
// releases them to the consumer strictly in sequence order. Because a lane
// cannot deliver into an occupied slot, total buffering is bounded at one
// block per lane regardless of how unevenly lanes complete.
type reassembler struct {
	slots   []slot // one per lane
	next    uint64 // next expected sequence id
	seqMask uint64
}

func newReassembler(lanes int, seqMask uint64) *reassembler {
	return &reassembler{slots: make([]slot, lanes), seqMask: seqMask}
}

// laneFree reports whether the given lane's slot can accept a completion.
// This is the backpressure signal fed back to that lane and is a function
// of current state only.
func (r *reassembler) laneFree(lane int) bool {
	return !r.slots[lane].valid
}

// pending returns the lane whose buffered block matches the next-expected
// cursor, or -1. At most one slot can match: sequence ids are unique among
// in-flight blocks.
func (r *reassembler) pending() int {
	for i := range r.slots {
		if r.slots[i].valid && r.slots[i].block.Seq == r.next {
			return i
		}
	}
	return -1
}

// latch stores a lane completion. The slot must be free.
func (r *reassembler) latch(lane int, b Block) {
	r.slots[lane] = slot{valid: true, block: b}
}

// release clears the released lane's slot and advances the cursor.
func (r *reassembler) release(lane int) {
	r.slots[lane] = slot{}
	r.next = (r.next + 1) & r.seqMask
}

// buffered counts completed-but-unreleased blocks.
func (r *reassembler) buffered() int {
	n := 0
	for _, s := range r.slots {
		if s.valid {
			n++
		}
	}
	return n
}

func (r *reassembler) reset() {
	for i := range r.slots {
		r.slots[i] = slot{}
	}
	r.next = 0
}

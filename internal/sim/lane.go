package sim

// lane is a fixed-latency transform pipeline of depth slots. slots[0] is
// fed by the dispatcher and slots[depth-1] is the output register. Absent a
// stall, every occupied slot moves exactly one position per tick; while
// stalled, all slots hold their values.
type lane struct {
	slots []slot
	xform Transform
}

func newLane(depth int, xform Transform) *lane {
	return &lane{slots: make([]slot, depth), xform: xform}
}

// output returns the contents of the output register.
func (l *lane) output() (Block, bool) {
	out := l.slots[len(l.slots)-1]
	return out.block, out.valid
}

// advance shifts every occupied slot one position toward the output,
// applying the stage transform on entry to each slot, and loads the
// admitted block, if any, into slot 0 with stage 0 applied. The caller must
// only advance on ticks where the output register was consumed downstream
// or was empty; otherwise the lane holds.
func (l *lane) advance(admitted *Block) {
	for j := len(l.slots) - 1; j >= 1; j-- {
		prev := l.slots[j-1]
		if prev.valid {
			prev.block.Payload = l.xform(j, prev.block.Payload)
		}
		l.slots[j] = prev
	}
	if admitted != nil {
		b := *admitted
		b.Payload = l.xform(0, b.Payload)
		l.slots[0] = slot{valid: true, block: b}
	} else {
		l.slots[0] = slot{}
	}
}

// occupied counts the slots currently holding a block.
func (l *lane) occupied() int {
	n := 0
	for _, s := range l.slots {
		if s.valid {
			n++
		}
	}
	return n
}

func (l *lane) reset() {
	for j := range l.slots {
		l.slots[j] = slot{}
	}
}

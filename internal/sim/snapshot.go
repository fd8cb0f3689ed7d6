package sim

// SlotSnapshot is the observable state of a single pipeline or reassembly
// slot.
type SlotSnapshot struct {
	Valid   bool
	Seq     uint64
	Payload uint64
}

// LaneSnapshot is the observable state of one lane's slots, ordered from
// slot 0 to the output register.
type LaneSnapshot struct {
	Slots []SlotSnapshot
}

// Snapshot is a read-only copy of the system's state, taken between ticks.
// Tracing and tests use it; the core never reads one back.
type Snapshot struct {
	Tick         uint64
	NextSeq      uint64
	SelectedLane int
	NextExpected uint64
	Lanes        []LaneSnapshot
	Buffered     []SlotSnapshot
}

// Snapshot captures the current state of every component.
func (s *System) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:         s.tick,
		NextSeq:      s.dispatcher.next,
		SelectedLane: s.dispatcher.sel,
		NextExpected: s.reassembler.next,
		Lanes:        make([]LaneSnapshot, len(s.lanes)),
		Buffered:     make([]SlotSnapshot, len(s.reassembler.slots)),
	}
	for i, l := range s.lanes {
		ls := LaneSnapshot{Slots: make([]SlotSnapshot, len(l.slots))}
		for j, sl := range l.slots {
			ls.Slots[j] = snapshotSlot(sl)
		}
		snap.Lanes[i] = ls
	}
	for i, sl := range s.reassembler.slots {
		snap.Buffered[i] = snapshotSlot(sl)
	}
	return snap
}

func snapshotSlot(sl slot) SlotSnapshot {
	return SlotSnapshot{Valid: sl.valid, Seq: sl.block.Seq, Payload: sl.block.Payload}
}

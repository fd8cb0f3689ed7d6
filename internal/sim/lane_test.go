package sim

import "testing"

func TestLaneAdvanceMovesEachOccupiedSlotOnePosition(t *testing.T) {
	l := newLane(4, Identity())

	l.advance(&Block{Payload: 7, Seq: 0})
	for i := 0; i < 3; i++ {
		if _, ok := l.output(); ok {
			t.Fatalf("output valid after %d advances, want 4", i+1)
		}
		l.advance(nil)
	}

	b, ok := l.output()
	if !ok {
		t.Fatal("output not valid after depth advances")
	}
	if b.Payload != 7 || b.Seq != 0 {
		t.Fatalf("unexpected output block: %+v", b)
	}

	l.advance(nil)
	if _, ok := l.output(); ok {
		t.Fatal("output still valid after block left the lane")
	}
}

func TestLaneAppliesStagesInOrder(t *testing.T) {
	// Each stage shifts in its own index so the output records the exact
	// stage sequence the payload passed through.
	record := func(stage int, payload uint64) uint64 {
		return payload<<4 | uint64(stage+1)
	}

	l := newLane(3, record)
	l.advance(&Block{Payload: 0, Seq: 9})
	l.advance(nil)
	l.advance(nil)

	b, ok := l.output()
	if !ok {
		t.Fatal("output not valid")
	}
	if b.Payload != 0x123 {
		t.Fatalf("stages applied out of order: payload %#x, want 0x123", b.Payload)
	}
	if b.Seq != 9 {
		t.Fatalf("sequence id altered in flight: %d", b.Seq)
	}
}

func TestLaneDepthOneAppliesSingleStage(t *testing.T) {
	l := newLane(1, func(stage int, payload uint64) uint64 {
		return payload + uint64(stage) + 100
	})
	l.advance(&Block{Payload: 1, Seq: 3})

	b, ok := l.output()
	if !ok {
		t.Fatal("output not valid after admission into depth-1 lane")
	}
	if b.Payload != 101 {
		t.Fatalf("payload %d, want 101", b.Payload)
	}
}

func TestLaneResetClearsAllSlots(t *testing.T) {
	l := newLane(3, Identity())
	l.advance(&Block{Payload: 1, Seq: 0})
	l.advance(&Block{Payload: 2, Seq: 1})
	if l.occupied() != 2 {
		t.Fatalf("occupied %d, want 2", l.occupied())
	}

	l.reset()
	if l.occupied() != 0 {
		t.Fatalf("occupied %d after reset, want 0", l.occupied())
	}
}

package workload

import "testing"

func TestSourceHoldsOfferedPayloadUntilAdmitted(t *testing.T) {
	p, _ := ParsePattern("always")
	src := NewSource(p, 7, 2)

	first, valid := src.Offer()
	if !valid {
		t.Fatal("expected an offer on the first tick")
	}
	for i := 0; i < 3; i++ {
		again, valid := src.Offer()
		if !valid || again != first {
			t.Fatalf("held payload changed while unaccepted: %#x -> %#x", first, again)
		}
	}

	src.Admitted()
	second, valid := src.Offer()
	if !valid {
		t.Fatal("expected a second offer")
	}
	if second == first {
		t.Fatal("second block reused the first payload")
	}

	src.Admitted()
	if _, valid := src.Offer(); valid {
		t.Fatal("source kept offering past its limit")
	}
	if !src.Exhausted() {
		t.Fatal("source not exhausted after final admission")
	}
}

func TestSourcePatternGatesNewOffersOnly(t *testing.T) {
	p, _ := ParsePattern("every:2")
	src := NewSource(p, 1, 4)

	// Tick 0 generates; the pattern's idle tick must not retract a payload
	// that is still waiting for admission.
	payload, valid := src.Offer()
	if !valid {
		t.Fatal("expected offer on tick 0")
	}
	if again, valid := src.Offer(); !valid || again != payload {
		t.Fatal("pending offer was gated by the duty pattern")
	}

	src.Admitted()
	if _, valid := src.Offer(); valid {
		t.Fatal("expected idle tick after admission with every:2")
	}
	if _, valid := src.Offer(); !valid {
		t.Fatal("expected new offer once the pattern reasserts")
	}
}

func TestPayloadGenerationIsDeterministic(t *testing.T) {
	if PayloadAt(3, 10) != PayloadAt(3, 10) {
		t.Fatal("same seed and index produced different payloads")
	}
	if PayloadAt(3, 10) == PayloadAt(4, 10) {
		t.Fatal("different seeds produced identical payloads")
	}
	if PayloadAt(3, 10) == PayloadAt(3, 11) {
		t.Fatal("adjacent indexes produced identical payloads")
	}
}

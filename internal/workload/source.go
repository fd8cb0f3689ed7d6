package workload

// Source implements the producer side of the admission link. Payloads are
// generated deterministically from a seed so two runs with the same
// configuration admit identical data. Once a payload is offered it is held
// unchanged, tick after tick, until the dispatcher accepts it: the
// handshake contract forbids retraction or silent replacement.
type Source struct {
	pattern *Pattern
	seed    uint64
	limit   int

	index   int // blocks generated so far
	pending bool
	payload uint64
}

// NewSource builds a source that offers limit blocks in total, gated by the
// duty pattern.
func NewSource(pattern *Pattern, seed uint64, limit int) *Source {
	return &Source{pattern: pattern, seed: seed, limit: limit}
}

// Offer returns this tick's valid flag and payload. While a payload is
// pending it is re-presented verbatim; the duty pattern only gates the
// generation of new blocks.
func (s *Source) Offer() (payload uint64, valid bool) {
	if s.pending {
		return s.payload, true
	}
	if s.index >= s.limit {
		return 0, false
	}
	if !s.pattern.Next() {
		return 0, false
	}
	s.payload = PayloadAt(s.seed, uint64(s.index))
	s.pending = true
	return s.payload, true
}

// Admitted tells the source its offered payload transferred this tick.
func (s *Source) Admitted() {
	s.pending = false
	s.index++
}

// Offered counts blocks generated so far, including a pending one.
func (s *Source) Offered() int {
	return s.index
}

// Exhausted reports whether every block has been admitted.
func (s *Source) Exhausted() bool {
	return !s.pending && s.index >= s.limit
}

// PayloadAt returns the deterministic payload for a block index under the
// given seed.
func PayloadAt(seed, index uint64) uint64 {
	x := seed + index + 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

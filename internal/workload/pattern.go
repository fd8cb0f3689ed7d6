package workload

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern produces a per-tick duty cycle for one side of a handshake link.
// Patterns are stateful: each Next call consumes one tick.
type Pattern struct {
	kind string
	n    int // period for "every"
	on   int // burst length for "burst"
	off  int // idle length for "burst"

	tick int
}

// ParsePattern parses a duty pattern string:
//
//	"always"        assert every tick
//	"never"         never assert
//	"every:N"       assert one tick in N
//	"burst:ON,OFF"  assert ON ticks, then idle OFF ticks, repeating
func ParsePattern(s string) (*Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "always":
		return &Pattern{kind: "always"}, nil
	case s == "never":
		return &Pattern{kind: "never"}, nil
	case strings.HasPrefix(s, "every:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "every:"))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("pattern %q: period must be a positive integer", s)
		}
		return &Pattern{kind: "every", n: n}, nil
	case strings.HasPrefix(s, "burst:"):
		parts := strings.SplitN(strings.TrimPrefix(s, "burst:"), ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("pattern %q: want burst:ON,OFF", s)
		}
		on, err1 := strconv.Atoi(parts[0])
		off, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || on < 1 || off < 0 {
			return nil, fmt.Errorf("pattern %q: want positive ON and non-negative OFF", s)
		}
		return &Pattern{kind: "burst", on: on, off: off}, nil
	default:
		return nil, fmt.Errorf("pattern %q: unknown duty pattern", s)
	}
}

// Next reports whether the endpoint asserts its signal this tick.
func (p *Pattern) Next() bool {
	t := p.tick
	p.tick++
	switch p.kind {
	case "always":
		return true
	case "never":
		return false
	case "every":
		return t%p.n == 0
	default: // burst
		return t%(p.on+p.off) < p.on
	}
}

// String returns the canonical form of the pattern.
func (p *Pattern) String() string {
	switch p.kind {
	case "every":
		return fmt.Sprintf("every:%d", p.n)
	case "burst":
		return fmt.Sprintf("burst:%d,%d", p.on, p.off)
	default:
		return p.kind
	}
}

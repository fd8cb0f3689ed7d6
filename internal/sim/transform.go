package sim

import "math/bits"

// Transform maps a payload through one pipeline stage. Implementations must
// be pure: the same stage index and input always produce the same output.
// The stage index ranges over [0, depth).
type Transform func(stage int, payload uint64) uint64

// Identity returns the payload unchanged at every stage. Tests and
// workloads use it when released payloads need to be recognizable.
func Identity() Transform {
	return func(_ int, payload uint64) uint64 { return payload }
}

// XORRotate builds the per-stage round used by the reference pipeline: XOR
// with a stage key, then rotate left within the payload width. Stage keys
// and rotate amounts derive from a single master key, so two systems built
// from the same key apply identical rounds. The round has no cryptographic
// value.
func XORRotate(masterKey uint64, depth, payloadBits int) Transform {
	mask := widthMask(payloadBits)
	keys := make([]uint64, depth)
	rots := make([]int, depth)
	for i := range keys {
		k := splitmix64(masterKey + uint64(i))
		keys[i] = k & mask
		rots[i] = int(k>>56) % payloadBits
	}
	return func(stage int, payload uint64) uint64 {
		return rotateLeft(payload^keys[stage], rots[stage], payloadBits)
	}
}

// rotateLeft rotates the low width bits of v left by r positions. Bits
// above the width are cleared.
func rotateLeft(v uint64, r, width int) uint64 {
	if width >= 64 {
		return bits.RotateLeft64(v, r)
	}
	mask := widthMask(width)
	v &= mask
	r %= width
	if r == 0 {
		return v
	}
	return ((v << uint(r)) | (v >> uint(width-r))) & mask
}

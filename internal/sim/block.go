package sim

// Block is a single unit of payload moving through the pipeline, tagged
// with the sequence id the dispatcher assigned at admission. The id is
// assigned exactly once and never altered downstream.
type Block struct {
	Payload uint64
	Seq     uint64
}

// slot is one pipeline register: empty, or holding an in-flight block.
type slot struct {
	valid bool
	block Block
}

// widthMask returns the value mask for an unsigned field of the given bit
// width. Widths of 64 and above cover the full uint64 range.
func widthMask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// splitmix64 is the finalizer from the SplitMix64 generator. Used to derive
// stage keys from the master key.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

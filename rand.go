package sched

import "sync/atomic"

// seedCounter feeds victim-selector seeds. Seeding from a monotonically
// increasing counter instead of the clock keeps workers started in the same
// instant from picking correlated sequences.
var seedCounter atomic.Uint64

// xorShift64Star is a fast, non-cryptographic PRNG used only for choosing
// steal victims; it affects performance, never correctness. State must be
// non-zero.
type xorShift64Star struct {
	state uint64
}

func newXorShift64Star() *xorShift64Star {
	var seed uint64
	for seed == 0 {
		seed = splitMix64(seedCounter.Add(1))
	}
	return &xorShift64Star{state: seed}
}

func (r *xorShift64Star) next() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 0x2545f4914f6cdd1d
}

// intn returns a value in [0, n).
func (r *xorShift64Star) intn(n int) int {
	return int(r.next() % uint64(n))
}

// splitMix64 scrambles the seed counter into a well-mixed 64-bit value.
func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

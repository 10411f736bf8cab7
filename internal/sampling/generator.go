package sampling

import "gonum.org/v1/gonum/mathext/prng"

// generator draws bounded integers from a 32-bit Mersenne Twister seeded
// with init_genrand. For integer seeds its stream matches the legacy NumPy
// RandomState.
type generator struct {
	src *prng.MT19937
}

func newGenerator(seed uint32) *generator {
	src := prng.NewMT19937()
	src.Seed(uint64(seed))
	return &generator{src: src}
}

// Interval returns a uniform value in [0, bound] using masked rejection.
func (g *generator) Interval(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	mask := bound
	mask |= mask >> 1
	mask |= mask >> 2
	mask |= mask >> 4
	mask |= mask >> 8
	mask |= mask >> 16
	for {
		if v := g.src.Uint32() & mask; v <= bound {
			return v
		}
	}
}

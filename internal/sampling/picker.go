package sampling

// Picker chooses one index in [0, n). Implementations must be deterministic
// for a given construction so that repeated runs pick the same rows.
type Picker func(n int) int

// Permutation returns a seeded Fisher-Yates permutation of 0..n-1, swapping
// from the last position down.
func Permutation(seed uint32, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	rng := newGenerator(seed)
	for i := n - 1; i > 0; i-- {
		j := int(rng.Interval(uint32(i)))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Seeded returns a Picker that re-seeds with seed on every call and returns
// the first element of Permutation(seed, n).
func Seeded(seed uint32) Picker {
	return func(n int) int {
		if n <= 1 {
			return 0
		}
		return Permutation(seed, n)[0]
	}
}

// First always picks index 0. Useful in tests that need a fixed choice.
func First(int) int { return 0 }

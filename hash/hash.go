// Package hash implements the fast modular hash used to map token ids into feature buckets
package hash

// Hash mixes n with the salt s and reduces the result into the range 0 to max-1.
// A max of 0 always gives 0.
func Hash(n uint32, s uint32, max uint32) uint32 {
	var m = n - s

	// xor shift with prime shifts
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	m += s

	// Lemire's multiply shift instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Slice hashes every n[i] with the same salt and max into out[i]
func Slice(out []uint32, n []uint32, s uint32, max uint32) {
	for i := range out {
		out[i] = Hash(n[i], s, max)
	}
}

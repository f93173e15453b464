// Package entropy provides reproducible per-coordinate randomness.
// Every value is a pure function of its inputs, so decoration and observer
// movement replay identically for a given seed.
package entropy

// Stream is a seeded source of coordinate-keyed pseudorandom values.
// The zero value is a valid stream with seed 0.
type Stream struct {
	seed uint64
	salt uint64
}

// NewStream creates a stream for the given world seed.
func NewStream(seed int64) Stream {
	return Stream{seed: uint64(seed)}
}

// Salted returns a derived stream whose values are independent of s.
// Used to give separate systems (decoration, walking) their own sequences.
func (s Stream) Salted(salt uint64) Stream {
	return Stream{seed: s.seed, salt: mix64(s.salt ^ salt ^ 0x9e3779b97f4a7c15)}
}

// Hash returns a well-distributed 64-bit hash of (seed, x, y).
func (s Stream) Hash(x, y int64) uint64 {
	return Hash2(s.seed^s.salt, x, y)
}

// Float returns a value in [0, 1) derived from (seed, x, y).
func (s Stream) Float(x, y int64) float64 {
	// Use only 53 bits for a uniform float64 in [0, 1).
	return float64(s.Hash(x, y)>>11) / float64(1<<53)
}

// Roll is shorthand for NewStream(seed).Float(x, y).
func Roll(seed int64, x, y int64) float64 {
	return NewStream(seed).Float(x, y)
}

// Hash2 mixes a seed and a 2D integer coordinate into a 64-bit hash.
// Large odd constants decorrelate the axes.
func Hash2(seed uint64, x, y int64) uint64 {
	h := seed
	h ^= mix64(uint64(x) * 0x9e3779b97f4a7c15)
	h ^= mix64(uint64(y)*0xc2b2ae3d27d4eb4f + 0x165667b19e3779f9)
	return mix64(h)
}

// mix64 is the splitmix64 finalizer.
func mix64(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// Package seedrand provides deterministic pseudo-random streams for
// gameplay outcomes. Every stream is derived from an explicit seed so
// that replaying the same inputs always reproduces the same results.
// Non-cryptographic by design; do not use for anything security related.
package seedrand

import (
	"hash/fnv"
	"strings"
)

// SeedFromString hashes s with 32-bit FNV-1a. The hash is stable across
// runs and platforms, so the same string always yields the same seed.
func SeedFromString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// CompositeSeed joins parts with "::" and hashes the result. Consumers
// build their seeds from composite keys (world seed, tile id, entry id)
// so that distinct game objects never share a stream.
func CompositeSeed(parts ...string) uint32 {
	return SeedFromString(strings.Join(parts, "::"))
}

// Stream is a small, fast 32-bit generator (splitmix-style mixer over a
// Weyl sequence). Well distributed for gameplay purposes.
type Stream struct {
	state uint32
}

// New creates a stream positioned at the given seed.
func New(seed uint32) *Stream {
	return &Stream{state: seed}
}

func (s *Stream) next() uint32 {
	s.state += 0x9E3779B9
	z := s.state
	z ^= z >> 16
	z *= 0x21F0AAAD
	z ^= z >> 15
	z *= 0x735A2D97
	z ^= z >> 15
	return z
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.next()) / (1 << 32)
}

// Intn returns an integer in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Float64() * float64(n))
}

// Between returns an integer in [minValue, maxValue] inclusive. If the
// bounds are inverted the smaller range collapses to minValue.
func (s *Stream) Between(minValue, maxValue int) int {
	if maxValue <= minValue {
		return minValue
	}
	return minValue + s.Intn(maxValue-minValue+1)
}

// Chance rolls once against probability p in [0, 1].
func (s *Stream) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float64() < p
}

// File: internal/humanoid/rng.go
package humanoid

// Initial and fallback generator words. The fallback pair is installed
// whenever the state collapses to all zeros, which xorshift cannot leave.
const (
	rngInitS0     uint64 = 0x243F6A8885A308D3
	rngInitS1     uint64 = 0x13198A2E03707344
	rngFallbackS0 uint64 = 0x0123456789ABCDEF
	rngFallbackS1 uint64 = 0xFEDCBA9876543210

	seedMixMask uint32 = 0xA5A5A5A5
)

// RNG is a xorshift128+ generator. It is deterministic for a given state,
// never allocates, and is not safe for concurrent use.
type RNG struct {
	s0, s1 uint64
}

// NewRNG returns a generator in the fixed initial state.
func NewRNG() *RNG {
	return &RNG{s0: rngInitS0, s1: rngInitS1}
}

// NewRNGFromState returns a generator with an explicit state.
// An all-zero state is replaced with the fallback pair.
func NewRNGFromState(s0, s1 uint64) *RNG {
	r := &RNG{s0: s0, s1: s1}
	r.heal()
	return r
}

// State returns the two state words.
func (r *RNG) State() (uint64, uint64) {
	return r.s0, r.s1
}

// SeedMix folds 32 bits of entropy into the state through a fixed
// non-linear step. The state is never left at the zero pair.
func (r *RNG) SeedMix(entropy uint32) {
	mix := uint64(entropy)<<32 | uint64(entropy^seedMixMask)
	r.s0 ^= mix
	r.next()
	r.s1 ^= mix >> 17
	r.heal()
}

// Uint64 advances the generator and returns the next 64-bit output.
func (r *RNG) Uint64() uint64 {
	r.heal()
	return r.next()
}

// Float32 returns a value in [0, 1) built from the top 24 bits of the next
// output. The low bits of xorshift128+ are the weakest and are discarded.
func (r *RNG) Float32() float32 {
	top24 := uint32(r.Uint64() >> 40)
	return float32(top24) / float32(1<<24)
}

// RangeUint32 returns a value in [min, max]. A degenerate range yields min.
func (r *RNG) RangeUint32(min, max uint32) uint32 {
	if max <= min {
		return min
	}
	span := uint64(max-min) + 1
	return min + uint32(r.Uint64()%span)
}

// OneIn reports true with probability 1/n. n <= 1 is always true.
func (r *RNG) OneIn(n uint32) bool {
	if n <= 1 {
		r.Uint64()
		return true
	}
	return r.Uint64()%uint64(n) == 0
}

// Bool returns the low bit of the next output.
func (r *RNG) Bool() bool {
	return r.Uint64()&1 != 0
}

func (r *RNG) next() uint64 {
	s1 := r.s0
	s0 := r.s1
	r.s0 = s0
	s1 ^= s1 << 23
	r.s1 = s1 ^ s0 ^ (s1 >> 17) ^ (s0 >> 26)
	return r.s1 + s0
}

func (r *RNG) heal() {
	if r.s0 == 0 && r.s1 == 0 {
		r.s0 = rngFallbackS0
		r.s1 = rngFallbackS1
	}
}

package lang

import "math/rand/v2"

// Rand is the session random number generator. It remembers the last value
// drawn so RND(0) can repeat it.
type Rand struct {
	src  *rand.PCG
	rng  *rand.Rand
	last float32
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint64) *Rand {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)

	return &Rand{src: src, rng: rand.New(src)}
}

// Seed resets the generator state.
func (r *Rand) Seed(seed uint64) {
	r.src.Seed(seed, seed^0x9e3779b97f4a7c15)
}

// Next returns the next value in [0, 1).
func (r *Rand) Next() float32 {
	r.last = r.rng.Float32()

	return r.last
}

// Last returns the value most recently returned by Next.
func (r *Rand) Last() float32 { return r.last }

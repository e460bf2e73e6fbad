// internal/game/random.go
package game

import (
	rand "math/rand/v2"
	"sync"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// RandomSource yields integers in the closed range [min, max].
type RandomSource interface {
	RandomInt(min, max int) int
}

// RandomFunc adapts a plain function to RandomSource.
type RandomFunc func(min, max int) int

func (f RandomFunc) RandomInt(min, max int) int {
	return f(min, max)
}

// Random is the default RandomSource, backed by a PCG generator.
// It is safe for concurrent use since one source serves every session.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a source whose sequence is fully determined by seed.
func NewRandom(seed int64) *Random {
	u := uint64(seed)
	return &Random{rng: rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))}
}

// NewTimeSeededRandom seeds from the wall clock.
func NewTimeSeededRandom() *Random {
	return NewRandom(time.Now().UnixNano())
}

// RandomInt returns a uniform integer in [min, max]. If max < min, min is returned.
func (r *Random) RandomInt(min, max int) int {
	if max <= min {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.IntN(max-min+1)
}

// mix is the splitmix64 finaliser, used to spread a single seed over both PCG words.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

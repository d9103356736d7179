package bubblerob

import "math/rand/v2"

// RandomSource is the randomness capability used for turning jitter.
// Tests substitute a scripted source.
type RandomSource interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
}

// NewSeededSource returns a deterministic source for reproducible runs.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Jitter value sets
const (
	leftSteps  = 10 // 0.1, 0.2, ... 1.0
	rightSteps = 14 // 8, 12, ... 60
	rightBase  = 8
	rightStep  = 4
)

// JitterPair holds the per-wheel divisors applied to the backing speed.
type JitterPair struct {
	LeftFactor  float64 `json:"left_factor"`
	RightFactor float64 `json:"right_factor"`
}

// JitterGenerator draws a fresh JitterPair every actuation tick. The
// asymmetric divisors make the robot back away on a curve instead of a
// straight line.
type JitterGenerator struct {
	src RandomSource
}

// NewJitterGenerator creates a generator. A nil source uses the global
// math/rand/v2 generator.
func NewJitterGenerator(src RandomSource) *JitterGenerator {
	if src == nil {
		src = globalSource{}
	}
	return &JitterGenerator{src: src}
}

// Next draws a new pair. There is no memory between calls.
func (g *JitterGenerator) Next() JitterPair {
	return JitterPair{
		LeftFactor:  float64(1+g.src.IntN(leftSteps)) / 10,
		RightFactor: float64(rightBase + rightStep*g.src.IntN(rightSteps)),
	}
}

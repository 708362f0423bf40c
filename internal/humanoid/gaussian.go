package humanoid

import "math"

// unitEpsilon guards the logarithm in Box-Muller against u1 == 0.
const unitEpsilon = 1e-7

// Normal draws one sample from N(mean, stddev) with the Box-Muller
// transform. The paired second output is not cached; the call rate is a
// few per phase.
func (r *RNG) Normal(mean, stddev float64) float64 {
	u1 := float64(r.Float32())
	for u1 <= unitEpsilon {
		u1 = float64(r.Float32())
	}
	u2 := float64(r.Float32())
	z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
	return mean + z0*stddev
}

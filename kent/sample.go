// SPDX-License-Identifier: MIT

package kent

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/kentmix/vector"
)

// lowKappa switches Generate to rejection from the uniform distribution,
// where the Lambert-disk envelope would reject almost every proposal.
const lowKappa = 1.0

// Generate draws n points from the distribution. rng == nil uses the
// deterministic default stream. n <= 0 returns nil.
//
// Implementation (Kent, Ganeiber & Mardia):
//   - Stage 1: in the canonical frame, propose Lambert equal-area coordinates
//     z1 ~ N(0, 1/(κ−2β)) along the major axis and z2 ~ N(0, 1/κ) along the
//     minor axis; reject r² = z1² + z2² > 4.
//   - Stage 2: accept with log-probability −β·z1⁴/4 − β·z2²(1 − z2²/4).
//   - Stage 3: map back with cos θ = 1 − r²/2 and rotate into the frame.
//
// For κ < 1 the proposal is uniform on the sphere with acceptance
// exp(kernel − κ).
//
// Complexity: O(n) expected; the acceptance rate is bounded away from zero.
func (k Kent) Generate(n int, rng *rand.Rand) []vector.Vector {
	if n <= 0 {
		return nil
	}
	r := orDefault(rng)
	out := make([]vector.Vector, 0, n)
	if k.kappa < lowKappa {
		for len(out) < n {
			x := uniformOnSphere(r)
			if math.Log(r.Float64()) < k.LogKernel(x)-k.kappa {
				out = append(out, x)
			}
		}

		return out
	}

	var (
		sd1 = 1 / math.Sqrt(k.kappa-2*k.beta)
		sd2 = 1 / math.Sqrt(k.kappa)
	)
	for len(out) < n {
		z1 := r.NormFloat64() * sd1
		z2 := r.NormFloat64() * sd2
		r2 := z1*z1 + z2*z2
		if r2 > 4 {
			continue
		}
		logAccept := -k.beta*z1*z1*z1*z1/4 - k.beta*z2*z2*(1-z2*z2/4)
		if math.Log(r.Float64()) >= logAccept {
			continue
		}
		var cx, cy, cz float64
		if r2 == 0 {
			cz = 1
		} else {
			rr := math.Sqrt(r2)
			st := rr * math.Sqrt(1-r2/4)
			cx, cy, cz = st*z1/rr, st*z2/rr, 1-r2/2
		}
		out = append(out, k.toFrame(cx, cy, cz))
	}

	return out
}

// toFrame maps canonical coordinates (major, minor, mean) to R³.
func (k Kent) toFrame(cx, cy, cz float64) vector.Vector {
	v := make(vector.Vector, 3)
	var i int
	for i = 0; i < 3; i++ {
		v[i] = cx*k.major[i] + cy*k.minor[i] + cz*k.mean[i]
	}

	return v
}

func uniformOnSphere(r *rand.Rand) vector.Vector {
	for {
		v := vector.New(r.NormFloat64(), r.NormFloat64(), r.NormFloat64())
		if u, err := vector.Normalize(v); err == nil {
			return u
		}
	}
}

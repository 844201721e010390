package harmonics

import (
	"math"

	"github.com/signalsfoundry/tides-engine/geo"
)

// CnmSnm evaluates the 4π-normalized exterior solid harmonic basis functions
//
//	Cnm(p) = P̄nm(cos θ) cos(mλ) / |p|^(n+1)
//	Snm(p) = P̄nm(cos θ) sin(mλ) / |p|^(n+1)
//
// for all degrees n ≤ degree, returned as lower-triangular tables indexed
// [n][m]. Callers evaluating a field of reference radius R pass p/R so that
// Cnm carries the (R/r)^(n+1) attenuation directly.
//
// The recursion runs over solid harmonics and is stable at the poles; the
// only singular input is p = 0.
func CnmSnm(p geo.Vec3, degree int) (cnm, snm [][]float64) {
	cnm = make([][]float64, degree+1)
	snm = make([][]float64, degree+1)
	for n := 0; n <= degree; n++ {
		cnm[n] = make([]float64, n+1)
		snm[n] = make([]float64, n+1)
	}

	r2 := p.Dot(p)
	cnm[0][0] = 1 / math.Sqrt(r2)
	if degree == 0 {
		return cnm, snm
	}

	sqrt3 := math.Sqrt(3)
	cnm[1][0] = sqrt3 * p.Z / r2 * cnm[0][0]
	cnm[1][1] = sqrt3 * p.X / r2 * cnm[0][0]
	snm[1][1] = sqrt3 * p.Y / r2 * cnm[0][0]

	for n := 2; n <= degree; n++ {
		// diagonal
		wd := math.Sqrt(float64(2*n+1) / float64(2*n))
		cnm[n][n] = wd / r2 * (p.X*cnm[n-1][n-1] - p.Y*snm[n-1][n-1])
		snm[n][n] = wd / r2 * (p.X*snm[n-1][n-1] + p.Y*cnm[n-1][n-1])

		// remaining orders via the two-term vertical recursion
		for m := 0; m < n; m++ {
			w1 := math.Sqrt(float64((2*n+1)*(2*n-1)) / float64((n-m)*(n+m)))
			cnm[n][m] = w1 * p.Z / r2 * cnm[n-1][m]
			snm[n][m] = w1 * p.Z / r2 * snm[n-1][m]
			if n-2 >= m {
				w2 := math.Sqrt(float64(2*n+1) * float64((n-m-1)*(n+m-1)) / (float64(2*n-3) * float64((n-m)*(n+m))))
				cnm[n][m] -= w2 / r2 * cnm[n-2][m]
				snm[n][m] -= w2 / r2 * snm[n-2][m]
			}
		}
	}
	return cnm, snm
}

// term is one weighted basis function in a derivative expansion.
type term struct {
	m    int
	sine bool
	w    float64
}

// gradientTerms expands the Cartesian partial derivatives of the degree-n
// basis function (n, m, sine) as weighted sums of degree-(n+1) basis
// functions: ∂ basis(n,m) / ∂q_i = Σ w · basis(n+1, m', ·), with q the
// coordinate the tables were evaluated at. This is the standard recursion
// linking a harmonic's gradient to neighboring orders at the next degree;
// the deformation matrix and the gravity/gradient operators all derive
// from it.
func gradientTerms(n, m int, sine bool) (dx, dy, dz []term) {
	f := math.Sqrt(float64(2*n+1) / float64(2*n+3))

	if m == 0 {
		if sine {
			// S(n,0) is identically zero.
			return nil, nil, nil
		}
		wp1 := math.Sqrt(float64((n+1)*(n+2)) / 2)
		wm0 := float64(n + 1)
		dx = []term{{m: 1, sine: false, w: -f * wp1}}
		dy = []term{{m: 1, sine: true, w: -f * wp1}}
		dz = []term{{m: 0, sine: false, w: -f * wm0}}
		return dx, dy, dz
	}

	wm1 := isqrt((n - m + 1) * (n - m + 2))
	if m == 1 {
		wm1 *= math.Sqrt2
	}
	wm0 := isqrt((n - m + 1) * (n + m + 1))
	wp1 := isqrt((n + m + 1) * (n + m + 2))

	if !sine {
		dx = []term{{m: m - 1, sine: false, w: f / 2 * wm1}, {m: m + 1, sine: false, w: -f / 2 * wp1}}
		dy = []term{{m: m - 1, sine: true, w: -f / 2 * wm1}, {m: m + 1, sine: true, w: -f / 2 * wp1}}
		dz = []term{{m: m, sine: false, w: -f * wm0}}
		return dx, dy, dz
	}
	dx = []term{{m: m - 1, sine: true, w: f / 2 * wm1}, {m: m + 1, sine: true, w: -f / 2 * wp1}}
	dy = []term{{m: m - 1, sine: false, w: f / 2 * wm1}, {m: m + 1, sine: false, w: f / 2 * wp1}}
	dz = []term{{m: m, sine: true, w: -f * wm0}}
	return dx, dy, dz
}

// termValue reads one weighted basis value at degree n from the tables.
func termValue(cnm, snm [][]float64, n int, t term) float64 {
	if t.sine {
		if t.m == 0 {
			return 0
		}
		return t.w * snm[n][t.m]
	}
	return t.w * cnm[n][t.m]
}

// Package harmonics implements spherical harmonic representations of
// gravitational fields: a degree/order indexed coefficient vector with
// evaluation operators for potential, gravity, gravity gradient, and
// elastic surface deformation.
//
// Coefficients are 4π fully normalized. A field with parameters (GM, R)
// and coefficients cnm, snm evaluates to
//
//	V(p) = GM/R · Σ (R/r)^(n+1) P̄nm(cos θ) (cnm cos mλ + snm sin mλ).
package harmonics

import (
	"fmt"
	"math"
)

// Default normalization constants (GRS80-compatible Earth values).
const (
	// DefaultGM is the geocentric gravitational constant in m³/s².
	DefaultGM = 3.986004415e14
	// DefaultR is the reference radius in metres.
	DefaultR = 6378136.3
)

// Pack maps a coefficient position (degree n, order m, cosine/sine) to its
// index in the packed coefficient vector. The layout is the fixed bijection
//
//	(0,0)         -> 0
//	(n,0)         -> n²
//	(n,m) cosine  -> n² + 2m − 1   (m ≥ 1)
//	(n,m) sine    -> n² + 2m       (m ≥ 1)
//
// shared by the coefficient vector and the deformation matrix columns.
func Pack(n, m int, sine bool) int {
	if m == 0 {
		return n * n
	}
	if sine {
		return n*n + 2*m
	}
	return n*n + 2*m - 1
}

// Coefficients returns the number of packed coefficients of an expansion up
// to and including maxDegree.
func Coefficients(maxDegree int) int {
	return (maxDegree + 1) * (maxDegree + 1)
}

// SphericalHarmonics is a value-type spherical harmonic field. The zero value
// is a degree-0 field with zero coefficient and default GM/R, i.e. an empty
// field that evaluates to zero everywhere.
type SphericalHarmonics struct {
	maxDegree int
	gm, r     float64
	coeff     []float64
}

// New returns a zero-valued field of the given degree and scale.
func New(gm, r float64, maxDegree int) SphericalHarmonics {
	return SphericalHarmonics{
		maxDegree: maxDegree,
		gm:        gm,
		r:         r,
		coeff:     make([]float64, Coefficients(maxDegree)),
	}
}

// NewFromCoefficients wraps a packed coefficient vector. The vector length
// must be exactly (maxDegree+1)²; the slice is taken over, not copied.
func NewFromCoefficients(gm, r float64, maxDegree int, coeff []float64) (SphericalHarmonics, error) {
	if want := Coefficients(maxDegree); len(coeff) != want {
		return SphericalHarmonics{}, fmt.Errorf("spherical harmonics: coefficient vector has length %d, want %d for degree %d", len(coeff), want, maxDegree)
	}
	return SphericalHarmonics{maxDegree: maxDegree, gm: gm, r: r, coeff: coeff}, nil
}

// MaxDegree returns the maximum degree of the expansion.
func (h SphericalHarmonics) MaxDegree() int { return h.maxDegree }

// GM returns the gravitational parameter scale of the expansion.
func (h SphericalHarmonics) GM() float64 {
	if h.coeff == nil {
		return DefaultGM
	}
	return h.gm
}

// R returns the reference radius of the expansion.
func (h SphericalHarmonics) R() float64 {
	if h.coeff == nil {
		return DefaultR
	}
	return h.r
}

// X returns the packed coefficient vector. The returned slice is shared with
// the field; callers must not modify it.
func (h SphericalHarmonics) X() []float64 {
	if h.coeff == nil {
		return []float64{0}
	}
	return h.coeff
}

// Cnm returns the cosine coefficient at (n, m); zero beyond maxDegree.
func (h SphericalHarmonics) Cnm(n, m int) float64 {
	if n > h.maxDegree || m > n || h.coeff == nil {
		return 0
	}
	return h.coeff[Pack(n, m, false)]
}

// Snm returns the sine coefficient at (n, m); zero beyond maxDegree or at m=0.
func (h SphericalHarmonics) Snm(n, m int) float64 {
	if n > h.maxDegree || m > n || m == 0 || h.coeff == nil {
		return 0
	}
	return h.coeff[Pack(n, m, true)]
}

// Add returns the coefficient-wise sum of two fields. The result carries the
// receiver's GM and R; the other field's coefficients are rescaled to that
// normalization first. The result degree is the larger of the two, with
// absent higher-degree coefficients treated as zero.
func (h SphericalHarmonics) Add(other SphericalHarmonics) SphericalHarmonics {
	a, b := h, other
	if a.coeff == nil {
		a = New(b.GM(), b.R(), 0)
	}
	if b.coeff == nil {
		b = New(a.GM(), a.R(), 0)
	}

	maxDegree := a.maxDegree
	if b.maxDegree > maxDegree {
		maxDegree = b.maxDegree
	}
	sum := New(a.gm, a.r, maxDegree)
	copy(sum.coeff, a.coeff)

	// Coefficients of the (GM,R) normalization represent terms GM·Rⁿ·cnm,
	// so converting b to a's scale multiplies by (GMb/GMa)·(Rb/Ra)ⁿ.
	factor := b.gm / a.gm
	ratio := b.r / a.r
	for n := 0; n <= b.maxDegree; n++ {
		lo, hi := n*n, (n+1)*(n+1)
		for i := lo; i < hi; i++ {
			sum.coeff[i] += factor * b.coeff[i]
		}
		factor *= ratio
	}
	return sum
}

// Scale returns the field with every coefficient multiplied by s.
func (h SphericalHarmonics) Scale(s float64) SphericalHarmonics {
	if h.coeff == nil {
		return h
	}
	out := New(h.gm, h.r, h.maxDegree)
	for i, c := range h.coeff {
		out.coeff[i] = s * c
	}
	return out
}

// Rescale returns the field re-normalized to (gm, r) and restricted to the
// degree window [minDegree, maxDegree]. Coefficients outside the window are
// zero; coefficients above the receiver's own degree are zero as well.
func (h SphericalHarmonics) Rescale(maxDegree, minDegree int, gm, r float64) SphericalHarmonics {
	out := New(gm, r, maxDegree)
	if h.coeff == nil {
		return out
	}
	factor := h.gm / gm
	ratio := h.r / r
	for n := 0; n <= maxDegree; n++ {
		if n >= minDegree && n <= h.maxDegree {
			lo, hi := n*n, (n+1)*(n+1)
			for i := lo; i < hi; i++ {
				out.coeff[i] = factor * h.coeff[i]
			}
		}
		factor *= ratio
	}
	return out
}

func isqrt(i int) float64 { return math.Sqrt(float64(i)) }

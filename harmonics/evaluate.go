package harmonics

import (
	"github.com/signalsfoundry/tides-engine/geo"
)

// Potential evaluates the field's gravitational potential at point (metres,
// same frame as the coefficients).
func (h SphericalHarmonics) Potential(point geo.Vec3) float64 {
	if h.coeff == nil {
		return 0
	}
	cnm, snm := CnmSnm(point.Scale(1/h.r), h.maxDegree)
	v := 0.0
	for n := 0; n <= h.maxDegree; n++ {
		v += h.coeff[Pack(n, 0, false)] * cnm[n][0]
		for m := 1; m <= n; m++ {
			v += h.coeff[Pack(n, m, false)] * cnm[n][m]
			v += h.coeff[Pack(n, m, true)] * snm[n][m]
		}
	}
	return h.gm / h.r * v
}

// RadialGradient evaluates ∂V/∂r at point. Each exterior degree-n term
// falls off as r^-(n+1), so its radial derivative is −(n+1)/r times the term.
func (h SphericalHarmonics) RadialGradient(point geo.Vec3) float64 {
	if h.coeff == nil {
		return 0
	}
	r := point.Norm()
	cnm, snm := CnmSnm(point.Scale(1/h.r), h.maxDegree)
	dvdr := 0.0
	for n := 0; n <= h.maxDegree; n++ {
		vn := h.coeff[Pack(n, 0, false)] * cnm[n][0]
		for m := 1; m <= n; m++ {
			vn += h.coeff[Pack(n, m, false)] * cnm[n][m]
			vn += h.coeff[Pack(n, m, true)] * snm[n][m]
		}
		dvdr -= float64(n+1) / r * vn
	}
	return h.gm / h.r * dvdr
}

// Gravity evaluates the gravity vector ∇V at point. The gradient of each
// degree-n basis function is expanded into degree-(n+1) basis functions, so
// the tables run one degree higher than the field.
func (h SphericalHarmonics) Gravity(point geo.Vec3) geo.Vec3 {
	if h.coeff == nil {
		return geo.Vec3{}
	}
	cnm, snm := CnmSnm(point.Scale(1/h.r), h.maxDegree+1)
	var g geo.Vec3
	for n := 0; n <= h.maxDegree; n++ {
		for m := 0; m <= n; m++ {
			for _, sine := range [2]bool{false, true} {
				if sine && m == 0 {
					continue
				}
				c := h.coeff[Pack(n, m, sine)]
				if c == 0 {
					continue
				}
				dx, dy, dz := gradientTerms(n, m, sine)
				for _, t := range dx {
					g.X += c * termValue(cnm, snm, n+1, t)
				}
				for _, t := range dy {
					g.Y += c * termValue(cnm, snm, n+1, t)
				}
				for _, t := range dz {
					g.Z += c * termValue(cnm, snm, n+1, t)
				}
			}
		}
	}
	return g.Scale(h.gm / (h.r * h.r))
}

// GravityGradient evaluates the 3×3 tensor of second derivatives of the
// potential at point, by applying the gradient expansion twice: degree-n
// coefficients couple to basis functions at degree n+2.
func (h SphericalHarmonics) GravityGradient(point geo.Vec3) geo.Tensor3 {
	if h.coeff == nil {
		return geo.Tensor3{}
	}
	cnm, snm := CnmSnm(point.Scale(1/h.r), h.maxDegree+2)
	var tt [3][3]float64
	for n := 0; n <= h.maxDegree; n++ {
		for m := 0; m <= n; m++ {
			for _, sine := range [2]bool{false, true} {
				if sine && m == 0 {
					continue
				}
				c := h.coeff[Pack(n, m, sine)]
				if c == 0 {
					continue
				}
				dx, dy, dz := gradientTerms(n, m, sine)
				first := [3][]term{dx, dy, dz}
				for i := 0; i < 3; i++ {
					for _, t := range first[i] {
						// A sine term of order 0 is the zero function; its
						// derivative expansion must not be applied.
						if t.sine && t.m == 0 {
							continue
						}
						ddx, ddy, ddz := gradientTerms(n+1, t.m, t.sine)
						second := [3][]term{ddx, ddy, ddz}
						for j := 0; j < 3; j++ {
							for _, u := range second[j] {
								tt[i][j] += c * t.w * termValue(cnm, snm, n+2, u)
							}
						}
					}
				}
			}
		}
	}
	s := h.gm / (h.r * h.r * h.r)
	return geo.Tensor3{
		XX: s * tt[0][0],
		XY: s * (tt[0][1] + tt[1][0]) / 2,
		XZ: s * (tt[0][2] + tt[2][0]) / 2,
		YY: s * tt[1][1],
		YZ: s * (tt[1][2] + tt[2][1]) / 2,
		ZZ: s * tt[2][2],
	}
}

// Deformation evaluates the elastic surface displacement the field induces at
// a station: vertical response through the height Love numbers hn, horizontal
// response through ln, both scaled by the station's local gravity.
//
// hn and ln must cover degrees 0..MaxDegree.
func (h SphericalHarmonics) Deformation(point geo.Vec3, gravity float64, hn, ln []float64) (geo.Vec3, error) {
	if h.coeff == nil {
		return geo.Vec3{}, nil
	}
	a, err := NewDeformationMatrix([]geo.Vec3{point}, []float64{gravity}, hn, ln, h.gm, h.r, h.maxDegree)
	if err != nil {
		return geo.Vec3{}, err
	}
	d := a.Apply(h.coeff)
	return geo.Vec3{X: d[0], Y: d[1], Z: d[2]}, nil
}

package harmonics

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/tides-engine/geo"
)

// DeformationMatrix is the linear operator mapping a packed harmonic
// coefficient vector to 3-D surface displacements of a fixed station set:
// rows 3k..3k+2 hold the x/y/z displacement of station k, columns follow the
// Pack index layout. Built once per station set, it is reused across epochs
// whose harmonic content changes but whose stations do not.
type DeformationMatrix struct {
	rows, cols int
	gm, r      float64
	maxDegree  int
	a          []float64 // row-major
}

// NewDeformationMatrix builds the displacement operator for the given station
// positions, local gravity values, and Love numbers. hn and ln must cover
// degrees 0..maxDegree; gravity must have one positive entry per station.
func NewDeformationMatrix(points []geo.Vec3, gravity, hn, ln []float64, gm, r float64, maxDegree int) (*DeformationMatrix, error) {
	if len(gravity) != len(points) {
		return nil, fmt.Errorf("deformation matrix: gravity has %d entries for %d stations", len(gravity), len(points))
	}
	if len(hn) < maxDegree+1 {
		return nil, fmt.Errorf("deformation matrix: hn has %d entries, need %d for degree %d", len(hn), maxDegree+1, maxDegree)
	}
	if len(ln) < maxDegree+1 {
		return nil, fmt.Errorf("deformation matrix: ln has %d entries, need %d for degree %d", len(ln), maxDegree+1, maxDegree)
	}

	m := &DeformationMatrix{
		rows:      3 * len(points),
		cols:      Coefficients(maxDegree),
		gm:        gm,
		r:         r,
		maxDegree: maxDegree,
		a:         make([]float64, 3*len(points)*Coefficients(maxDegree)),
	}

	for k, point := range points {
		if point.Norm() == 0 {
			return nil, fmt.Errorf("deformation matrix: station %d is at the origin", k)
		}
		if gravity[k] <= 0 {
			return nil, fmt.Errorf("deformation matrix: gravity for station %d is %g, must be positive", k, gravity[k])
		}
		up := point.Normalized()
		cnm, snm := CnmSnm(point.Scale(1/r), maxDegree+1)

		set := func(col int, disp geo.Vec3) {
			m.a[(3*k+0)*m.cols+col] = disp.X
			m.a[(3*k+1)*m.cols+col] = disp.Y
			m.a[(3*k+2)*m.cols+col] = disp.Z
		}
		loveDisp := func(n int, vn float64, gradVn geo.Vec3) geo.Vec3 {
			vertical := up.Scale(hn[n] / gravity[k] * vn)
			horizontal := gradVn.Sub(up.Scale(gradVn.Dot(up))).Scale(ln[n] / gravity[k])
			return vertical.Add(horizontal)
		}

		// order 0
		for n := 0; n <= maxDegree; n++ {
			wm0 := float64(n + 1)
			wp1 := math.Sqrt(float64((n+1)*(n+2)) / 2)
			cm0 := wm0 * cnm[n+1][0]
			cp1 := wp1 * cnm[n+1][1]
			sp1 := wp1 * snm[n+1][1]

			vn := gm / r * cnm[n][0]
			f := gm / (2 * r) * math.Sqrt(float64(2*n+1)/float64(2*n+3))
			gradVn := geo.Vec3{X: -2 * cp1, Y: -2 * sp1, Z: -2 * cm0}.Scale(f)

			set(Pack(n, 0, false), loveDisp(n, vn, gradVn))
		}

		// remaining orders: the gradient of a degree-n order-m harmonic mixes
		// the (n+1, m−1), (n+1, m), (n+1, m+1) basis functions.
		for mm := 1; mm <= maxDegree; mm++ {
			for n := mm; n <= maxDegree; n++ {
				wm1 := isqrt((n - mm + 1) * (n - mm + 2))
				if mm == 1 {
					wm1 *= math.Sqrt2
				}
				wm0 := isqrt((n - mm + 1) * (n + mm + 1))
				wp1 := isqrt((n + mm + 1) * (n + mm + 2))
				cm1 := wm1 * cnm[n+1][mm-1]
				sm1 := wm1 * snm[n+1][mm-1]
				cm0 := wm0 * cnm[n+1][mm]
				sm0 := wm0 * snm[n+1][mm]
				cp1 := wp1 * cnm[n+1][mm+1]
				sp1 := wp1 * snm[n+1][mm+1]

				f := gm / (2 * r) * math.Sqrt(float64(2*n+1)/float64(2*n+3))

				vn := gm / r * cnm[n][mm]
				gradVn := geo.Vec3{X: cm1 - cp1, Y: -sm1 - sp1, Z: -2 * cm0}.Scale(f)
				set(Pack(n, mm, false), loveDisp(n, vn, gradVn))

				vn = gm / r * snm[n][mm]
				gradVn = geo.Vec3{X: sm1 - sp1, Y: cm1 + cp1, Z: -2 * sm0}.Scale(f)
				set(Pack(n, mm, true), loveDisp(n, vn, gradVn))
			}
		}
	}
	return m, nil
}

// Rows returns the number of rows (3 per station).
func (m *DeformationMatrix) Rows() int { return m.rows }

// Cols returns the number of coefficient columns, (maxDegree+1)².
func (m *DeformationMatrix) Cols() int { return m.cols }

// GM returns the coefficient normalization the matrix was built for.
func (m *DeformationMatrix) GM() float64 { return m.gm }

// R returns the reference radius the matrix was built for.
func (m *DeformationMatrix) R() float64 { return m.r }

// MaxDegree returns the degree of the coefficient space.
func (m *DeformationMatrix) MaxDegree() int { return m.maxDegree }

// Apply multiplies the operator with a packed coefficient vector and returns
// the stacked displacement vector of length 3K. A coefficient vector shorter
// than the column count is padded with zeros, a longer one is truncated: the
// operator only ever sees its own degree window.
func (m *DeformationMatrix) Apply(coeff []float64) []float64 {
	n := m.cols
	if len(coeff) < n {
		n = len(coeff)
	}
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		row := m.a[i*m.cols : (i+1)*m.cols]
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += row[j] * coeff[j]
		}
		out[i] = sum
	}
	return out
}

// ApplyField rescales a harmonic field to the operator's GM/R normalization
// and degree, then applies the operator. This is the per-epoch step of the
// batched deformation path.
func (m *DeformationMatrix) ApplyField(h SphericalHarmonics) []float64 {
	scaled := h.Rescale(m.maxDegree, 0, m.gm, m.r)
	return m.Apply(scaled.X())
}

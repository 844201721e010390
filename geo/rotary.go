package geo

import "math"

// Rotary3 is an orthonormal rotation in 3d space, stored row-major.
// The zero value is not valid; use Identity or one of the constructors.
type Rotary3 struct {
	M [3][3]float64
}

// Identity returns the identity rotation.
func Identity() Rotary3 {
	return Rotary3{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// RotaryZ returns a rotation about the z-axis by the given angle in radians.
// Applied to a vector it rotates the frame, matching the celestial→terrestrial
// convention used throughout: terrestrial = RotaryZ(gmst).Transform(celestial).
func RotaryZ(angle float64) Rotary3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Rotary3{M: [3][3]float64{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}}
}

// RotaryX returns a frame rotation about the x-axis by angle radians.
func RotaryX(angle float64) Rotary3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Rotary3{M: [3][3]float64{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}}
}

// RotaryY returns a frame rotation about the y-axis by angle radians.
func RotaryY(angle float64) Rotary3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Rotary3{M: [3][3]float64{
		{c, 0, -s},
		{0, 1, 0},
		{s, 0, c},
	}}
}

// Transform applies the rotation to a vector.
func (r Rotary3) Transform(v Vec3) Vec3 {
	return Vec3{
		X: r.M[0][0]*v.X + r.M[0][1]*v.Y + r.M[0][2]*v.Z,
		Y: r.M[1][0]*v.X + r.M[1][1]*v.Y + r.M[1][2]*v.Z,
		Z: r.M[2][0]*v.X + r.M[2][1]*v.Y + r.M[2][2]*v.Z,
	}
}

// InverseTransform applies the inverse (transposed) rotation to a vector.
func (r Rotary3) InverseTransform(v Vec3) Vec3 {
	return Vec3{
		X: r.M[0][0]*v.X + r.M[1][0]*v.Y + r.M[2][0]*v.Z,
		Y: r.M[0][1]*v.X + r.M[1][1]*v.Y + r.M[2][1]*v.Z,
		Z: r.M[0][2]*v.X + r.M[1][2]*v.Y + r.M[2][2]*v.Z,
	}
}

// TransformTensor applies the rotation to a symmetric tensor: R t Rᵀ.
func (r Rotary3) TransformTensor(t Tensor3) Tensor3 {
	rot := func(i, k int) float64 {
		return r.M[i][0]*r.M[k][0]*t.XX +
			r.M[i][1]*r.M[k][1]*t.YY +
			r.M[i][2]*r.M[k][2]*t.ZZ +
			(r.M[i][0]*r.M[k][1]+r.M[i][1]*r.M[k][0])*t.XY +
			(r.M[i][0]*r.M[k][2]+r.M[i][2]*r.M[k][0])*t.XZ +
			(r.M[i][1]*r.M[k][2]+r.M[i][2]*r.M[k][1])*t.YZ
	}
	return Tensor3{
		XX: rot(0, 0),
		XY: rot(0, 1),
		XZ: rot(0, 2),
		YY: rot(1, 1),
		YZ: rot(1, 2),
		ZZ: rot(2, 2),
	}
}

// Mul returns the composition r ∘ other (other applied first).
func (r Rotary3) Mul(other Rotary3) Rotary3 {
	var out Rotary3
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			out.M[i][k] = r.M[i][0]*other.M[0][k] + r.M[i][1]*other.M[1][k] + r.M[i][2]*other.M[2][k]
		}
	}
	return out
}

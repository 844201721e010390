package geo

// Tensor3 is a symmetric 3x3 tensor, used for gravity gradients.
// Only the upper triangle is stored.
type Tensor3 struct {
	XX, XY, XZ, YY, YZ, ZZ float64
}

// Add returns the component-wise sum of two tensors.
func (t Tensor3) Add(other Tensor3) Tensor3 {
	return Tensor3{
		XX: t.XX + other.XX,
		XY: t.XY + other.XY,
		XZ: t.XZ + other.XZ,
		YY: t.YY + other.YY,
		YZ: t.YZ + other.YZ,
		ZZ: t.ZZ + other.ZZ,
	}
}

// Scale returns s * t.
func (t Tensor3) Scale(s float64) Tensor3 {
	return Tensor3{
		XX: s * t.XX,
		XY: s * t.XY,
		XZ: s * t.XZ,
		YY: s * t.YY,
		YZ: s * t.YZ,
		ZZ: s * t.ZZ,
	}
}

// Apply returns t * v.
func (t Tensor3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: t.XX*v.X + t.XY*v.Y + t.XZ*v.Z,
		Y: t.XY*v.X + t.YY*v.Y + t.YZ*v.Z,
		Z: t.XZ*v.X + t.YZ*v.Y + t.ZZ*v.Z,
	}
}

// Trace returns the sum of the diagonal elements. For a gravity gradient of a
// source-free field the trace vanishes (Laplace equation).
func (t Tensor3) Trace() float64 {
	return t.XX + t.YY + t.ZZ
}

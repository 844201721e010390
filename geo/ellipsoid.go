package geo

import "math"

// GRS80 reference ellipsoid.
const (
	GRS80a = 6378137.0
	GRS80f = 1.0 / 298.2572221010
)

// Geodetic converts an Earth-fixed position to GRS80 geodetic longitude,
// latitude (radians) and ellipsoidal height (metres), using Bowring's
// iteration.
func Geodetic(p Vec3) (lon, lat, height float64) {
	a := GRS80a
	b := a * (1 - GRS80f)
	e2 := GRS80f * (2 - GRS80f)

	lon = math.Atan2(p.Y, p.X)
	rho := math.Hypot(p.X, p.Y)
	if rho == 0 {
		lat = math.Copysign(math.Pi/2, p.Z)
		return lon, lat, math.Abs(p.Z) - b
	}

	lat = math.Atan2(p.Z, (1-e2)*rho)
	for i := 0; i < 10; i++ {
		sin := math.Sin(lat)
		n := a / math.Sqrt(1-e2*sin*sin)
		h := rho/math.Cos(lat) - n
		next := math.Atan2(p.Z, (1-e2*n/(n+h))*rho)
		if math.Abs(next-lat) < 1e-13 {
			lat = next
			break
		}
		lat = next
	}
	sin := math.Sin(lat)
	n := a / math.Sqrt(1-e2*sin*sin)
	height = rho/math.Cos(lat) - n
	return lon, lat, height
}

// NormalGravity returns the GRS80 normal gravity (m/s²) at geodetic latitude
// lat (radians) and ellipsoidal height (metres): the Somigliana series with a
// free-air height reduction.
func NormalGravity(lat, height float64) float64 {
	s2 := math.Sin(lat) * math.Sin(lat)
	g := 9.7803267715 * (1 + s2*(0.0052790414+s2*(0.0000232718+s2*(0.0000001262+s2*0.0000000007))))
	g += -(3.0877e-6-4.3e-9*s2)*height + 7.2e-13*height*height
	return g
}

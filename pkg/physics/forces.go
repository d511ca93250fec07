// pkg/physics/forces.go
package physics

import "math"

const (
	// CoulombConstant in (N*m^2)/(C^2)
	CoulombConstant = 8.9875e9
	// GravitationalConstant in (N*m^2)/(g^2); masses are expressed in grams
	GravitationalConstant = 6.6743e-17
	// Epsilon is the lower clamp applied to separations in the force laws
	Epsilon = 1e-128
)

// ElectricForce returns the Coulomb force between two charges separated by r.
// A positive result is repulsive.
func ElectricForce(q1, q2, r float64) float64 {
	if r < Epsilon {
		r = Epsilon
	}
	return CoulombConstant * (q1 * q2) / (r * r)
}

// GravitationalForce returns the attractive force magnitude between two
// masses separated by r.
func GravitationalForce(m1, m2, r float64) float64 {
	if r < Epsilon {
		r = Epsilon
	}
	return GravitationalConstant * (m1 * m2) / (r * r)
}

// ComponentizeForce3D converts a scalar force into a Cartesian vector along
// direction. For F > 0 every component carries the sign of the matching
// direction component. A zero direction yields the zero vector.
func ComponentizeForce3D(F float64, direction Vector3D) Vector3D {
	return direction.Normalize().Scale(F)
}

// ComponentizeForce2D is the planar form of ComponentizeForce3D
func ComponentizeForce2D(F float64, direction Vector2D) Vector2D {
	return direction.Normalize().Scale(F)
}

// SphericalAngles returns the polar angle of direction measured from the
// Z axis, in [0, π], and its azimuth in the XY plane, in (-π, π].
func SphericalAngles(direction Vector3D) (polar, azimuth float64) {
	length := direction.Length()
	if length == 0 {
		return 0, 0
	}
	polar = math.Acos(ClampUnit(direction.Z / length))
	azimuth = math.Atan2(direction.Y, direction.X)
	return polar, azimuth
}

// FromSpherical builds a vector of the given magnitude from spherical angles
func FromSpherical(magnitude, polar, azimuth float64) Vector3D {
	sinPolar := math.Sin(polar)
	return Vector3D{
		X: magnitude * sinPolar * math.Cos(azimuth),
		Y: magnitude * sinPolar * math.Sin(azimuth),
		Z: magnitude * math.Cos(polar),
	}
}

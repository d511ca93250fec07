// pkg/physics/collision.go
package physics

// Sphere represents a spherical collision shape
type Sphere struct {
	Center Vector3D
	Radius float64
}

// Collides checks if two spheres overlap. Spheres that exactly touch do not
// collide.
func (s Sphere) Collides(other Sphere) bool {
	return s.Center.Distance(other.Center) < s.Radius+other.Radius
}

// Circle is the planar projection of a Sphere
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are colliding
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Circle projects the sphere onto the XY plane
func (s Sphere) Circle() Circle {
	return Circle{Center: s.Center.XY(), Radius: s.Radius}
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided    bool
	Normal      Vector3D // unit vector from A towards B
	Penetration float64
	// ContactA and ContactB are the offsets from each center to its surface
	// point along the normal.
	ContactA Vector3D
	ContactB Vector3D
}

// CheckCollision performs detailed collision detection between two spheres
func CheckCollision(a, b Sphere) CollisionResult {
	// Vector from A to B
	normal := b.Center.Sub(a.Center)
	distance := normal.Length()

	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	normal = normal.Normalize()

	return CollisionResult{
		Collided:    true,
		Normal:      normal,
		Penetration: a.Radius + b.Radius - distance,
		ContactA:    normal.Scale(a.Radius),
		ContactB:    normal.Scale(-b.Radius),
	}
}

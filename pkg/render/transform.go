// pkg/render/transform.go
package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// ModelMatrix returns the model transform of a particle's sphere. World units
// are multiplied by scale. The orientation angles are applied as pitch about
// X, then roll about Y, then yaw about Z.
func ModelMatrix(p *entity.Particle, scale float64) mgl64.Mat4 {
	pos := p.GetPosition().Scale(scale)
	r := p.Radius() * scale

	return mgl64.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(Rotation(p.GetOrientation())).
		Mul4(mgl64.Scale3D(r, r, r))
}

// Rotation returns the homogeneous rotation for an orientation vector of
// pitch, roll and yaw angles in radians.
func Rotation(o physics.Vector3D) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(o.Z).
		Mul4(mgl64.HomogRotate3DY(o.Y)).
		Mul4(mgl64.HomogRotate3DX(o.X))
}

// Project maps a point of the unit sphere through a model matrix and drops the
// depth axis.
func Project(m mgl64.Mat4, local physics.Vector3D) physics.Vector2D {
	v := m.Mul4x1(mgl64.Vec4{local.X, local.Y, local.Z, 1})
	return physics.Vector2D{X: v.X(), Y: v.Y()}
}

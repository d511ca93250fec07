package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

func TestModelMatrix_TranslationAndScale(t *testing.T) {
	p := testParticle(t, 0, physics.Vector3D{X: 0.3, Y: 0.5, Z: -1}, entity.Constants{Mass: 1, Radius: 0.1})

	m := ModelMatrix(&p, 100)

	assert.True(t, m.Col(3).ApproxEqualThreshold(mgl64.Vec4{30, 50, -100, 1}, 1e-9), "translation %v", m.Col(3))
	assert.InDelta(t, 10, m.At(0, 0), 1e-12)
	assert.InDelta(t, 10, m.At(1, 1), 1e-12)
	assert.InDelta(t, 10, m.At(2, 2), 1e-12)

	// The sphere's surface point along X sits one radius from the center
	surface := Project(m, physics.Vector3D{X: 1})
	assert.InDelta(t, 40, surface.X, 1e-9)
	assert.InDelta(t, 50, surface.Y, 1e-9)
}

func TestModelMatrix_FollowsOrientation(t *testing.T) {
	p := testParticle(t, 0, physics.Vector3D{}, entity.Constants{Mass: 1, Radius: 1})
	p.Orientation = physics.Vector3D{Z: math.Pi / 2}

	surface := Project(ModelMatrix(&p, 1), physics.Vector3D{X: 1})

	// A quarter turn of yaw carries +X onto +Y
	assert.InDelta(t, 0, surface.X, 1e-12)
	assert.InDelta(t, 1, surface.Y, 1e-12)
}

func TestRotation_Order(t *testing.T) {
	o := physics.Vector3D{X: 0.3, Y: -0.7, Z: 1.1}
	want := mgl64.HomogRotate3DZ(o.Z).Mul4(mgl64.HomogRotate3DY(o.Y)).Mul4(mgl64.HomogRotate3DX(o.X))

	assert.True(t, Rotation(o).ApproxEqualThreshold(want, 1e-15))
	assert.True(t, Rotation(physics.Vector3D{}).ApproxEqualThreshold(mgl64.Ident4(), 1e-15))

	// Pure rotations keep lengths
	v := Rotation(o).Mul4x1(mgl64.Vec4{1, 2, 3, 0})
	assert.InDelta(t, math.Sqrt(14), v.Vec3().Len(), 1e-12)
}

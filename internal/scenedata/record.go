package scenedata

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"addrscene/internal/engine"
)

// Record captures one placed instance of an addressable asset. Transform
// components are kept as plain scalars so the encoded layout does not
// depend on the math library's struct shapes.
type Record struct {
	AssetKey string
	ID       string

	PosX, PosY, PosZ       float32
	RotX, RotY, RotZ, RotW float32
	ScaleX, ScaleY, ScaleZ float32
}

// IDFunc generates record identities. Every call must return a value
// distinct from every other value it has returned or will return; callers
// rely on nothing else.
type IDFunc func() string

// NewID returns a random (version 4) UUID string.
func NewID() string {
	return uuid.NewString()
}

func (r Record) Position() rl.Vector3 {
	return rl.Vector3{X: r.PosX, Y: r.PosY, Z: r.PosZ}
}

func (r Record) Rotation() rl.Quaternion {
	return rl.Quaternion{X: r.RotX, Y: r.RotY, Z: r.RotZ, W: r.RotW}
}

func (r Record) Scale() rl.Vector3 {
	return rl.Vector3{X: r.ScaleX, Y: r.ScaleY, Z: r.ScaleZ}
}

func (r *Record) SetTransform(position rl.Vector3, rotation rl.Quaternion, scale rl.Vector3) {
	r.PosX, r.PosY, r.PosZ = position.X, position.Y, position.Z
	r.RotX, r.RotY, r.RotZ, r.RotW = rotation.X, rotation.Y, rotation.Z, rotation.W
	r.ScaleX, r.ScaleY, r.ScaleZ = scale.X, scale.Y, scale.Z
}

// Capture copies g's world position, world rotation and local scale.
func (r *Record) Capture(g *engine.GameObject) {
	r.SetTransform(g.WorldPosition(), g.WorldRotation(), g.Transform.Scale)
}

// Apply writes the record's transform onto g. Instances are scene roots,
// so the world values are assigned as local values.
func (r Record) Apply(g *engine.GameObject) {
	g.Transform.Position = r.Position()
	g.Transform.Rotation = r.Rotation()
	g.Transform.Scale = r.Scale()
}

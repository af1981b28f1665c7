package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

// IdentityTransform is the transform of a freshly created object.
func IdentityTransform() Transform {
	return Transform{
		Position: rl.Vector3{},
		Rotation: rl.QuaternionIdentity(),
		Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

type GameObject struct {
	UID       uint64
	Name      string
	Tags      []string
	Transform Transform
	Active    bool
	Scene     *Scene
	Parent    *GameObject
	Children  []*GameObject

	// Prefab is the asset path of the prefab this object was instantiated
	// from. Empty for objects that are not prefab instance roots.
	Prefab string
	// AssetPath is set when the object is itself a prefab asset.
	AssetPath string

	// Color is a display hint for editors (a named color).
	Color string
	// Size is the display bounds of the object in local space.
	Size rl.Vector3

	destroyed bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:       nextUID.Add(1),
		Name:      name,
		Active:    true,
		Transform: IdentityTransform(),
		Size:      rl.Vector3{X: 1, Y: 1, Z: 1},
		Children:  make([]*GameObject, 0),
	}
}

// Destroyed reports whether the object was destroyed by its scene. Callers
// holding references across frames must check this before use.
func (g *GameObject) Destroyed() bool {
	return g == nil || g.destroyed
}

// Alive is the negation of Destroyed, nil-safe.
func Alive(g *GameObject) bool {
	return !g.Destroyed()
}

func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Walk visits g and all of its descendants, depth first.
func (g *GameObject) Walk(fn func(*GameObject)) {
	fn(g)
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentPos := g.Parent.WorldPosition()
	parentRot := g.Parent.WorldRotation()
	parentScale := g.Parent.WorldScale()

	scaled := rl.Vector3{
		X: g.Transform.Position.X * parentScale.X,
		Y: g.Transform.Position.Y * parentScale.Y,
		Z: g.Transform.Position.Z * parentScale.Z,
	}
	return rl.Vector3Add(parentPos, rl.Vector3RotateByQuaternion(scaled, parentRot))
}

func (g *GameObject) WorldRotation() rl.Quaternion {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return rl.QuaternionMultiply(g.Parent.WorldRotation(), g.Transform.Rotation)
}

func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return rl.Vector3{
		X: ps.X * g.Transform.Scale.X,
		Y: ps.Y * g.Transform.Scale.Y,
		Z: ps.Z * g.Transform.Scale.Z,
	}
}

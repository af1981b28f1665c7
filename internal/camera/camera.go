package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OrbitCamera circles a target point. Yaw and Pitch are in degrees.
type OrbitCamera struct {
	Target    rl.Vector3
	Distance  float32
	Yaw       float32
	Pitch     float32
	LookSpeed float32
	ZoomSpeed float32
	PanSpeed  float32
}

func New(target rl.Vector3) *OrbitCamera {
	return &OrbitCamera{
		Target:    target,
		Distance:  20,
		Yaw:       -135,
		Pitch:     30,
		LookSpeed: 0.3,
		ZoomSpeed: 1.5,
		PanSpeed:  0.02,
	}
}

// Update handles input: right drag orbits, middle drag pans, wheel zooms.
func (c *OrbitCamera) Update() {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		c.Orbit(d.X*c.LookSpeed, d.Y*c.LookSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		d := rl.GetMouseDelta()
		c.Pan(-d.X*c.PanSpeed*c.Distance/10, d.Y*c.PanSpeed*c.Distance/10)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(-wheel * c.ZoomSpeed)
	}
}

func (c *OrbitCamera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch

	// Clamp pitch
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < 1 {
		c.Distance = 1
	}
	if c.Distance > 500 {
		c.Distance = 500
	}
}

// Pan moves the target in the camera's horizontal right and world up
// directions.
func (c *OrbitCamera) Pan(right, up float32) {
	_, r := c.directions()
	c.Target = rl.Vector3Add(c.Target, rl.Vector3Scale(r, right))
	c.Target.Y += up
}

func (c *OrbitCamera) directions() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180
	forward = rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
	right = rl.Vector3{
		X: float32(math.Sin(yawRad)),
		Y: 0,
		Z: float32(-math.Cos(yawRad)),
	}
	return
}

// Position is the eye point, Distance away from Target along the view
// direction.
func (c *OrbitCamera) Position() rl.Vector3 {
	forward, _ := c.directions()
	return rl.Vector3Add(c.Target, rl.Vector3Scale(forward, c.Distance))
}

func (c *OrbitCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

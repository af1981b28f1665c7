package editor

import (
	"context"
	"fmt"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/assets"
	"addrscene/internal/camera"
	"addrscene/internal/engine"
	"addrscene/internal/scenedata"
	"addrscene/internal/world"
)

const msgDuration = 3 * time.Second

type Config struct {
	World     *world.World
	Catalog   *assets.Catalog
	Store     *scenedata.Store
	ScenePath string
	PrefsPath string
	Logger    *log.Logger
}

// Editor is a scene view with a tool panel driving a scene data session.
// All methods run on the goroutine that owns the window.
type Editor struct {
	world   *world.World
	catalog *assets.Catalog
	loader  *assets.Loader
	session *scenedata.Session
	camera  *camera.OrbitCamera
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	Selected  *engine.GameObject
	scenePath string
	prefsPath string

	// Panel foldouts
	showAvailable    bool
	showInstantiated bool
	panelScroll      float32

	undoStack []UndoState

	msg     string
	msgTime time.Time
}

func New(cfg Config) *Editor {
	ctx, cancel := context.WithCancel(context.Background())
	loader := assets.NewLoader(cfg.Catalog, nil, cfg.World.Queue, cfg.World)
	e := &Editor{
		world:   cfg.World,
		catalog: cfg.Catalog,
		loader:  loader,
		session: scenedata.NewSession(scenedata.SessionConfig{
			Scene:     cfg.World.Scene,
			Destroyer: cfg.World,
			Registry:  cfg.Catalog,
			Loader:    loader,
			Store:     cfg.Store,
			Logger:    cfg.Logger,
		}),
		camera:           camera.New(rl.Vector3{}),
		logger:           cfg.Logger,
		ctx:              ctx,
		cancel:           cancel,
		scenePath:        cfg.ScenePath,
		prefsPath:        cfg.PrefsPath,
		showAvailable:    true,
		showInstantiated: true,
		undoStack:        make([]UndoState, 0, maxUndoStack),
	}
	if e.prefsPath == "" {
		e.prefsPath = editorPrefsFile
	}

	// Bind the instances the scene file already holds to their records
	// before the save hook can write anything.
	e.session.Load()
	e.session.Adopt()
	e.session.AttachSaveHook(cfg.World.Scene)
	e.session.Saved().AddListener(func(s *engine.Scene) {
		e.setMsg("Saved %d records with %s", len(e.session.Records()), s.Name)
	})
	return e
}

func (e *Editor) Session() *scenedata.Session {
	return e.session
}

func (e *Editor) setMsg(format string, args ...any) {
	e.msg = fmt.Sprintf(format, args...)
	e.msgTime = time.Now()
}

// Message returns the current status line, empty once it has expired.
func (e *Editor) Message() string {
	if e.msg == "" || time.Since(e.msgTime) > msgDuration {
		return ""
	}
	return e.msg
}

// Close cancels pending instantiations and destroys the tracked
// instances.
func (e *Editor) Close() {
	e.cancel()
	e.session.Close()
}

// Run opens the window and blocks until it is closed.
func (e *Editor) Run(width, height int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), "Scene Data - "+e.world.Scene.Name)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	initRayguiStyle()

	defer e.Close()
	defer func() {
		if err := SavePrefs(e.prefsPath, e.snapshotPrefs(rl.GetScreenWidth(), rl.GetScreenHeight())); err != nil {
			e.logger.Printf("warning: %v", err)
		}
	}()

	for !rl.WindowShouldClose() {
		e.world.Update()
		e.update()

		rl.BeginDrawing()
		rl.ClearBackground(colorBgDark)

		rl.BeginMode3D(e.camera.GetRaylibCamera())
		rl.DrawGrid(40, 1)
		e.drawObjects()
		rl.EndMode3D()

		e.drawPanel()
		e.drawStatus()
		rl.EndDrawing()
	}
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper)
}

func (e *Editor) update() {
	if ctrlDown() {
		if rl.IsKeyPressed(rl.KeyZ) {
			e.undo()
		}
		if rl.IsKeyPressed(rl.KeyS) {
			e.SaveScene()
		}
		return
	}

	step := float32(0.5)
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	switch {
	case rl.IsKeyPressed(rl.KeyLeft):
		e.Nudge(rl.Vector3{X: -step})
	case rl.IsKeyPressed(rl.KeyRight):
		e.Nudge(rl.Vector3{X: step})
	case rl.IsKeyPressed(rl.KeyUp) && shift:
		e.Nudge(rl.Vector3{Y: step})
	case rl.IsKeyPressed(rl.KeyDown) && shift:
		e.Nudge(rl.Vector3{Y: -step})
	case rl.IsKeyPressed(rl.KeyUp):
		e.Nudge(rl.Vector3{Z: -step})
	case rl.IsKeyPressed(rl.KeyDown):
		e.Nudge(rl.Vector3{Z: step})
	}

	if e.mouseInPanel() {
		return
	}
	e.camera.Update()

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), e.camera.GetRaylibCamera())
		e.Selected = e.pick(ray)
	}
}

// pick returns the closest object whose bounds the ray hits.
func (e *Editor) pick(ray rl.Ray) *engine.GameObject {
	var best *engine.GameObject
	bestDist := float32(-1)
	for _, g := range e.world.Scene.GameObjects {
		hit := rl.GetRayCollisionBox(ray, bounds(g))
		if hit.Hit && (bestDist < 0 || hit.Distance < bestDist) {
			best, bestDist = g, hit.Distance
		}
	}
	return best
}

func bounds(g *engine.GameObject) rl.BoundingBox {
	pos := g.WorldPosition()
	scale := g.WorldScale()
	half := rl.Vector3{X: g.Size.X * scale.X / 2, Y: g.Size.Y * scale.Y / 2, Z: g.Size.Z * scale.Z / 2}
	return rl.BoundingBox{Min: rl.Vector3Subtract(pos, half), Max: rl.Vector3Add(pos, half)}
}

func (e *Editor) drawObjects() {
	for _, g := range e.world.Scene.GameObjects {
		b := bounds(g)
		center := rl.Vector3Scale(rl.Vector3Add(b.Min, b.Max), 0.5)
		size := rl.Vector3Subtract(b.Max, b.Min)
		rl.DrawCubeV(center, size, assets.LookupColor(g.Color))
		rl.DrawCubeWiresV(center, size, rl.DarkGray)

		// Facing indicator
		forward := rl.Vector3RotateByQuaternion(rl.Vector3{Z: size.Z}, g.WorldRotation())
		rl.DrawLine3D(center, rl.Vector3Add(center, forward), rl.Black)

		if g == e.Selected {
			rl.DrawCubeWiresV(center, rl.Vector3Scale(size, 1.05), colorAccent)
		}
	}
}

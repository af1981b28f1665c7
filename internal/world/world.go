package world

import (
	"context"

	"addrscene/internal/engine"
)

// World owns a scene and the queue of work destined for the goroutine that
// drives it. All scene mutation goes through the owning goroutine.
type World struct {
	Scene *engine.Scene
	Queue *engine.MainQueue
}

func New(sceneName string) *World {
	return &World{
		Scene: engine.NewScene(sceneName),
		Queue: engine.NewMainQueue(),
	}
}

// SpawnObject adds g and all of its descendants to the scene.
func (w *World) SpawnObject(g *engine.GameObject) {
	g.Walk(func(obj *engine.GameObject) {
		w.Scene.AddGameObject(obj)
	})
}

func (w *World) Destroy(g *engine.GameObject) {
	w.Scene.Destroy(g)
}

// Update runs queued main-goroutine work. Frame loops call it once per
// frame.
func (w *World) Update() int {
	return w.Queue.Pump()
}

// Settle drives the queue until pending reports zero or ctx ends.
func (w *World) Settle(ctx context.Context, pending func() int) error {
	return w.Queue.RunUntil(ctx, func() bool { return pending() == 0 })
}

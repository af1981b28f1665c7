package scenedata

import (
	"context"
	"fmt"
	"io"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/assets"
	"addrscene/internal/engine"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// fakeRegistry maps prefab paths to keys; only keys in registered are
// addressable.
type fakeRegistry struct {
	keys       map[string]string
	registered map[string]bool
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{keys: map[string]string{}, registered: map[string]bool{}}
}

func (r *fakeRegistry) add(path, key string, addressable bool) {
	r.keys[path] = key
	r.registered[key] = addressable
}

func (r *fakeRegistry) Resolve(g *engine.GameObject) (string, bool) {
	path := g.Prefab
	if path == "" {
		path = g.AssetPath
	}
	key, ok := r.keys[path]
	return key, ok
}

func (r *fakeRegistry) IsRegistered(key string) bool {
	return r.registered[key]
}

type fakeRequest struct {
	ctx      context.Context
	key      string
	position rl.Vector3
	rotation rl.Quaternion
	op       *assets.Operation
}

// fakeLoader queues requests until completeAll is called, mimicking a
// loader whose results arrive on a later frame.
type fakeLoader struct {
	scene  *engine.Scene
	queued []fakeRequest
	fail   map[string]error
	calls  int
	// prefabScale is the scale instances come out with before the
	// spawner applies the record's scale.
	prefabScale rl.Vector3
}

func newFakeLoader(scene *engine.Scene) *fakeLoader {
	return &fakeLoader{
		scene:       scene,
		fail:        map[string]error{},
		prefabScale: rl.Vector3{X: 7, Y: 7, Z: 7},
	}
}

func (l *fakeLoader) InstantiateAsync(ctx context.Context, key string, position rl.Vector3, rotation rl.Quaternion) *assets.Operation {
	l.calls++
	op := assets.NewOperation(key)
	l.queued = append(l.queued, fakeRequest{ctx: ctx, key: key, position: position, rotation: rotation, op: op})
	return op
}

func (l *fakeLoader) completeAll() {
	queued := l.queued
	l.queued = nil
	for _, req := range queued {
		if err := req.ctx.Err(); err != nil {
			req.op.Complete(nil, err)
			continue
		}
		if err := l.fail[req.key]; err != nil {
			req.op.Complete(nil, err)
			continue
		}
		g := engine.NewGameObject("instance-" + req.key)
		g.Prefab = "prefabs/" + req.key
		g.Transform.Position = req.position
		g.Transform.Rotation = req.rotation
		g.Transform.Scale = l.prefabScale
		l.scene.AddGameObject(g)
		req.op.Complete(g, nil)
	}
}

// countingDestroyer records how often each object is destroyed.
type countingDestroyer struct {
	scene  *engine.Scene
	counts map[*engine.GameObject]int
}

func newCountingDestroyer(scene *engine.Scene) *countingDestroyer {
	return &countingDestroyer{scene: scene, counts: map[*engine.GameObject]int{}}
}

func (d *countingDestroyer) Destroy(g *engine.GameObject) {
	d.counts[g]++
	d.scene.Destroy(g)
}

func exampleRecord() Record {
	return Record{
		AssetKey: "guid-42",
		ID:       "u1",
		PosX:     1, PosY: 2, PosZ: 3,
		RotX: 0, RotY: 0, RotZ: 0, RotW: 1,
		ScaleX: 1, ScaleY: 1, ScaleZ: 1,
	}
}

// setRecords replaces the held records as if they had been loaded.
func (s *Session) setRecords(records []Record) {
	s.manifest.Records = append([]Record(nil), records...)
	s.manifest.RebuildKeys()
	s.synced = true
}

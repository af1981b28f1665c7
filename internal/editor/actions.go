package editor

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/assets"
	"addrscene/internal/engine"
)

// ScanScene replaces the records with the addressable instances in the
// scene.
func (e *Editor) ScanScene() {
	n := e.session.Scan()
	e.setMsg("Scanned %d addressable instances", n)
}

func (e *Editor) InstantiateFromData() {
	r := e.session.InstantiateFromData(e.ctx)
	e.setMsg("%d updated, %d requested, %d destroyed", len(r.Updated), len(r.Created), len(r.Destroyed))
}

func (e *Editor) UpdateTransformData() {
	n := e.session.UpdateTransforms()
	e.setMsg("Updated %d transforms", n)
}

func (e *Editor) SaveData() {
	if err := e.session.Save(); err != nil {
		e.setMsg("Save failed: %v", err)
		return
	}
	e.setMsg("Saved %d records", len(e.session.Records()))
}

func (e *Editor) LoadData() {
	records := e.session.Load()
	e.setMsg("Loaded %d records", len(records))
}

func (e *Editor) ClearAll() {
	e.session.Clear()
	if !engine.Alive(e.Selected) {
		e.Selected = nil
	}
	e.pruneUndo()
	e.setMsg("Cleared all instances")
}

// SaveScene writes the scene file. The session's save hook flushes the
// record transforms to the data file first.
func (e *Editor) SaveScene() {
	if e.scenePath == "" {
		e.setMsg("No scene file to save to")
		return
	}
	if err := e.world.SaveScene(e.scenePath); err != nil {
		e.setMsg("Save failed: %v", err)
	}
}

// SpawnAsset places a new instance of an addressable asset at the camera
// target and selects it once it exists.
func (e *Editor) SpawnAsset(key string) *assets.Operation {
	op := e.loader.InstantiateAsync(e.ctx, key, e.camera.Target, rl.QuaternionIdentity())
	op.OnCompleted(func(op *assets.Operation) {
		g, err := op.Result()
		if err != nil {
			e.setMsg("Instantiate failed: %v", err)
			return
		}
		e.Selected = g
		e.setMsg("Placed %s", g.Name)
	})
	return op
}

// Nudge moves the selected object by delta, recording an undo step.
func (e *Editor) Nudge(delta rl.Vector3) {
	if !engine.Alive(e.Selected) {
		return
	}
	e.pushUndo()
	e.Selected.Transform.Position = rl.Vector3Add(e.Selected.Transform.Position, delta)
}

// Instantiated lists the tracked instances by record id.
func (e *Editor) Instantiated() []InstanceRow {
	cache := e.session.Cache()
	ids := cache.IDs()
	rows := make([]InstanceRow, 0, len(ids))
	for _, id := range ids {
		if g, ok := cache.Get(id); ok {
			rows = append(rows, InstanceRow{ID: id, Object: g})
		}
	}
	return rows
}

type InstanceRow struct {
	ID     string
	Object *engine.GameObject
}

// Available lists the addressable catalog entries.
func (e *Editor) Available() []assets.Entry {
	var out []assets.Entry
	for _, entry := range e.catalog.Entries() {
		if entry.Addressable {
			out = append(out, entry)
		}
	}
	return out
}

package scenedata

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/assets"
	"addrscene/internal/engine"
	"addrscene/internal/world"
)

func newFakeSession(t *testing.T, logger *log.Logger) (*Session, *engine.Scene, *fakeLoader, *fakeRegistry) {
	t.Helper()
	scene := engine.NewScene("Main")
	loader := newFakeLoader(scene)
	reg := newFakeRegistry()
	reg.add("prefabs/guid-42", "guid-42", true)
	s := NewSession(SessionConfig{
		Scene:    scene,
		Registry: reg,
		Loader:   loader,
		Store:    NewStore(t.TempDir(), "dat", logger),
		NewID:    sequentialIDs(),
		Logger:   logger,
	})
	return s, scene, loader, reg
}

func TestSessionLoadMissingFile(t *testing.T) {
	var buf bytes.Buffer
	s, _, _, _ := newFakeSession(t, log.New(&buf, "", 0))
	prior := []Record{exampleRecord()}
	s.setRecords(prior)

	got := s.Load()

	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty list, got %#v", got)
	}
	if !reflect.DeepEqual(s.Records(), prior) {
		t.Errorf("Held records should be unchanged, got %+v", s.Records())
	}
	want := "warning: no saved data file found at " + s.Store().Path("Main")
	if !strings.Contains(buf.String(), want) {
		t.Errorf("Expected log %q, got %q", want, buf.String())
	}
}

func TestSessionLoadCorruptKeepsRecords(t *testing.T) {
	var buf bytes.Buffer
	s, _, _, _ := newFakeSession(t, log.New(&buf, "", 0))
	prior := []Record{exampleRecord()}
	s.setRecords(prior)

	if err := os.WriteFile(s.Store().Path("Main"), []byte("not scene data"), 0644); err != nil {
		t.Fatal(err)
	}

	got := s.Load()

	if !reflect.DeepEqual(got, prior) {
		t.Errorf("Expected prior records, got %+v", got)
	}
	if !strings.Contains(buf.String(), "error: loading assets") {
		t.Errorf("Expected error log, got %q", buf.String())
	}
}

func TestSessionLoadRejectsDuplicateIDs(t *testing.T) {
	s, _, _, _ := newFakeSession(t, quietLogger())
	dup := []Record{exampleRecord(), exampleRecord()}
	if err := s.Store().Save("Main", dup); err != nil {
		t.Fatal(err)
	}

	if got := s.Load(); len(got) != 0 {
		t.Errorf("Expected no records after rejected load, got %+v", got)
	}
}

func TestSessionSaveValidates(t *testing.T) {
	s, _, _, _ := newFakeSession(t, quietLogger())
	s.setRecords([]Record{exampleRecord(), exampleRecord()})

	err := s.Save()
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	if _, statErr := os.Stat(s.Store().Path("Main")); !os.IsNotExist(statErr) {
		t.Error("Invalid records should not be written")
	}
}

func TestSessionSaveLoad(t *testing.T) {
	s, _, _, _ := newFakeSession(t, quietLogger())
	records := []Record{exampleRecord()}
	s.setRecords(records)

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	s.setRecords(nil)

	got := s.Load()
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Expected %+v, got %+v", records, got)
	}
	if !reflect.DeepEqual(s.AssetKeys(), []string{"guid-42"}) {
		t.Errorf("Expected keys rebuilt from records, got %v", s.AssetKeys())
	}
}

func TestSessionUpdateTransforms(t *testing.T) {
	s, scene, loader, _ := newFakeSession(t, quietLogger())
	s.setRecords([]Record{exampleRecord()})
	s.Resync(context.Background())
	loader.completeAll()

	g, ok := s.Cache().Get("u1")
	if !ok {
		t.Fatal("Expected u1 instantiated")
	}
	g.Transform.Position = rl.Vector3{X: 4, Y: 5, Z: 6}

	// An untracked object does not contribute
	scene.AddGameObject(engine.NewGameObject("Stray"))

	if n := s.UpdateTransforms(); n != 1 {
		t.Errorf("Expected 1 update, got %d", n)
	}
	if got := s.Records()[0].Position(); got != (rl.Vector3{X: 4, Y: 5, Z: 6}) {
		t.Errorf("Expected (4,5,6), got %v", got)
	}
}

func TestSessionScanKeepsKnownKeys(t *testing.T) {
	s, scene, _, reg := newFakeSession(t, quietLogger())
	reg.add("prefabs/other", "guid-other", true)
	s.setRecords([]Record{{AssetKey: "guid-other", ID: "x", RotW: 1}})

	g := engine.NewGameObject("Crate")
	g.Prefab = "prefabs/guid-42"
	scene.AddGameObject(g)

	if n := s.Scan(); n != 1 {
		t.Fatalf("Expected 1 record, got %d", n)
	}
	if !reflect.DeepEqual(s.AssetKeys(), []string{"guid-42", "guid-other"}) {
		t.Errorf("Expected keys [guid-42 guid-other], got %v", s.AssetKeys())
	}
	if got, ok := s.Cache().Get(s.Records()[0].ID); !ok || got != g {
		t.Error("Scanned object should be tracked")
	}
}

func TestSessionRescanKeepsPending(t *testing.T) {
	s, _, loader, _ := newFakeSession(t, quietLogger())
	s.setRecords([]Record{exampleRecord()})
	s.Resync(context.Background())

	if n := s.Rescan(); n != 1 {
		t.Errorf("Expected pending record kept, got %d records", n)
	}

	loader.completeAll()
	if n := s.Rescan(); n != 1 || s.Records()[0].ID != "u1" {
		t.Errorf("Expected u1 kept after completion, got %+v", s.Records())
	}
}

func TestSessionClear(t *testing.T) {
	s, scene, loader, _ := newFakeSession(t, quietLogger())
	a := exampleRecord()
	b := exampleRecord()
	b.ID = "u2"
	s.setRecords([]Record{a})
	s.Resync(context.Background())
	loader.completeAll()

	s.setRecords([]Record{a, b})
	s.Resync(context.Background())
	s.Clear()
	loader.completeAll()

	if len(scene.GameObjects) != 0 {
		t.Errorf("Expected empty scene, got %d objects", len(scene.GameObjects))
	}
	if s.Pending() != 0 {
		t.Errorf("Expected nothing pending, got %d", s.Pending())
	}
	if len(s.Records()) != 2 {
		t.Errorf("Clear should keep records, got %d", len(s.Records()))
	}
}

// End to end over the real catalog, loader and world: scan a placed
// instance, save, clear, then load and instantiate it back.
func TestSessionRoundTripThroughWorld(t *testing.T) {
	dir := t.TempDir()
	prefab := `{"name": "Crate", "color": "brown", "size": [1, 1, 1]}`
	if err := os.MkdirAll(filepath.Join(dir, "prefabs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefabs", "crate.json"), []byte(prefab), 0644); err != nil {
		t.Fatal(err)
	}

	catalog := assets.NewCatalog(dir)
	entry, err := catalog.Add("prefabs/crate.json", "crate", true)
	if err != nil {
		t.Fatal(err)
	}

	w := world.New("Main")
	loader := assets.NewLoader(catalog, nil, w.Queue, w)
	s := NewSession(SessionConfig{
		Scene:     w.Scene,
		Destroyer: w,
		Registry:  catalog,
		Loader:    loader,
		Store:     NewStore(filepath.Join(dir, "data"), "", quietLogger()),
		Logger:    quietLogger(),
	})

	op := loader.InstantiateAsync(context.Background(), entry.GUID, rl.Vector3{}, rl.QuaternionIdentity())
	placeCtx, placeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer placeCancel()
	if err := w.Queue.RunUntil(placeCtx, op.IsDone); err != nil {
		t.Fatalf("Instantiation never completed: %v", err)
	}
	placed, err := op.Result()
	if err != nil {
		t.Fatalf("Instantiation failed: %v", err)
	}
	placed.Transform.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	placed.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	if n := s.Scan(); n != 1 {
		t.Fatalf("Expected 1 record, got %d", n)
	}
	id := s.Records()[0].ID
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.Clear()
	if !placed.Destroyed() || len(w.Scene.GameObjects) != 0 {
		t.Fatal("Clear should destroy the tracked instance")
	}

	s.setRecords(nil)
	if got := s.Load(); len(got) != 1 || got[0].AssetKey != entry.GUID {
		t.Fatalf("Expected 1 record for %s, got %+v", entry.GUID, got)
	}

	report := s.InstantiateFromData(context.Background())
	if !reflect.DeepEqual(report.Created, []string{id}) {
		t.Fatalf("Expected %s created, got %+v", id, report)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.Settle(ctx, s.Pending); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	g, ok := s.Cache().Get(id)
	if !ok {
		t.Fatal("Expected instance tracked under the saved id")
	}
	if g.Transform.Position != (rl.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Expected position (1,2,3), got %v", g.Transform.Position)
	}
	if g.Transform.Scale != (rl.Vector3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Expected scale (2,2,2), got %v", g.Transform.Scale)
	}
	if g.Prefab != "prefabs/crate.json" {
		t.Errorf("Expected prefab path, got %q", g.Prefab)
	}

	// A second resync is a no-op on identity
	report = s.Resync(context.Background())
	if !reflect.DeepEqual(report.Updated, []string{id}) || len(report.Created) != 0 {
		t.Errorf("Expected in-place update, got %+v", report)
	}
	if len(w.Scene.GameObjects) != 1 {
		t.Errorf("Expected 1 object, got %d", len(w.Scene.GameObjects))
	}
}

func TestSessionSaveHook(t *testing.T) {
	dir := t.TempDir()
	s, scene, loader, _ := newFakeSession(t, quietLogger())
	w := &world.World{Scene: scene, Queue: engine.NewMainQueue()}

	s.setRecords([]Record{exampleRecord()})
	s.Resync(context.Background())
	loader.completeAll()
	g, _ := s.Cache().Get("u1")
	g.Transform.Position = rl.Vector3{X: 9}

	fired := 0
	s.Saved().AddListener(func(*engine.Scene) { fired++ })
	s.AttachSaveHook(scene)

	if err := w.SaveScene(filepath.Join(dir, "Main.json")); err != nil {
		t.Fatalf("SaveScene failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("Expected Saved to fire once, got %d", fired)
	}

	loaded, err := s.Store().Load("Main")
	if err != nil {
		t.Fatalf("Expected data file written by hook: %v", err)
	}
	if len(loaded) != 1 || loaded[0].PosX != 9 {
		t.Errorf("Expected flushed transform x=9, got %+v", loaded)
	}

	s.DetachSaveHook()
	if err := w.SaveScene(filepath.Join(dir, "Main.json")); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Errorf("Detached hook should not fire, got %d", fired)
	}
}

func TestSessionStart(t *testing.T) {
	s, scene, loader, _ := newFakeSession(t, quietLogger())
	if err := s.Store().Save("Main", []Record{exampleRecord()}); err != nil {
		t.Fatal(err)
	}

	report := s.Start(context.Background())
	loader.completeAll()

	if !reflect.DeepEqual(report.Created, []string{"u1"}) {
		t.Errorf("Expected u1 created, got %+v", report)
	}
	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 object, got %d", len(scene.GameObjects))
	}

	s.Close()
	if len(scene.GameObjects) != 0 {
		t.Errorf("Close should destroy tracked objects, got %d", len(scene.GameObjects))
	}
}

func TestSessionAdoptRecoversIdentities(t *testing.T) {
	s, scene, _, _ := newFakeSession(t, quietLogger())
	s.setRecords([]Record{exampleRecord()})

	match := engine.NewGameObject("Crate")
	match.Prefab = "prefabs/guid-42"
	match.Transform.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	moved := engine.NewGameObject("Crate")
	moved.Prefab = "prefabs/guid-42"
	scene.AddGameObject(moved)
	scene.AddGameObject(match)

	if n := s.Adopt(); n != 1 {
		t.Fatalf("Expected 1 adopted object, got %d", n)
	}
	if g, ok := s.Cache().Get("u1"); !ok || g != match {
		t.Error("Expected the matching object tracked as u1")
	}

	if n := s.Rescan(); n != 2 {
		t.Fatalf("Expected 2 records, got %d", n)
	}
	if _, ok := s.manifest.Find("u1"); !ok {
		t.Error("Rescan should keep the adopted identity")
	}
}

func TestSessionSaveHookKeepsUnreadDataFile(t *testing.T) {
	var buf bytes.Buffer
	s, scene, _, _ := newFakeSession(t, log.New(&buf, "", 0))
	if err := s.Store().Save("Main", []Record{exampleRecord()}); err != nil {
		t.Fatal(err)
	}

	fired := 0
	s.Saved().AddListener(func(*engine.Scene) { fired++ })
	s.AttachSaveHook(scene)
	scene.BeforeSave.Invoke(scene)

	got, err := s.Store().Load("Main")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, []Record{exampleRecord()}) {
		t.Errorf("Expected the data file untouched, got %+v", got)
	}
	if fired != 0 {
		t.Errorf("Saved should not fire, got %d", fired)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Errorf("Expected a warning, got %q", buf.String())
	}
}

func TestSessionSaveHookAfterCorruptLoad(t *testing.T) {
	s, scene, _, _ := newFakeSession(t, quietLogger())
	path := s.Store().Path("Main")
	if err := os.WriteFile(path, []byte("not scene data"), 0644); err != nil {
		t.Fatal(err)
	}

	s.Load()
	s.AttachSaveHook(scene)
	scene.BeforeSave.Invoke(scene)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "not scene data" {
		t.Error("Unreadable data file should be left for inspection")
	}
}

func TestSessionSaveHookAfterLoad(t *testing.T) {
	s, scene, _, _ := newFakeSession(t, quietLogger())
	if err := s.Store().Save("Main", []Record{exampleRecord()}); err != nil {
		t.Fatal(err)
	}

	s.Load()
	s.AttachSaveHook(scene)
	scene.BeforeSave.Invoke(scene)

	got, err := s.Store().Load("Main")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "u1" {
		t.Errorf("Expected loaded records saved back, got %+v", got)
	}
}

package world

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/engine"
)

func TestSceneNameFromPath(t *testing.T) {
	if got := SceneNameFromPath("/levels/Forest.json"); got != "Forest" {
		t.Errorf("Expected Forest, got %s", got)
	}
}

func TestSaveLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Main.json")
	w := New("Main")

	crate := engine.NewGameObject("Crate")
	crate.Prefab = "prefabs/crate.json"
	crate.Color = "Brown"
	crate.Transform.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	crate.Transform.Rotation = rl.QuaternionFromEuler(0, 0.5, 0)
	crate.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}
	crate.AddChild(engine.NewGameObject("Lid"))
	w.SpawnObject(crate)

	fired := 0
	w.Scene.BeforeSave.AddListener(func(*engine.Scene) { fired++ })

	if err := w.SaveScene(path); err != nil {
		t.Fatalf("SaveScene failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("Expected BeforeSave to fire once, got %d", fired)
	}

	loaded := New("Other")
	if err := loaded.LoadScene(path); err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if loaded.Scene.Name != "Main" {
		t.Errorf("Expected scene name Main, got %s", loaded.Scene.Name)
	}
	if len(loaded.Scene.GameObjects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(loaded.Scene.GameObjects))
	}

	got := loaded.Scene.FindByName("Crate")
	if got == nil {
		t.Fatal("Expected Crate to be loaded")
	}
	if got.Prefab != crate.Prefab || got.Color != "Brown" {
		t.Errorf("Unexpected crate %+v", got)
	}
	if got.Transform != crate.Transform {
		t.Errorf("Expected transform %+v, got %+v", crate.Transform, got.Transform)
	}
	if len(got.Children) != 1 || got.Children[0].Parent != got {
		t.Error("Expected Lid nested under Crate")
	}
}

func TestLoadSceneDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Hand.json")
	data := `{"objects": [{"name": "Box", "position": [4, 0, 0]}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	w := New("Hand")
	if err := w.LoadScene(path); err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	g := w.Scene.FindByName("Box")
	if g == nil {
		t.Fatal("Expected Box")
	}
	if g.Transform.Rotation != rl.QuaternionIdentity() {
		t.Errorf("Expected identity rotation, got %v", g.Transform.Rotation)
	}
	if g.Transform.Scale != (rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Expected unit scale, got %v", g.Transform.Scale)
	}
}

func TestSettle(t *testing.T) {
	w := New("Main")
	pending := 3
	for i := 0; i < 3; i++ {
		go w.Queue.Post(func() { pending-- })
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.Settle(ctx, func() int { return pending }); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("Expected all work done, got %d pending", pending)
	}
}

func TestDestroy(t *testing.T) {
	w := New("Main")
	g := engine.NewGameObject("Crate")
	w.SpawnObject(g)

	w.Destroy(g)

	if !g.Destroyed() || len(w.Scene.GameObjects) != 0 {
		t.Error("Expected object destroyed and removed")
	}
}

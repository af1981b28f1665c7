package engine

import "testing"

func TestSceneAddGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Player")

	scene.AddGameObject(obj)

	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 GameObject, got %d", len(scene.GameObjects))
	}

	if scene.GameObjects[0] != obj {
		t.Error("GameObject not added to scene")
	}

	if obj.Scene != scene {
		t.Error("GameObject.Scene not set")
	}
}

func TestSceneUIDLookup(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("Player")

	scene.AddGameObject(obj)

	found := scene.FindByUID(obj.UID)
	if found != obj {
		t.Errorf("FindByUID failed: expected %v, got %v", obj, found)
	}

	if scene.FindByUID(99999999) != nil {
		t.Error("FindByUID should return nil for non-existent UID")
	}
}

func TestSceneRemoveGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj1 := NewGameObject("Player")
	obj2 := NewGameObject("Enemy")

	scene.AddGameObject(obj1)
	scene.AddGameObject(obj2)

	scene.RemoveGameObject(obj1)

	if len(scene.GameObjects) != 1 {
		t.Errorf("Expected 1 GameObject after removal, got %d", len(scene.GameObjects))
	}

	if scene.GameObjects[0] != obj2 {
		t.Error("Wrong GameObject removed")
	}

	if scene.FindByUID(obj1.UID) != nil {
		t.Error("Removed GameObject still in UID map")
	}

	if obj1.Destroyed() {
		t.Error("RemoveGameObject should not destroy the object")
	}
}

func TestSceneDestroyWithChildren(t *testing.T) {
	scene := NewScene("Test")
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")

	scene.AddGameObject(parent)
	scene.AddGameObject(child)
	parent.AddChild(child)

	scene.Destroy(parent)

	if len(scene.GameObjects) != 0 {
		t.Errorf("Expected 0 GameObjects, got %d", len(scene.GameObjects))
	}

	if !parent.Destroyed() || !child.Destroyed() {
		t.Error("Parent and child should both be destroyed")
	}

	if scene.FindByUID(child.UID) != nil {
		t.Error("Child still in UID map after destroy")
	}

	// Second destroy is a no-op
	scene.Destroy(parent)
}

func TestSceneFindByName(t *testing.T) {
	scene := NewScene("Test")
	crate := NewGameObject("Crate")
	player := NewGameObject("Player")
	scene.AddGameObject(crate)
	scene.AddGameObject(player)

	if found := scene.FindByName("Player"); found != player {
		t.Error("FindByName failed")
	}
	if scene.FindByName("Missing") != nil {
		t.Error("FindByName should return nil for an unknown name")
	}
}

func TestSceneObjectsSnapshot(t *testing.T) {
	scene := NewScene("Test")
	a := NewGameObject("A")
	b := NewGameObject("B")
	scene.AddGameObject(a)
	scene.AddGameObject(b)

	snapshot := scene.Objects()
	for _, g := range snapshot {
		scene.Destroy(g)
	}

	if len(snapshot) != 2 {
		t.Errorf("Expected snapshot of 2 objects, got %d", len(snapshot))
	}
	if len(scene.GameObjects) != 0 {
		t.Errorf("Expected empty scene, got %d", len(scene.GameObjects))
	}
}

func TestSceneUIDMapInitialization(t *testing.T) {
	scene := &Scene{Name: "Zero"}
	obj := NewGameObject("Test")
	scene.AddGameObject(obj) // Should not panic

	if scene.FindByUID(obj.UID) != obj {
		t.Error("uidMap should be initialized on first AddGameObject")
	}
}

func TestSceneBeforeSaveEvent(t *testing.T) {
	scene := NewScene("Test")
	calls := 0
	handle := scene.BeforeSave.AddListener(func(s *Scene) {
		if s != scene {
			t.Error("listener received wrong scene")
		}
		calls++
	})

	scene.BeforeSave.Invoke(scene)
	scene.BeforeSave.RemoveListener(handle)
	scene.BeforeSave.Invoke(scene)

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

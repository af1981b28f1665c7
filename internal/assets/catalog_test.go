package assets

import (
	"path/filepath"
	"testing"

	"addrscene/internal/engine"
)

func TestGUIDForPathIsStable(t *testing.T) {
	a := GUIDForPath("prefabs/crate.json")
	b := GUIDForPath("prefabs/crate.json")
	if a != b {
		t.Errorf("Expected stable guid, got %s and %s", a, b)
	}
	if a == GUIDForPath("prefabs/rock.json") {
		t.Error("Different paths should not share a guid")
	}
}

func TestCatalogAddAndLookup(t *testing.T) {
	c := NewCatalog("/project")
	e, err := c.Add("prefabs/crate.json", "", true)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if e.Address != "crate.json" {
		t.Errorf("Expected default address crate.json, got %s", e.Address)
	}

	if guid, ok := c.GUIDFor("prefabs/crate.json"); !ok || guid != e.GUID {
		t.Errorf("Expected %s, got %s", e.GUID, guid)
	}
	if path, ok := c.PathFor(e.GUID); !ok || path != "prefabs/crate.json" {
		t.Errorf("Expected prefabs/crate.json, got %s", path)
	}
	if !c.IsRegistered(e.GUID) {
		t.Error("Entry should be addressable")
	}
	if got := c.AbsPath("prefabs/crate.json"); got != filepath.Join("/project", "prefabs", "crate.json") {
		t.Errorf("Unexpected abs path %s", got)
	}
}

func TestCatalogReAddUpdates(t *testing.T) {
	c := NewCatalog("")
	first, _ := c.Add("prefabs/crate.json", "crate", true)
	second, err := c.Add("prefabs/crate.json", "box", false)
	if err != nil {
		t.Fatal(err)
	}

	if first.GUID != second.GUID {
		t.Error("Re-adding a path should keep its guid")
	}
	if len(c.Entries()) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(c.Entries()))
	}
	if c.IsRegistered(first.GUID) {
		t.Error("Entry should no longer be addressable")
	}
}

func TestCatalogResolve(t *testing.T) {
	c := NewCatalog("")
	crate, _ := c.Add("prefabs/crate.json", "", true)
	rock, _ := c.Add("prefabs/rock.json", "", false)

	instance := engine.NewGameObject("Crate")
	instance.Prefab = "prefabs/crate.json"
	asset := engine.NewGameObject("Rock")
	asset.AssetPath = "prefabs/rock.json"

	if key, ok := c.Resolve(instance); !ok || key != crate.GUID {
		t.Errorf("Expected %s, got %s", crate.GUID, key)
	}
	if key, ok := c.Resolve(asset); !ok || key != rock.GUID {
		t.Errorf("Expected %s, got %s", rock.GUID, key)
	}
	if _, ok := c.Resolve(engine.NewGameObject("Loose")); ok {
		t.Error("Object without a source should not resolve")
	}
}

func TestCatalogSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addressables.yaml")
	c := NewCatalog(filepath.Dir(path))
	crate, _ := c.Add("prefabs/crate.json", "crate", true)
	c.Add("prefabs/rock.json", "rock", false)

	if err := c.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	entries := loaded.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "prefabs/crate.json" || entries[0].Address != "crate" {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}
	if !loaded.IsRegistered(crate.GUID) {
		t.Error("Addressable flag should survive a round trip")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCatalog(filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(c.Entries()) != 0 || c.Root != dir {
		t.Errorf("Expected empty catalog rooted at %s, got %+v", dir, c)
	}
}

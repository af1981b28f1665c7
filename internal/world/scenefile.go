package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/engine"
)

// --- JSON types ---

type SceneFile struct {
	Name    string      `json:"name,omitempty"`
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name      string      `json:"name"`
	Tags      []string    `json:"tags,omitempty"`
	Prefab    string      `json:"prefab,omitempty"`
	AssetPath string      `json:"assetPath,omitempty"`
	Color     string      `json:"color,omitempty"`
	Size      [3]float32  `json:"size,omitempty"`
	Position  [3]float32  `json:"position"`
	Rotation  [4]float32  `json:"rotation"`
	Scale     [3]float32  `json:"scale"`
	Children  []ObjectDef `json:"children,omitempty"`
}

// SceneNameFromPath derives a scene name from its file name.
func SceneNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// --- Loading ---

// LoadScene reads a scene file and spawns its objects. If the file names
// the scene, the world's scene takes that name.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}

	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}

	if sf.Name != "" {
		w.Scene.Name = sf.Name
	}
	for i := range sf.Objects {
		w.SpawnObject(buildObject(&sf.Objects[i]))
	}
	return nil
}

func buildObject(def *ObjectDef) *engine.GameObject {
	g := engine.NewGameObject(def.Name)
	g.Tags = def.Tags
	g.Prefab = def.Prefab
	g.AssetPath = def.AssetPath
	g.Color = def.Color
	if def.Size != [3]float32{} {
		g.Size = rl.Vector3{X: def.Size[0], Y: def.Size[1], Z: def.Size[2]}
	}
	g.Transform.Position = rl.Vector3{X: def.Position[0], Y: def.Position[1], Z: def.Position[2]}

	// Zero rotation/scale mean "unset" so hand-written files can omit them
	if def.Rotation != [4]float32{} {
		g.Transform.Rotation = rl.Quaternion{X: def.Rotation[0], Y: def.Rotation[1], Z: def.Rotation[2], W: def.Rotation[3]}
	}
	if def.Scale != [3]float32{} {
		g.Transform.Scale = rl.Vector3{X: def.Scale[0], Y: def.Scale[1], Z: def.Scale[2]}
	}

	for i := range def.Children {
		g.AddChild(buildObject(&def.Children[i]))
	}
	return g
}

// --- Saving ---

// SaveScene fires the scene's BeforeSave event and then writes every root
// object, with its children nested.
func (w *World) SaveScene(path string) error {
	w.Scene.BeforeSave.Invoke(w.Scene)

	sf := SceneFile{Name: w.Scene.Name}
	for _, g := range w.Scene.Roots() {
		sf.Objects = append(sf.Objects, objectDef(g))
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}

	return nil
}

func objectDef(g *engine.GameObject) ObjectDef {
	t := g.Transform
	def := ObjectDef{
		Name:      g.Name,
		Tags:      g.Tags,
		Prefab:    g.Prefab,
		AssetPath: g.AssetPath,
		Color:     g.Color,
		Size:      [3]float32{g.Size.X, g.Size.Y, g.Size.Z},
		Position:  [3]float32{t.Position.X, t.Position.Y, t.Position.Z},
		Rotation:  [4]float32{t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W},
		Scale:     [3]float32{t.Scale.X, t.Scale.Y, t.Scale.Z},
	}
	for _, c := range g.Children {
		def.Children = append(def.Children, objectDef(c))
	}
	return def
}

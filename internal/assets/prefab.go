package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/engine"
)

// PrefabDef is the JSON format of a prefab file.
type PrefabDef struct {
	Name     string      `json:"name"`
	Tags     []string    `json:"tags,omitempty"`
	Color    string      `json:"color,omitempty"`
	Size     []float32   `json:"size,omitempty"`
	Position [3]float32  `json:"position,omitempty"`
	Rotation [4]float32  `json:"rotation,omitempty"`
	Scale    [3]float32  `json:"scale,omitempty"`
	Children []PrefabDef `json:"children,omitempty"`
}

func ParsePrefab(data []byte) (*PrefabDef, error) {
	var def PrefabDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse prefab: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("parse prefab: missing name")
	}
	return &def, nil
}

// Build creates a fresh object tree from the definition. The root carries
// the prefab path so scans can map it back to its asset.
func (d *PrefabDef) Build(prefabPath string) *engine.GameObject {
	root := d.build()
	root.Prefab = prefabPath
	return root
}

func (d *PrefabDef) build() *engine.GameObject {
	g := engine.NewGameObject(d.Name)
	g.Tags = append([]string(nil), d.Tags...)
	g.Color = d.Color
	switch len(d.Size) {
	case 0:
	case 1:
		g.Size = rl.Vector3{X: d.Size[0], Y: d.Size[0], Z: d.Size[0]}
	case 2:
		g.Size = rl.Vector3{X: d.Size[0], Y: d.Size[1], Z: d.Size[0]}
	default:
		g.Size = rl.Vector3{X: d.Size[0], Y: d.Size[1], Z: d.Size[2]}
	}
	g.Transform.Position = rl.Vector3{X: d.Position[0], Y: d.Position[1], Z: d.Position[2]}
	if d.Rotation != [4]float32{} {
		g.Transform.Rotation = rl.Quaternion{X: d.Rotation[0], Y: d.Rotation[1], Z: d.Rotation[2], W: d.Rotation[3]}
	}
	if d.Scale != [3]float32{} {
		g.Transform.Scale = rl.Vector3{X: d.Scale[0], Y: d.Scale[1], Z: d.Scale[2]}
	}
	for i := range d.Children {
		g.AddChild(d.Children[i].build())
	}
	return g
}

// PrefabCache loads prefab definitions from disk once per path. It is safe
// for concurrent use since loaders read prefabs off the main goroutine.
type PrefabCache struct {
	mu   sync.Mutex
	defs map[string]*PrefabDef
}

func NewPrefabCache() *PrefabCache {
	return &PrefabCache{defs: make(map[string]*PrefabDef)}
}

func (c *PrefabCache) Load(path string) (*PrefabDef, error) {
	c.mu.Lock()
	if def, ok := c.defs[path]; ok {
		c.mu.Unlock()
		return def, nil
	}
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab: %w", err)
	}
	def, err := ParsePrefab(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.defs[path] = def
	c.mu.Unlock()
	return def, nil
}

// Forget drops a cached definition so the next Load re-reads it.
func (c *PrefabCache) Forget(path string) {
	c.mu.Lock()
	delete(c.defs, path)
	c.mu.Unlock()
}

func (c *PrefabCache) Unload() {
	c.mu.Lock()
	c.defs = make(map[string]*PrefabDef)
	c.mu.Unlock()
}

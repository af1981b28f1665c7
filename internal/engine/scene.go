package engine

type Scene struct {
	Name        string
	GameObjects []*GameObject

	// BeforeSave fires right before the scene is written to disk, so
	// in-memory state owned by tools can be flushed first.
	BeforeSave EventWithArg[*Scene]

	uidMap map[uint64]*GameObject
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		uidMap:      make(map[uint64]*GameObject),
	}
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	g.destroyed = false
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
}

// RemoveGameObject detaches g and its children from the scene without
// destroying them.
func (s *Scene) RemoveGameObject(g *GameObject) {
	g.Walk(func(obj *GameObject) {
		for i, o := range s.GameObjects {
			if o == obj {
				s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
				break
			}
		}
		delete(s.uidMap, obj.UID)
		if obj.Scene == s {
			obj.Scene = nil
		}
	})
	if g.Parent != nil {
		g.Parent.RemoveChild(g)
	}
}

// Destroy removes g and its children from the scene and marks them
// destroyed. Destroying an already destroyed object is a no-op.
func (s *Scene) Destroy(g *GameObject) {
	if g.Destroyed() {
		return
	}
	s.RemoveGameObject(g)
	g.Walk(func(obj *GameObject) {
		obj.destroyed = true
	})
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Objects returns a snapshot of the live objects, safe to iterate while
// the scene is mutated.
func (s *Scene) Objects() []*GameObject {
	out := make([]*GameObject, len(s.GameObjects))
	copy(out, s.GameObjects)
	return out
}

// Roots returns the objects without a parent.
func (s *Scene) Roots() []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.Parent == nil {
			result = append(result, g)
		}
	}
	return result
}

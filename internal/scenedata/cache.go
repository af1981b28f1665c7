package scenedata

import (
	"sort"

	"addrscene/internal/engine"
)

// Destroyer removes live objects from the host scene.
type Destroyer interface {
	Destroy(g *engine.GameObject)
}

// Cache maps record identities to the live objects instantiated for them.
// One cache belongs to one session; it is not persisted. Objects may be
// destroyed behind the cache's back, so every read checks liveness and
// prunes dead entries.
type Cache struct {
	entries   map[string]*engine.GameObject
	destroyer Destroyer
}

func NewCache(destroyer Destroyer) *Cache {
	return &Cache{
		entries:   make(map[string]*engine.GameObject),
		destroyer: destroyer,
	}
}

func (c *Cache) Get(id string) (*engine.GameObject, bool) {
	g, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if !engine.Alive(g) {
		delete(c.entries, id)
		return nil, false
	}
	return g, true
}

func (c *Cache) Put(id string, g *engine.GameObject) {
	if g == nil {
		return
	}
	c.entries[id] = g
}

// Remove evicts id without touching the object.
func (c *Cache) Remove(id string) {
	delete(c.entries, id)
}

// Destroy destroys the object tracked under id, if still alive, and evicts
// the entry. It reports whether an object was destroyed.
func (c *Cache) Destroy(id string) bool {
	g, ok := c.Get(id)
	delete(c.entries, id)
	if !ok {
		return false
	}
	if c.destroyer != nil {
		c.destroyer.Destroy(g)
	}
	return true
}

// Clear destroys every live tracked object and empties the cache.
func (c *Cache) Clear() {
	for _, id := range c.IDs() {
		c.Destroy(id)
	}
	c.entries = make(map[string]*engine.GameObject)
}

// Forget empties the cache without destroying anything.
func (c *Cache) Forget() {
	c.entries = make(map[string]*engine.GameObject)
}

// Lookup finds the identity an object is tracked under.
func (c *Cache) Lookup(g *engine.GameObject) (string, bool) {
	for id, obj := range c.entries {
		if obj == g {
			if !engine.Alive(obj) {
				delete(c.entries, id)
				return "", false
			}
			return id, true
		}
	}
	return "", false
}

// IDs returns the identities of live entries, sorted.
func (c *Cache) IDs() []string {
	ids := make([]string, 0, len(c.entries))
	for id, g := range c.entries {
		if !engine.Alive(g) {
			delete(c.entries, id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len counts live entries.
func (c *Cache) Len() int {
	return len(c.IDs())
}

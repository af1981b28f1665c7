package engine

// WorldAccess is the host surface that loaders and tools use to create and
// destroy objects without importing the world package.
type WorldAccess interface {
	SpawnObject(g *GameObject)
	Destroy(g *GameObject)
}

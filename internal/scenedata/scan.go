package scenedata

import (
	"log"

	"addrscene/internal/engine"
)

// Registry answers which asset an object comes from and whether that asset
// is addressable.
type Registry interface {
	Resolve(g *engine.GameObject) (string, bool)
	IsRegistered(key string) bool
}

type Scanner struct {
	registry Registry
	newID    IDFunc
	logger   *log.Logger
}

func NewScanner(registry Registry, newID IDFunc, logger *log.Logger) *Scanner {
	if newID == nil {
		newID = NewID
	}
	return &Scanner{registry: registry, newID: newID, logger: orDefault(logger)}
}

// ScanResult is the outcome of a scan: the new manifest and the live object
// behind each record.
type ScanResult struct {
	Manifest Manifest
	Tracked  map[string]*engine.GameObject
}

// addressable resolves g to a registered key. Only instance roots qualify:
// children of an instance carry no source reference of their own.
func (s *Scanner) addressable(g *engine.GameObject) (string, bool) {
	if !engine.Alive(g) {
		return "", false
	}
	key, ok := s.registry.Resolve(g)
	if !ok || !s.registry.IsRegistered(key) {
		return "", false
	}
	return key, true
}

// Scan builds a fresh manifest from objects. Every addressable object gets
// a new identity; nothing from earlier scans is kept.
func (s *Scanner) Scan(objects []*engine.GameObject) ScanResult {
	res := ScanResult{Tracked: make(map[string]*engine.GameObject)}
	for _, g := range objects {
		key, ok := s.addressable(g)
		if !ok {
			continue
		}
		res.Manifest.AddKey(key)

		rec := Record{AssetKey: key, ID: s.newID()}
		rec.Capture(g)
		res.Manifest.Records = append(res.Manifest.Records, rec)
		res.Tracked[rec.ID] = g
	}
	s.logger.Printf("scanned %d objects, %d addressable", len(objects), len(res.Manifest.Records))
	return res
}

// Rescan reconciles objects against prev. Objects already tracked in cache
// keep their identity and their record is updated in place; new addressable
// objects get a fresh identity and are added to the cache. Records of prev
// for which keep reports true (in-flight instantiations) are retained;
// other records without a live object are dropped. Keys of prev are kept.
func (s *Scanner) Rescan(objects []*engine.GameObject, prev Manifest, cache *Cache, keep func(id string) bool) Manifest {
	next := Manifest{AssetKeys: append([]string(nil), prev.AssetKeys...)}
	seen := make(map[string]bool)
	added := 0

	for _, g := range objects {
		key, ok := s.addressable(g)
		if !ok {
			continue
		}
		next.AddKey(key)

		id, tracked := cache.Lookup(g)
		if tracked && seen[id] {
			tracked = false
		}
		var rec Record
		if tracked {
			if i, ok := prev.Find(id); ok {
				rec = prev.Records[i]
			}
			rec.ID = id
		} else {
			rec.ID = s.newID()
			cache.Put(rec.ID, g)
			added++
		}
		rec.AssetKey = key
		rec.Capture(g)
		seen[rec.ID] = true
		next.Records = append(next.Records, rec)
	}

	dropped := 0
	for _, r := range prev.Records {
		if seen[r.ID] {
			continue
		}
		if keep != nil && keep(r.ID) {
			next.Records = append(next.Records, r)
			seen[r.ID] = true
			continue
		}
		dropped++
	}

	s.logger.Printf("rescanned %d objects: %d records, %d new, %d dropped", len(objects), len(next.Records), added, dropped)
	return next
}

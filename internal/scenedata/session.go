package scenedata

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"addrscene/internal/engine"
)

// Session is one editing or runtime session over a scene: it owns the
// record list, the identity cache and the spawner. Create one per scene
// and Close it when the scene goes away. Not safe for concurrent use; call
// it from the goroutine that owns the scene.
type Session struct {
	scene    *engine.Scene
	store    *Store
	scanner  *Scanner
	spawner  *Spawner
	cache    *Cache
	logger   *log.Logger
	manifest Manifest
	// synced is set once the records come from the data file or the
	// scene. Until then the save hook leaves the data file alone.
	synced bool

	saveHook engine.EventWithArg[*engine.Scene]
	hookID   int
	hooked   *engine.Scene
}

// SessionConfig collects a session's collaborators. Registry and Loader
// are required; the rest have defaults.
type SessionConfig struct {
	Scene     *engine.Scene
	Destroyer Destroyer
	Registry  Registry
	Loader    Loader
	Store     *Store
	NewID     IDFunc
	Logger    *log.Logger
}

func NewSession(cfg SessionConfig) *Session {
	logger := orDefault(cfg.Logger)
	store := cfg.Store
	if store == nil {
		store = NewStore(".", DefaultExtension, logger)
	}
	destroyer := cfg.Destroyer
	if destroyer == nil && cfg.Scene != nil {
		destroyer = cfg.Scene
	}
	cache := NewCache(destroyer)
	return &Session{
		scene:   cfg.Scene,
		store:   store,
		scanner: NewScanner(cfg.Registry, cfg.NewID, logger),
		spawner: NewSpawner(cfg.Loader, cache, logger),
		cache:   cache,
		logger:  logger,
	}
}

func (s *Session) sceneName() string {
	if s.scene == nil {
		return ""
	}
	return s.scene.Name
}

func (s *Session) objects() []*engine.GameObject {
	if s.scene == nil {
		return nil
	}
	return s.scene.Objects()
}

// Records returns a copy of the current records.
func (s *Session) Records() []Record {
	return append([]Record(nil), s.manifest.Records...)
}

func (s *Session) AssetKeys() []string {
	return append([]string(nil), s.manifest.AssetKeys...)
}

func (s *Session) Cache() *Cache {
	return s.cache
}

func (s *Session) Store() *Store {
	return s.store
}

func (s *Session) Pending() int {
	return s.spawner.Pending()
}

// Scan replaces the records with a fresh scan of the scene. The cache is
// re-seeded with the scanned objects; previously tracked objects are left
// in the scene.
func (s *Session) Scan() int {
	res := s.scanner.Scan(s.objects())
	keys := s.manifest.AssetKeys
	s.manifest = res.Manifest
	for _, k := range keys {
		s.manifest.AddKey(k)
	}
	s.cache.Forget()
	for id, g := range res.Tracked {
		s.cache.Put(id, g)
	}
	s.synced = true
	return len(s.manifest.Records)
}

// Rescan reconciles the records with the scene, keeping the identities of
// tracked objects and of instantiations still in flight.
func (s *Session) Rescan() int {
	s.manifest = s.scanner.Rescan(s.objects(), s.manifest, s.cache, s.spawner.IsPending)
	s.synced = true
	return len(s.manifest.Records)
}

// Adopt tracks untracked scene objects under held records whose asset key
// and transform match exactly. Hosts that rebuild a scene from its file
// call it after Load so a following Rescan keeps the saved identities.
func (s *Session) Adopt() int {
	taken := make(map[*engine.GameObject]bool)
	for _, id := range s.cache.IDs() {
		if g, ok := s.cache.Get(id); ok {
			taken[g] = true
		}
	}

	n := 0
	objects := s.objects()
	for _, rec := range s.manifest.Records {
		if _, ok := s.cache.Get(rec.ID); ok {
			continue
		}
		for _, g := range objects {
			if taken[g] {
				continue
			}
			if key, ok := s.scanner.addressable(g); !ok || key != rec.AssetKey {
				continue
			}
			var cur Record
			cur.Capture(g)
			if cur.Position() != rec.Position() || cur.Rotation() != rec.Rotation() || cur.Scale() != rec.Scale() {
				continue
			}
			s.cache.Put(rec.ID, g)
			taken[g] = true
			n++
			break
		}
	}
	return n
}

// UpdateTransforms copies the transforms of live tracked objects into
// their records and returns how many were updated.
func (s *Session) UpdateTransforms() int {
	n := 0
	for i := range s.manifest.Records {
		rec := &s.manifest.Records[i]
		if g, ok := s.cache.Get(rec.ID); ok {
			rec.Capture(g)
			n++
		}
	}
	return n
}

func (s *Session) Save() error {
	if err := s.manifest.Validate(); err != nil {
		s.logger.Printf("error: refusing to save %s: %v", s.sceneName(), err)
		return err
	}
	if err := s.store.Save(s.sceneName(), s.manifest.Records); err != nil {
		s.logger.Printf("error: saving %s: %v", s.sceneName(), err)
		return err
	}
	return nil
}

// Load reads the scene's data file. A missing file logs a warning and
// yields no records; an unreadable or corrupt file logs an error and yields
// the records already held. In both cases the held records are unchanged.
// On success the loaded records replace the held ones.
func (s *Session) Load() []Record {
	path := s.store.Path(s.sceneName())
	records, err := s.store.Load(s.sceneName())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Printf("warning: no saved data file found at %s", path)
		s.synced = true
		return []Record{}
	case err != nil:
		s.logger.Printf("error: loading assets: %v", err)
		return s.Records()
	}

	m := Manifest{Records: records, AssetKeys: s.manifest.AssetKeys}
	if err := m.Validate(); err != nil {
		s.logger.Printf("error: loading assets: %v", err)
		return s.Records()
	}
	m.RebuildKeys()
	s.manifest = m
	s.synced = true
	s.logger.Printf("loaded %d assets from %s", len(records), path)
	return s.Records()
}

// Resync reconciles live objects with the held records.
func (s *Session) Resync(ctx context.Context) Report {
	report := s.spawner.Reconcile(ctx, s.manifest.Records)
	s.logger.Printf("resync %s: %d updated, %d created, %d destroyed, %d cancelled",
		s.sceneName(), len(report.Updated), len(report.Created), len(report.Destroyed), len(report.Cancelled))
	return report
}

// InstantiateFromData materialises the held records, reusing objects that
// are already live.
func (s *Session) InstantiateFromData(ctx context.Context) Report {
	return s.Resync(ctx)
}

// Start is the runtime entry point: load the data file and instantiate it.
func (s *Session) Start(ctx context.Context) Report {
	s.Load()
	return s.Resync(ctx)
}

// Clear cancels in-flight instantiations and destroys every tracked
// object. The records are kept.
func (s *Session) Clear() {
	s.spawner.CancelAll()
	s.cache.Clear()
}

// AttachSaveHook subscribes to a scene's BeforeSave event so that
// transforms are flushed to the data file before the scene is written.
// The hook does nothing until the session has loaded or scanned, so an
// unread data file is never replaced.
func (s *Session) AttachSaveHook(scene *engine.Scene) {
	s.DetachSaveHook()
	s.hooked = scene
	s.hookID = scene.BeforeSave.AddListener(func(*engine.Scene) {
		if !s.synced {
			s.logger.Printf("warning: %s data not loaded or scanned, leaving %s untouched", s.sceneName(), s.store.Path(s.sceneName()))
			return
		}
		s.UpdateTransforms()
		if err := s.Save(); err == nil {
			s.saveHook.Invoke(scene)
		}
	})
}

func (s *Session) DetachSaveHook() {
	if s.hooked != nil {
		s.hooked.BeforeSave.RemoveListener(s.hookID)
		s.hooked = nil
	}
}

// Saved fires after the before-save hook has written the data file.
func (s *Session) Saved() *engine.EventWithArg[*engine.Scene] {
	return &s.saveHook
}

// Close ends the session: the save hook is detached and tracked objects
// are destroyed.
func (s *Session) Close() {
	s.DetachSaveHook()
	s.Clear()
}

package scenedata

import (
	"context"
	"errors"
	"log"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/assets"
	"addrscene/internal/engine"
)

// Loader starts asynchronous instantiation of an asset by key. The created
// object is placed at position and rotation; scale is the caller's job.
type Loader interface {
	InstantiateAsync(ctx context.Context, key string, position rl.Vector3, rotation rl.Quaternion) *assets.Operation
}

// request is one in-flight instantiation. rec is the latest desired
// record for the identity and is applied in full on completion.
type request struct {
	cancel context.CancelFunc
	op     *assets.Operation
	rec    Record
}

// Spawner materialises records into live objects and keeps the identity
// cache in step with a desired record list. All methods, and the
// completion handlers it installs, run on the main goroutine.
type Spawner struct {
	loader  Loader
	cache   *Cache
	logger  *log.Logger
	pending map[string]*request
}

func NewSpawner(loader Loader, cache *Cache, logger *log.Logger) *Spawner {
	return &Spawner{
		loader:  loader,
		cache:   cache,
		logger:  orDefault(logger),
		pending: make(map[string]*request),
	}
}

// Report lists the identities touched by a reconciliation.
type Report struct {
	Updated   []string
	Created   []string
	Destroyed []string
	Cancelled []string
}

func (r Report) Empty() bool {
	return len(r.Updated)+len(r.Created)+len(r.Destroyed)+len(r.Cancelled) == 0
}

// Spawn requests an instance for rec. The request keeps its own copy of
// rec, so later edits to the caller's record do not leak into it; only
// Reconcile replaces it. Spawning an identity that is already in flight
// cancels the earlier request.
func (s *Spawner) Spawn(ctx context.Context, rec Record) {
	s.Cancel(rec.ID)

	reqCtx, cancel := context.WithCancel(ctx)
	req := &request{cancel: cancel, rec: rec}
	s.pending[rec.ID] = req

	req.op = s.loader.InstantiateAsync(reqCtx, rec.AssetKey, rec.Position(), rec.Rotation())
	req.op.OnCompleted(func(op *assets.Operation) {
		s.complete(req, op)
	})
}

func (s *Spawner) complete(req *request, op *assets.Operation) {
	rec := req.rec
	req.cancel()
	if s.pending[rec.ID] == req {
		delete(s.pending, rec.ID)
	}

	g, err := op.Result()
	if errors.Is(err, context.Canceled) {
		s.logger.Printf("cancelled instantiation of %s for %s", rec.AssetKey, rec.ID)
		return
	}
	if err != nil {
		s.logger.Printf("error: failed to instantiate %s for %s: %v", rec.AssetKey, rec.ID, err)
		return
	}
	if !engine.Alive(g) {
		s.logger.Printf("error: instance of %s for %s was destroyed before completion", rec.AssetKey, rec.ID)
		return
	}

	rec.Apply(g)
	if old, ok := s.cache.Get(rec.ID); ok && old != g {
		s.cache.Destroy(rec.ID)
	}
	s.cache.Put(rec.ID, g)
	s.logger.Printf("instantiated %s as %s", g.Name, rec.ID)
}

// Cancel aborts the in-flight request for id, if any. The request still
// completes, with a cancellation error, and creates no object.
func (s *Spawner) Cancel(id string) bool {
	req, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	req.cancel()
	return true
}

func (s *Spawner) CancelAll() []string {
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s.Cancel(id)
	}
	return ids
}

func (s *Spawner) Pending() int {
	return len(s.pending)
}

func (s *Spawner) IsPending(id string) bool {
	_, ok := s.pending[id]
	return ok
}

// Reconcile makes the cache match records. Tracked live identities are
// updated in place. Identities in flight take the new record on
// completion, or are spawned again if their asset changed. The rest are
// spawned. Tracked identities missing from records are destroyed and
// evicted; in-flight ones are cancelled.
func (s *Spawner) Reconcile(ctx context.Context, records []Record) Report {
	var report Report
	want := make(map[string]bool, len(records))

	for _, rec := range records {
		if want[rec.ID] {
			s.logger.Printf("warning: duplicate record id %s skipped", rec.ID)
			continue
		}
		want[rec.ID] = true

		if g, ok := s.cache.Get(rec.ID); ok {
			rec.Apply(g)
			report.Updated = append(report.Updated, rec.ID)
			continue
		}
		if req, ok := s.pending[rec.ID]; ok && req.rec.AssetKey == rec.AssetKey {
			if req.rec != rec {
				req.rec = rec
				report.Updated = append(report.Updated, rec.ID)
			}
			continue
		}
		s.Spawn(ctx, rec)
		report.Created = append(report.Created, rec.ID)
	}

	for _, id := range s.cache.IDs() {
		if want[id] {
			continue
		}
		if s.cache.Destroy(id) {
			report.Destroyed = append(report.Destroyed, id)
		}
	}
	for id := range s.pending {
		if !want[id] {
			report.Cancelled = append(report.Cancelled, id)
		}
	}
	sort.Strings(report.Cancelled)
	for _, id := range report.Cancelled {
		s.Cancel(id)
	}
	return report
}

package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"addrscene/internal/engine"
)

var (
	ErrUnknownAsset   = errors.New("unknown asset")
	ErrNotAddressable = errors.New("asset is not addressable")
	ErrLoaderNotReady = errors.New("loader has no world")
)

// LoadError describes a failed instantiation of a keyed asset.
type LoadError struct {
	Key  string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("instantiate %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("instantiate %s (%s): %v", e.Key, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Operation is the handle of one asynchronous instantiation. It completes
// exactly once, on the main queue.
type Operation struct {
	Key string

	mu        sync.Mutex
	done      chan struct{}
	finished  bool
	result    *engine.GameObject
	err       error
	completed []func(*Operation)
}

// NewOperation returns a pending operation. Loaders complete it with
// Complete on the main goroutine.
func NewOperation(key string) *Operation {
	return &Operation{Key: key, done: make(chan struct{})}
}

// Done is closed when the operation has completed.
func (op *Operation) Done() <-chan struct{} {
	return op.done
}

// Result returns the instantiated object or the failure. Before completion
// both are nil.
func (op *Operation) Result() (*engine.GameObject, error) {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.result, op.err
}

func (op *Operation) IsDone() bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.finished
}

// OnCompleted registers fn to run when the operation completes. If it has
// completed already fn runs immediately.
func (op *Operation) OnCompleted(fn func(*Operation)) {
	op.mu.Lock()
	if !op.finished {
		op.completed = append(op.completed, fn)
		op.mu.Unlock()
		return
	}
	op.mu.Unlock()
	fn(op)
}

// Complete resolves the operation and runs its completion handlers. Only
// the first call has an effect.
func (op *Operation) Complete(g *engine.GameObject, err error) {
	op.mu.Lock()
	if op.finished {
		op.mu.Unlock()
		return
	}
	op.finished = true
	op.result = g
	op.err = err
	callbacks := op.completed
	op.completed = nil
	close(op.done)
	op.mu.Unlock()

	for _, fn := range callbacks {
		fn(op)
	}
}

// Loader instantiates addressable prefabs by key. Prefab files are read on
// a worker goroutine; the object itself is created on the main queue so the
// scene is only touched by its owner.
type Loader struct {
	catalog *Catalog
	prefabs *PrefabCache
	queue   *engine.MainQueue
	world   engine.WorldAccess
}

func NewLoader(catalog *Catalog, prefabs *PrefabCache, queue *engine.MainQueue, world engine.WorldAccess) *Loader {
	if prefabs == nil {
		prefabs = NewPrefabCache()
	}
	return &Loader{
		catalog: catalog,
		prefabs: prefabs,
		queue:   queue,
		world:   world,
	}
}

// InstantiateAsync requests an instance of the asset behind key, placed at
// position and rotation. Scale is left at the prefab's own value. If ctx
// ends before the object is created the operation fails with ctx.Err() and
// no object is created.
func (l *Loader) InstantiateAsync(ctx context.Context, key string, position rl.Vector3, rotation rl.Quaternion) *Operation {
	op := NewOperation(key)

	path, ok := l.catalog.PathFor(key)
	if !ok {
		l.queue.Post(func() { op.Complete(nil, &LoadError{Key: key, Err: ErrUnknownAsset}) })
		return op
	}
	if !l.catalog.IsRegistered(key) {
		l.queue.Post(func() { op.Complete(nil, &LoadError{Key: key, Path: path, Err: ErrNotAddressable}) })
		return op
	}

	go func() {
		def, err := l.prefabs.Load(l.catalog.AbsPath(path))
		l.queue.Post(func() {
			if err != nil {
				op.Complete(nil, &LoadError{Key: key, Path: path, Err: err})
				return
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				op.Complete(nil, &LoadError{Key: key, Path: path, Err: ctxErr})
				return
			}
			if l.world == nil {
				op.Complete(nil, &LoadError{Key: key, Path: path, Err: ErrLoaderNotReady})
				return
			}

			g := def.Build(path)
			g.Transform.Position = position
			g.Transform.Rotation = rotation
			l.world.SpawnObject(g)
			op.Complete(g, nil)
		})
	}()
	return op
}

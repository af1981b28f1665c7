package editor

import (
	"addrscene/internal/engine"
)

const maxUndoStack = 50

// UndoState captures an object's transform before an edit. The object is
// looked up by UID, so steps for objects that left the scene resolve to
// nothing.
type UndoState struct {
	UID       uint64
	Transform engine.Transform
}

// pushUndo saves the current transform state of the selected object
func (e *Editor) pushUndo() {
	if e.Selected == nil {
		return
	}
	if len(e.undoStack) >= maxUndoStack {
		e.undoStack = e.undoStack[1:]
	}
	e.undoStack = append(e.undoStack, UndoState{
		UID:       e.Selected.UID,
		Transform: e.Selected.Transform,
	})
}

// undo restores the last saved state. Steps for destroyed objects are
// skipped.
func (e *Editor) undo() bool {
	for len(e.undoStack) > 0 {
		state := e.undoStack[len(e.undoStack)-1]
		e.undoStack = e.undoStack[:len(e.undoStack)-1]

		g := e.world.Scene.FindByUID(state.UID)
		if !engine.Alive(g) {
			continue
		}
		g.Transform = state.Transform
		e.Selected = g
		return true
	}
	return false
}

// pruneUndo drops steps whose objects no longer exist.
func (e *Editor) pruneUndo() {
	kept := e.undoStack[:0]
	for _, s := range e.undoStack {
		if engine.Alive(e.world.Scene.FindByUID(s.UID)) {
			kept = append(kept, s)
		}
	}
	e.undoStack = kept
}

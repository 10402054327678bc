package history

import (
	"sync"

	"github.com/jscyril/golang_timeline_editor/api"
)

// DefaultDepth is the number of undo steps kept when none is configured
const DefaultDepth = 20

// Manager keeps bounded undo and redo stacks of document snapshots.
// Snapshots are deep copies, so later edits never reach into history.
type Manager struct {
	undo  []*api.Document
	redo  []*api.Document
	depth int
	mu    sync.Mutex
}

// NewManager creates an empty history holding at most depth undo steps
func NewManager(depth int) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Manager{
		undo:  make([]*api.Document, 0, depth),
		redo:  make([]*api.Document, 0, depth),
		depth: depth,
	}
}

// Push records the document as it was before an edit and clears redo.
// The oldest snapshot is dropped once the depth is reached.
func (m *Manager) Push(before *api.Document) {
	if before == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.undo = append(m.undo, before.Clone())
	if len(m.undo) > m.depth {
		m.undo = m.undo[len(m.undo)-m.depth:]
	}
	m.redo = m.redo[:0]
}

// Undo returns the previous snapshot and saves current for redo. With
// nothing to undo it returns current and false.
func (m *Manager) Undo(current *api.Document) (*api.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.undo) == 0 {
		return current, false
	}
	prev := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, current.Clone())
	return prev.Clone(), true
}

// Redo is the mirror of Undo
func (m *Manager) Redo(current *api.Document) (*api.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.redo) == 0 {
		return current, false
	}
	next := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, current.Clone())
	if len(m.undo) > m.depth {
		m.undo = m.undo[len(m.undo)-m.depth:]
	}
	return next.Clone(), true
}

// CanUndo reports whether Undo would change the document
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would change the document
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Len returns the number of undo steps
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo)
}

// Clear drops both stacks
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = m.undo[:0]
	m.redo = m.redo[:0]
}

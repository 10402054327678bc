package history

import (
	"reflect"
	"testing"

	"github.com/jscyril/golang_timeline_editor/api"
)

func docWithClips(n int) *api.Document {
	doc := api.NewDocument()
	track := &api.Track{ID: "t1", Volume: 1, Clips: []*api.Clip{}}
	for i := 0; i < n; i++ {
		track.Clips = append(track.Clips, &api.Clip{ID: string(rune('a' + i)), StartTime: float64(i), Duration: 1, Gain: 1})
	}
	doc.Tracks = append(doc.Tracks, track)
	return doc
}

func TestUndoRedo(t *testing.T) {
	m := NewManager(5)
	v0 := docWithClips(0)
	v1 := docWithClips(1)

	m.Push(v0)
	if !m.CanUndo() || m.CanRedo() {
		t.Fatal("after Push: want undo available and redo empty")
	}

	got, ok := m.Undo(v1)
	if !ok || !reflect.DeepEqual(got, v0) {
		t.Fatalf("Undo() = %v, %v; want v0", got, ok)
	}
	if !m.CanRedo() {
		t.Error("CanRedo() = false after undo")
	}

	got, ok = m.Redo(got)
	if !ok || !reflect.DeepEqual(got, v1) {
		t.Errorf("Redo() = %v, %v; want v1", got, ok)
	}
}

func TestUndoRedo_RoundTrip(t *testing.T) {
	m := NewManager(DefaultDepth)
	x := docWithClips(3)
	m.Push(docWithClips(2))

	u1, _ := m.Undo(x)
	r, _ := m.Redo(u1)
	u2, _ := m.Undo(r)

	if !reflect.DeepEqual(u2, u1) {
		t.Error("undo(redo(undo(x))) != undo(x)")
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	m := NewManager(3)
	doc := docWithClips(1)

	if got, ok := m.Undo(doc); ok || got != doc {
		t.Errorf("Undo() on empty = %v, %v; want the same document and false", got, ok)
	}
	if got, ok := m.Redo(doc); ok || got != doc {
		t.Errorf("Redo() on empty = %v, %v; want the same document and false", got, ok)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(3)
	m.Push(docWithClips(0))
	m.Undo(docWithClips(1))

	m.Push(docWithClips(2))
	if m.CanRedo() {
		t.Error("Push should clear the redo stack")
	}
}

func TestDepthDropsOldest(t *testing.T) {
	m := NewManager(3)
	for i := 0; i < 5; i++ {
		m.Push(docWithClips(i))
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}

	current := docWithClips(5)
	want := []int{4, 3, 2}
	for _, n := range want {
		var ok bool
		current, ok = m.Undo(current)
		if !ok {
			t.Fatal("Undo() = false before the stack was empty")
		}
		if got := current.ClipCount(); got != n {
			t.Errorf("undo restored %d clips, want %d", got, n)
		}
	}
	if _, ok := m.Undo(current); ok {
		t.Error("Undo() past the depth should fail")
	}
}

func TestSnapshotsAreDetached(t *testing.T) {
	m := NewManager(3)
	before := docWithClips(1)
	m.Push(before)

	before.Tracks[0].Clips[0].StartTime = 99

	got, _ := m.Undo(docWithClips(2))
	if got.Tracks[0].Clips[0].StartTime != 0 {
		t.Error("mutating the pushed document changed history")
	}
}

func TestClear(t *testing.T) {
	m := NewManager(0)
	m.Push(docWithClips(0))
	m.Push(docWithClips(1))
	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Error("Clear() left entries behind")
	}
}

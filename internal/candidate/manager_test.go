package candidate

import (
	"testing"

	"github.com/username/khiin-ime/internal/buffer"
	"github.com/username/khiin-ime/internal/store"
)

func buf(word string, isAction bool) *buffer.Buffer {
	b := buffer.New()
	conv := store.Conversion{KeySequence: word, Lomaji: word, IsAction: isAction, ActionID: "more"}
	k := buffer.NewKhiin(conv, false)
	k.SetConverted(true)
	b.Push(k)
	return b
}

func manyCandidates(n int) []*buffer.Buffer {
	var out []*buffer.Buffer
	for i := 0; i < n; i++ {
		out = append(out, buf("w", false))
	}
	return out
}

func TestFocusNextWrapsAcrossPages(t *testing.T) {
	m := NewManager(manyCandidates(10))
	for i := 0; i < 9; i++ {
		m.FocusNext()
	}
	if m.page != 0 || m.focused != 8 {
		t.Fatalf("after 9 FocusNext, page=%d focused=%d", m.page, m.focused)
	}
	m.FocusNext()
	if m.page != 1 || m.focused != 9 {
		t.Fatalf("expected page 1 index 9, got page=%d focused=%d", m.page, m.focused)
	}
	m.FocusNext()
	if m.focused != 0 || m.page != 0 {
		t.Fatalf("expected wraparound to index 0, got focused=%d page=%d", m.focused, m.page)
	}
}

func TestFocusPrevWrapsToLast(t *testing.T) {
	m := NewManager(manyCandidates(10))
	m.FocusPrev()
	if m.focused != 9 || m.page != 1 {
		t.Fatalf("expected wrap to last index 9 on page 1, got focused=%d page=%d", m.focused, m.page)
	}
}

func TestFocusByIndexPageRelative(t *testing.T) {
	m := NewManager(manyCandidates(10))
	m.NextPage()
	if !m.FocusByIndex(0) {
		t.Fatal("expected FocusByIndex(0) to succeed on page 1")
	}
	if m.focused != 9 {
		t.Errorf("focused = %d, want 9", m.focused)
	}
	if m.FocusByIndex(1) {
		t.Error("expected FocusByIndex(1) on page 1 (only 1 candidate) to fail")
	}
}

func TestFocusedIsAction(t *testing.T) {
	m := NewManager([]*buffer.Buffer{buf("a", false), buf("more", true)})
	m.FocusByIndex(1)
	if !m.FocusedIsAction() {
		t.Error("expected focused candidate to be an action")
	}
}

func TestExpandActionRejectsNonAction(t *testing.T) {
	m := NewManager([]*buffer.Buffer{buf("a", false)})
	m.FocusByIndex(0)
	if m.ExpandAction([]*buffer.Buffer{buf("b", false)}) {
		t.Error("expected ExpandAction to refuse when focus is not an action")
	}
}

func TestExpandActionResetsState(t *testing.T) {
	m := NewManager([]*buffer.Buffer{buf("more", true)})
	m.FocusByIndex(0)
	expanded := []*buffer.Buffer{buf("x", false), buf("y", false)}
	if !m.ExpandAction(expanded) {
		t.Fatal("expected ExpandAction to succeed")
	}
	if m.Len() != 2 || m.focused != -1 || m.page != 0 {
		t.Errorf("unexpected state after expand: len=%d focused=%d page=%d", m.Len(), m.focused, m.page)
	}
}

func TestPageCountEmpty(t *testing.T) {
	m := NewManager(nil)
	if m.PageCount() != 1 {
		t.Errorf("PageCount() for empty manager = %d, want 1", m.PageCount())
	}
	if m.Page() != nil {
		t.Error("expected nil page for empty manager")
	}
}

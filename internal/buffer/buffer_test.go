package buffer

import (
	"testing"

	"github.com/username/khiin-ime/internal/store"
)

func TestPushAndRawText(t *testing.T) {
	b := New()
	b.Push(NewPlain("a"))
	b.Push(NewPlain("b"))
	if got := b.RawText(); got != "ab" {
		t.Errorf("RawText() = %q, want %q", got, "ab")
	}
}

func TestBuildPreeditComposing(t *testing.T) {
	b := New()
	b.Push(NewPlain("a"))
	pre := b.BuildPreedit()
	if len(pre.Segments) != 1 || pre.Segments[0].Status != SegComposing {
		t.Fatalf("unexpected preedit: %+v", pre)
	}
	if pre.Segments[0].Value != "a" {
		t.Errorf("segment value = %q", pre.Segments[0].Value)
	}
}

func TestBuildPreeditFocused(t *testing.T) {
	b := New()
	conv := store.Conversion{KeySequence: "a2", Lomaji: "á"}
	k := NewKhiin(conv, false)
	k.SetConverted(true)
	b.Push(k)
	focus := 0
	b.FocusedElementIndex = &focus
	pre := b.BuildPreedit()
	if pre.Segments[0].Status != Focused {
		t.Errorf("expected Focused status, got %v", pre.Segments[0].Status)
	}
}

func TestSpacerAlwaysUnmarked(t *testing.T) {
	b := New()
	conv := store.Conversion{KeySequence: "a2", Lomaji: "á"}
	k1 := NewKhiin(conv, false)
	k1.SetConverted(true)
	k2 := NewKhiin(conv, false)
	k2.SetConverted(true)
	b.Push(k1)
	b.Push(NewSpacer())
	b.Push(k2)
	pre := b.BuildPreedit()
	if pre.Segments[1].Status != Unmarked || pre.Segments[1].Value != " " {
		t.Errorf("spacer segment = %+v, want Unmarked single space", pre.Segments[1])
	}
}

func TestEraseBeforeCaretPlain(t *testing.T) {
	b := New()
	b.Push(NewPlain("abc"))
	b.EraseBeforeCaret()
	if b.RawText() != "ab" {
		t.Errorf("RawText() = %q, want %q", b.RawText(), "ab")
	}
}

func TestEraseBeforeCaretDecomposesKhiin(t *testing.T) {
	b := New()
	conv := store.Conversion{KeySequence: "a2", Lomaji: "á"}
	k := NewKhiin(conv, false)
	k.SetConverted(true)
	b.Push(k)
	if b.Caret != 1 {
		t.Fatalf("expected caret at 1 after push, got %d", b.Caret)
	}
	b.EraseBeforeCaret()
	if len(b.Elements) != 1 {
		t.Fatalf("expected element to collapse to Plain, got %d elements", len(b.Elements))
	}
	if _, isPlain := b.Elements[0].(*Plain); !isPlain {
		t.Errorf("expected decomposed element to become Plain, got %T", b.Elements[0])
	}
}

func TestKhiinCaretMappingRoundTrip(t *testing.T) {
	conv := store.Conversion{KeySequence: "a2", Lomaji: "á"}
	k := NewKhiin(conv, false)
	if got := k.RawCaretFrom(0); got != 0 {
		t.Errorf("RawCaretFrom(0) = %d, want 0", got)
	}
	if got := k.RawCaretFrom(1); got != 2 {
		t.Errorf("RawCaretFrom(1) = %d, want 2 (full raw length)", got)
	}
	if got := k.CaretFrom(0); got != 0 {
		t.Errorf("CaretFrom(0) = %d, want 0", got)
	}
	if got := k.CaretFrom(2); got != 1 {
		t.Errorf("CaretFrom(2) = %d, want 1", got)
	}
}

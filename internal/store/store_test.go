package store

import (
	"testing"

	"github.com/username/khiin-ime/internal/khiinji"
)

func testStore() *MapConversionStore {
	s := NewMapConversionStore()
	s.Add(khiinji.Numeric, "a", Conversion{KeySequence: "a", Lomaji: "a", Hanji: "阿", Weight: 1})
	s.Add(khiinji.Numeric, "a", Conversion{KeySequence: "a", Lomaji: "a", Hanji: "亞", Weight: 5})
	s.Add(khiinji.Numeric, "ia7", Conversion{KeySequence: "ia7", Lomaji: "iā", Hanji: "掖", Weight: 3})
	s.AddAction("more_a", []Conversion{{KeySequence: "a", Lomaji: "a", Hanji: "啊", Weight: 0}})
	return s
}

func TestSelectConversionsRanked(t *testing.T) {
	s := testStore()
	got, err := s.SelectConversions(khiinji.Numeric, "a", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Hanji != "亞" {
		t.Fatalf("expected highest-weight conversion first, got %+v", got)
	}
}

func TestSelectConversionsLimit(t *testing.T) {
	s := testStore()
	limit := 1
	got, err := s.SelectConversions(khiinji.Numeric, "a", &limit)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 conversion, got %d", len(got))
	}
}

func TestSelectConversionsForMultipleStableOrder(t *testing.T) {
	s := testStore()
	got, err := s.SelectConversionsForMultiple(khiinji.Numeric, []string{"a", "ia7"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 conversions (2 for a, 1 for ia7), got %d", len(got))
	}
	if got[0].Hanji != "亞" || got[2].Hanji != "掖" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestExpandActionUnknown(t *testing.T) {
	s := testStore()
	if _, err := s.ExpandAction("nope"); err == nil {
		t.Error("expected error for unknown action id")
	}
}

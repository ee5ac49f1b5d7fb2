package dict

import "testing"

func testDict() *MapDictionary {
	return NewMapDictionary([]string{"a", "ah", "ia", "ian", "i", "an", "b", "ba"})
}

func TestCanSegmentEmpty(t *testing.T) {
	d := testDict()
	if !d.CanSegment("") {
		t.Error("CanSegment(\"\") should be true (P6)")
	}
}

func TestCanSegment(t *testing.T) {
	d := testDict()
	tests := []struct {
		suffix string
		want   bool
	}{
		{"a", true},
		{"ia", true},
		{"ian", true},
		{"ban", true}, // b + an
		{"xyz", false},
	}
	for _, tt := range tests {
		if got := d.CanSegment(tt.suffix); got != tt.want {
			t.Errorf("CanSegment(%q) = %v, want %v", tt.suffix, got, tt.want)
		}
	}
}

func TestAllWordsFromStart(t *testing.T) {
	d := testDict()
	got := d.AllWordsFromStart("ian")
	want := map[string]bool{"ia": true, "ian": true, "i": true}
	if len(got) != len(want) {
		t.Fatalf("AllWordsFromStart(\"ian\") = %v, want keys %v", got, want)
	}
	for _, w := range got {
		if !want[w] {
			t.Errorf("unexpected word %q", w)
		}
	}
}

func TestSegmentLongestMatch(t *testing.T) {
	d := testDict()
	got, err := d.Segment("ban")
	if err != nil {
		t.Fatalf("Segment error: %v", err)
	}
	// "ba" is the longest word at the start, but its remainder "n" cannot
	// be segmented, so segmentation backtracks to "b" + "an".
	want := []string{"b", "an"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Segment(\"ban\") = %v, want %v", got, want)
	}
}

func TestSegmentUnsegmentable(t *testing.T) {
	d := testDict()
	if _, err := d.Segment("xyz"); err == nil {
		t.Error("expected error for unsegmentable input")
	}
}

package buffer

import (
	"sort"

	"github.com/username/khiin-ime/internal/store"
)

// Khiin is a converted unit carrying a key-sequence (raw), a composed
// Romanized form, a chosen display form (Romanized or Han), and a
// per-codepoint mapping between raw and display indices (spec.md §3,
// §4.5).
type Khiin struct {
	raw      string
	composed string
	display  string
	source   store.Conversion
	converted bool
	selected  bool

	// rawFromDisp[d] is the raw-space caret that display-space caret d
	// maps to; monotonic non-decreasing, rawFromDisp[0] == 0,
	// rawFromDisp[len] == rune count of raw. Precomputed once at
	// construction (spec.md §9, "Raw↔display caret mapping") since tone
	// digits/letters collapse many-to-one onto a single diacritic.
	rawFromDisp []int
}

// NewKhiin builds a Khiin element from a dictionary conversion. hanji
// selects whether the display form is the Hanji or Lomaji rendering.
func NewKhiin(conv store.Conversion, hanji bool) *Khiin {
	display := conv.Display(hanji)
	rawLen := len([]rune(conv.KeySequence))
	dispLen := len([]rune(display))

	k := &Khiin{
		raw:      conv.KeySequence,
		composed: conv.Lomaji,
		display:  display,
		source:   conv,
	}
	k.rawFromDisp = buildCaretMap(rawLen, dispLen)
	return k
}

// buildCaretMap precomputes the monotonic raw-caret-per-display-caret
// step function described in spec.md §9. khiinji only ever appends
// tone/khin keys to the end of RawInput (ApplyTelexKey,
// ApplyNumericDigit), so raw and display runes walk in lockstep up to
// the point display runs out; the remaining raw runes (the collapsed
// tone/khin keys) all map to the tail.
func buildCaretMap(rawLen, dispLen int) []int {
	if dispLen == 0 {
		return []int{0}
	}
	m := make([]int, dispLen+1)
	for d := 0; d < dispLen; d++ {
		m[d] = d
	}
	m[dispLen] = rawLen
	return m
}

func (k *Khiin) RawText() string        { return k.raw }
func (k *Khiin) RawCharCount() int      { return len([]rune(k.raw)) }
func (k *Khiin) ComposedText() string   { return k.composed }
func (k *Khiin) ComposedCharCount() int { return len([]rune(k.composed)) }
func (k *Khiin) DisplayText() string    { return k.display }
func (k *Khiin) DisplayCharCount() int  { return len([]rune(k.display)) }

func (k *Khiin) RawCaretFrom(displayCaret int) int {
	if displayCaret < 0 {
		displayCaret = 0
	}
	if displayCaret >= len(k.rawFromDisp) {
		displayCaret = len(k.rawFromDisp) - 1
	}
	return k.rawFromDisp[displayCaret]
}

func (k *Khiin) CaretFrom(rawCaret int) int {
	// Largest display caret d such that rawFromDisp[d] <= rawCaret.
	d := sort.Search(len(k.rawFromDisp), func(i int) bool {
		return k.rawFromDisp[i] > rawCaret
	})
	if d == 0 {
		return 0
	}
	return d - 1
}

func (k *Khiin) SetConverted(v bool)          { k.converted = v }
func (k *Khiin) IsConverted() bool            { return k.converted }
func (k *Khiin) SetSelected(v bool)           { k.selected = v }
func (k *Khiin) IsSelected() bool             { return k.selected }
func (k *Khiin) Candidate() *store.Conversion { return &k.source }

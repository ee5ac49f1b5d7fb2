package buffer

import "strings"

// EditState is the composition buffer's lifecycle state (spec.md §3,
// §4.9).
type EditState int

const (
	Empty EditState = iota
	Composing
	Converted
	Selecting
	Illegal
)

// SegmentStatus maps to a host underline style (spec.md §6).
type SegmentStatus int

const (
	Unmarked SegmentStatus = iota
	SegComposing
	SegConverted
	Focused
)

// Segment is one displayed run of the preedit (spec.md §3).
type Segment struct {
	Value  string
	Status SegmentStatus
}

// Preedit is the derived, host-facing view of a Buffer (spec.md §3).
type Preedit struct {
	Segments     []Segment
	Caret        int
	FocusedCaret int
}

// Buffer is the ordered sequence of elements plus caret/focus/state
// (spec.md §3, §4.6).
type Buffer struct {
	Elements            []Element
	Caret               int
	FocusedElementIndex *int
	EditState           EditState
}

// New creates an empty composition buffer.
func New() *Buffer {
	return &Buffer{EditState: Empty}
}

// Push appends elem to the end of the buffer.
func (b *Buffer) Push(elem Element) {
	b.Elements = append(b.Elements, elem)
	b.Caret = b.totalDisplayLen()
}

// RawText concatenates every element's raw text (P1 invariant).
func (b *Buffer) RawText() string {
	var sb strings.Builder
	for _, e := range b.Elements {
		sb.WriteString(e.RawText())
	}
	return sb.String()
}

// ComposedText concatenates every element's composed text.
func (b *Buffer) ComposedText() string {
	var sb strings.Builder
	for _, e := range b.Elements {
		sb.WriteString(e.ComposedText())
	}
	return sb.String()
}

// DisplayText concatenates every element's display text.
func (b *Buffer) DisplayText() string {
	var sb strings.Builder
	for _, e := range b.Elements {
		sb.WriteString(e.DisplayText())
	}
	return sb.String()
}

func (b *Buffer) totalDisplayLen() int {
	n := 0
	for _, e := range b.Elements {
		n += e.DisplayCharCount()
	}
	return n
}

// IsEmpty reports whether the buffer holds no elements.
func (b *Buffer) IsEmpty() bool {
	return len(b.Elements) == 0
}

// SetConverted marks elements in [from, to) as converted or not
// (spec.md §4.6).
func (b *Buffer) SetConverted(from, to int, converted bool) {
	if from < 0 {
		from = 0
	}
	if to > len(b.Elements) {
		to = len(b.Elements)
	}
	for i := from; i < to; i++ {
		b.Elements[i].SetConverted(converted)
	}
}

// MoveCaret shifts the display-space caret by n, clamped to the
// buffer's total display length.
func (b *Buffer) MoveCaret(n int) {
	b.Caret += n
	if b.Caret < 0 {
		b.Caret = 0
	}
	if max := b.totalDisplayLen(); b.Caret > max {
		b.Caret = max
	}
}

// elementAtDisplayCaret locates the element containing display
// position c-1 (the element whose span ends at or after c), returning
// its index and the offset of c within that element's display text.
func (b *Buffer) elementAtDisplayCaret(c int) (idx int, offset int, ok bool) {
	pos := 0
	for i, e := range b.Elements {
		n := e.DisplayCharCount()
		if c <= pos+n {
			return i, c - pos, true
		}
		pos += n
	}
	return 0, 0, false
}

// EraseBeforeCaret removes one display character immediately before
// the caret. If the caret sits inside a converted (Khiin) element, the
// element is decomposed by one display character via its inverse
// caret map rather than deleted whole (spec.md §9, Open Question #2 —
// resolved in favor of decompose; see DESIGN.md).
func (b *Buffer) EraseBeforeCaret() {
	if b.Caret == 0 || len(b.Elements) == 0 {
		return
	}

	idx, offset, ok := b.elementAtDisplayCaret(b.Caret)
	if !ok {
		return
	}
	if offset == 0 {
		// Caret sits exactly at the start of this element: the
		// character to erase belongs to the previous element.
		idx--
		offset = b.Elements[idx].DisplayCharCount()
	}

	elem := b.Elements[idx]
	newDispLen := offset - 1

	switch e := elem.(type) {
	case *Plain:
		runes := []rune(e.Value)
		e.Value = string(append(runes[:offset-1], runes[offset:]...))
		if e.Value == "" {
			b.removeElement(idx)
		}
	case *Spacer:
		b.removeElement(idx)
	default:
		// Khiin: decompose by display length using the element's own
		// raw-caret mapping, reverting to Plain raw text. Erasing the
		// element's last display character keeps its raw text minus the
		// final keystroke.
		rawRunes := []rune(elem.RawText())
		newRawLen := elem.RawCaretFrom(newDispLen)
		if newRawLen <= 0 {
			newRawLen = len(rawRunes) - 1
		}
		if newRawLen <= 0 {
			b.removeElement(idx)
		} else {
			b.Elements[idx] = NewPlain(string(rawRunes[:newRawLen]))
		}
	}

	b.Caret--
	if b.Caret < 0 {
		b.Caret = 0
	}
}

func (b *Buffer) removeElement(idx int) {
	b.Elements = append(b.Elements[:idx], b.Elements[idx+1:]...)
}

// SplitAtCaret splits the Plain element containing the caret into two
// elements at the caret position, a no-op if the caret already sits on
// an element boundary (spec.md §4.6).
func (b *Buffer) SplitAtCaret() {
	idx, offset, ok := b.elementAtDisplayCaret(b.Caret)
	if !ok || offset == 0 || offset == b.Elements[idx].DisplayCharCount() {
		return
	}
	p, isPlain := b.Elements[idx].(*Plain)
	if !isPlain {
		return
	}
	runes := []rune(p.Value)
	left := NewPlain(string(runes[:offset]))
	right := NewPlain(string(runes[offset:]))
	b.Elements = append(b.Elements[:idx], append([]Element{left, right}, b.Elements[idx+1:]...)...)
}

// InsertAtCaret inserts ch into the Plain element at the caret,
// creating a new trailing Plain element if the buffer is empty or the
// caret sits at the very end after a non-Plain element.
func (b *Buffer) InsertAtCaret(ch rune) {
	if len(b.Elements) == 0 {
		b.Push(NewPlain(string(ch)))
		return
	}
	idx, offset, ok := b.elementAtDisplayCaret(b.Caret)
	if !ok {
		idx = len(b.Elements) - 1
		offset = b.Elements[idx].DisplayCharCount()
	}
	if p, isPlain := b.Elements[idx].(*Plain); isPlain {
		runes := []rune(p.Value)
		var sb strings.Builder
		sb.WriteString(string(runes[:offset]))
		sb.WriteRune(ch)
		sb.WriteString(string(runes[offset:]))
		p.Value = sb.String()
	} else if offset == b.Elements[idx].DisplayCharCount() {
		b.Elements = append(b.Elements[:idx+1], append([]Element{NewPlain(string(ch))}, b.Elements[idx+1:]...)...)
	}
	b.Caret++
}

// BuildPreedit concatenates element display text and attaches
// per-segment status (spec.md §4.6).
func (b *Buffer) BuildPreedit() Preedit {
	var segs []Segment
	for i, e := range b.Elements {
		status := statusFor(e, b.FocusedElementIndex, i)
		segs = append(segs, Segment{Value: e.DisplayText(), Status: status})
	}

	focusedCaret := 0
	if b.FocusedElementIndex != nil {
		pos := 0
		for i, e := range b.Elements {
			if i == *b.FocusedElementIndex {
				focusedCaret = pos
				break
			}
			pos += e.DisplayCharCount()
		}
	}

	return Preedit{Segments: segs, Caret: b.Caret, FocusedCaret: focusedCaret}
}

func statusFor(e Element, focused *int, i int) SegmentStatus {
	if _, isSpacer := e.(*Spacer); isSpacer {
		return Unmarked
	}
	if focused != nil && *focused == i {
		return Focused
	}
	if e.IsConverted() {
		return SegConverted
	}
	return SegComposing
}

// Package buffer implements the composition buffer: a heterogeneous,
// ordered sequence of tagged elements plus caret/focus/edit-state
// bookkeeping (spec.md §3, §4.5, §4.6).
package buffer

import "github.com/username/khiin-ime/internal/store"

// Element is the shared operation set every buffer element variant
// implements (spec.md §4.5, §9 "Heterogeneous element polymorphism").
type Element interface {
	RawText() string
	RawCharCount() int

	ComposedText() string
	ComposedCharCount() int

	DisplayText() string
	DisplayCharCount() int

	// RawCaretFrom maps a display-space caret to raw-space.
	RawCaretFrom(displayCaret int) int
	// CaretFrom maps a raw-space caret to display-space.
	CaretFrom(rawCaret int) int

	SetConverted(bool)
	IsConverted() bool

	SetSelected(bool)
	IsSelected() bool

	// Candidate returns the source conversion record for a Khiin
	// element, nil for Plain/Spacer. Action candidates are Khiin
	// elements whose Candidate().IsAction is set, not a distinct
	// element variant.
	Candidate() *store.Conversion
}

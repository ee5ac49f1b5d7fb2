package buffer

import "github.com/username/khiin-ime/internal/store"

// Spacer is inserted between converted units for readability: invisible
// to raw, a single-width gap in display (spec.md §3, §4.6).
type Spacer struct{}

// NewSpacer creates a Spacer element.
func NewSpacer() *Spacer { return &Spacer{} }

func (s *Spacer) RawText() string        { return "" }
func (s *Spacer) RawCharCount() int      { return 0 }
func (s *Spacer) ComposedText() string   { return "" }
func (s *Spacer) ComposedCharCount() int { return 0 }
func (s *Spacer) DisplayText() string    { return " " }
func (s *Spacer) DisplayCharCount() int  { return 1 }
func (s *Spacer) RawCaretFrom(c int) int { return 0 }
func (s *Spacer) CaretFrom(c int) int    { return 0 }
func (s *Spacer) SetConverted(bool)      {}
func (s *Spacer) IsConverted() bool      { return false }
func (s *Spacer) SetSelected(bool)       {}
func (s *Spacer) IsSelected() bool       { return false }
func (s *Spacer) Candidate() *store.Conversion { return nil }

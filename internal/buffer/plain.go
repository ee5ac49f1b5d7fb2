package buffer

import "github.com/username/khiin-ime/internal/store"

// Plain is an unconverted run of characters: raw, composed, and
// display text are identical (spec.md §3).
type Plain struct {
	Value    string
	selected bool
}

// NewPlain creates a Plain element holding s.
func NewPlain(s string) *Plain {
	return &Plain{Value: s}
}

func (p *Plain) RawText() string         { return p.Value }
func (p *Plain) RawCharCount() int       { return len([]rune(p.Value)) }
func (p *Plain) ComposedText() string    { return p.Value }
func (p *Plain) ComposedCharCount() int  { return p.RawCharCount() }
func (p *Plain) DisplayText() string     { return p.Value }
func (p *Plain) DisplayCharCount() int   { return p.RawCharCount() }
func (p *Plain) RawCaretFrom(c int) int  { return c }
func (p *Plain) CaretFrom(c int) int     { return c }
func (p *Plain) SetConverted(bool)       {}
func (p *Plain) IsConverted() bool       { return false }
func (p *Plain) SetSelected(v bool)      { p.selected = v }
func (p *Plain) IsSelected() bool        { return p.selected }
func (p *Plain) Candidate() *store.Conversion { return nil }

// Package candidate implements the candidate manager (spec.md §4.8):
// paging and focus over a ranked list of candidate buffers, including
// Action-candidate expansion.
package candidate

import "github.com/username/khiin-ime/internal/buffer"

// PageSize is the number of candidates shown per page (spec.md §3,
// P3 invariant).
const PageSize = 9

// Manager holds the current candidate list plus paging/focus state.
type Manager struct {
	all     []*buffer.Buffer
	focused int // absolute index into all; -1 means no focus
	page    int
}

// NewManager creates a Manager over a freshly produced candidate list,
// with focus and paging reset (spec.md §4.8).
func NewManager(candidates []*buffer.Buffer) *Manager {
	return &Manager{all: candidates, focused: -1, page: 0}
}

// SetCandidates replaces the candidate list wholesale, resetting focus
// and page to their initial state.
func (m *Manager) SetCandidates(candidates []*buffer.Buffer) {
	m.all = candidates
	m.focused = -1
	m.page = 0
}

// Len reports the total candidate count across all pages.
func (m *Manager) Len() int { return len(m.all) }

// PageCount reports the number of pages, at least 1 for an empty list.
func (m *Manager) PageCount() int {
	if len(m.all) == 0 {
		return 1
	}
	return (len(m.all) + PageSize - 1) / PageSize
}

// CurrentPage returns the 0-based index of the current page.
func (m *Manager) CurrentPage() int { return m.page }

// Page returns the candidate buffers on the current page (spec.md
// P3: the page containing index k starts at floor(k/9)*9).
func (m *Manager) Page() []*buffer.Buffer {
	start := m.page * PageSize
	if start >= len(m.all) {
		return nil
	}
	end := start + PageSize
	if end > len(m.all) {
		end = len(m.all)
	}
	return m.all[start:end]
}

// Focused returns the currently focused candidate, or nil if none is
// focused.
func (m *Manager) Focused() *buffer.Buffer {
	if m.focused < 0 || m.focused >= len(m.all) {
		return nil
	}
	return m.all[m.focused]
}

// FocusedIndex returns the page-relative index of the focused
// candidate, or -1 if none is focused or the focus lies outside the
// current page.
func (m *Manager) FocusedIndex() int {
	if m.focused < 0 {
		return -1
	}
	start := m.page * PageSize
	rel := m.focused - start
	if rel < 0 || rel >= PageSize {
		return -1
	}
	return rel
}

// FocusByIndex focuses the i'th candidate (0-based) on the current
// page, as driven by a digit key. Returns false if i is out of range
// for the current page.
func (m *Manager) FocusByIndex(i int) bool {
	if i < 0 || i >= PageSize {
		return false
	}
	abs := m.page*PageSize + i
	if abs >= len(m.all) {
		return false
	}
	m.focused = abs
	return true
}

// FocusNext moves focus to the next candidate, advancing to the next
// page when the current page's last candidate is focused. Wraps to
// the first candidate after the last.
func (m *Manager) FocusNext() {
	if len(m.all) == 0 {
		return
	}
	if m.focused < 0 {
		m.focused = 0
		m.page = 0
		return
	}
	next := m.focused + 1
	if next >= len(m.all) {
		next = 0
	}
	m.focused = next
	m.page = m.focused / PageSize
}

// FocusPrev moves focus to the previous candidate, retreating to the
// previous page when the current page's first candidate is focused.
// Wraps to the last candidate before the first.
func (m *Manager) FocusPrev() {
	if len(m.all) == 0 {
		return
	}
	if m.focused <= 0 {
		m.focused = len(m.all) - 1
	} else {
		m.focused--
	}
	m.page = m.focused / PageSize
}

// NextPage advances to the next page, if there is one. Focus is not
// changed: a focused candidate that lies on another page stays focused,
// and FocusedIndex then reports -1.
func (m *Manager) NextPage() {
	if m.page+1 < m.PageCount() {
		m.page++
	}
}

// PrevPage retreats to the previous page.
func (m *Manager) PrevPage() {
	if m.page > 0 {
		m.page--
	}
}

// FocusedIsAction reports whether the focused candidate is an action
// pseudo-candidate (its first element's conversion has IsAction set)
// rather than a committable conversion (spec.md §3, §4.8).
func (m *Manager) FocusedIsAction() bool {
	b := m.Focused()
	if b == nil || len(b.Elements) == 0 {
		return false
	}
	conv := b.Elements[0].Candidate()
	return conv != nil && conv.IsAction
}

// ExpandAction replaces the candidate list with the expansion of the
// focused Action, resetting page and focus (spec.md §4.8). Callers
// build the replacement list themselves since expansion results must
// be wrapped as buffer.Khiin elements with an output-mode choice the
// manager does not own; this method only validates that the currently
// focused candidate is in fact an Action.
func (m *Manager) ExpandAction(expanded []*buffer.Buffer) bool {
	if !m.FocusedIsAction() {
		return false
	}
	m.SetCandidates(expanded)
	return true
}

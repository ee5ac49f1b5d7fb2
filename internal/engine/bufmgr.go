package engine

import (
	"strings"

	"github.com/username/khiin-ime/internal/buffer"
	"github.com/username/khiin-ime/internal/candidate"
	"github.com/username/khiin-ime/internal/convert"
	"github.com/username/khiin-ime/internal/khiinji"
	"github.com/username/khiin-ime/internal/store"
)

// BufferMgr is the composition state machine (spec.md §4.9): Empty →
// Composing ↔ Converted ↔ Selecting → Empty. It owns the canonical
// raw buffer, the current composition, and the candidate manager, and
// drives all three from keystroke-level operations. The three input
// modes are explicit branches here rather than per-mode subtypes
// (spec.md §9, "Mode logic").
type BufferMgr struct {
	raw   string // canonical raw buffer for Continuous/Classic word composition
	comp  *buffer.Buffer
	cands *candidate.Manager
	conv  *convert.Converter
	cfg   *Config

	manualSyl khiinji.Syllable // Manual mode's single in-progress syllable
}

// NewBufferMgr creates an empty buffer manager bound to conv and the
// given configuration snapshot.
func NewBufferMgr(conv *convert.Converter, cfg *Config) *BufferMgr {
	return &BufferMgr{
		comp:  buffer.New(),
		cands: candidate.NewManager(nil),
		conv:  conv,
		cfg:   cfg,
	}
}

func (m *BufferMgr) settings() convert.Settings {
	return convert.Settings{
		ToneMode:  m.cfg.Tone,
		Hanji:     m.cfg.OutputMode == Hanji,
		Khin:      m.cfg.Khin,
		TelexKeys: m.cfg.TelexKeys,
	}
}

// EditState reports the composition's current lifecycle state.
func (m *BufferMgr) EditState() buffer.EditState { return m.comp.EditState }

// BuildPreedit derives the host-facing preedit view of the current
// composition.
func (m *BufferMgr) BuildPreedit() buffer.Preedit { return m.comp.BuildPreedit() }

// CandidateView derives the host-facing paginated candidate list.
func (m *BufferMgr) CandidateView() CandidateListView {
	page := m.cands.Page()
	items := make([]CandidateItem, 0, len(page))
	for _, b := range page {
		items = append(items, CandidateItem{
			Display:  b.DisplayText(),
			IsAction: m.bufferIsAction(b),
		})
	}
	return CandidateListView{
		Candidates: items,
		Page:       m.cands.CurrentPage() + 1, // 1-based display page, spec.md P3
		PageCount:  m.cands.PageCount(),
		Focused:    m.cands.FocusedIndex(),
	}
}

func (m *BufferMgr) bufferIsAction(b *buffer.Buffer) bool {
	if len(b.Elements) == 0 {
		return false
	}
	conv := b.Elements[0].Candidate()
	return conv != nil && conv.IsAction
}

// Insert consumes one printable character. It returns true if the
// character was rejected (the caller should then commit whatever is
// currently composed), mirroring the Rust source's empty-composition
// signal (spec.md §4.9).
func (m *BufferMgr) Insert(ch rune) bool {
	switch m.cfg.InputMode {
	case Manual:
		return m.insertManual(ch)
	case Classic:
		return m.insertClassic(ch)
	default:
		return m.insertWord(ch)
	}
}

// insertWord drives Continuous mode: every keystroke is immediately
// re-segmented and re-converted (spec.md §4.9).
func (m *BufferMgr) insertWord(ch rune) bool {
	candidateRaw := m.raw + string(ch)
	newComp, err := m.conv.ConvertAll(candidateRaw, m.settings())
	if err != nil || newComp.IsEmpty() {
		if !m.comp.IsEmpty() {
			m.comp.EditState = buffer.Illegal
		}
		return true
	}
	m.raw = candidateRaw
	m.comp = newComp
	if cands, err := m.conv.GetCandidates(m.raw, m.settings()); err == nil {
		m.cands.SetCandidates(cands)
	}
	return false
}

func (m *BufferMgr) insertManual(ch rune) bool {
	m.manualSyl.ApplyTelexKey(ch, m.cfg.TelexKeys)
	m.rebuildManualComp()
	return false
}

// insertClassic drives Classic mode: keystrokes accumulate as a raw,
// unconverted composing run; segmentation and conversion are deferred
// until a trigger key (spec.md §4.9). A Numeric tone digit is the one
// keystroke that is never accumulated literally — it is validated and
// applied via khiinji.Syllable.ApplyNumericDigit, then immediately
// triggers conversion of the run typed so far.
func (m *BufferMgr) insertClassic(ch rune) bool {
	if m.cfg.Tone == khiinji.Numeric && isToneDigit(ch) {
		return m.triggerClassicConversion(ch)
	}
	m.raw += string(ch)
	m.comp = buffer.New()
	m.comp.Push(buffer.NewPlain(m.raw))
	m.comp.EditState = buffer.Composing
	return false
}

// NeedsClassicTrigger reports whether Classic mode has accumulated raw
// keystrokes that have not yet been segmented and converted (spec.md
// §4.9: Classic defers conversion until Space/digit/Enter).
func (m *BufferMgr) NeedsClassicTrigger() bool {
	return m.cfg.InputMode == Classic && m.raw != "" && m.cands.Len() == 0
}

// TriggerConversion runs the deferred Classic-mode segmentation and
// candidate population for a Space/Enter trigger (no tone digit
// involved).
func (m *BufferMgr) TriggerConversion() {
	m.triggerClassicConversion(0)
}

// triggerClassicConversion segments and converts the accumulated raw
// buffer. When digit is a Numeric tone digit, it is first validated
// against the word currently being typed and appended to raw; an
// invalid digit (e.g. '8' with no stop coda) rejects the keystroke,
// matching insertWord's Illegal signal (spec.md §4.9).
//
// Segmentation itself only ever knows toneless dictionary words, so a
// trailing tone digit is stripped before segmenting and re-applied as
// a direct store lookup against the final segmented word (spec.md
// §4.1, §4.3).
func (m *BufferMgr) triggerClassicConversion(digit rune) bool {
	raw := m.raw
	if digit != 0 {
		body := trailingWordBody(raw)
		syl := khiinji.Syllable{RawBody: body, RawInput: body}
		if !syl.ApplyNumericDigit(digit) {
			if !m.comp.IsEmpty() {
				m.comp.EditState = buffer.Illegal
			}
			return true
		}
		raw += string(digit)
	}

	base, toneDigit, hasDigit := splitTrailingToneDigit(raw, m.cfg.Tone)
	comp, err := m.conv.ConvertAll(base, m.settings())
	if err != nil {
		comp = buffer.New()
	}
	if hasDigit && len(comp.Elements) > 0 {
		m.resolveTonedLastElement(comp, toneDigit)
	}
	if !comp.IsEmpty() {
		allConverted := true
		for _, e := range comp.Elements {
			if !e.IsConverted() {
				allConverted = false
				break
			}
		}
		if allConverted {
			comp.EditState = buffer.Converted
		} else {
			comp.EditState = buffer.Composing
		}
	}

	m.raw = raw
	m.comp = comp
	if cands, err := m.conv.GetCandidates(m.raw, m.settings()); err == nil {
		m.cands.SetCandidates(cands)
	}
	return false
}

// resolveTonedLastElement re-queries the store for the final segmented
// word with digit appended to its key sequence, replacing comp's last
// element if a toned conversion exists.
func (m *BufferMgr) resolveTonedLastElement(comp *buffer.Buffer, digit rune) bool {
	last := len(comp.Elements) - 1
	var word string
	switch e := comp.Elements[last].(type) {
	case *buffer.Plain:
		word = e.Value
	case *buffer.Khiin:
		word = e.RawText()
	default:
		return false
	}

	limit := 1
	convs, err := m.conv.Store.SelectConversions(m.cfg.Tone, word+string(digit), &limit)
	if err != nil || len(convs) == 0 {
		return false
	}
	k := buffer.NewKhiin(convs[0], m.cfg.OutputMode == Hanji)
	k.SetConverted(true)
	comp.Elements[last] = k
	return true
}

func isToneDigit(r rune) bool { return r >= '2' && r <= '9' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// trailingWordBody returns the run of raw characters typed since the
// last digit of any kind (or since the start of raw), the word the next
// tone digit would apply to.
func trailingWordBody(raw string) string {
	runes := []rune(raw)
	for i := len(runes) - 1; i >= 0; i-- {
		if isDigit(runes[i]) {
			return string(runes[i+1:])
		}
	}
	return raw
}

// splitTrailingToneDigit splits off a trailing Numeric tone digit, the
// only place tone information is ever appended after a dictionary word
// (spec.md §4.1).
func splitTrailingToneDigit(raw string, mode khiinji.ToneMode) (base string, digit rune, ok bool) {
	if mode != khiinji.Numeric || raw == "" {
		return raw, 0, false
	}
	runes := []rune(raw)
	last := runes[len(runes)-1]
	if !isToneDigit(last) {
		return raw, 0, false
	}
	return string(runes[:len(runes)-1]), last, true
}

func (m *BufferMgr) rebuildManualComp() {
	display := m.manualSyl.Compose(m.cfg.Khin)
	conv := store.Conversion{KeySequence: m.manualSyl.RawInput, Lomaji: display}
	k := buffer.NewKhiin(conv, false)
	m.comp = buffer.New()
	m.comp.Push(k)
	m.comp.EditState = buffer.Composing

	if cands, err := m.conv.GetCandidates(m.manualSyl.RawBody, m.settings()); err == nil {
		m.cands.SetCandidates(cands)
	}
}

// Pop removes one raw character, or collapses a converted element by
// one display character via its inverse caret map. It returns true
// when the buffer became empty, signalling the caller should reset
// (spec.md §4.9).
func (m *BufferMgr) Pop() bool {
	if m.cfg.InputMode == Manual {
		return m.popManual()
	}

	if m.raw == "" {
		return true
	}
	m.comp.EraseBeforeCaret()
	runes := []rune(m.raw)
	m.raw = string(runes[:len(runes)-1])
	if m.raw == "" {
		return true
	}
	if cands, err := m.conv.GetCandidates(m.raw, m.settings()); err == nil {
		m.cands.SetCandidates(cands)
	}
	return false
}

func (m *BufferMgr) popManual() bool {
	if m.manualSyl.RawInput == "" {
		return true
	}
	runes := []rune(m.manualSyl.RawInput)
	remaining := string(runes[:len(runes)-1])
	if remaining == "" {
		m.manualSyl = khiinji.Syllable{}
		m.comp = buffer.New()
		return true
	}
	m.manualSyl = khiinji.Parse(remaining, m.cfg.Tone)
	m.rebuildManualComp()
	return false
}

// FocusNextCandidate advances candidate focus, reflecting the focused
// candidate's buffer in the composition view (spec.md §4.8).
func (m *BufferMgr) FocusNextCandidate() {
	m.cands.FocusNext()
	m.syncFocusedCandidate()
}

// FocusPrevCandidate retreats candidate focus.
func (m *BufferMgr) FocusPrevCandidate() {
	m.cands.FocusPrev()
	m.syncFocusedCandidate()
}

// ShowNextPageCandidate pages forward without changing focus.
func (m *BufferMgr) ShowNextPageCandidate() { m.cands.NextPage() }

// ShowPrevPageCandidate pages backward without changing focus.
func (m *BufferMgr) ShowPrevPageCandidate() { m.cands.PrevPage() }

// FocusCandidateByIndex focuses the i'th (1-based) candidate of the
// current page, as driven by a digit key in Classic mode (spec.md
// §4.9). Returns false if i is out of range.
func (m *BufferMgr) FocusCandidateByIndex(i int) bool {
	if !m.cands.FocusByIndex(i - 1) {
		return false
	}
	m.syncFocusedCandidate()
	return true
}

func (m *BufferMgr) syncFocusedCandidate() {
	if b := m.cands.Focused(); b != nil {
		m.comp = b
		m.comp.EditState = buffer.Selecting
	}
}

// CommitAll concatenates every element's display text, then resets
// (spec.md §4.9).
func (m *BufferMgr) CommitAll() string {
	text := m.comp.DisplayText()
	m.Reset()
	return text
}

// CommitCandidateAndCompositeRemainder commits the focused candidate's
// display text, then re-seeds the composition from the remaining
// unconsumed raw suffix (spec.md §4.9).
func (m *BufferMgr) CommitCandidateAndCompositeRemainder() string {
	focused := m.cands.Focused()
	if focused == nil {
		return m.CommitAll()
	}

	committedText := focused.DisplayText()
	remainder := strings.TrimPrefix(m.raw, focused.RawText())
	if remainder == m.raw {
		// The focused candidate's raw form wasn't actually a prefix of
		// the canonical raw buffer; fall back to a clean commit.
		m.Reset()
		return committedText
	}

	m.raw = remainder
	if m.raw == "" {
		m.Reset()
		return committedText
	}

	if newComp, err := m.conv.ConvertAll(m.raw, m.settings()); err == nil {
		m.comp = newComp
	}
	if cands, err := m.conv.GetCandidates(m.raw, m.settings()); err == nil {
		m.cands.SetCandidates(cands)
	}
	return committedText
}

// CommitIllegalAndRestart commits whatever the composition currently
// represents — the focused candidate if one is selected, the whole
// composition otherwise — then starts a fresh composition seeded with
// the character that was just rejected, rather than dropping it
// (spec.md §4.9, Classic's Illegal transition).
func (m *BufferMgr) CommitIllegalAndRestart(ch rune) string {
	var text string
	if focused := m.cands.Focused(); focused != nil {
		text = focused.DisplayText()
	} else {
		text = m.comp.DisplayText()
	}
	m.Reset()
	if m.Insert(ch) {
		// Rejected even against a fresh composition (e.g. a bare
		// numeric digit with no preceding body) — insert it literally
		// so it is never silently lost.
		m.raw = string(ch)
		m.comp = buffer.New()
		m.comp.Push(buffer.NewPlain(m.raw))
		m.comp.EditState = buffer.Composing
	}
	return text
}

// ExpandCandidate delegates Action-candidate expansion to the
// candidate manager, materializing the expansion via the converter's
// conversion store (spec.md §4.8, §9 Open Question #3).
func (m *BufferMgr) ExpandCandidate() bool {
	focused := m.cands.Focused()
	if focused == nil || len(focused.Elements) == 0 {
		return false
	}
	conv := focused.Elements[0].Candidate()
	if conv == nil || !conv.IsAction {
		return false
	}

	expansions, err := m.conv.Store.ExpandAction(conv.ActionID)
	if err != nil {
		return false
	}
	hanji := m.cfg.OutputMode == Hanji
	bufs := make([]*buffer.Buffer, 0, len(expansions))
	for _, cv := range expansions {
		k := buffer.NewKhiin(cv, hanji)
		k.SetConverted(true)
		b := buffer.New()
		b.Push(k)
		bufs = append(bufs, b)
	}
	return m.cands.ExpandAction(bufs)
}

// RevertToComposing undoes the current conversion back to an
// unconverted composing run (spec.md §9, "Supplemented features" —
// one of the originally not-implemented commands given a real
// implementation here, alongside Disable, Enable and Shutdown).
func (m *BufferMgr) RevertToComposing() {
	m.comp.SetConverted(0, len(m.comp.Elements), false)
	if !m.comp.IsEmpty() {
		m.comp.EditState = buffer.Composing
	}
}

// Reset clears composition, caret, focus, and candidates (spec.md
// §4.9, P4).
func (m *BufferMgr) Reset() {
	m.raw = ""
	m.comp = buffer.New()
	m.cands = candidate.NewManager(nil)
	m.manualSyl = khiinji.Syllable{}
}

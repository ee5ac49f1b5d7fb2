package engine

import (
	"testing"

	"github.com/username/khiin-ime/internal/buffer"
	"github.com/username/khiin-ime/internal/convert"
	"github.com/username/khiin-ime/internal/dict"
	"github.com/username/khiin-ime/internal/khiinji"
	"github.com/username/khiin-ime/internal/store"
)

func testConverter() *convert.Converter {
	d := dict.NewMapDictionary([]string{"a", "ah", "an"})
	s := store.NewMapConversionStore()
	s.Add(khiinji.Numeric, "a", store.Conversion{KeySequence: "a", Lomaji: "a", Hanji: "亞", Weight: 5})
	s.Add(khiinji.Numeric, "a2", store.Conversion{KeySequence: "a2", Lomaji: "á", Hanji: "亞", Weight: 5})
	s.AddAction("more", []store.Conversion{{KeySequence: "a", Lomaji: "a-alt", Weight: 1}})
	s.Add(khiinji.Numeric, "a", store.Conversion{KeySequence: "a", Lomaji: "a", Weight: 1, IsAction: true, ActionID: "more"})
	return convert.New(d, s)
}

func TestInsertContinuousBuildsComposition(t *testing.T) {
	m := NewBufferMgr(testConverter(), DefaultConfig())
	if rejected := m.Insert('a'); rejected {
		t.Fatal("expected 'a' to be accepted")
	}
	if m.comp.RawText() != "a" {
		t.Errorf("RawText() = %q, want %q", m.comp.RawText(), "a")
	}
}

func TestInsertFallsBackToPlaintext(t *testing.T) {
	// 'z' is absent from the dictionary, so it passes through as a
	// Plaintext section rather than being rejected outright.
	m := NewBufferMgr(testConverter(), DefaultConfig())
	if rejected := m.Insert('z'); rejected {
		t.Fatal("expected 'z' to fall back to plaintext, not be rejected")
	}
	if m.comp.RawText() != "z" {
		t.Errorf("RawText() = %q, want %q", m.comp.RawText(), "z")
	}
}

func TestPopClearsToEmpty(t *testing.T) {
	m := NewBufferMgr(testConverter(), DefaultConfig())
	m.Insert('a')
	if empty := m.Pop(); !empty {
		t.Fatal("expected buffer to report empty after popping its only character")
	}
}

func TestResetClearsEverything(t *testing.T) {
	m := NewBufferMgr(testConverter(), DefaultConfig())
	m.Insert('a')
	m.Reset()
	if m.raw != "" || !m.comp.IsEmpty() || m.EditState() != buffer.Empty {
		t.Errorf("Reset left residual state: raw=%q comp.IsEmpty=%v state=%v", m.raw, m.comp.IsEmpty(), m.EditState())
	}
}

func TestCommitAllResetsAfterward(t *testing.T) {
	m := NewBufferMgr(testConverter(), DefaultConfig())
	m.Insert('a')
	text := m.CommitAll()
	if text == "" {
		t.Error("expected non-empty committed text")
	}
	if !m.comp.IsEmpty() || m.EditState() != buffer.Empty {
		t.Error("expected empty composition and Empty state after CommitAll")
	}
}

func TestInsertClassicAccumulatesWithoutConverting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputMode = Classic
	m := NewBufferMgr(testConverter(), cfg)
	if rejected := m.Insert('a'); rejected {
		t.Fatal("expected 'a' to accumulate, not be rejected")
	}
	if got := m.comp.DisplayText(); got != "a" {
		t.Errorf("DisplayText() = %q, want %q", got, "a")
	}
	if m.EditState() != buffer.Composing {
		t.Errorf("EditState() = %v, want Composing (no eager conversion)", m.EditState())
	}
}

func TestInsertClassicToneDigitTriggersConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputMode = Classic
	m := NewBufferMgr(testConverter(), cfg)
	m.Insert('a')
	if rejected := m.Insert('2'); rejected {
		t.Fatal("expected '2' to apply as a tone digit, not be rejected")
	}
	if got := m.comp.DisplayText(); got != "á" {
		t.Errorf("DisplayText() = %q, want %q", got, "á")
	}
}

func TestInsertClassicInvalidToneDigitIsIllegal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputMode = Classic
	m := NewBufferMgr(testConverter(), cfg)
	m.Insert('a')
	if rejected := m.Insert('8'); !rejected {
		t.Fatal("expected '8' with no stop coda to be rejected")
	}
	if m.comp.EditState != buffer.Illegal {
		t.Errorf("EditState = %v, want Illegal", m.comp.EditState)
	}
}

func TestCommitIllegalAndRestartKeepsOffendingChar(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputMode = Classic
	m := NewBufferMgr(testConverter(), cfg)
	m.Insert('a')
	m.Insert('8') // rejected
	committed := m.CommitIllegalAndRestart('8')
	if committed != "a" {
		t.Errorf("committed = %q, want %q", committed, "a")
	}
	if m.comp.RawText() != "8" {
		t.Errorf("restarted composition RawText() = %q, want %q", m.comp.RawText(), "8")
	}
}

func TestManualModeAccumulatesSyllable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputMode = Manual
	cfg.Tone = khiinji.Telex
	m := NewBufferMgr(testConverter(), cfg)
	m.Insert('o')
	m.Insert('a')
	m.Insert('s')
	m.Insert('s')
	if got := m.comp.DisplayText(); got != "oás" {
		t.Errorf("DisplayText() = %q, want %q", got, "oás")
	}
}

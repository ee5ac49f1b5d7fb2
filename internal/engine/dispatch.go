package engine

import (
	"errors"

	"github.com/username/khiin-ime/internal/buffer"
	"github.com/username/khiin-ime/internal/convert"
	"github.com/username/khiin-ime/internal/dict"
	"github.com/username/khiin-ime/internal/store"
)

// Engine is the command dispatcher (spec.md §4.10): it maps each
// request kind to buffer-manager operations and assembles the
// response. It never returns a Go error from ProcessRequest — failures
// surface as Response.Error (spec.md §7).
type Engine struct {
	Dict   dict.Dictionary
	Store  store.ConversionStore
	Conv   *convert.Converter
	Config *Config
	BufMgr *BufferMgr

	enabled bool
}

// NewEngine constructs an Engine over the given dictionary and
// conversion store facades (spec.md §1 — both out of scope here,
// consumed only through their interfaces).
func NewEngine(d dict.Dictionary, s store.ConversionStore) (*Engine, error) {
	if d == nil || s == nil {
		return nil, errors.New("engine: dictionary and conversion store are required")
	}
	cfg := DefaultConfig()
	conv := convert.New(d, s)
	return &Engine{
		Dict:    d,
		Store:   s,
		Conv:    conv,
		Config:  cfg,
		BufMgr:  NewBufferMgr(conv, cfg),
		enabled: true,
	}, nil
}

// ProcessRequest dispatches req to its handler and assembles a
// Response. Unknown or not-implemented request kinds yield a failure
// response without state change (spec.md §4.10, §7).
func (e *Engine) ProcessRequest(req Request) Response {
	Logger.Debug().Str("command", req.Type.String()).Msg("processing request")

	if !e.enabled && req.Type != CmdEnable {
		return Response{Error: ErrNotReady}
	}

	switch req.Type {
	case CmdSendKey:
		return e.onSendKey(req)
	case CmdRevert:
		return e.onRevert(req)
	case CmdReset:
		return e.onReset(req)
	case CmdCommit:
		return e.onCommit(req)
	case CmdSelectCandidate:
		return e.onSelectCandidate(req)
	case CmdFocusCandidate:
		return e.onFocusCandidate(req)
	case CmdSwitchInputMode:
		return e.onSwitchInputMode(req)
	case CmdSwitchOutputMode:
		return e.onSwitchOutputMode(req)
	case CmdSetConfig:
		return e.onSetConfig(req)
	case CmdDisable:
		return e.onDisable(req)
	case CmdEnable:
		return e.onEnable(req)
	case CmdShutdown:
		return e.onShutdown(req)
	case CmdPlaceCursor, CmdTestSendKey, CmdListEmojis, CmdResetUserData:
		Logger.Warn().Str("command", req.Type.String()).Msg("not implemented")
		return Response{Error: ErrNotImplemented}
	default:
		Logger.Warn().Msg("malformed request: unspecified command")
		return Response{Error: ErrMalformedRequest}
	}
}

func (e *Engine) responseView() Response {
	return Response{
		Preedit:       e.BufMgr.BuildPreedit(),
		CandidateList: e.BufMgr.CandidateView(),
		EditState:     e.BufMgr.EditState(),
	}
}

func (e *Engine) committedResponse(text string) Response {
	r := e.responseView()
	r.Committed = true
	r.CommittedText = text
	return r
}

func (e *Engine) onSendKey(req Request) Response {
	ke := req.KeyEvent
	reverse := ke.Modifiers&ModShift != 0

	switch ke.Special {
	case SKNone:
		// Digits only select a candidate while one is actively being
		// navigated (Space having focused it); otherwise they fall
		// through to Insert so Numeric tone encoding can run (spec.md
		// §4.9, §8 scenario 2).
		if e.Config.InputMode == Classic && e.BufMgr.EditState() == buffer.Selecting &&
			ke.KeyCode >= '1' && ke.KeyCode <= '9' {
			idx := int(ke.KeyCode-'1') + 1
			if e.BufMgr.FocusCandidateByIndex(idx) {
				return e.committedResponse(e.BufMgr.CommitCandidateAndCompositeRemainder())
			}
		}
		if ch := asciiCharFromCode(ke.KeyCode); ch != 0 {
			if e.BufMgr.Insert(ch) {
				return e.committedResponse(e.BufMgr.CommitIllegalAndRestart(ch))
			}
		}
	case SKSpace:
		if e.Config.InputMode == Classic && e.BufMgr.NeedsClassicTrigger() {
			e.BufMgr.TriggerConversion()
			break
		}
		if reverse {
			e.BufMgr.FocusPrevCandidate()
		} else {
			e.BufMgr.FocusNextCandidate()
		}
	case SKEnter:
		if e.Config.InputMode == Classic {
			if e.BufMgr.NeedsClassicTrigger() {
				e.BufMgr.TriggerConversion()
			}
			if focused := e.BufMgr.cands.Focused(); focused != nil {
				return e.committedResponse(e.BufMgr.CommitCandidateAndCompositeRemainder())
			}
		}
		return e.committedResponse(e.BufMgr.CommitAll())
	case SKBackspace:
		if e.BufMgr.Pop() {
			e.BufMgr.Reset()
		}
	case SKEsc:
		e.BufMgr.Reset()
	case SKTab:
		if reverse {
			e.BufMgr.ShowPrevPageCandidate()
		} else {
			e.BufMgr.ShowNextPageCandidate()
		}
	case SKLeft, SKUp:
		e.BufMgr.FocusPrevCandidate()
	case SKRight, SKDown:
		e.BufMgr.FocusNextCandidate()
	default:
		// PgUp/PgDn/Home/End/Del: no buffer-manager equivalent in the
		// core; the assembled response below is a benign no-op.
	}

	return e.responseView()
}

func (e *Engine) onRevert(req Request) Response {
	e.BufMgr.RevertToComposing()
	return e.responseView()
}

func (e *Engine) onReset(req Request) Response {
	e.BufMgr.Reset()
	return e.responseView()
}

func (e *Engine) onCommit(req Request) Response {
	return e.committedResponse(e.BufMgr.CommitAll())
}

func (e *Engine) onSelectCandidate(req Request) Response {
	if !e.BufMgr.FocusCandidateByIndex(req.CandidateIndex) {
		return Response{Error: ErrMalformedRequest}
	}
	return e.committedResponse(e.BufMgr.CommitCandidateAndCompositeRemainder())
}

func (e *Engine) onFocusCandidate(req Request) Response {
	if req.CandidateIndex > 0 {
		e.BufMgr.FocusCandidateByIndex(req.CandidateIndex)
	} else {
		e.BufMgr.FocusNextCandidate()
	}
	return e.responseView()
}

func (e *Engine) onSwitchInputMode(req Request) Response {
	if req.Config != nil {
		e.Config.InputMode = req.Config.InputMode
	}
	e.BufMgr.Reset() // spec.md P5: switching any mode resets the composition
	return e.responseView()
}

func (e *Engine) onSwitchOutputMode(req Request) Response {
	if req.Config != nil {
		e.Config.OutputMode = req.Config.OutputMode
	}
	e.BufMgr.Reset()
	return e.responseView()
}

func (e *Engine) onSetConfig(req Request) Response {
	if req.Config == nil {
		return Response{Error: ErrMalformedRequest}
	}
	*e.Config = *req.Config
	e.BufMgr = NewBufferMgr(e.Conv, e.Config)
	return e.responseView()
}

func (e *Engine) onDisable(req Request) Response {
	e.enabled = false
	return e.responseView()
}

func (e *Engine) onEnable(req Request) Response {
	e.enabled = true
	return e.responseView()
}

func (e *Engine) onShutdown(req Request) Response {
	e.enabled = false
	e.BufMgr.Reset()
	return Response{}
}

// asciiCharFromCode mirrors the original engine's ascii_char_from_i32:
// only ASCII alphanumerics are accepted as composing input.
func asciiCharFromCode(code int32) rune {
	if code < 0 || code > 0x10FFFF {
		return 0
	}
	r := rune(code)
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
		return r
	}
	return 0
}

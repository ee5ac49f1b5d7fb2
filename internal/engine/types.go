// Package engine is the core input method engine for Khíín: the
// buffer manager state machine and the command dispatcher that drives
// it from typed requests (spec.md §4.9, §4.10).
package engine

import "github.com/username/khiin-ime/internal/buffer"

// SpecialKey enumerates the non-printable keys the dispatcher
// recognizes (spec.md §6).
type SpecialKey int

const (
	SKNone SpecialKey = iota
	SKSpace
	SKEnter
	SKEsc
	SKBackspace
	SKTab
	SKLeft
	SKUp
	SKRight
	SKDown
	SKPgUp
	SKPgDn
	SKHome
	SKEnd
	SKDel
)

// Modifier is a bitset of held modifier keys (spec.md §6: only Shift
// is meaningful, reversing Space/Tab direction).
type Modifier uint32

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
)

// KeyEvent is one keystroke submitted to the dispatcher.
type KeyEvent struct {
	KeyCode   int32
	Special   SpecialKey
	Modifiers Modifier
}

// CommandType enumerates the request kinds the dispatcher accepts
// (spec.md §6).
type CommandType int

const (
	CmdUnspecified CommandType = iota
	CmdSendKey
	CmdRevert
	CmdReset
	CmdCommit
	CmdSelectCandidate
	CmdFocusCandidate
	CmdSwitchInputMode
	CmdSwitchOutputMode
	CmdPlaceCursor
	CmdDisable
	CmdEnable
	CmdSetConfig
	CmdTestSendKey
	CmdListEmojis
	CmdResetUserData
	CmdShutdown
)

func (c CommandType) String() string {
	switch c {
	case CmdSendKey:
		return "SendKey"
	case CmdRevert:
		return "Revert"
	case CmdReset:
		return "Reset"
	case CmdCommit:
		return "Commit"
	case CmdSelectCandidate:
		return "SelectCandidate"
	case CmdFocusCandidate:
		return "FocusCandidate"
	case CmdSwitchInputMode:
		return "SwitchInputMode"
	case CmdSwitchOutputMode:
		return "SwitchOutputMode"
	case CmdPlaceCursor:
		return "PlaceCursor"
	case CmdDisable:
		return "Disable"
	case CmdEnable:
		return "Enable"
	case CmdSetConfig:
		return "SetConfig"
	case CmdTestSendKey:
		return "TestSendKey"
	case CmdListEmojis:
		return "ListEmojis"
	case CmdResetUserData:
		return "ResetUserData"
	case CmdShutdown:
		return "Shutdown"
	default:
		return "Unspecified"
	}
}

// ErrorCode classifies why a request failed (spec.md §7). The zero
// value means success.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrMalformedRequest
	ErrNotReady
	ErrInvariantViolation
	ErrNotImplemented
)

// Request is one unit of work submitted to the engine (spec.md §6).
// Config is only read by SwitchInputMode, SwitchOutputMode, and
// SetConfig; CandidateIndex is only read by SelectCandidate and
// FocusCandidate.
type Request struct {
	Type           CommandType
	KeyEvent       KeyEvent
	Config         *Config
	CandidateIndex int
}

// CandidateItem is one entry of the response's candidate page.
type CandidateItem struct {
	Display  string
	IsAction bool
}

// CandidateListView is the paginated, host-facing candidate list
// (spec.md §3).
type CandidateListView struct {
	Candidates []CandidateItem
	Page       int
	PageCount  int
	Focused    int // page-relative index, -1 if none focused
}

// Response is returned for every request; the engine never returns a
// bare Go error from ProcessRequest (spec.md §7 — failures surface as
// Response.Error instead).
type Response struct {
	Preedit       buffer.Preedit
	CandidateList CandidateListView
	EditState     buffer.EditState
	Committed     bool
	CommittedText string
	Error         ErrorCode
}

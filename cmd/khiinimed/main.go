// Command khiinimed is a thin D-Bus frontend demo for the Khíín
// engine core (spec.md §1's "host integration surfaces", out of
// scope for the core itself). It is adapted from the teacher's
// cmd/daemon D-Bus service, swapping the raw keysym/string triple for
// engine.Request/engine.Response.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/username/khiin-ime/internal/dict"
	"github.com/username/khiin-ime/internal/engine"
	"github.com/username/khiin-ime/internal/khiinji"
	"github.com/username/khiin-ime/internal/store"
)

const (
	serviceName = "com.github.khiin.ime"
	objectPath  = "/Engine"
)

// InputEngine is the D-Bus object that receives key events from the
// host text-services frontend.
type InputEngine struct {
	eng *engine.Engine
}

// NewInputEngine wires a demo in-memory dictionary and conversion
// store into a fresh engine. A production host supplies its own
// persisted dictionary/store (spec.md §1 — out of scope here).
func NewInputEngine() (*InputEngine, error) {
	d := dict.NewMapDictionary([]string{"a", "ah", "an", "ba", "ban"})

	s := store.NewMapConversionStore()
	s.Add(khiinji.Numeric, "a", store.Conversion{KeySequence: "a", Lomaji: "a", Hanji: "亞", Weight: 5})
	s.Add(khiinji.Numeric, "a2", store.Conversion{KeySequence: "a2", Lomaji: "á", Hanji: "亞", Weight: 5})
	s.Add(khiinji.Numeric, "ban", store.Conversion{KeySequence: "ban", Lomaji: "ban", Hanji: "萬", Weight: 5})
	s.AddAction("more_a", []store.Conversion{{KeySequence: "a", Lomaji: "a", Hanji: "阿", Weight: 1}})

	eng, err := engine.NewEngine(d, s)
	if err != nil {
		return nil, err
	}
	return &InputEngine{eng: eng}, nil
}

// SendKey handles one key event from the frontend. Input: keyCode
// (ASCII codepoint or 0 for a special key), special (engine.SpecialKey
// value), modifiers (engine.Modifier bitset). Output: preeditText
// (current composition display), committed (whether text should be
// inserted into the host), committedText.
func (e *InputEngine) SendKey(keyCode int32, special int32, modifiers uint32) (string, bool, string, *dbus.Error) {
	req := engine.Request{
		Type: engine.CmdSendKey,
		KeyEvent: engine.KeyEvent{
			KeyCode:   keyCode,
			Special:   engine.SpecialKey(special),
			Modifiers: engine.Modifier(modifiers),
		},
	}
	res := e.eng.ProcessRequest(req)

	engine.Logger.Debug().
		Int32("key_code", keyCode).
		Str("preedit", res.Preedit.DisplayText()).
		Bool("committed", res.Committed).
		Msg("processed key event")

	return res.Preedit.DisplayText(), res.Committed, res.CommittedText, nil
}

// Reset clears the current composition state.
func (e *InputEngine) Reset() *dbus.Error {
	e.eng.ProcessRequest(engine.Request{Type: engine.CmdReset})
	fmt.Println(">>> [Khíín] Engine reset")
	return nil
}

// SetEnabled enables or disables the engine.
func (e *InputEngine) SetEnabled(enabled bool) *dbus.Error {
	cmd := engine.CmdDisable
	if enabled {
		cmd = engine.CmdEnable
	}
	e.eng.ProcessRequest(engine.Request{Type: cmd})
	fmt.Printf(">>> [Khíín] Engine enabled: %v\n", enabled)
	return nil
}

func main() {
	conn, err := dbus.SessionBus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to connect to session bus:", err)
		os.Exit(1)
	}
	defer conn.Close()

	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to request name:", err)
		os.Exit(1)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		fmt.Fprintln(os.Stderr, "Name already taken - another instance may be running")
		os.Exit(1)
	}

	logFile, err := os.OpenFile("typing.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		engine.SetLogger(zerolog.New(logFile).With().Timestamp().Logger())
		fmt.Println(">>> [Khíín] Logging to typing.log")
		defer logFile.Close()
	} else {
		fmt.Fprintf(os.Stderr, ">>> [Khíín] Failed to open log file: %v\n", err)
	}

	inputEngine, err := NewInputEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create engine:", err)
		os.Exit(1)
	}

	if err := conn.Export(inputEngine, dbus.ObjectPath(objectPath), serviceName); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to export object:", err)
		os.Exit(1)
	}

	fmt.Println("================================================")
	fmt.Println("Khíín-IME backend is running")
	fmt.Println("================================================")
	fmt.Printf("  Service:     %s\n", serviceName)
	fmt.Printf("  Object Path: %s\n", objectPath)
	fmt.Println("------------------------------------------------")
	fmt.Println("Waiting for key events...")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n>>> [Khíín] Shutting down...")
}

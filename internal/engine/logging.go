package engine

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-level structured logger, silent by default
// so embedding hosts opt in explicitly (grounded on the
// tassa-yoniso-manasi-karoto-go-pythainlp package-level Logger
// pattern).
var Logger = zerolog.Nop()

// EnableDebugLogging switches Logger to a console writer at debug
// level, for interactive/manual testing of the dispatcher.
func EnableDebugLogging() {
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// SetLogger lets a host install its own configured logger.
func SetLogger(l zerolog.Logger) {
	Logger = l
}

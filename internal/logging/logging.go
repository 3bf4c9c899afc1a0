// Package logging builds the zerolog logger shared by the CLI and the
// pipeline.
//
//	logger := logging.New(os.Stderr, "info", "console")
//	logger.Info().Str("stage", "scaffolding").Msg("stage started")
//
// The console format prints a timestamp and a level tag on every line. The
// json format emits one object per event for machine consumption.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format names accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New creates a logger writing to w. Unrecognized levels default to info;
// any format other than "json" uses the console writer.
func New(w io.Writer, level, format string) zerolog.Logger {
	var out io.Writer = w
	if !strings.EqualFold(format, FormatJSON) {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel converts a level string to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

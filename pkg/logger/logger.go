package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	current.Store(&l)
}

// Init configures the process logger (called once from main).
// Unknown levels fall back to info.
func Init(level string, pretty bool) {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02T15:04:05.000Z07:00"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	l := zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
	current.Store(&l)
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	l := current.Load().Output(w)
	current.Store(&l)
}

// Get returns the underlying zerolog logger for structured call sites.
func Get() *zerolog.Logger {
	return current.Load()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func Infof(format string, v ...any) {
	current.Load().Info().Msg(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	current.Load().Warn().Msg(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	current.Load().Error().Msg(fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...any) {
	l := current.Load()
	if l.GetLevel() > zerolog.DebugLevel {
		return
	}
	l.Debug().Msg(fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...any) {
	current.Load().Fatal().Msg(fmt.Sprintf(format, v...))
}

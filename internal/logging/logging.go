// Package logging installs the process wide zerolog logger. Packages take
// their module logger from Module at init time; the output behind it can be
// redirected later, which the terminal host needs to keep the screen clean.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

var out = &switchWriter{w: os.Stderr}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
}

// Module returns a sub-logger tagged with the module name.
func Module(name string) zerolog.Logger {
	return log.With().Str("module", name).Logger()
}

// Redirect sends all log output to w.
func Redirect(w io.Writer) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.w = w
}

// SetLevel parses and applies a global level such as "debug" or "warn".
func SetLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level and encoding of the root logger.
type Config struct {
	Level   string // debug, info, warn, error; anything else means info
	Format  string // json or console
	Service string
	Output  io.Writer // stdout when nil
}

// New builds the root logger. Caller locations are only attached at debug
// level, where they are worth the cost.
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Output != nil {
		w = cfg.Output
	}
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	level := levelOf(cfg.Level)
	lc := zerolog.New(w).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		lc = lc.Caller()
	}
	if cfg.Service != "" {
		lc = lc.Str("service", cfg.Service)
	}
	return lc.Logger()
}

// Component tags every entry of l with the subsystem that wrote it.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func levelOf(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel || level < zerolog.DebugLevel {
		return zerolog.InfoLevel
	}
	return level
}

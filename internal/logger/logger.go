// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group controlling log output.
type Logger struct {
	Output  io.Writer `no-flag:"true"`
	Level   string    `long:"log-level"    env:"LOG_LEVEL"    description:"Log level"  choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format  string    `long:"log-format"   env:"LOG_FORMAT"   description:"Log format" choice:"text" choice:"json" default:"text"`
	NoColor bool      `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colored text output"`
}

// Setup applies the options to the global logger.
func (l *Logger) Setup() {
	out := l.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if l.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    l.NoColor,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
}

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	Env     string // development -> consola legible; cualquier otro -> JSON
	Level   string // trace, debug, info, warn, error
	Service string // nombre fijo en cada línea; vacío lo omite
}

// Logger envuelve zerolog para inyectarlo por las capas sin acoplar a la global.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger. Fuera de development la salida es JSON por línea,
// lista para un agregador; en development usa ConsoleWriter.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()

	// También la global de zerolog, para dependencias que loguean por ahí.
	log.Logger = zl

	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With abre un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context { return l.zl.With() }

// Zerolog expone el logger interno para APIs que reciben zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }

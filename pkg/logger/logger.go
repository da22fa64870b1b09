package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Campos fijos que comparten los subloggers del pipeline.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldMarket    = "market"
)

// Config del logger. Env "development" imprime en consola; cualquier otro valor, JSON.
type Config struct {
	Env    string
	Level  string    // trace, debug, info, warn, error; vacío o inválido = info
	Output io.Writer // nil = os.Stdout
}

// Logger envuelve zerolog y se inyecta en cada caso de uso.
type Logger struct {
	zl zerolog.Logger
}

// New arma el logger raíz y lo publica como logger global de zerolog.
func New(cfg Config) *Logger {
	root := zerolog.New(sink(cfg)).
		Level(levelOf(cfg.Level)).
		With().Timestamp().
		Logger()
	log.Logger = root
	return &Logger{zl: root}
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func sink(cfg Config) io.Writer {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env != "development" {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
}

func levelOf(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

func (l *Logger) child(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Component etiqueta las líneas con la etapa que las emite (collector, summarizer, ...).
func (l *Logger) Component(name string) *Logger { return l.child(FieldComponent, name) }

// Run etiqueta las líneas de una ejecución concreta.
func (l *Logger) Run(runID string) *Logger { return l.child(FieldRunID, runID) }

// Market etiqueta las líneas de un marketplace.
func (l *Logger) Market(code string) *Logger { return l.child(FieldMarket, code) }

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger de la API.
type Config struct {
	Env   string // development: consola legible; cualquier otro valor: JSON
	Level string // trace, debug, info, warn, error
	Out   io.Writer
}

// Logger envuelve zerolog para inyectarlo en casos de uso, workers y handlers.
// root es el logger sin etiqueta de componente; zl el que escribe.
type Logger struct {
	root zerolog.Logger
	zl   zerolog.Logger
}

// New arma el logger de la aplicación y lo deja también como logger global de zerolog.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl
	return &Logger{root: zl, zl: zl}
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{root: zerolog.Nop(), zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component etiqueta las líneas con "component". Sobre un logger ya etiquetado
// reemplaza la etiqueta en vez de repetir la clave.
func (l *Logger) Component(name string) *Logger {
	return &Logger{root: l.root, zl: l.root.With().Str("component", name).Logger()}
}

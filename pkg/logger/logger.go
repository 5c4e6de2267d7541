package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controla destino y verbosidad. En las tiendas (Env development) la
// salida es consola legible para el técnico; en el servidor central es JSON
// por línea para el recolector.
type Config struct {
	Env   string
	Level string // trace, debug, info, warn, error; vacío = info
}

// Logger envoltorio fino sobre zerolog; se inyecta en lugar de usar el global.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger según el ambiente y lo instala también como logger
// global de zerolog, para las librerías que escriben ahí.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).
		Level(levelFrom(cfg.Level)).
		With().Timestamp().Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

// levelFrom traduce el nivel configurado; cualquier valor no reconocido cae a info.
func levelFrom(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
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

// With abre un sublogger con campos fijos, por ejemplo la sucursal o el módulo.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

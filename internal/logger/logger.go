// Package logger provides JSON structured logging using zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

type Config struct {
	Level  string `yaml:"level"`
	Debug  bool   `yaml:"debug"`
	Output string `yaml:"output"` // stdout, stderr
	Pretty bool   `yaml:"pretty"`
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init replaces the global logger. An unknown level is an error and leaves
// the current logger in place.
func Init(config Config) error {
	var output io.Writer = os.Stderr
	switch config.Output {
	case "", "stderr":
	case "stdout":
		output = os.Stdout
	default:
		return fmt.Errorf("unknown log output %q", config.Output)
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return err
		}
	}

	if config.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	setLogger(zerolog.New(output).Level(level).With().Timestamp().Logger())
	return nil
}

// SetOutput points the global logger at w, keeping its level. Used by tests.
func SetOutput(w io.Writer) {
	setLogger(globalLogger.Output(w))
}

func setLogger(l zerolog.Logger) {
	globalLogger = l
	log.Logger = l
}

func GetLogger() zerolog.Logger {
	return globalLogger
}

func Debug() *zerolog.Event {
	return globalLogger.Debug()
}

func Info() *zerolog.Event {
	return globalLogger.Info()
}

func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

func Error() *zerolog.Event {
	return globalLogger.Error()
}

func Fatal() *zerolog.Event {
	return globalLogger.Fatal()
}

func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

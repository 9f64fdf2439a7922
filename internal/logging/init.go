package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// viper keys shared with the CLI layer
const (
	LevelKey   = "log.level"
	FormatKey  = "log.format"
	NoColorKey = "log.no_color"
)

// InitDefault sets up a console logger before flags and config are parsed,
// so early failures are still readable.
func InitDefault() {
	log.Logger = zerolog.New(consoleWriter(false)).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}

// Init configures the global logger from the resolved viper settings.
func Init() {
	level, err := zerolog.ParseLevel(viper.GetString(LevelKey))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	switch viper.GetString(FormatKey) {
	case "json":
		logger = zerolog.New(os.Stderr)
	default:
		logger = zerolog.New(consoleWriter(viper.GetBool(NoColorKey)))
	}

	log.Logger = logger.Level(level).With().Timestamp().Logger()
}

func consoleWriter(noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
}

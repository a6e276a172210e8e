package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging points the global logger at stderr and, when logFile is set,
// also at a size-rotated JSON log file. The returned closer releases the file.
func SetupLogging(stderr io.Writer, verbose bool, logFile string) io.Closer {
	zerolog.TimeFieldFormat = time.RFC3339
	if stderr == nil {
		stderr = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}

	var closer io.Closer = nopCloser{}
	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		}
		log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, rotator)).With().Timestamp().Logger()
		closer = rotator
	} else {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

package log

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// string representation that directly corresponds to zerolog.Level
type LogLevel string

const (
	DEBUG    LogLevel = "debug"
	INFO     LogLevel = "info"
	WARN     LogLevel = "warn"
	ERROR    LogLevel = "error"
	DISABLED LogLevel = "disabled"
	TRACE    LogLevel = "trace"
)

var Levels = [6]LogLevel{DEBUG, INFO, WARN, ERROR, DISABLED, TRACE}
var LogFile *os.File

func (ll LogLevel) String() string {
	return string(ll)
}

// Set implements pflag.Value so --log-level validates its input.
func (ll *LogLevel) Set(v string) error {
	if !slices.Contains(Levels[:], LogLevel(v)) {
		return fmt.Errorf("must be one of %v", Levels)
	}
	*ll = LogLevel(v)
	return nil
}

func (ll LogLevel) Type() string {
	return "LogLevel"
}

// InitWithLogLevel sets up the global zerolog logger writing to stderr and,
// when logPath is non-empty, appending to a log file as well.
func InitWithLogLevel(logLevel LogLevel, logPath string) error {
	var (
		writers []io.Writer
		err     error
	)

	level, err := strToLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to convert log level: %v", err)
	}

	// default stderr writer
	writers = append(writers, &zerolog.FilteredLevelWriter{
		Writer: &zerolog.LevelWriterAdapter{Writer: os.Stderr},
		Level:  level,
	})

	if logPath != "" {
		LogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			return fmt.Errorf("failed to open log file: %v", err)
		}
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: LogFile},
			Level:  level,
		})
	}

	writer := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(writer).Level(level).With().Timestamp().Caller().Logger()
	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	return nil
}

func strToLogLevel(ll LogLevel) (zerolog.Level, error) {
	if index := slices.Index(Levels[:], ll); index >= 0 {
		// handle special cases to map index to DISABLED and TRACE
		switch index {
		case 4:
			return zerolog.Disabled, nil
		case 5:
			return zerolog.TraceLevel, nil
		}
		return zerolog.Level(index), nil
	}
	var names []string
	for _, l := range Levels {
		names = append(names, string(l))
	}
	return -100, fmt.Errorf("invalid log level (options: %s)", strings.Join(names, ", "))
}

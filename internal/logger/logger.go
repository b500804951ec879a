package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. format is "console" for
// human-readable output or "json" for structured lines.
func Setup(level, format string) error {
	return setup(level, format, os.Stderr)
}

func setup(level, format string, out io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer
	switch format {
	case "", "console":
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
		output = out
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(output).Level(parsedLevel)
	return nil
}

// Package logger initializes and configures the global zerolog instance.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds configuration options for the application logger.
type Config struct {
	Level  string `long:"level" env:"LEVEL" description:"Log level (trace, debug, info, warn, error)" default:"info" json:"level"`
	Format string `long:"format" env:"FORMAT" description:"Log format (text or json)" default:"console" json:"format"`
	Output string `long:"output" env:"OUTPUT" description:"Log output (stdout, stderr or file path)" default:"stderr" json:"output"`
	Caller bool   `long:"caller" env:"CALLER" description:"Add file:line of the log call" json:"caller"`
}

// Setup initializes the global logger based on the provided configuration options.
// It returns the opened log file, if any, so the caller can close it on shutdown.
func Setup(cfg Config) io.Closer {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DurationFieldUnit = time.Millisecond

	writer, closer := openOutput(cfg.Output)

	var base zerolog.Logger
	if cfg.Format == "json" {
		base = zerolog.New(writer)
	} else {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
		}

		// Colors only for a terminal and when NO_COLOR is not set
		if f, ok := writer.(*os.File); ok {
			if os.Getenv("NO_COLOR") != "" || !isTerminal(f) {
				consoleWriter.NoColor = true
			}
		}

		base = zerolog.New(consoleWriter)
	}

	ctx := base.With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	return closer
}

// openOutput resolves stdout, stderr or a file path, falling back to stderr.
func openOutput(output string) (io.Writer, io.Closer) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		tempLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		tempLogger.Error().Err(err).Str("path", output).Msg("Failed to open log file, falling back to stderr")
		return os.Stderr, nil
	}

	return file, file
}

// isTerminal checks if the provided file descriptor refers to a character device (terminal).
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logOptions configures the process-wide logrus logger.
type logOptions struct {
	Level      string
	Verbose    bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// setupLogging applies opts to the standard logrus logger. With a file set,
// entries go to both stderr and a lumberjack-rotated file.
func setupLogging(opts logOptions) error {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", opts.Level)
	}
	if opts.Verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	if opts.File == "" {
		logrus.SetOutput(os.Stderr)
		return nil
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}))
	return nil
}

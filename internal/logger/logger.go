// Package logger configures logrus for the treeflat command.
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type LogOptions struct {
	// OutputPath is the directory of the log file, the working directory if empty.
	OutputPath string
	// Verbose sets the debug level.
	Verbose bool
	// DisableColor disables colored console output.
	DisableColor bool
	// LogToFile also writes the log to a daily rotated file under OutputPath.
	LogToFile bool
}

// Init configures the standard logger.
func Init(options LogOptions) error {
	return Configure(logrus.StandardLogger(), options)
}

// Configure applies options to l.
func Configure(l *logrus.Logger, options LogOptions) error {
	if options.Verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	l.SetFormatter(&Formatter{
		DisableColor: options.DisableColor,
	})

	if options.LogToFile {
		fh, err := NewFileHook(options.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to init log file hook: %w", err)
		}
		l.AddHook(fh)
	}

	return nil
}

// Package logging constructs the diagnostic logger shared by mimic packages.
//
// Diagnostics go to stderr and never mix with the test report, which is
// written by the printer to stdout or the log file.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLevel names the environment variable selecting the log level.
const EnvLevel = "MIMIC_LOG"

const defaultLevel = logrus.WarnLevel

// New returns a logger writing to stderr at the level named by MIMIC_LOG.
func New() *logrus.Logger {
	return NewWithWriter(os.Stderr, os.Getenv(EnvLevel))
}

// NewWithWriter returns a logger writing to w. An empty or unknown level
// falls back to warn.
func NewWithWriter(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	logger.SetLevel(parseLevel(level))
	return logger
}

func parseLevel(s string) logrus.Level {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultLevel
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return defaultLevel
	}
	return lvl
}

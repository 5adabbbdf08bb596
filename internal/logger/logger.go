// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger constructs the logrus handle threaded through the pipeline.
// Components receive the handle explicitly; there is no package-level logger.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New builds a logger writing to out at the given level. Unknown level
// strings fall back to info rather than failing startup.
func New(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// Discard returns a logger that drops everything. Used by tests and as a
// default when a component is constructed without a logger.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

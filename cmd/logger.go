package cmd

import (
	"github.com/sirupsen/logrus"
)

// newLogger creates a new logger for one command invocation. If verbose is
// true, the logger is set to DebugLevel, otherwise it inherits the level of
// the shared Logger configured from LOG_LEVEL.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	switch {
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	case Logger != nil:
		log.SetLevel(Logger.GetLevel())
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

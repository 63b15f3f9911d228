// Package logging sets up process-wide logrus output, grounded on the
// teacher's internal/server/log.go: parse the level, open-or-create a file
// under the data directory, fall back to stderr when no directory is
// configured (hify has no system service user to chown the file to, unlike
// muserv's single-tenant daemon install, so that half of the teacher's
// setupLogging is dropped).
package logging

import (
	"os"
	"path/filepath"

	l "github.com/sirupsen/logrus"
)

const logFilename = "hify.log"

// Setup configures the global logrus logger at level for logDir (if
// non-empty; otherwise stderr), and TTY-appropriate timestamp formatting.
func Setup(logDir, level string, ttyTimestamps bool) error {
	lvl, err := l.ParseLevel(level)
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	l.SetFormatter(&l.TextFormatter{
		FullTimestamp: ttyTimestamps,
		DisableColors: !ttyTimestamps,
		DisableQuote:  true,
	})

	if logDir == "" {
		l.SetOutput(os.Stderr)
		return nil
	}

	path := filepath.Join(logDir, logFilename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l.WithError(err).Warn("could not open log file, falling back to stderr")
		l.SetOutput(os.Stderr)
		return nil
	}
	l.SetOutput(f)
	return nil
}

// Package logging sets up the logrus logger shared by the web server,
// the reload watcher and the command entry point.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

type Config struct {
	Debug   bool
	LogFile string    // optional, appended to
	Output  io.Writer // defaults to os.Stdout
}

// Setup builds a logger for cfg. The returned cleanup closes the log file,
// if one was opened; it is never nil.
func Setup(cfg Config) (*logrus.Logger, func() error, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	color := IsTerminal(out)

	// gin writes its own route table and warnings in debug mode
	if color {
		gin.ForceConsoleColor()
	} else {
		gin.DisableConsoleColor()
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   color,
		DisableColors: !color,
		FullTimestamp: true,
	})
	log.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cleanup := func() error { return nil }
	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, cleanup, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		cleanup = f.Close
	}
	log.SetOutput(out)

	log.WithFields(logrus.Fields{
		"component": "main",
		"debug":     cfg.Debug,
		"log_file":  cfg.LogFile,
	}).Debug("logger initialized")

	return log, cleanup, nil
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

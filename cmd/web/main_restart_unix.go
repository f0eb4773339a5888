//go:build unix

package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
)

// restartProcess replaces the running process with the (rebuilt) executable.
func restartProcess(log *logrus.Entry) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	log.Infof("Restarting %s", exe)
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", exe, err)
	}
	return nil
}

//go:build !unix

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// restartProcess starts the (rebuilt) executable as a child and waits for it;
// exec(2) is not available here.
func restartProcess(log *logrus.Entry) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	log.Infof("Restarting %s", exe)
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	cmd.Env = os.Environ()
	return cmd.Run()
}

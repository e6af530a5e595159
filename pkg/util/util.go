// Package util provides miscellaneous utility functions.
package util

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LogRecover helps ensure any unhandled errors are logged. Meant to be
// deferred at the top of main and of command handlers.
func LogRecover() {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		// wrap these because panics do not carry a stacktrace
		err = errors.Wrap(err, "recovered error")
		log.Error().Stack().Err(err).Msg("")
	}
}

// BeNice lets a Unix process reduce its own execution priority so a long
// analysis doesn't impact other processes. Positive values are nicer.
func BeNice(priority int) error {
	pid := syscall.Getpid()

	err := syscall.Setpriority(syscall.PRIO_PROCESS, pid, priority)
	if err != nil {
		return fmt.Errorf("unable to set nice level %d: %w", priority, err)
	}

	return nil
}

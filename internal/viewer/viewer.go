// Package viewer opens a finished card with the desktop's image viewer.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/BitPonyLLC/swatchcard/pkg/util"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"
)

// Placeholder in a viewer command is replaced with the image path. Commands
// without it get the path appended.
const Placeholder = "{}"

var ErrNoCommand = errors.New("no viewer command")

// DefaultCommand is the host's "open with the default application" command.
func DefaultCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "rundll32 url.dll,FileProtocolHandler"
	default:
		return "xdg-open"
	}
}

// Args splits command like a shell would and inserts pathname.
func Args(command, pathname string) ([]string, error) {
	if command == "" {
		command = DefaultCommand()
	}

	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("unable to parse viewer command %q: %w", command, err)
	}

	if len(args) == 0 {
		return nil, ErrNoCommand
	}

	replaced := false
	for i, arg := range args {
		if arg == Placeholder {
			args[i] = pathname
			replaced = true
		}
	}

	if !replaced {
		args = append(args, pathname)
	}

	return args, nil
}

// Show runs the viewer for pathname and waits for it to exit. The viewer's
// output is logged at debug level.
func Show(ctx context.Context, command, pathname string, log *zerolog.Logger) error {
	args, err := Args(command, pathname)
	if err != nil {
		return err
	}

	stdout := &util.CommandLogger{Log: log, Level: zerolog.DebugLevel, Stream: "stdout"}
	stderr := &util.CommandLogger{Log: log, Level: zerolog.DebugLevel, Stream: "stderr"}
	defer stdout.Close()
	defer stderr.Close()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.Debug().Strs("args", args).Msg("starting viewer")

	err = cmd.Run()
	if err != nil {
		return fmt.Errorf("unable to run %s: %w", args[0], err)
	}

	return nil
}

package util

import (
	"bytes"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// CommandLogger turns the output of a child process into log entries, one per
// line.
type CommandLogger struct {
	Log    *zerolog.Logger
	Level  zerolog.Level
	Stream string

	buf   bytes.Buffer
	mutex sync.Mutex
}

var _ io.WriteCloser = (*CommandLogger)(nil) // ensures we conform to the WriteCloser interface

func (cl *CommandLogger) Write(data []byte) (int, error) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	n, err := cl.buf.Write(data)
	if err != nil {
		return n, err
	}

	for {
		line, rest, found := bytes.Cut(cl.buf.Bytes(), []byte{'\n'})
		if !found {
			return n, nil // wait for more writes to complete the line
		}

		cl.emit(string(line))

		remaining := append([]byte(nil), rest...)
		cl.buf.Reset()
		cl.buf.Write(remaining)
	}
}

// Close flushes any partial line left in the buffer.
func (cl *CommandLogger) Close() error {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	if cl.buf.Len() > 0 {
		cl.emit(cl.buf.String())
	}

	cl.buf.Reset()
	return nil
}

//--------------------------------------------------------------------------------
// private

func (cl *CommandLogger) emit(line string) {
	line = string(bytes.TrimRight([]byte(line), "\r"))
	if line == "" || cl.Log == nil {
		return
	}
	cl.Log.WithLevel(cl.Level).Str("stream", cl.Stream).Msg(line)
}

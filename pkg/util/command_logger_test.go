package util

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(t *testing.T, out *bytes.Buffer) []string {
	t.Helper()

	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "stderr", entry["stream"])
		msgs = append(msgs, entry["message"].(string))
	}
	return msgs
}

func TestCommandLoggerSplitsLines(t *testing.T) {
	var out bytes.Buffer
	log := zerolog.New(&out)
	cl := &CommandLogger{Log: &log, Level: zerolog.InfoLevel, Stream: "stderr"}

	_, err := cl.Write([]byte("first li"))
	require.NoError(t, err)
	assert.Empty(t, out.String(), "partial lines wait for the newline")

	_, err = cl.Write([]byte("ne\r\n\nsecond\nthi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first line", "second"}, messages(t, &out))

	require.NoError(t, cl.Close())
	assert.Equal(t, []string{"first line", "second", "thi"}, messages(t, &out))
}

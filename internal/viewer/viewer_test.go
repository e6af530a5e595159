package viewer

import (
	"context"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"appended", "feh --scale-down", []string{"feh", "--scale-down", "/tmp/card.jpg"}},
		{"placeholder", "eog {} --fullscreen", []string{"eog", "/tmp/card.jpg", "--fullscreen"}},
		{"quoted", `sh -c 'echo "$0"' {}`, []string{"sh", "-c", `echo "$0"`, "/tmp/card.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := Args(tt.command, "/tmp/card.jpg")
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestArgsDefault(t *testing.T) {
	args, err := Args("", "card.jpg")
	require.NoError(t, err)
	assert.Equal(t, "card.jpg", args[len(args)-1])
	assert.Greater(t, len(args), 1)
}

func TestArgsInvalid(t *testing.T) {
	_, err := Args(`feh "unterminated`, "card.jpg")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no true(1) available")
	}

	log := zerolog.Nop()
	assert.NoError(t, Show(context.Background(), "true", "card.jpg", &log))
	assert.Error(t, Show(context.Background(), "swatchcard-no-such-viewer", "card.jpg", &log))
}

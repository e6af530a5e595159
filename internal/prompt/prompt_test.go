package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathAndCount(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("  '/tmp/photo one.jpg' \n8\n"), &out)

	pathname, err := p.Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/photo one.jpg", pathname)

	assert.Equal(t, 8, p.Count(6))
	assert.Contains(t, out.String(), "Enter the path to your image file: ")
	assert.Contains(t, out.String(), "Enter the number of swatches [6]: ")
}

func TestCountFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		notice bool
	}{
		{"non numeric", "lots\n", true},
		{"zero", "0\n", true},
		{"negative", "-3\n", true},
		{"blank", "\n", false},
		{"end of input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			assert.Equal(t, 6, p.Count(6))
			assert.Equal(t, tt.notice, strings.Contains(out.String(), "Invalid swatch count"))
		})
	}
}

func TestCountWithoutTrailingNewline(t *testing.T) {
	p := New(strings.NewReader("4"), io.Discard)
	assert.Equal(t, 4, p.Count(6))
}

func TestPathEmpty(t *testing.T) {
	p := New(strings.NewReader("\n"), io.Discard)
	_, err := p.Path()
	assert.ErrorIs(t, err, ErrNoPath)

	p = New(strings.NewReader(""), io.Discard)
	_, err = p.Path()
	assert.ErrorIs(t, err, io.EOF)
}

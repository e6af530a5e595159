package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BitPonyLLC/swatchcard/internal/card"
	"github.com/BitPonyLLC/swatchcard/pkg/palette"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePhoto(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	pathname := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(pathname, buf.Bytes(), 0644))
	return pathname
}

// resetFlags puts every flag back to its default so each run starts from the
// same configuration no matter which test ran before it.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}

	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	initialized = false
	failureCode = 1

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootInteractive(t *testing.T) {
	dir := t.TempDir()
	photo := writePhoto(t, dir)
	output := filepath.Join(dir, "card.png")

	out, err := run(t, photo+"\nplenty\n", "--show=false", "--log-dst", "stdout", "-o", output)
	require.NoError(t, err)

	assert.Contains(t, out, "Enter the path to your image file: ")
	assert.Contains(t, out, `Invalid swatch count "plenty", using 6`)
	assert.Contains(t, out, "Saved "+output)

	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestRootMissingImage(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "card.jpg")

	_, err := run(t, "", "--show=false", "--log-dst", "stdout", "-o", output, filepath.Join(dir, "missing.jpg"))
	require.Error(t, err)
	assert.Equal(t, codeLoad, failureCode)

	_, err = os.Stat(output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPaletteCommand(t *testing.T) {
	photo := writePhoto(t, t.TempDir())

	out, err := run(t, "", "palette", "--log-dst", "stdout", "-k", "4", photo)
	require.NoError(t, err)

	assert.Contains(t, out, "(3,072 pixels analyzed)")
	assert.Equal(t, 4, strings.Count(out, "  #"))
}

func TestExifCommandWithoutMetadata(t *testing.T) {
	photo := writePhoto(t, t.TempDir())

	out, err := run(t, "", "exif", "--log-dst", "stdout", photo)
	require.NoError(t, err)
	assert.Contains(t, out, "No EXIF data found in the image.")
}

func TestRunsDoNotLeakFlags(t *testing.T) {
	dir := t.TempDir()
	photo := writePhoto(t, dir)

	_, err := run(t, "", "--show=false", "--log-dst", "stdout", "-o", filepath.Join(dir, "first.png"), "-k", "2", photo)
	require.NoError(t, err)

	_, err = run(t, "", "palette", "--log-dst", "stdout", photo)
	require.NoError(t, err)

	assert.Equal(t, card.DefaultOutput, viper.GetString("output"))
	assert.True(t, viper.GetBool("show"))
	assert.Equal(t, palette.DefaultCount, viper.GetInt("swatches"))
	assert.False(t, rootCmd.Flags().Changed("output"))
}

func TestCardOptionsFallsBackToDefaultCount(t *testing.T) {
	for _, count := range []int{0, -4} {
		opts, err := cardOptions(count)
		require.NoError(t, err)
		assert.Equal(t, palette.DefaultCount, opts.Palette.Count)
	}

	opts, err := cardOptions(9)
	require.NoError(t, err)
	assert.Equal(t, 9, opts.Palette.Count)
	assert.Equal(t, 0.12, opts.Ratios.Swatch)
	assert.Equal(t, 200, opts.Ratios.Gap)
}

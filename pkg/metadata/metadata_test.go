package metadata

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/BitPonyLLC/swatchcard/internal/exiftest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatShutter(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"rational", Rational{Num: 1, Den: 250}, "1/250 sec"},
		{"rational kept unreduced", Rational{Num: 10, Den: 2000}, "10/2000 sec"},
		{"float", 0.005, "1/200 sec"},
		{"float long exposure", 2.5, "5/2 sec"},
		{"string passes through", "1/60", "1/60"},
		{"missing", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatShutter(tt.in))
		})
	}
}

func TestFormatAperture(t *testing.T) {
	assert.Equal(t, "f/2.8", FormatAperture(Rational{Num: 28, Den: 10}))
	assert.Equal(t, "f/4", FormatAperture(Rational{Num: 4, Den: 1}))
	assert.Equal(t, "f/1.8", FormatAperture(1.8))
	assert.Equal(t, Unknown, FormatAperture(nil))
	assert.Equal(t, Unknown, FormatAperture(Rational{Num: 1, Den: 0}))
}

func TestRationalFloat(t *testing.T) {
	assert.Equal(t, 0.008, Rational{Num: 1, Den: 125}.Float())
	assert.Equal(t, 0.0, Rational{Num: 28, Den: 0}.Float())
}

func TestApproximateFraction(t *testing.T) {
	tests := []struct {
		x        float64
		maxDen   int64
		num, den int64
	}{
		{0.005, DefaultMaxDenominator, 1, 200},
		{0.25, DefaultMaxDenominator, 1, 4},
		{1.0 / 60, DefaultMaxDenominator, 1, 60},
		{1.0 / 3, 100, 1, 3},
		{3.141592653589793, 1000, 355, 113},
		{3.141592653589793, 10, 22, 7},
		{0, DefaultMaxDenominator, 0, 1},
		{-0.5, DefaultMaxDenominator, -1, 2},
	}

	for _, tt := range tests {
		num, den := ApproximateFraction(tt.x, tt.maxDen)
		assert.Equal(t, [2]int64{tt.num, tt.den}, [2]int64{num, den}, "x=%v maxDen=%d", tt.x, tt.maxDen)
	}
}

func TestNewRecordDefaults(t *testing.T) {
	rec := NewRecord(map[string]any{KeyCamera: "X100V"})

	assert.Equal(t, []string{
		"Aperture: Unknown",
		"ISO: Unknown",
		"Shutter Speed: Unknown",
		"Camera: X100V",
		"Lens: Unknown",
	}, rec.Lines())
	assert.Equal(t, Unknown, rec.Get("Flash"))
}

func TestReadJPEG(t *testing.T) {
	data, err := exiftest.JPEG(image.NewGray(image.Rect(0, 0, 8, 8)), exiftest.Camera{
		Model:    "ILCE-7M3",
		Lens:     "FE 35mm F1.8",
		Exposure: [2]uint32{1, 250},
		FNumber:  [2]uint32{18, 10},
		ISO:      400,
	})
	require.NoError(t, err)

	rec, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Aperture: f/1.8",
		"ISO: 400",
		"Shutter Speed: 1/250 sec",
		"Camera: ILCE-7M3",
		"Lens: FE 35mm F1.8",
	}, rec.Lines())
}

func TestReadPartialTags(t *testing.T) {
	rec, err := Read(bytes.NewReader(exiftest.TIFF(exiftest.Camera{Model: "GR III"})))
	require.NoError(t, err)

	assert.Equal(t, "GR III", rec.Get(KeyCamera))
	assert.Equal(t, Unknown, rec.Get(KeyAperture))
	assert.Equal(t, Unknown, rec.Get(KeyShutterSpeed))
}

func TestReadFileWithoutMetadata(t *testing.T) {
	pathname := filepath.Join(t.TempDir(), "plain.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	require.NoError(t, os.WriteFile(pathname, buf.Bytes(), 0644))

	rec, err := ReadFile(pathname)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNoMetadata)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.jpg"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMetadata)
}

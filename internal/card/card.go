// Package card runs the whole pipeline for one photo: analyze its colors, read
// its camera settings, draw the card and save it.
package card

import (
	"errors"
	"fmt"
	"image"

	"github.com/BitPonyLLC/swatchcard/internal/imageio"
	"github.com/BitPonyLLC/swatchcard/pkg/canvas"
	"github.com/BitPonyLLC/swatchcard/pkg/metadata"
	"github.com/BitPonyLLC/swatchcard/pkg/palette"

	"github.com/rs/zerolog"
)

// DefaultOutput is where the card is written unless told otherwise.
const DefaultOutput = "final_output.jpg"

// Stage identifies the part of the pipeline an error came from.
type Stage string

const (
	StageLoad    Stage = "load"
	StageAnalyze Stage = "analyze"
	StageCompose Stage = "compose"
	StageSave    Stage = "save"
)

// Error ties a pipeline failure to its stage.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StageOf reports which stage err came from, if any.
func StageOf(err error) (Stage, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Stage, true
	}
	return "", false
}

// Options configures a run.
type Options struct {
	Palette palette.Options
	Ratios  canvas.Ratios
	Font    string
	Output  string
	Quality int
}

// DefaultOptions returns the options of a run with nothing configured.
func DefaultOptions() Options {
	return Options{
		Palette: palette.DefaultOptions(),
		Ratios:  canvas.DefaultRatios(),
		Font:    canvas.DefaultFontName,
		Output:  DefaultOutput,
		Quality: imageio.DefaultQuality,
	}
}

// Result describes a finished card.
type Result struct {
	Source   string
	Output   string
	Photo    image.Point
	Palette  palette.Palette
	Metadata *metadata.Record
	Layout   canvas.Layout
}

// Build produces the card for the photo at source. Nothing is written unless
// every step before saving succeeds.
func Build(source string, opts Options, log *zerolog.Logger) (*Result, error) {
	photo, format, err := imageio.Load(source)
	if err != nil {
		return nil, &Error{Stage: StageLoad, Err: err}
	}

	size := photo.Bounds().Size()
	log.Debug().Str("path", source).Str("format", format).Int("width", size.X).Int("height", size.Y).Msg("loaded")

	p, err := palette.Extract(photo, opts.Palette)
	if err != nil {
		return nil, &Error{Stage: StageAnalyze, Err: err}
	}

	log.Debug().Int("colors", len(p)).Int("pixels", p.Total()).Str("method", opts.Palette.Method.String()).Msg("analyzed")

	rec, err := metadata.ReadFile(source)
	if err != nil {
		if !errors.Is(err, metadata.ErrNoMetadata) {
			return nil, &Error{Stage: StageLoad, Err: err}
		}
		log.Warn().Err(err).Str("path", source).Msg("No EXIF data found in the image.")
		rec = nil
	}

	layout := canvas.NewLayout(size, opts.Ratios)
	if layout.Size.X <= 0 || layout.Size.Y <= 0 {
		return nil, &Error{Stage: StageCompose, Err: fmt.Errorf("invalid canvas size %v", layout.Size)}
	}

	face := canvas.Face(opts.Font, layout.FontSize, log)
	out := canvas.Compose(photo, p, rec, layout, face)

	output := opts.Output
	if output == "" {
		output = DefaultOutput
	}

	err = imageio.Save(output, out, opts.Quality)
	if err != nil {
		return nil, &Error{Stage: StageSave, Err: err}
	}

	log.Info().Str("path", output).Int("width", layout.Size.X).Int("height", layout.Size.Y).Msg("saved")

	return &Result{
		Source:   source,
		Output:   output,
		Photo:    size,
		Palette:  p,
		Metadata: rec,
		Layout:   layout,
	}, nil
}

package canvas

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontName is the preferred face looked up when none is configured.
const DefaultFontName = "arial.ttf"

// FontDirs are searched, in order, when a font is named without a directory.
var FontDirs = []string{
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/truetype",
	"/usr/share/fonts/TTF",
	"/usr/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
	`C:\Windows\Fonts`,
}

var ErrFontNotFound = errors.New("font not found")

// Face loads the preferred font at size, falling back to the default face
// when it can't be used.
func Face(pathname string, size float64, log *zerolog.Logger) font.Face {
	if pathname != "" {
		face, err := LoadFace(pathname, size)
		if err == nil {
			log.Debug().Str("font", pathname).Float64("size", size).Msg("loaded font")
			return face
		}
		log.Info().Err(err).Str("font", pathname).Msg("using default font")
	}

	return DefaultFace(size)
}

// LoadFace parses a TrueType font file. Bare file names are looked up in
// FontDirs.
func LoadFace(pathname string, size float64) (font.Face, error) {
	resolved, err := resolveFont(pathname)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", resolved, err)
	}

	return parseFace(data, size)
}

// DefaultFace is the embedded Go Regular font, or the fixed 7x13 bitmap font
// if that somehow fails to parse.
func DefaultFace(size float64) font.Face {
	face, err := parseFace(goregular.TTF, size)
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

//--------------------------------------------------------------------------------
// private

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font: %w", err)
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func resolveFont(pathname string) (string, error) {
	_, err := os.Stat(pathname)
	if err == nil {
		return pathname, nil
	}

	if filepath.Base(pathname) != pathname {
		return "", fmt.Errorf("%w: %s", ErrFontNotFound, pathname)
	}

	for _, dir := range FontDirs {
		candidate := filepath.Join(dir, pathname)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrFontNotFound, pathname)
}
